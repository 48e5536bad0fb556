package services

import (
	"encoding/json"

	"cvresume/orchestrator/internal/apperr"
	"cvresume/orchestrator/internal/models"
	"cvresume/orchestrator/internal/naming"
)

// ResponseNormalizer maps raw evaluator responses into the stable public
// contract: legacy key renames first, then the camelCase boundary
// conversion with the configured preserve-key set.
type ResponseNormalizer struct {
	conv *naming.Converter
}

func NewResponseNormalizer(preserveKeys []string) *ResponseNormalizer {
	return &ResponseNormalizer{conv: naming.NewConverter(preserveKeys)}
}

// Normalize extracts the stable result structure from a raw evaluator
// body. Known legacy spellings ("Conclution", "Section_detail") are folded
// into their corrected names so evaluator drift never leaks into the
// public contract. A response missing the required substructure means the
// evaluator violated its contract, which is a dependency failure, not a
// partial success.
func (n *ResponseNormalizer) Normalize(raw map[string]any) (*models.EvaluationResult, error) {
	response, _ := raw["response"].(map[string]any)

	conclusion := firstMap(response, "conclusion", "Conclution", "conclution")
	sectionDetail := firstMap(response, "section_detail", "Section_detail")
	metadata := firstMap(response, "metadata", "Metadata")

	if len(conclusion) == 0 || len(sectionDetail) == 0 {
		return nil, apperr.New(apperr.KindDependency,
			"Evaluator response is missing required structure")
	}

	contribution, _ := conclusion["section_contribution"].(map[string]any)
	if contribution == nil {
		contribution = map[string]any{}
	}

	upstreamStatus, _ := raw["status"].(string)

	return &models.EvaluationResult{
		Conclusion: models.Conclusion{
			FinalResumeScore:    toFloat(conclusion["final_resume_score"]),
			SectionContribution: contribution,
		},
		SectionDetail:    sectionDetail,
		Metadata:         metadata,
		UpstreamStatus:   upstreamStatus,
		ResponseTime:     raw["response_time"],
		EstimatedCostTHD: raw["estimated_cost_thd"],
	}, nil
}

// Envelope renders the public success payload. Top-level keys are stable
// ({status, data, correlationId, metadata}); everything below is camelCase
// except the immediate keys of preserved free-form containers.
func (n *ResponseNormalizer) Envelope(result *models.EvaluationResult, correlationID string, includeDebug bool) map[string]any {
	payload := map[string]any{
		"status": publicStatus(200),
		"data": map[string]any{
			"conclusion": map[string]any{
				"final_resume_score":   result.Conclusion.FinalResumeScore,
				"section_contribution": result.Conclusion.SectionContribution,
			},
			"section_detail": result.SectionDetail,
		},
		"correlation_id": correlationID,
	}

	metadata := map[string]any{}
	if result.UpstreamStatus != "" {
		// Upstream evaluator statuses ("completed", ...) are never exposed
		// as the public status; they survive only here, for debugging.
		metadata["original_status"] = result.UpstreamStatus
	}
	if includeDebug {
		if result.ResponseTime != nil {
			metadata["response_time"] = result.ResponseTime
		}
		if result.EstimatedCostTHD != nil {
			metadata["estimated_cost_thd"] = result.EstimatedCostTHD
		}
	}
	if len(metadata) > 0 {
		payload["metadata"] = metadata
	}

	return n.conv.ToCamel(payload).(map[string]any)
}

// publicStatus is the single rule mapping transport outcomes onto the
// binary public status contract.
func publicStatus(httpStatus int) string {
	if httpStatus < 400 {
		return "success"
	}
	return "error"
}

// firstMap returns the first non-nil map among the candidate keys. Safe on
// a nil container.
func firstMap(m map[string]any, keys ...string) map[string]any {
	if m == nil {
		return nil
	}
	for _, key := range keys {
		if v, ok := m[key].(map[string]any); ok && v != nil {
			return v
		}
	}
	return nil
}

func toFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case json.Number:
		f, _ := val.Float64()
		return f
	default:
		return 0
	}
}
