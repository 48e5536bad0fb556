package validator

import (
	"fmt"
	"strings"

	"cvresume/orchestrator/internal/apperr"
	"cvresume/orchestrator/internal/models"
)

// Validate turns a raw JSON body into the canonical EvaluationRequest.
//
// Every top-level field is accepted under either its snake_case or its
// camelCase spelling; when both are present, the snake_case spelling wins.
// Failures are accumulated per field so a single response can report all of
// them at once.
func Validate(raw map[string]any) (*models.EvaluationRequest, *apperr.Error) {
	var subErrors []apperr.SubError

	req := &models.EvaluationRequest{OutputLang: models.LangEN}

	resume, field, present := resolve(raw, "resume_json", "resumeJson")
	switch {
	case !present || resume == nil:
		subErrors = append(subErrors, subError("resumeJson", "missing",
			"resume_json (or resumeJson) is required"))
	default:
		m, ok := resume.(map[string]any)
		if !ok {
			subErrors = append(subErrors, subError(field, "INVALID_FIELD_VALUE",
				"resume content must be a structured object"))
			break
		}
		req.ResumeJSON = m
	}

	if role, field, present := resolve(raw, "target_role", "targetRole"); present && role != nil {
		s, ok := role.(string)
		if !ok || strings.TrimSpace(s) == "" {
			subErrors = append(subErrors, subError(field, "INVALID_FIELD_VALUE",
				"target role must be a non-empty string"))
		} else {
			req.TargetRole = strings.TrimSpace(s)
		}
	}

	if lang, field, present := resolve(raw, "output_lang", "outputLang"); present && lang != nil {
		s, ok := lang.(string)
		if !ok || !supportedLang(s) {
			subErrors = append(subErrors, subError(field, "isIn", fmt.Sprintf(
				"Supported values: %s", strings.Join(models.SupportedOutputLangs(), ", "))))
		} else {
			req.OutputLang = s
		}
	}

	if len(subErrors) > 0 {
		return nil, apperr.New(apperr.KindValidation, "Validation failed").
			WithSubErrors(subErrors...)
	}

	return req, nil
}

// resolve returns the value for a dual-named field together with the
// spelling the client actually used.
func resolve(raw map[string]any, snake, camel string) (any, string, bool) {
	if v, ok := raw[snake]; ok {
		return v, snake, true
	}
	if v, ok := raw[camel]; ok {
		return v, camel, true
	}
	return nil, "", false
}

func supportedLang(s string) bool {
	for _, lang := range models.SupportedOutputLangs() {
		if s == lang {
			return true
		}
	}
	return false
}

func subError(field, code, message string) apperr.SubError {
	return apperr.SubError{
		Field:  field,
		Errors: []apperr.FieldError{{Code: code, Message: message}},
	}
}
