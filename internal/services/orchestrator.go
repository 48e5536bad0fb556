package services

import (
	"context"

	"go.uber.org/zap"

	"cvresume/orchestrator/internal/apperr"
	"cvresume/orchestrator/internal/models"
	"cvresume/orchestrator/internal/validator"
)

// Orchestrator sequences the evaluation pipeline for one request:
//
//	validate -> (optional) role enrichment -> evaluate -> normalize
//
// The steps are strictly sequential. Role enrichment, when the request
// names a target role, fully completes before the evaluator call because
// its output feeds the evaluator payload; a role-agnostic request skips
// the step entirely and the role collaborator is never contacted.
type Orchestrator struct {
	enricher      *RoleEnricher
	evaluator     EvaluationClient
	normalizer    *ResponseNormalizer
	debugMetadata bool
	logger        *zap.Logger
}

func NewOrchestrator(
	enricher *RoleEnricher,
	evaluator EvaluationClient,
	normalizer *ResponseNormalizer,
	debugMetadata bool,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		enricher:      enricher,
		evaluator:     evaluator,
		normalizer:    normalizer,
		debugMetadata: debugMetadata,
		logger:        logger,
	}
}

// Run executes the pipeline for a raw request body and returns the public
// success payload, or the single failure describing why it stopped.
func (o *Orchestrator) Run(ctx context.Context, raw map[string]any, correlationID string) (map[string]any, *apperr.Error) {
	req, verr := validator.Validate(raw)
	if verr != nil {
		o.logger.Info("request_validation_failed",
			zap.String("correlation_id", correlationID),
			zap.Int("error_count", len(verr.SubErrors)),
		)
		return nil, verr
	}

	var role *models.RoleContext
	if !req.RoleAgnostic() {
		enriched, err := o.enricher.Enrich(ctx, req.TargetRole, correlationID)
		if err != nil {
			return nil, apperr.From(err)
		}
		role = enriched
	}

	rawResponse, err := o.evaluator.Evaluate(ctx, req, role, correlationID)
	if err != nil {
		return nil, apperr.From(err)
	}

	result, err := o.normalizer.Normalize(rawResponse)
	if err != nil {
		return nil, apperr.From(err)
	}

	if o.debugMetadata {
		o.logger.Info("resume_evaluation_completed",
			zap.String("correlation_id", correlationID),
			zap.Float64("final_score", result.Conclusion.FinalResumeScore),
			zap.Bool("has_section_detail", len(result.SectionDetail) > 0),
			zap.Any("response_time", result.ResponseTime),
		)
	}

	return o.normalizer.Envelope(result, correlationID, o.debugMetadata), nil
}
