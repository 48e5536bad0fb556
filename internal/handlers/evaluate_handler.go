package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"cvresume/orchestrator/internal/apperr"
	"cvresume/orchestrator/internal/middleware"
	"cvresume/orchestrator/internal/services"
)

type EvaluationHandler struct {
	orchestrator *services.Orchestrator
	logger       *zap.Logger
}

func NewEvaluationHandler(orchestrator *services.Orchestrator, logger *zap.Logger) *EvaluationHandler {
	return &EvaluationHandler{
		orchestrator: orchestrator,
		logger:       logger,
	}
}

// HandleEvaluate handles POST /resume-evaluations.
//
// The body is decoded into a generic map rather than a fixed struct: the
// validator needs to see both naming conventions, and the resume content
// must stay an opaque structured value.
func (h *EvaluationHandler) HandleEvaluate(c *fiber.Ctx) error {
	correlationID := middleware.CorrelationID(c)

	var raw map[string]any
	if err := c.BodyParser(&raw); err != nil || raw == nil {
		badBody := apperr.New(apperr.KindValidation, "Request body must be a JSON object").
			WithSubErrors(apperr.SubError{
				Field:  "body",
				Errors: []apperr.FieldError{{Code: "invalid_json", Message: "Body could not be parsed as a JSON object"}},
			})
		return c.Status(badBody.Kind.Status()).JSON(badBody.Envelope(correlationID))
	}

	// No cancellation propagation from the inbound connection: a client
	// disconnect must not abort an in-flight evaluator call.
	payload, appErr := h.orchestrator.Run(context.Background(), raw, correlationID)
	if appErr != nil {
		h.logger.Warn("resume_evaluation_failed",
			zap.String("correlation_id", correlationID),
			zap.String("code", appErr.Kind.Code()),
			zap.Error(appErr),
		)
		return c.Status(appErr.Kind.Status()).JSON(appErr.Envelope(correlationID))
	}

	return c.Status(fiber.StatusOK).JSON(payload)
}
