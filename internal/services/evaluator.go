package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"cvresume/orchestrator/internal/apperr"
	"cvresume/orchestrator/internal/models"
)

// EvaluationClient calls the downstream LLM-based resume evaluator. It
// builds the evaluator payload, propagates the correlation id, and applies
// the evaluator's own (longer) timeout and retry budget. It returns the raw
// response body; normalization happens in ResponseNormalizer.
type EvaluationClient interface {
	Evaluate(ctx context.Context, req *models.EvaluationRequest, role *models.RoleContext, correlationID string) (map[string]any, error)
}

type evaluationClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	logger     *zap.Logger
}

func NewEvaluationClient(baseURL string, timeout time.Duration, maxRetries int, logger *zap.Logger) EvaluationClient {
	return &evaluationClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// Evaluate implements EvaluationClient.
func (c *evaluationClient) Evaluate(
	ctx context.Context,
	req *models.EvaluationRequest,
	role *models.RoleContext,
	correlationID string,
) (map[string]any, error) {
	payload := map[string]any{
		"resume_json": req.ResumeJSON,
		"output_lang": req.OutputLang,
	}

	// Role fields go in only when resolved; their absence tells the
	// evaluator to run a role-agnostic evaluation.
	if role != nil {
		payload["target_role"] = role.Name
		if role.Context != "" {
			payload["role_context"] = role.Context
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "Failed to encode evaluator payload", err)
	}

	endpoint := c.baseURL + "/evaluation/final-resume-score-async"

	res, err := doWithRetry(ctx, c.logger, "evaluator", c.maxRetries, func() (*httpResult, error) {
		return c.post(ctx, endpoint, body, correlationID)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "Evaluator call failed", err)
	}

	if res.status >= 400 {
		return nil, apperr.New(apperr.KindDependency,
			fmt.Sprintf("Evaluator error (status=%d)", res.status))
	}

	var raw map[string]any
	if err := json.Unmarshal(res.body, &raw); err != nil {
		return nil, apperr.Wrap(apperr.KindDependency,
			fmt.Sprintf("Evaluator returned non-JSON (status=%d)", res.status), err)
	}

	return raw, nil
}

func (c *evaluationClient) post(ctx context.Context, endpoint string, body []byte, correlationID string) (*httpResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentTypeJSON)
	req.Header.Set(correlationHeader, correlationID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	return &httpResult{status: resp.StatusCode, body: data}, nil
}
