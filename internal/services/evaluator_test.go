package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cvresume/orchestrator/internal/apperr"
	"cvresume/orchestrator/internal/models"
)

const evaluatorSuccessBody = `{
	"status": "completed",
	"response": {
		"conclusion": {"final_resume_score": 66, "section_contribution": {}},
		"section_detail": {"profile": {}}
	}
}`

func testRequest() *models.EvaluationRequest {
	return &models.EvaluationRequest{
		ResumeJSON: map[string]any{"profile": map[string]any{"title": "AI Engineer"}},
		OutputLang: "en",
	}
}

func TestEvaluatePropagatesPayloadAndCorrelation(t *testing.T) {
	var gotCorrelation string
	var gotPayload map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCorrelation = r.Header.Get("X-Correlation-Id")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		assert.Equal(t, "/evaluation/final-resume-score-async", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(evaluatorSuccessBody))
	}))
	defer srv.Close()

	client := NewEvaluationClient(srv.URL, 0, 0, zap.NewNop())

	role := &models.RoleContext{Name: "AI Engineer", Context: "Role: AI Engineer"}
	raw, err := client.Evaluate(context.Background(), testRequest(), role, "corr_test123")
	require.NoError(t, err)

	assert.Equal(t, "corr_test123", gotCorrelation)
	assert.Equal(t, "AI Engineer", gotPayload["target_role"])
	assert.Equal(t, "Role: AI Engineer", gotPayload["role_context"])
	assert.Equal(t, "en", gotPayload["output_lang"])
	assert.Contains(t, gotPayload, "resume_json")
	assert.Contains(t, raw, "response")
}

func TestEvaluateRoleAgnosticOmitsRoleFields(t *testing.T) {
	var gotPayload map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(evaluatorSuccessBody))
	}))
	defer srv.Close()

	client := NewEvaluationClient(srv.URL, 0, 0, zap.NewNop())

	_, err := client.Evaluate(context.Background(), testRequest(), nil, "corr_x")
	require.NoError(t, err)

	assert.NotContains(t, gotPayload, "target_role")
	assert.NotContains(t, gotPayload, "role_context")
}

func TestEvaluateRetriesTransientFailures(t *testing.T) {
	var attempts atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	retries := 2
	client := NewEvaluationClient(srv.URL, 0, retries, zap.NewNop())

	_, err := client.Evaluate(context.Background(), testRequest(), nil, "corr_x")
	require.Error(t, err)

	assert.Equal(t, apperr.KindDependency, apperr.From(err).Kind)
	assert.Equal(t, int32(1+retries), attempts.Load())
}

func TestEvaluateDoesNotRetryClientErrors(t *testing.T) {
	var attempts atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	client := NewEvaluationClient(srv.URL, 0, 5, zap.NewNop())

	_, err := client.Evaluate(context.Background(), testRequest(), nil, "corr_x")
	require.Error(t, err)

	assert.Equal(t, apperr.KindDependency, apperr.From(err).Kind)
	assert.Equal(t, int32(1), attempts.Load())
}

func TestEvaluateEventualSuccess(t *testing.T) {
	var attempts atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if attempts.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(evaluatorSuccessBody))
	}))
	defer srv.Close()

	client := NewEvaluationClient(srv.URL, 0, 2, zap.NewNop())

	raw, err := client.Evaluate(context.Background(), testRequest(), nil, "corr_x")
	require.NoError(t, err)
	assert.Contains(t, raw, "status")
	assert.Equal(t, int32(2), attempts.Load())
}

func TestEvaluateNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := NewEvaluationClient(srv.URL, 0, 0, zap.NewNop())

	_, err := client.Evaluate(context.Background(), testRequest(), nil, "corr_x")
	require.Error(t, err)
	assert.Equal(t, apperr.KindDependency, apperr.From(err).Kind)
}
