package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"cvresume/orchestrator/internal/apperr"
	"cvresume/orchestrator/internal/models"
)

// RoleClient fetches role metadata from the Data API.
type RoleClient interface {
	FetchRoleCore(ctx context.Context, roleID, correlationID string) (map[string]any, error)
}

type roleClient struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	logger     *zap.Logger
}

func NewRoleClient(baseURL string, timeout time.Duration, maxRetries int, logger *zap.Logger) RoleClient {
	return &roleClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: maxRetries,
		logger:     logger,
	}
}

// FetchRoleCore implements RoleClient.
//
// Role ids may contain reserved characters ("role#ai_engineer"), so the id
// is escaped before being placed in the path. Responses wrapped as
// {"data": {...}} are unwrapped so callers never guess the structure.
func (r *roleClient) FetchRoleCore(ctx context.Context, roleID, correlationID string) (map[string]any, error) {
	endpoint := fmt.Sprintf("%s/v1/roles/%s/core", r.baseURL, url.PathEscape(roleID))

	res, err := doWithRetry(ctx, r.logger, "data_api", r.maxRetries, func() (*httpResult, error) {
		return r.get(ctx, endpoint, correlationID)
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindDependency, "Role lookup failed", err)
	}

	if res.status == http.StatusNotFound {
		return nil, apperr.New(apperr.KindRoleNotFound, fmt.Sprintf("Role %q not found", roleID))
	}
	if res.status >= 400 {
		return nil, apperr.New(apperr.KindDependency,
			fmt.Sprintf("Role lookup error (status=%d)", res.status))
	}

	var raw map[string]any
	if err := json.Unmarshal(res.body, &raw); err != nil {
		return nil, apperr.Wrap(apperr.KindDependency,
			fmt.Sprintf("Role lookup returned non-JSON (status=%d)", res.status), err)
	}

	if inner, ok := raw["data"].(map[string]any); ok {
		return inner, nil
	}
	return raw, nil
}

func (r *roleClient) get(ctx context.Context, endpoint, correlationID string) (*httpResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", contentTypeJSON)
	req.Header.Set(correlationHeader, correlationID)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	return &httpResult{status: resp.StatusCode, body: body}, nil
}

// RoleEnricher resolves the optional role-enrichment step: display name
// always, prompt-ready role context only when the feature flag is on.
type RoleEnricher struct {
	client       RoleClient
	buildContext bool
	logger       *zap.Logger
}

func NewRoleEnricher(client RoleClient, buildContext bool, logger *zap.Logger) *RoleEnricher {
	return &RoleEnricher{
		client:       client,
		buildContext: buildContext,
		logger:       logger,
	}
}

func (e *RoleEnricher) Enrich(ctx context.Context, roleID, correlationID string) (*models.RoleContext, error) {
	core, err := e.client.FetchRoleCore(ctx, roleID, correlationID)
	if err != nil {
		return nil, err
	}

	name := resolveRoleName(core)
	if name == "" {
		return nil, apperr.New(apperr.KindDependency, "Could not resolve role name")
	}

	role := &models.RoleContext{Name: name}

	if e.buildContext {
		role.Context = BuildRoleContext(core)
		e.logger.Debug("role_context_generated",
			zap.String("correlation_id", correlationID),
			zap.String("role_id", roleID),
			zap.Bool("has_role_context", role.Context != ""),
			zap.Int("length", len(role.Context)),
		)
	}

	return role, nil
}

// resolveRoleName probes the key variants the Data API has been seen to
// use, nested under "role" first, then flat.
func resolveRoleName(core map[string]any) string {
	roleObj, _ := core["role"].(map[string]any)

	for _, key := range []string{"role_title", "roleTitle", "title"} {
		if name := stringAt(roleObj, key); name != "" {
			return name
		}
	}
	for _, key := range []string{"role_title", "roleTitle", "title", "role_name", "name"} {
		if name := stringAt(core, key); name != "" {
			return name
		}
	}
	return ""
}
