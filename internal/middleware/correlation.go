package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// CorrelationHeader carries the per-request correlation id on inbound
	// requests, downstream calls, and every response.
	CorrelationHeader = "X-Correlation-Id"

	// APIVersionHeader selects the public contract version.
	APIVersionHeader = "X-API-Version"

	correlationLocal = "correlationId"
)

// NewCorrelationID generates a fresh server-side correlation id.
func NewCorrelationID() string {
	return "corr_" + strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Correlation resolves the request correlation id: a non-empty inbound
// header is adopted verbatim (this service is a passthrough, not an
// authority on id format), otherwise a fresh corr_-prefixed id is
// generated. The resolved id is echoed on every response.
func Correlation() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := strings.TrimSpace(c.Get(CorrelationHeader))
		if id == "" {
			id = NewCorrelationID()
		}

		c.Locals(correlationLocal, id)
		c.Set(CorrelationHeader, id)

		return c.Next()
	}
}

// CorrelationID returns the id resolved for this request. A generated
// fallback covers paths that run before the middleware (early routing
// errors), so no response ever goes out without one.
func CorrelationID(c *fiber.Ctx) string {
	if id, ok := c.Locals(correlationLocal).(string); ok && id != "" {
		return id
	}
	return NewCorrelationID()
}
