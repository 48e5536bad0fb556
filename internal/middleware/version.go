package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"cvresume/orchestrator/internal/apperr"
)

// APIVersion gates requests on the X-API-Version header. A value other
// than the supported version is rejected before any body validation or
// collaborator call; an absent header defaults to the supported version.
func APIVersion(supported string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		version := strings.TrimSpace(c.Get(APIVersionHeader))
		if version == "" {
			version = supported
		}

		c.Set(APIVersionHeader, version)

		if version != supported {
			err := apperr.New(apperr.KindInvalidFieldValue, "Invalid API version").
				WithSubErrors(apperr.SubError{
					Field: APIVersionHeader,
					Errors: []apperr.FieldError{{
						Code:    "isIn",
						Message: "Supported versions: " + supported,
					}},
				})
			return c.Status(err.Kind.Status()).JSON(err.Envelope(CorrelationID(c)))
		}

		return c.Next()
	}
}
