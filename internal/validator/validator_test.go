package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cvresume/orchestrator/internal/apperr"
)

func TestValidateDualNamingProducesIdenticalRequests(t *testing.T) {
	resume := map[string]any{"profile": map[string]any{"title": "AI Engineer"}}

	snake := map[string]any{
		"resume_json": resume,
		"target_role": "role#ai_engineer",
		"output_lang": "th",
	}
	camel := map[string]any{
		"resumeJson": resume,
		"targetRole": "role#ai_engineer",
		"outputLang": "th",
	}

	fromSnake, err := Validate(snake)
	require.Nil(t, err)
	fromCamel, err := Validate(camel)
	require.Nil(t, err)

	assert.Equal(t, fromSnake, fromCamel)
	assert.Equal(t, "role#ai_engineer", fromSnake.TargetRole)
	assert.Equal(t, "th", fromSnake.OutputLang)
}

func TestValidateSnakeSpellingWinsWhenBothPresent(t *testing.T) {
	req, err := Validate(map[string]any{
		"resume_json": map[string]any{"from": "snake"},
		"resumeJson":  map[string]any{"from": "camel"},
	})
	require.Nil(t, err)
	assert.Equal(t, "snake", req.ResumeJSON["from"])
}

func TestValidateMissingResume(t *testing.T) {
	_, err := Validate(map[string]any{"output_lang": "en"})
	require.NotNil(t, err)

	assert.Equal(t, apperr.KindValidation, err.Kind)
	require.Len(t, err.SubErrors, 1)
	assert.Equal(t, "resumeJson", err.SubErrors[0].Field)
	assert.Equal(t, "missing", err.SubErrors[0].Errors[0].Code)
}

func TestValidateRejectsScalarResume(t *testing.T) {
	_, err := Validate(map[string]any{"resumeJson": "just a string"})
	require.NotNil(t, err)
	assert.Equal(t, "resumeJson", err.SubErrors[0].Field)
	assert.Equal(t, "INVALID_FIELD_VALUE", err.SubErrors[0].Errors[0].Code)
}

func TestValidateUnsupportedOutputLang(t *testing.T) {
	_, err := Validate(map[string]any{
		"resume_json": map[string]any{},
		"output_lang": "fr",
	})
	require.NotNil(t, err)
	require.Len(t, err.SubErrors, 1)
	assert.Equal(t, "output_lang", err.SubErrors[0].Field)
	assert.Equal(t, "isIn", err.SubErrors[0].Errors[0].Code)
}

func TestValidateAccumulatesSubErrors(t *testing.T) {
	_, err := Validate(map[string]any{
		"target_role": "   ",
		"outputLang":  "de",
	})
	require.NotNil(t, err)

	// Missing resume, blank role and bad enum must all be reported at once.
	assert.Len(t, err.SubErrors, 3)
}

func TestValidateDefaultsAndRoleAgnostic(t *testing.T) {
	req, err := Validate(map[string]any{"resumeJson": map[string]any{}})
	require.Nil(t, err)

	assert.Equal(t, "en", req.OutputLang)
	assert.True(t, req.RoleAgnostic())
}

func TestValidateNullTargetRoleIsRoleAgnostic(t *testing.T) {
	req, err := Validate(map[string]any{
		"resume_json": map[string]any{},
		"target_role": nil,
	})
	require.Nil(t, err)
	assert.True(t, req.RoleAgnostic())
}
