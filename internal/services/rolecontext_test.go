package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRoleContextFullPayload(t *testing.T) {
	roleCore := map[string]any{
		"role": map[string]any{
			"role_title":       "AI Engineer",
			"role_description": "Builds and ships ML systems.",
			"role_responsibilities": []any{
				"Design ML pipelines",
				"Deploy models to production",
			},
		},
		"required_skills": []any{
			map[string]any{"skill_name": "Python", "proficiency": "advanced"},
			map[string]any{"name": "Kubernetes"},
		},
	}

	got := BuildRoleContext(roleCore)

	lines := strings.Split(got, "\n")
	assert.Equal(t, "Role: AI Engineer", lines[0])
	assert.Equal(t, "Description: Builds and ships ML systems.", lines[1])
	assert.Contains(t, got, "Key responsibilities:\n- Design ML pipelines\n- Deploy models to production")
	assert.Contains(t, got, "Required skills:\n- Python (advanced)\n- Kubernetes")
}

func TestBuildRoleContextFlatKeyVariants(t *testing.T) {
	got := BuildRoleContext(map[string]any{
		"roleTitle":       "Data Scientist",
		"roleDescription": "Does science to data.",
	})

	assert.Contains(t, got, "Role: Data Scientist")
	assert.Contains(t, got, "Description: Does science to data.")
}

func TestBuildRoleContextResponsibilityShapes(t *testing.T) {
	roleCore := map[string]any{
		"role_title": "Backend Engineer",
		"responsibilities": []any{
			map[string]any{"text": "Own the API layer"},
			map[string]any{"task": "Review designs"},
			"Write tests",
		},
		"tasks": "Keep the service healthy",
	}

	got := BuildRoleContext(roleCore)

	assert.Contains(t, got, "- Own the API layer")
	assert.Contains(t, got, "- Review designs")
	assert.Contains(t, got, "- Write tests")
	assert.Contains(t, got, "- Keep the service healthy")
}

func TestBuildRoleContextDeduplicatesResponsibilities(t *testing.T) {
	roleCore := map[string]any{
		"role_title":            "QA",
		"role_responsibilities": []any{"Test releases", "test releases", "Write reports"},
	}

	got := BuildRoleContext(roleCore)

	require.Equal(t, 1, strings.Count(strings.ToLower(got), "test releases"))
	assert.Contains(t, got, "- Write reports")
}

func TestBuildRoleContextEmptyWhenNothingMeaningful(t *testing.T) {
	assert.Equal(t, "", BuildRoleContext(nil))
	assert.Equal(t, "", BuildRoleContext(map[string]any{}))
	assert.Equal(t, "", BuildRoleContext(map[string]any{
		"role":            map[string]any{"role_title": "   "},
		"required_skills": []any{map[string]any{"proficiency": "high"}},
	}))
}

func TestResolveRoleNamePrefersNestedRoleObject(t *testing.T) {
	name := resolveRoleName(map[string]any{
		"role":       map[string]any{"title": "Nested Title"},
		"role_title": "Flat Title",
	})
	assert.Equal(t, "Nested Title", name)

	name = resolveRoleName(map[string]any{"role_name": "Fallback Name"})
	assert.Equal(t, "Fallback Name", name)

	assert.Equal(t, "", resolveRoleName(map[string]any{}))
}
