package services

import (
	"fmt"
	"strings"
)

// BuildRoleContext assembles a prompt-ready role description from a Data
// API role-core payload, for injection into the downstream evaluation
// prompt:
//
//	Role: <title>
//	Description: <description>
//	Key responsibilities:
//	- <responsibility>
//	Required skills:
//	- <skill name> (<proficiency>)
//
// Sections appear only when data exists. The payload arrives in several
// schemas and naming conventions, so every field is probed across the
// known key variants. Returns "" when nothing meaningful can be built.
func BuildRoleContext(roleCore map[string]any) string {
	if roleCore == nil {
		return ""
	}

	roleObj, _ := roleCore["role"].(map[string]any)

	title := resolveRoleName(roleCore)

	description := firstNonEmpty(
		stringAt(roleObj, "role_description"),
		stringAt(roleObj, "roleDescription"),
		stringAt(roleCore, "role_description"),
		stringAt(roleCore, "roleDescription"),
	)

	responsibilities := extractResponsibilities(roleCore, roleObj)
	skills := extractSkills(roleCore)

	if title == "" && description == "" && len(responsibilities) == 0 && len(skills) == 0 {
		return ""
	}

	var lines []string
	if title != "" {
		lines = append(lines, "Role: "+title)
	}
	if description != "" {
		lines = append(lines, "Description: "+description)
	}
	if len(responsibilities) > 0 {
		lines = append(lines, "Key responsibilities:")
		for _, r := range responsibilities {
			lines = append(lines, "- "+r)
		}
	}
	if len(skills) > 0 {
		lines = append(lines, "Required skills:")
		lines = append(lines, skills...)
	}

	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// extractResponsibilities handles the shapes the Data API has been seen to
// return: list of strings, list of objects with a text-ish field, or a
// single string, under several candidate keys. Duplicates are dropped
// case-insensitively while preserving order.
func extractResponsibilities(roleCore, roleObj map[string]any) []string {
	keys := []string{"role_responsibilities", "roleResponsibilities", "responsibilities", "tasks"}

	var candidates []any
	for _, m := range []map[string]any{roleObj, roleCore} {
		if m == nil {
			continue
		}
		for _, key := range keys {
			if v, ok := m[key]; ok && v != nil {
				candidates = append(candidates, v)
			}
		}
	}

	var out []string
	add := func(v any) {
		if s, ok := v.(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}

	for _, c := range candidates {
		switch val := c.(type) {
		case []any:
			for _, item := range val {
				if obj, ok := item.(map[string]any); ok {
					add(obj["responsibility"])
					add(obj["text"])
					add(obj["task"])
					add(obj["description"])
					continue
				}
				add(item)
			}
		case string:
			add(val)
		}
	}

	seen := make(map[string]struct{}, len(out))
	deduped := make([]string, 0, len(out))
	for _, r := range out {
		key := strings.ToLower(r)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		deduped = append(deduped, r)
	}

	return deduped
}

func extractSkills(roleCore map[string]any) []string {
	required, _ := roleCore["required_skills"].([]any)

	var lines []string
	for _, item := range required {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}

		name := firstNonEmpty(
			stringAt(obj, "role_required_skills_name"),
			stringAt(obj, "skill_name"),
			stringAt(obj, "name"),
			stringAt(obj, "skillName"),
		)
		if name == "" {
			continue
		}

		proficiency := firstNonEmpty(
			stringAt(obj, "role_required_skills_proficiency_lv"),
			stringAt(obj, "proficiency"),
			stringAt(obj, "skill_proficiency_lv"),
			stringAt(obj, "skillProficiencyLv"),
		)

		if proficiency != "" {
			lines = append(lines, fmt.Sprintf("- %s (%s)", name, proficiency))
		} else {
			lines = append(lines, "- "+name)
		}
	}

	return lines
}

// stringAt returns the trimmed string at key, or "" when absent or not a
// string. Safe on nil maps.
func stringAt(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if s, ok := m[key].(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
