package naming

import (
	"strings"
	"unicode"
)

// SnakeToCamel converts a snake_case key to camelCase.
//
// Leading and trailing underscores are preserved, and keys without an
// underscore are returned unchanged. When the conversion is not reversible
// (e.g. digit segments like "phase_2b" that would collapse), the key is
// returned unchanged instead of being guessed.
func SnakeToCamel(s string) string {
	camel := snakeToCamel(s)
	if camel == s {
		return s
	}
	if camelToSnake(camel) != s {
		// Ambiguous key; fail closed.
		return s
	}
	return camel
}

// CamelToSnake converts a camelCase key to snake_case, with the same
// fail-closed behavior as SnakeToCamel for non-reversible keys.
func CamelToSnake(s string) string {
	snake := camelToSnake(s)
	if snake == s {
		return s
	}
	if snakeToCamel(snake) != s {
		return s
	}
	return snake
}

func snakeToCamel(s string) string {
	if !strings.Contains(s, "_") {
		return s
	}

	leading := len(s) - len(strings.TrimLeft(s, "_"))
	trailing := len(s) - len(strings.TrimRight(s, "_"))
	core := strings.Trim(s, "_")
	if core == "" {
		// e.g. "___"
		return s
	}

	parts := strings.Split(core, "_")
	var b strings.Builder
	first := true
	for _, p := range parts {
		if p == "" {
			continue
		}
		if first {
			b.WriteString(p)
			first = false
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	if first {
		return s
	}

	return strings.Repeat("_", leading) + b.String() + strings.Repeat("_", trailing)
}

func camelToSnake(s string) string {
	leading := len(s) - len(strings.TrimLeft(s, "_"))
	trailing := len(s) - len(strings.TrimRight(s, "_"))
	core := strings.Trim(s, "_")
	if core == "" {
		return s
	}

	var b strings.Builder
	for i, r := range core {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}

	return strings.Repeat("_", leading) + b.String() + strings.Repeat("_", trailing)
}

// Converter recursively renames mapping keys in JSON-like values
// (map[string]any / []any / scalars) between snake_case and camelCase.
//
// Keys listed in the preserve set mark free-form containers: the container
// key itself is converted, its immediate child keys are left exactly as the
// caller wrote them (rubric names, section ids), but structural keys below
// those children are still converted.
type Converter struct {
	preserve map[string]struct{}
}

func NewConverter(preserveKeys []string) *Converter {
	preserve := make(map[string]struct{}, len(preserveKeys))
	for _, k := range preserveKeys {
		preserve[k] = struct{}{}
	}
	return &Converter{preserve: preserve}
}

// ToCamel returns a copy of v with all mapping keys converted to camelCase,
// honoring the preserve set. The input is never mutated.
func (c *Converter) ToCamel(v any) any {
	return c.convert(v, SnakeToCamel, false)
}

// ToSnake is the inverse direction, used when normalizing inbound payloads.
func (c *Converter) ToSnake(v any) any {
	return c.convert(v, CamelToSnake, false)
}

func (c *Converter) convert(v any, keyFn func(string) string, keepKeys bool) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			key := k
			if !keepKeys {
				key = keyFn(k)
			}
			out[key] = c.convert(child, keyFn, c.isPreserved(k) || c.isPreserved(key))
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = c.convert(item, keyFn, false)
		}
		return out
	default:
		return v
	}
}

// isPreserved matches both spellings so configuration may list either one.
func (c *Converter) isPreserved(key string) bool {
	if _, ok := c.preserve[key]; ok {
		return true
	}
	if _, ok := c.preserve[SnakeToCamel(key)]; ok {
		return true
	}
	_, ok := c.preserve[CamelToSnake(key)]
	return ok
}
