package models

// Supported output languages for evaluator feedback text.
const (
	LangEN = "en"
	LangTH = "th"
)

// SupportedOutputLangs lists the accepted output_lang values.
func SupportedOutputLangs() []string {
	return []string{LangEN, LangTH}
}

// EvaluationRequest is the canonical internal request. The validator
// resolves both accepted naming conventions (resume_json/resumeJson, ...)
// into this single shape; downstream code never sees the dual names.
type EvaluationRequest struct {
	// ResumeJSON is the structured resume payload. It is opaque to the
	// orchestrator: keys are never converted and contents are never
	// interpreted here. Deep validation belongs to the evaluator.
	ResumeJSON map[string]any

	// TargetRole is the optional role taxonomy id. Empty means the
	// evaluation is role-agnostic and role lookup is skipped entirely.
	TargetRole string

	// OutputLang is "en" or "th"; the validator defaults it to "en".
	OutputLang string
}

// RoleAgnostic reports whether the request omitted a target role.
func (r *EvaluationRequest) RoleAgnostic() bool {
	return r.TargetRole == ""
}

// RoleContext is the result of the optional role-enrichment step. It is
// request-scoped and discarded once the evaluator payload is built.
type RoleContext struct {
	// Name is the resolved human-readable role title.
	Name string

	// Context is a prompt-ready description block (title, description,
	// responsibilities, skills). Empty unless the role-context feature
	// flag is enabled and the role payload held usable data.
	Context string
}
