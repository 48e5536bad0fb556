package models

// Conclusion is the aggregated evaluation outcome.
type Conclusion struct {
	FinalResumeScore    float64        `json:"final_resume_score"`
	SectionContribution map[string]any `json:"section_contribution"`
}

// EvaluationResult is the normalized evaluator output, still snake_case
// internally. The camelCase conversion happens once, at the response
// boundary.
type EvaluationResult struct {
	Conclusion    Conclusion
	SectionDetail map[string]any
	Metadata      map[string]any

	// UpstreamStatus is whatever status string the evaluator reported
	// (e.g. "completed"). It is never exposed as the public status; it may
	// surface under metadata.originalStatus for debugging.
	UpstreamStatus string

	// Timing/cost figures forwarded from the evaluator, if present.
	ResponseTime     any
	EstimatedCostTHD any
}
