package models

import "time"

// EvaluationSummary aggregates verdict counts across all evaluations.
type EvaluationSummary struct {
	TotalEvaluations int `json:"total_evaluations"`
	Compliant        int `json:"compliant"`
	NonCompliant     int `json:"non_compliant"`
	NotApplicable    int `json:"not_applicable"`
}

// EvaluationReport is the top-level output of a CLI evaluation run.
type EvaluationReport struct {
	ReportID    string            `json:"report_id"`
	GeneratedAt time.Time         `json:"generated_at"`
	RuleID      string            `json:"rule_id"`
	Profile     string            `json:"profile"`
	AccountID   string            `json:"account_id"`
	Regions     []string          `json:"regions"`
	Summary     EvaluationSummary `json:"summary"`
	Evaluations []Evaluation      `json:"evaluations"`
}

// ComputeSummary counts evaluations by compliance type.
func ComputeSummary(evals []Evaluation) EvaluationSummary {
	s := EvaluationSummary{TotalEvaluations: len(evals)}
	for _, e := range evals {
		switch e.ComplianceType {
		case ComplianceCompliant:
			s.Compliant++
		case ComplianceNonCompliant:
			s.NonCompliant++
		case ComplianceNotApplicable:
			s.NotApplicable++
		}
	}
	return s
}
