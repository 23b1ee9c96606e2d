package engine

import (
	"context"

	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/models"
)

// ReportFormat controls the CLI output format.
type ReportFormat string

const (
	ReportFormatJSON  ReportFormat = "json"
	ReportFormatTable ReportFormat = "table"
)

// AuditOptions configures a single CLI evaluation run.
// It is the sole input to Engine.RunAudit.
type AuditOptions struct {
	// Profile is the named AWS profile to use. Empty means the default profile.
	Profile string

	// AllProfiles, when true, runs the evaluation across every configured
	// AWS profile.
	AllProfiles bool

	// Regions is an explicit list of AWS regions to evaluate.
	// When empty the engine discovers and iterates all active regions.
	Regions []string

	// Parameters are the raw rule parameters (Mode, Days, Years). They are
	// validated once, before any AWS call is made.
	Parameters map[string]any
}

// Target identifies where a single evaluation run happens.
type Target struct {
	AccountID string
	Region    string
	Profile   string
}

// Engine is the central orchestration interface for CLI runs.
//
// Engine must not call AWS SDK clients directly; it delegates to the
// provider and collector interfaces.
type Engine interface {
	RunAudit(ctx context.Context, opts AuditOptions) (*models.EvaluationReport, error)
}
