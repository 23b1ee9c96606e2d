package policy

import (
	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/models"
)

// ShouldFail reports whether the run must exit non-zero under cfg.
//
// It returns false when:
//   - cfg is nil (no policy loaded)
//   - enforcement.fail_on_noncompliant is not set
//   - no evaluation is NON_COMPLIANT
//
// NOT_APPLICABLE never triggers enforcement.
func ShouldFail(evals []models.Evaluation, cfg *PolicyConfig) bool {
	if cfg == nil || !cfg.Enforcement.FailOnNonCompliant {
		return false
	}
	return HasNonCompliant(evals)
}

// HasNonCompliant reports whether any evaluation is NON_COMPLIANT.
func HasNonCompliant(evals []models.Evaluation) bool {
	for _, e := range evals {
		if e.ComplianceType == models.ComplianceNonCompliant {
			return true
		}
	}
	return false
}
