package policy

import (
	"testing"

	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/models"
)

var enforcing = &PolicyConfig{Version: 1, Enforcement: EnforcementConfig{FailOnNonCompliant: true}}

func TestShouldFail_NilConfig(t *testing.T) {
	evals := []models.Evaluation{{ComplianceType: models.ComplianceNonCompliant}}
	if ShouldFail(evals, nil) {
		t.Error("nil cfg must return false")
	}
}

func TestShouldFail_EnforcementOff(t *testing.T) {
	cfg := &PolicyConfig{Version: 1}
	evals := []models.Evaluation{{ComplianceType: models.ComplianceNonCompliant}}
	if ShouldFail(evals, cfg) {
		t.Error("fail_on_noncompliant=false must return false")
	}
}

func TestShouldFail_NoEvaluations(t *testing.T) {
	if ShouldFail(nil, enforcing) {
		t.Error("empty evaluations must return false")
	}
}

func TestShouldFail_NotApplicableDoesNotTrigger(t *testing.T) {
	evals := []models.Evaluation{
		{ComplianceType: models.ComplianceCompliant},
		{ComplianceType: models.ComplianceNotApplicable},
	}
	if ShouldFail(evals, enforcing) {
		t.Error("COMPLIANT and NOT_APPLICABLE must not trigger enforcement")
	}
}

func TestShouldFail_AnyNonCompliantTriggers(t *testing.T) {
	evals := []models.Evaluation{
		{ComplianceType: models.ComplianceCompliant},
		{ComplianceType: models.ComplianceNonCompliant}, // this one triggers
		{ComplianceType: models.ComplianceCompliant},
	}
	if !ShouldFail(evals, enforcing) {
		t.Error("a NON_COMPLIANT evaluation must trigger ShouldFail")
	}
}
