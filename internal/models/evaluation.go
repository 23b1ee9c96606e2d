package models

import "time"

// ComplianceType is the tri-state verdict reported to AWS Config.
type ComplianceType string

const (
	ComplianceCompliant     ComplianceType = "COMPLIANT"
	ComplianceNonCompliant  ComplianceType = "NON_COMPLIANT"
	ComplianceNotApplicable ComplianceType = "NOT_APPLICABLE"
)

// ResourceType is the AWS Config resource type an evaluation refers to.
type ResourceType string

const (
	ResourceAWSS3Bucket ResourceType = "AWS::S3::Bucket"

	// ResourceAWSAccount is used when an evaluation has no resource of its
	// own (NOT_APPLICABLE) and must be attributed to the account instead.
	ResourceAWSAccount ResourceType = "AWS::::Account"
)

// Annotations attached to NON_COMPLIANT bucket evaluations.
const (
	AnnotationNoLockConfiguration = "No ObjectLockConfiguration exist for this bucket."
	AnnotationLockMismatch        = "ObjectLockConfiguration doesn't match."
)

// Evaluation is a single compliance verdict. It is the atomic output unit of
// the rule and is never modified once created.
//
// ResourceID is empty for the account-level NOT_APPLICABLE evaluation that is
// emitted when no bucket exists. Annotation is empty for COMPLIANT verdicts.
type Evaluation struct {
	RuleID         string         `json:"rule_id"`
	ComplianceType ComplianceType `json:"compliance_type"`
	ResourceID     string         `json:"resource_id,omitempty"`
	ResourceType   ResourceType   `json:"resource_type"`
	Annotation     string         `json:"annotation,omitempty"`

	// Attribution, filled by the engine from the run context.
	AccountID string `json:"account_id,omitempty"`
	Region    string `json:"region,omitempty"`
	Profile   string `json:"profile,omitempty"`

	EvaluatedAt time.Time `json:"evaluated_at"`
}

// HasResource reports whether the evaluation targets a concrete resource.
func (e Evaluation) HasResource() bool {
	return e.ResourceID != ""
}
