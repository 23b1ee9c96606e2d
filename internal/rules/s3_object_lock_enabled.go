package rules

import (
	"time"

	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/models"
)

// S3ObjectLockEnabledRule checks that every S3 bucket has Object Lock enabled
// with the configured default retention mode and at least the configured
// default retention period.
type S3ObjectLockEnabledRule struct {
	Params ObjectLockParams
}

// NewS3ObjectLockEnabledRule returns the rule bound to already validated
// parameters. Use ParseObjectLockParams to build them from raw input.
func NewS3ObjectLockEnabledRule(params ObjectLockParams) S3ObjectLockEnabledRule {
	return S3ObjectLockEnabledRule{Params: params}
}

func (r S3ObjectLockEnabledRule) ID() string   { return "S3_OBJECT_LOCK_ENABLED" }
func (r S3ObjectLockEnabledRule) Name() string { return "S3 Bucket Object Lock Enabled" }

// Evaluate returns one evaluation per bucket in ctx.Buckets, in order.
// Buckets without an Object Lock configuration are NON_COMPLIANT. Configured
// buckets are COMPLIANT only when the retention mode matches exactly and the
// retention period (years counted as 365 days) is at least the required one.
func (r S3ObjectLockEnabledRule) Evaluate(ctx RuleContext) []models.Evaluation {
	if len(ctx.Buckets) == 0 {
		return nil
	}

	now := time.Now().UTC()
	required := r.Params.RequiredRetentionDays()

	evals := make([]models.Evaluation, 0, len(ctx.Buckets))
	for _, b := range ctx.Buckets {
		e := models.Evaluation{
			RuleID:       r.ID(),
			ResourceID:   b.Name,
			ResourceType: models.ResourceAWSS3Bucket,
			AccountID:    ctx.AccountID,
			Region:       ctx.Region,
			Profile:      ctx.Profile,
			EvaluatedAt:  now,
		}
		switch {
		case !b.Configured:
			e.ComplianceType = models.ComplianceNonCompliant
			e.Annotation = models.AnnotationNoLockConfiguration
		case b.State.Mode == r.Params.Mode && b.State.RetentionDays() >= required:
			e.ComplianceType = models.ComplianceCompliant
		default:
			e.ComplianceType = models.ComplianceNonCompliant
			e.Annotation = models.AnnotationLockMismatch
		}
		evals = append(evals, e)
	}
	return evals
}

// NotApplicable returns the single account-level evaluation emitted when no
// bucket is in scope.
func (r S3ObjectLockEnabledRule) NotApplicable(ctx RuleContext) models.Evaluation {
	return models.Evaluation{
		RuleID:         r.ID(),
		ComplianceType: models.ComplianceNotApplicable,
		ResourceType:   models.ResourceAWSS3Bucket,
		AccountID:      ctx.AccountID,
		Region:         ctx.Region,
		Profile:        ctx.Profile,
		EvaluatedAt:    time.Now().UTC(),
	}
}
