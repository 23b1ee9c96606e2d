package rules

import (
	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/models"
)

// RuleContext carries all collected data for a single account and region.
// It is the sole input to Rule.Evaluate and must contain everything a rule
// needs; rules must never make network calls or read external state.
type RuleContext struct {
	// AccountID is the AWS account being evaluated.
	AccountID string

	// Profile is the AWS profile name for this evaluation run. Empty inside
	// Lambda, where credentials come from the execution role.
	Profile string

	// Region is the AWS Config region the buckets were enumerated from.
	Region string

	// Buckets holds the Object Lock data for every bucket, in enumeration order.
	Buckets []models.AWSS3BucketLock
}

// Rule is a single deterministic compliance rule.
// Rules must be stateless and safe to call concurrently.
// They must never call the AWS SDK or any external service.
type Rule interface {
	// ID returns the unique, stable identifier for this rule
	// (e.g. "S3_OBJECT_LOCK_ENABLED").
	ID() string

	// Name returns a short human-readable rule name.
	Name() string

	// Evaluate inspects the provided context and returns one evaluation per
	// resource it applies to. An empty slice means nothing was in scope.
	Evaluate(ctx RuleContext) []models.Evaluation
}

// RuleRegistry manages the set of active rules and drives evaluation.
type RuleRegistry interface {
	// Register adds a rule to the registry. Panics on duplicate ID.
	Register(rule Rule)

	// All returns all registered rules in registration order.
	All() []Rule

	// EvaluateAll runs every registered rule against ctx and merges results.
	EvaluateAll(ctx RuleContext) []models.Evaluation
}

// NotApplicableRule is implemented by rules that must still report once per
// run when nothing is in scope.
type NotApplicableRule interface {
	Rule
	NotApplicable(ctx RuleContext) models.Evaluation
}
