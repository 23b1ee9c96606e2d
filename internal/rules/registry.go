package rules

import (
	"fmt"

	"github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/models"
)

// DefaultRuleRegistry is a simple, ordered, in-memory registry.
// Rules are evaluated in registration order.
// Register panics on duplicate rule IDs to catch wiring mistakes at startup.
type DefaultRuleRegistry struct {
	rules []Rule
	index map[string]struct{}
}

// NewDefaultRuleRegistry returns an empty registry ready for rule registration.
func NewDefaultRuleRegistry() *DefaultRuleRegistry {
	return &DefaultRuleRegistry{
		index: make(map[string]struct{}),
	}
}

// Register adds rule to the registry. Panics if the same ID is registered twice.
func (r *DefaultRuleRegistry) Register(rule Rule) {
	if _, exists := r.index[rule.ID()]; exists {
		panic(fmt.Sprintf("duplicate rule ID: %q", rule.ID()))
	}
	r.rules = append(r.rules, rule)
	r.index[rule.ID()] = struct{}{}
}

// All returns all registered rules in registration order.
func (r *DefaultRuleRegistry) All() []Rule {
	return r.rules
}

// EvaluateAll runs every registered rule against ctx and returns the merged
// evaluations. Rules are called sequentially in registration order, so the
// output order follows registration order and then each rule's own order.
func (r *DefaultRuleRegistry) EvaluateAll(ctx RuleContext) []models.Evaluation {
	var evals []models.Evaluation
	for _, rule := range r.rules {
		evals = append(evals, rule.Evaluate(ctx)...)
	}
	return evals
}

// IDs returns the IDs of all registered rules in registration order.
func (r *DefaultRuleRegistry) IDs() []string {
	ids := make([]string, 0, len(r.rules))
	for _, rule := range r.rules {
		ids = append(ids, rule.ID())
	}
	return ids
}
