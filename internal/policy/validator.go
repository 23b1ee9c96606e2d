package policy

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Validate checks cfg for semantic correctness and returns all validation errors
// found. An empty slice means the config is valid.
//
// Checks performed:
//   - version must be 1
//   - rule IDs must appear in availableRuleIDs
//   - parameter values must be scalars (string, number or bool)
//
// All errors are collected before returning; Validate never stops at the first error.
// Rule-specific parameter semantics are checked by the rule itself.
func Validate(cfg *PolicyConfig, availableRuleIDs []string) []error {
	if cfg == nil {
		return []error{fmt.Errorf("policy config is nil")}
	}

	knownIDs := make(map[string]struct{}, len(availableRuleIDs))
	for _, id := range availableRuleIDs {
		knownIDs[id] = struct{}{}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, fmt.Errorf("version: unsupported value %d; must be 1", cfg.Version))
	}

	// Sorted for stable error output.
	ruleIDs := make([]string, 0, len(cfg.Rules))
	for id := range cfg.Rules {
		ruleIDs = append(ruleIDs, id)
	}
	sort.Strings(ruleIDs)

	for _, ruleID := range ruleIDs {
		if _, ok := knownIDs[ruleID]; !ok {
			errs = append(errs, fmt.Errorf("rules.%s: unknown rule ID", ruleID))
		}
		params := cfg.Rules[ruleID].Parameters
		keys := make([]string, 0, len(params))
		for k := range params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !isScalar(params[k]) {
				errs = append(errs, fmt.Errorf("rules.%s.parameters.%s: must be a string, number or bool; got %T", ruleID, k, params[k]))
			}
		}
	}

	return errs
}

func isScalar(v any) bool {
	switch v.(type) {
	case string, bool, int, int32, int64, uint64, float32, float64, json.Number:
		return true
	}
	return false
}
