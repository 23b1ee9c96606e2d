package policy

import "maps"

// RuleEnabled reports whether ruleID may run. Rules are enabled unless the
// policy disables them explicitly. It is safe to call with cfg == nil.
func RuleEnabled(ruleID string, cfg *PolicyConfig) bool {
	if cfg == nil {
		return true
	}
	rc, ok := cfg.Rules[ruleID]
	if !ok || rc.Enabled == nil {
		return true
	}
	return *rc.Enabled
}

// ResolveParameters returns the rule's policy parameters with overrides
// applied on top. The result is a fresh map; neither input is modified.
//
// Lookup order:
//  1. cfg == nil or no rules.<ruleID> block → overrides only
//  2. Otherwise → policy parameters, each key replaced by an override if present
func ResolveParameters(ruleID string, cfg *PolicyConfig, overrides map[string]any) map[string]any {
	out := make(map[string]any)
	if cfg != nil {
		if rc, ok := cfg.Rules[ruleID]; ok {
			maps.Copy(out, rc.Parameters)
		}
	}
	maps.Copy(out, overrides)
	return out
}
