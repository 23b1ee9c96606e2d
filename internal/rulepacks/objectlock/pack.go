// Package objectlock provides the S3 Object Lock rule pack.
//
// Convention: every rule pack lives in internal/rulepacks/<domain>/pack.go
// and exposes a New func returning []rules.Rule.
package objectlock

import "github.com/pankaj-dahiya-devops/s3-object-lock-rule/internal/rules"

// New returns the Object Lock rule pack bound to validated parameters.
func New(params rules.ObjectLockParams) []rules.Rule {
	return []rules.Rule{
		rules.NewS3ObjectLockEnabledRule(params),
	}
}

// IDs returns the rule IDs of the pack. Parameters do not affect IDs.
func IDs() []string {
	registry := rules.NewDefaultRuleRegistry()
	for _, r := range New(rules.ObjectLockParams{}) {
		registry.Register(r)
	}
	return registry.IDs()
}
