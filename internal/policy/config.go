package policy

// PolicyConfig is the on-disk rule policy. The same shape is accepted as
// YAML, TOML or JSON.
type PolicyConfig struct {
	Version     int                   `yaml:"version" toml:"version" json:"version"`
	Rules       map[string]RuleConfig `yaml:"rules" toml:"rules" json:"rules"`
	Enforcement EnforcementConfig     `yaml:"enforcement" toml:"enforcement" json:"enforcement"`
}

// RuleConfig enables or disables a rule and supplies its parameters.
// Parameters use the same names as the AWS Config rule (Mode, Days, Years).
type RuleConfig struct {
	Enabled    *bool          `yaml:"enabled,omitempty" toml:"enabled,omitempty" json:"enabled,omitempty"`
	Parameters map[string]any `yaml:"parameters,omitempty" toml:"parameters,omitempty" json:"parameters,omitempty"`
}

type EnforcementConfig struct {
	FailOnNonCompliant bool `yaml:"fail_on_noncompliant" toml:"fail_on_noncompliant" json:"fail_on_noncompliant"`
}
