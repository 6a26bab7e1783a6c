// Package cleocfg resolves the project root, the per-project ".cleo" state
// directory, and the layered configuration of spec.md component A: defaults
// -> global -> project -> environment -> CLI overrides.
package cleocfg

// Config is the per-project configuration (spec.md §6 config.json), mirrored
// at $HOME/.cleo/config.json for the global layer.
type Config struct {
	SizeStrategy        string `json:"sizeStrategy,omitempty"`
	ChildCancelStrategy string `json:"childCancelStrategy,omitempty"`
	CascadeThreshold    int    `json:"cascadeThreshold,omitempty"`
	MaxDepth            int    `json:"maxDepth,omitempty"`

	StaleDays     int `json:"staleDays,omitempty"`
	CriticalDays  int `json:"criticalDays,omitempty"`
	AbandonedDays int `json:"abandonedDays,omitempty"`

	MaxVerificationRounds int `json:"maxVerificationRounds,omitempty"`
	SessionMaxAgeDays     int `json:"sessionMaxAgeDays,omitempty"`

	Backend string `json:"backend,omitempty"` // "file", "embedded", or "dual"

	MetricsOptOut bool `json:"metricsOptOut,omitempty"`
}

// Defaults returns a Config with every field set to spec.md's documented
// default (libs/config/defaults.go's ApplyDefaults pattern, generalized
// from sow's single artifacts-path default to CLEO's full set).
func Defaults() Config {
	return Config{
		SizeStrategy:          "balanced",
		ChildCancelStrategy:   "block",
		CascadeThreshold:      10,
		MaxDepth:              3,
		StaleDays:             7,
		CriticalDays:          14,
		AbandonedDays:         30,
		MaxVerificationRounds: 5,
		SessionMaxAgeDays:     30,
		Backend:               "file",
	}
}

// Merge layers override on top of base, left to right, applying only the
// non-zero fields of each override (libs/config/defaults.go's
// ApplyDefaults: "partial configuration - users only specify what they
// want to change").
func Merge(base Config, overrides ...Config) Config {
	out := base
	for _, o := range overrides {
		if o.SizeStrategy != "" {
			out.SizeStrategy = o.SizeStrategy
		}
		if o.ChildCancelStrategy != "" {
			out.ChildCancelStrategy = o.ChildCancelStrategy
		}
		if o.CascadeThreshold != 0 {
			out.CascadeThreshold = o.CascadeThreshold
		}
		if o.MaxDepth != 0 {
			out.MaxDepth = o.MaxDepth
		}
		if o.StaleDays != 0 {
			out.StaleDays = o.StaleDays
		}
		if o.CriticalDays != 0 {
			out.CriticalDays = o.CriticalDays
		}
		if o.AbandonedDays != 0 {
			out.AbandonedDays = o.AbandonedDays
		}
		if o.MaxVerificationRounds != 0 {
			out.MaxVerificationRounds = o.MaxVerificationRounds
		}
		if o.SessionMaxAgeDays != 0 {
			out.SessionMaxAgeDays = o.SessionMaxAgeDays
		}
		if o.Backend != "" {
			out.Backend = o.Backend
		}
		if o.MetricsOptOut {
			out.MetricsOptOut = true
		}
	}
	return out
}
