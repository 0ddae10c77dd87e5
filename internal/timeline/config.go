package timeline

// QualityHints are caller preferences the engine threads through to the
// output plan without interpreting. The rendering pipeline decides what to
// do with them.
type QualityHints struct {
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
	Scaling       string `json:"scaling,omitempty"`
	Interpolation string `json:"interpolation,omitempty"`
}

// Config is the engine's configuration surface. All fields are optional;
// DefaultConfig supplies the defaults.
type Config struct {
	// EnableAutoSync controls whether detected conflicts are auto-resolved.
	// Gaps are never auto-resolved regardless of this setting.
	EnableAutoSync bool `json:"enable_auto_sync"`

	// DefaultTransitionDuration is the transition length in seconds used
	// when a segment declares none.
	DefaultTransitionDuration float64 `json:"default_transition_duration"`

	// MaxConcurrentSegments caps how many segments may share a time window
	// as stacked layers.
	MaxConcurrentSegments int `json:"max_concurrent_segments"`

	// Quality is passed through to the plan uninterpreted.
	Quality QualityHints `json:"quality,omitempty"`
}

// DefaultConfig returns the engine defaults.
func DefaultConfig() Config {
	return Config{
		EnableAutoSync:            true,
		DefaultTransitionDuration: 0.5,
		MaxConcurrentSegments:     3,
	}
}
