package config

// Model is the format-agnostic configuration for one orchestration
// apply, produced by a Loader from whatever syntax the user wrote.
type Model struct {
	Categories []*CategoryConfig
}

// CategoryConfig declares one user-defined category, or overrides the
// run command of a standing one.
type CategoryConfig struct {
	Name string
	// AutoRun is a tri-state: nil means "use the default for this
	// category", which is false for user-defined ones.
	AutoRun   *bool
	RunsAfter []string
	DependsOn []string
	Command   string
	Env       map[string]string
}
