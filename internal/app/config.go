package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ConfigPath string // hcl file or directory with category blocks
	WorkDir    string
	ReportDir  string
	Target     string
	Plan       bool

	LogFormat string
	LogLevel  string
	Workers   int
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Target == "" {
		return nil, errors.New("Target is a required configuration field and cannot be empty")
	}
	if cfg.ReportDir == "" {
		return nil, errors.New("ReportDir is a required configuration field and cannot be empty")
	}
	if cfg.WorkDir == "" {
		cfg.WorkDir = "."
	}
	if cfg.Workers < 1 {
		cfg.Workers = 4
	}

	return &cfg, nil
}
