package config

import "context"

// Loader turns configuration files into the agnostic model. Implemented
// once per syntax; the orchestrator never sees the underlying format.
type Loader interface {
	Load(ctx context.Context, paths ...string) (*Model, error)
}
