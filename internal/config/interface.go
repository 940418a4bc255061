package config

import "context"

// Loader is the interface for a format-specific configuration loader.
type Loader interface {
	// Load reads the given files and translates them into the
	// format-agnostic model.
	Load(ctx context.Context, files ...string) (*Model, error)
}
