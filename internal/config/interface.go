package config

import (
	"context"
	"io"
)

// Loader is the interface for a format-specific graph document loader.
type Loader interface {
	// Load reads every document found at the given paths and merges them
	// into one format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Writer is the interface for a format-specific graph document writer.
type Writer interface {
	Write(ctx context.Context, w io.Writer, m *Model) error
}
