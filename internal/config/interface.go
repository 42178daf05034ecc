package config

import (
	"context"

	"github.com/specialistvlad/burstmatrix/internal/model"
)

// Decoder is the interface for a format-specific workflow decoder.
type Decoder interface {
	// Extensions lists the file extensions handled by the decoder,
	// including the leading dot.
	Extensions() []string

	// Decode parses the contents of a single file into a definition.
	Decode(ctx context.Context, filename string, src []byte) (*model.Definition, error)
}

// WorkflowLoader reads a workflow declaration from one or more paths.
type WorkflowLoader interface {
	Load(ctx context.Context, paths ...string) (*model.Definition, error)
}
