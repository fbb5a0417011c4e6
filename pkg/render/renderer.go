package render

import (
	"context"

	"github.com/goliatone/go-compgen/pkg/component"
)

// Renderer turns one component config into a generated artifact.
type Renderer interface {
	Name() string
	ContentType() string
	// Path is the output location relative to the output directory, using
	// forward slashes.
	Path(cfg *component.Config, options RenderOptions) string
	Render(ctx context.Context, cfg *component.Config, options RenderOptions) ([]byte, error)
}
