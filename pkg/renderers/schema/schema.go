// Package schema renders the draft-07 JSON Schema fragment of a component.
package schema

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/goliatone/go-compgen/pkg/component"
	"github.com/goliatone/go-compgen/pkg/render"
)

// Name identifies the renderer.
const Name = "jsonschema"

// Renderer writes <dir>/schema.generated.json.
type Renderer struct{}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the schema renderer.
func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Name() string        { return Name }
func (r *Renderer) ContentType() string { return "application/schema+json" }

func (r *Renderer) Path(cfg *component.Config, options render.RenderOptions) string {
	return path.Join(options.ComponentDir(cfg.Type(), cfg.Symbol()), "schema.generated.json")
}

func (r *Renderer) Render(ctx context.Context, cfg *component.Config, _ render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fragment, err := cfg.ToJSONSchema()
	if err != nil {
		return nil, fmt.Errorf("schema: %q: %w", cfg.Type(), err)
	}
	data, err := json.MarshalIndent(fragment, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("schema: encode %q: %w", cfg.Type(), err)
	}
	return append(data, '\n'), nil
}
