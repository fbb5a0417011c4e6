// Package typescript renders the generated TypeScript modules of a component:
// the config module (types, TypeConfig and Config) and the abstract
// definition class.
package typescript

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/goliatone/go-compgen/pkg/component"
	"github.com/goliatone/go-compgen/pkg/render"
)

const (
	// ConfigName identifies the config module renderer.
	ConfigName = "typescript-config"
	// DefName identifies the definition class renderer.
	DefName = "typescript-def"

	contentType = "application/typescript"
)

// Option customises a renderer.
type Option func(*config)

type config struct {
	fileName string
}

// WithFileName overrides the file written inside the component directory.
func WithFileName(name string) Option {
	return func(cfg *config) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.fileName = trimmed
		}
	}
}

func newConfig(fileName string, opts []Option) config {
	cfg := config{fileName: fileName}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// ConfigRenderer writes <dir>/config.generated.ts.
type ConfigRenderer struct {
	cfg config
}

var _ render.Renderer = (*ConfigRenderer)(nil)

// NewConfig constructs the config module renderer.
func NewConfig(opts ...Option) *ConfigRenderer {
	return &ConfigRenderer{cfg: newConfig("config.generated.ts", opts)}
}

func (r *ConfigRenderer) Name() string        { return ConfigName }
func (r *ConfigRenderer) ContentType() string { return contentType }

func (r *ConfigRenderer) Path(cfg *component.Config, options render.RenderOptions) string {
	return path.Join(options.ComponentDir(cfg.Type(), cfg.Symbol()), r.cfg.fileName)
}

func (r *ConfigRenderer) Render(ctx context.Context, cfg *component.Config, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := cfg.GenerateConfigFile(component.WithCommonImportPath(options.CommonImportPath))
	if err != nil {
		return nil, fmt.Errorf("typescript: config %q: %w", cfg.Type(), err)
	}
	return []byte(out), nil
}

// DefRenderer writes <dir>/def.generated.ts.
type DefRenderer struct {
	cfg config
}

var _ render.Renderer = (*DefRenderer)(nil)

// NewDef constructs the definition class renderer.
func NewDef(opts ...Option) *DefRenderer {
	return &DefRenderer{cfg: newConfig("def.generated.ts", opts)}
}

func (r *DefRenderer) Name() string        { return DefName }
func (r *DefRenderer) ContentType() string { return contentType }

func (r *DefRenderer) Path(cfg *component.Config, options render.RenderOptions) string {
	return path.Join(options.ComponentDir(cfg.Type(), cfg.Symbol()), r.cfg.fileName)
}

func (r *DefRenderer) Render(ctx context.Context, cfg *component.Config, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := cfg.GenerateDefClass(component.WithCommonImportPath(options.CommonImportPath))
	if err != nil {
		return nil, fmt.Errorf("typescript: def %q: %w", cfg.Type(), err)
	}
	return []byte(out), nil
}
