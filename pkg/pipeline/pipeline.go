package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-compgen/pkg/common"
	"github.com/goliatone/go-compgen/pkg/component"
	"github.com/goliatone/go-compgen/pkg/descriptor"
	"github.com/goliatone/go-compgen/pkg/jsonschema"
	"github.com/goliatone/go-compgen/pkg/render"
	"github.com/goliatone/go-compgen/pkg/renderers/schema"
	"github.com/goliatone/go-compgen/pkg/renderers/typescript"
	"github.com/goliatone/go-compgen/pkg/utils/logging"
)

// Default names of the project wide artifacts.
const (
	DefaultCommonFile = "common.generated.ts"
	DefaultSchemaFile = "layout.schema.json"
)

// Option customises the pipeline configuration.
type Option func(*Pipeline)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(p *Pipeline) {
		p.registry = registry
	}
}

// WithRenderers limits generation to the named renderers.
func WithRenderers(names ...string) Option {
	return func(p *Pipeline) {
		p.renderers = append([]string(nil), names...)
	}
}

// WithConcurrency caps how many components render in parallel.
func WithConcurrency(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.concurrency = n
		}
	}
}

// WithRenderOptions sets the options passed to every renderer.
func WithRenderOptions(options render.RenderOptions) Option {
	return func(p *Pipeline) {
		p.renderOptions = options
	}
}

// WithDocumentOptions customises the aggregated layout schema.
func WithDocumentOptions(options ...jsonschema.DocumentOption) Option {
	return func(p *Pipeline) {
		p.documentOptions = append(p.documentOptions, options...)
	}
}

// WithCommonFile renames the common definitions module. Empty disables it.
func WithCommonFile(name string) Option {
	return func(p *Pipeline) {
		p.commonFile = strings.TrimSpace(name)
	}
}

// WithSchemaFile renames the aggregated schema file. Empty disables it.
func WithSchemaFile(name string) Option {
	return func(p *Pipeline) {
		p.schemaFile = strings.TrimSpace(name)
	}
}

// Pipeline coordinates descriptor building, rendering and writing.
type Pipeline struct {
	registry        *render.Registry
	renderers       []string
	concurrency     int
	renderOptions   render.RenderOptions
	documentOptions []jsonschema.DocumentOption
	commonFile      string
	schemaFile      string
	initialiseErr   error
}

// New constructs a Pipeline. Without WithRegistry the built-in renderers are
// registered.
func New(options ...Option) *Pipeline {
	p := &Pipeline{
		concurrency: runtime.GOMAXPROCS(0),
		commonFile:  DefaultCommonFile,
		schemaFile:  DefaultSchemaFile,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(p)
	}
	if p.registry == nil {
		p.registry, p.initialiseErr = DefaultRegistry()
	}
	return p
}

// DefaultRegistry holds the typescript-config, typescript-def and jsonschema
// renderers.
func DefaultRegistry() (*render.Registry, error) {
	return render.NewRegistry(typescript.NewConfig(), typescript.NewDef(), schema.New())
}

// Registry exposes the renderer registry.
func (p *Pipeline) Registry() *render.Registry { return p.registry }

// Request describes one generation run.
type Request struct {
	// Descriptors is the component set to generate.
	Descriptors *descriptor.Set
	// Types selects a subset of Descriptors. Empty generates every type.
	Types []string
	// OutputDir is the root written files are placed under. Required unless
	// DryRun is set.
	OutputDir string
	// DryRun renders without touching the file system.
	DryRun bool
}

// File is one generated artifact.
type File struct {
	Path     string
	Renderer string
	Type     string
	Content  []byte
	// Changed reports whether Content differs from what is on disk.
	Changed bool
	// Written reports whether the file was written in this run.
	Written bool
}

// Result lists every artifact of a run in path order.
type Result struct {
	Files    []File
	Types    []string
	Document *jsonschema.Document
}

// Written returns the paths written in this run.
func (r *Result) Written() []string {
	var out []string
	for _, file := range r.Files {
		if file.Written {
			out = append(out, file.Path)
		}
	}
	return out
}

// File returns the artifact stored under path.
func (r *Result) File(path string) (File, bool) {
	for _, file := range r.Files {
		if file.Path == path {
			return file, true
		}
	}
	return File{}, false
}

// Generate builds every selected component, renders it with the selected
// renderers and writes the results plus the common module and the layout
// schema. Components render concurrently; each component's renderers run in
// sequence because a component.Config is not safe for concurrent use.
func (p *Pipeline) Generate(ctx context.Context, req Request) (*Result, error) {
	if ctx == nil {
		return nil, errors.New("pipeline: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if p.initialiseErr != nil {
		return nil, p.initialiseErr
	}
	if req.Descriptors == nil {
		return nil, errors.New("pipeline: descriptors are required")
	}
	if !req.DryRun && strings.TrimSpace(req.OutputDir) == "" {
		return nil, errors.New("pipeline: output directory is required")
	}
	logger := logging.From(ctx)

	renderers, err := p.registry.Select(p.renderers...)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	configs, err := p.build(req)
	if err != nil {
		return nil, err
	}

	perComponent := make([][]File, len(configs))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.concurrency)
	for i, cfg := range configs {
		group.Go(func() error {
			files := make([]File, 0, len(renderers))
			for _, renderer := range renderers {
				content, err := renderer.Render(groupCtx, cfg, p.renderOptions)
				if err != nil {
					return fmt.Errorf("pipeline: %s: %w", renderer.Name(), err)
				}
				files = append(files, File{
					Path:     renderer.Path(cfg, p.renderOptions),
					Renderer: renderer.Name(),
					Type:     cfg.Type(),
					Content:  content,
				})
			}
			perComponent[i] = files
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	result := &Result{}
	for i, cfg := range configs {
		result.Types = append(result.Types, cfg.Type())
		result.Files = append(result.Files, perComponent[i]...)
	}

	doc, err := p.document(configs)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	if p.schemaFile != "" {
		data, err := json.MarshalIndent(doc.Schema(), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("pipeline: encode layout schema: %w", err)
		}
		result.Files = append(result.Files, File{Path: p.schemaFile, Renderer: "layout", Content: append(data, '\n')})
	}
	if p.commonFile != "" {
		result.Files = append(result.Files, File{Path: p.commonFile, Renderer: "common", Content: []byte(common.GenerateTypeScript())})
	}
	sort.SliceStable(result.Files, func(a, b int) bool { return result.Files[a].Path < result.Files[b].Path })

	if err := p.write(ctx, req, result); err != nil {
		return nil, err
	}
	logger.Info("generation finished",
		"components", len(configs),
		"files", len(result.Files),
		"written", len(result.Written()),
		"dry_run", req.DryRun,
	)
	return result, nil
}

// Document builds the selected components and aggregates their schemas
// without rendering or writing anything.
func (p *Pipeline) Document(ctx context.Context, req Request) (*jsonschema.Document, error) {
	if ctx == nil {
		return nil, errors.New("pipeline: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Descriptors == nil {
		return nil, errors.New("pipeline: descriptors are required")
	}
	configs, err := p.build(req)
	if err != nil {
		return nil, err
	}
	return p.document(configs)
}

func (p *Pipeline) build(req Request) ([]*component.Config, error) {
	types := req.Types
	if len(types) == 0 {
		types = req.Descriptors.Types()
	}
	configs := make([]*component.Config, 0, len(types))
	for _, typ := range types {
		cfg, err := req.Descriptors.Build(typ)
		if err != nil {
			return nil, fmt.Errorf("pipeline: build %q: %w", typ, err)
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

// document aggregates the common definitions and every component fragment.
func (p *Pipeline) document(configs []*component.Config) (*jsonschema.Document, error) {
	doc := jsonschema.NewDocument(p.documentOptions...)
	defs := common.Definitions()
	for _, name := range defs.Keys() {
		definition, _ := defs.Get(name)
		if err := doc.Define(name, definition); err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
	}
	for _, cfg := range configs {
		fragment, err := cfg.ToJSONSchema()
		if err != nil {
			return nil, fmt.Errorf("pipeline: schema %q: %w", cfg.Type(), err)
		}
		if err := doc.AddComponent(cfg.Type(), cfg.Symbol(), fragment); err != nil {
			return nil, fmt.Errorf("pipeline: %w", err)
		}
	}
	return doc, nil
}

func (p *Pipeline) write(ctx context.Context, req Request, result *Result) error {
	logger := logging.From(ctx)
	for i := range result.Files {
		file := &result.Files[i]
		if req.OutputDir == "" {
			file.Changed = true
			continue
		}
		target := filepath.Join(req.OutputDir, filepath.FromSlash(file.Path))
		existing, err := os.ReadFile(target)
		switch {
		case err == nil:
			file.Changed = !bytes.Equal(existing, file.Content)
		case errors.Is(err, os.ErrNotExist):
			file.Changed = true
		default:
			return fmt.Errorf("pipeline: read %s: %w", target, err)
		}
		if req.DryRun || !file.Changed {
			continue
		}
		if err := writeFile(target, file.Content); err != nil {
			return err
		}
		file.Written = true
		logger.Debug("wrote file", "path", file.Path, "renderer", file.Renderer)
	}
	return nil
}

// writeFile replaces target through a temporary sibling so readers never see
// a partial file.
func writeFile(target string, content []byte) error {
	dir := filepath.Dir(target)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("pipeline: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(target)+".*")
	if err != nil {
		return fmt.Errorf("pipeline: create temp for %s: %w", target, err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("pipeline: write %s: %w", target, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("pipeline: close %s: %w", target, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("pipeline: chmod %s: %w", target, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return fmt.Errorf("pipeline: rename %s: %w", target, err)
	}
	return nil
}
