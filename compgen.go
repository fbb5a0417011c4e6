// Package compgen generates component configuration modules, definition
// classes and the layout JSON Schema from component descriptors.
package compgen

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-compgen/pkg/descriptor"
	"github.com/goliatone/go-compgen/pkg/pipeline"
	"github.com/goliatone/go-compgen/pkg/render"
)

// RenderOptions aliases render.RenderOptions for callers configuring the
// output layout from the top-level module.
type RenderOptions = render.RenderOptions

// Result aliases pipeline.Result.
type Result = pipeline.Result

// NewPipeline exposes the pipeline constructor from the top-level module.
func NewPipeline(options ...pipeline.Option) *pipeline.Pipeline {
	return pipeline.New(options...)
}

// LoadDescriptors loads the descriptor files found below dirs. With no dirs
// the default component set is returned.
func LoadDescriptors(dirs ...string) (*descriptor.Set, error) {
	if len(dirs) == 0 {
		return descriptor.Default()
	}
	return descriptor.LoadDirs(dirs...)
}

// Generate renders every descriptor in set and writes the results below
// outputDir. It is the simplest entry point for callers that just want files
// on disk.
func Generate(ctx context.Context, set *descriptor.Set, outputDir string, options ...pipeline.Option) (*Result, error) {
	return pipeline.New(options...).Generate(ctx, pipeline.Request{
		Descriptors: set,
		OutputDir:   outputDir,
	})
}

// LayoutSchema returns the aggregated layout schema for the given types, or
// for every type in set when none are given.
func LayoutSchema(ctx context.Context, set *descriptor.Set, types ...string) ([]byte, error) {
	doc, err := pipeline.New().Document(ctx, pipeline.Request{Descriptors: set, Types: types})
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(doc.Schema(), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("compgen: encode layout schema: %w", err)
	}
	return append(data, '\n'), nil
}
