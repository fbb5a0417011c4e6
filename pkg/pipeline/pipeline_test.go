package pipeline_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-compgen/pkg/descriptor"
	"github.com/goliatone/go-compgen/pkg/jsonschema"
	"github.com/goliatone/go-compgen/pkg/pipeline"
	"github.com/goliatone/go-compgen/pkg/render"
	"github.com/goliatone/go-compgen/pkg/renderers/typescript"
	"github.com/goliatone/go-compgen/pkg/testsupport"
)

func defaultSet(t *testing.T) *descriptor.Set {
	t.Helper()
	set, err := descriptor.Default()
	if err != nil {
		t.Fatalf("default descriptors: %v", err)
	}
	return set
}

func TestGenerate_DryRun(t *testing.T) {
	p := pipeline.New(pipeline.WithDocumentOptions(jsonschema.WithID("https://example.com/layout.schema.json")))
	result, err := p.Generate(testsupport.Context(t), pipeline.Request{
		Descriptors: defaultSet(t),
		Types:       []string{"Input", "Paragraph"},
		DryRun:      true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	var paths []string
	for _, file := range result.Files {
		paths = append(paths, file.Path)
		if file.Written {
			t.Fatalf("dry run wrote %s", file.Path)
		}
	}
	want := []string{
		"Input/config.generated.ts",
		"Input/def.generated.ts",
		"Input/schema.generated.json",
		"Paragraph/config.generated.ts",
		"Paragraph/def.generated.ts",
		"Paragraph/schema.generated.json",
		"common.generated.ts",
		"layout.schema.json",
	}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Fatalf("paths mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Input", "Paragraph"}, result.Document.Types()); diff != "" {
		t.Fatalf("schema types mismatch (-want +got):\n%s", diff)
	}

	layout, ok := result.File("layout.schema.json")
	if !ok {
		t.Fatalf("missing layout schema")
	}
	decoded := testsupport.MustDecodeJSON(t, layout.Content).(map[string]any)
	if decoded["$id"] != "https://example.com/layout.schema.json" {
		t.Fatalf("unexpected $id %v", decoded["$id"])
	}
	defs := decoded["definitions"].(map[string]any)
	for _, name := range []string{"ComponentBase", "CompInput", "CompParagraph", "InputVariant", "AnyComponent"} {
		if _, ok := defs[name]; !ok {
			t.Fatalf("expected definition %s", name)
		}
	}
}

func TestGenerate_WritesOnlyChangedFiles(t *testing.T) {
	dir := t.TempDir()
	p := pipeline.New(pipeline.WithRenderers(typescript.ConfigName), pipeline.WithConcurrency(2))
	req := pipeline.Request{Descriptors: defaultSet(t), OutputDir: dir}

	first, err := p.Generate(testsupport.Context(t), req)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if len(first.Written()) != len(first.Files) {
		t.Fatalf("expected every file written on first run, got %v", first.Written())
	}
	data, err := os.ReadFile(filepath.Join(dir, "Input", "config.generated.ts"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.HasPrefix(string(data), "// Code generated by compgen. DO NOT EDIT.") {
		t.Fatalf("unexpected header:\n%s", data)
	}

	second, err := p.Generate(testsupport.Context(t), req)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if written := second.Written(); len(written) != 0 {
		t.Fatalf("expected no writes for unchanged output, got %v", written)
	}

	target := filepath.Join(dir, "common.generated.ts")
	if err := os.WriteFile(target, []byte("stale"), 0o644); err != nil {
		t.Fatalf("corrupt: %v", err)
	}
	third, err := p.Generate(testsupport.Context(t), req)
	if err != nil {
		t.Fatalf("third run: %v", err)
	}
	if diff := cmp.Diff([]string{"common.generated.ts"}, third.Written()); diff != "" {
		t.Fatalf("written mismatch (-want +got):\n%s", diff)
	}
}

func TestGenerate_Errors(t *testing.T) {
	ctx := testsupport.Context(t)

	if _, err := pipeline.New().Generate(ctx, pipeline.Request{Descriptors: defaultSet(t)}); err == nil {
		t.Fatalf("expected error without output dir")
	}
	if _, err := pipeline.New().Generate(ctx, pipeline.Request{DryRun: true}); err == nil {
		t.Fatalf("expected error without descriptors")
	}

	_, err := pipeline.New(pipeline.WithRenderers("missing")).Generate(ctx, pipeline.Request{Descriptors: defaultSet(t), DryRun: true})
	if !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}

	_, err = pipeline.New().Generate(ctx, pipeline.Request{Descriptors: defaultSet(t), Types: []string{"Nope"}, DryRun: true})
	if !errors.Is(err, descriptor.ErrInvalidDescriptor) {
		t.Fatalf("expected ErrInvalidDescriptor, got %v", err)
	}
}

func TestDocument_MatchesGenerate(t *testing.T) {
	ctx := testsupport.Context(t)
	p := pipeline.New()
	req := pipeline.Request{Descriptors: defaultSet(t), Types: []string{"Header", "Input"}, DryRun: true}

	doc, err := p.Document(ctx, req)
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	if diff := cmp.Diff([]string{"Header", "Input"}, doc.Types()); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
	if _, ok := doc.ComponentDefinition("Input"); !ok {
		t.Fatalf("expected a definition for Input")
	}

	result, err := p.Generate(ctx, req)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	file, ok := result.File("layout.schema.json")
	if !ok {
		t.Fatalf("layout schema missing from result")
	}
	want := testsupport.MustDecodeJSON(t, []byte(testsupport.MustJSON(t, doc.Schema())))
	if diff := cmp.Diff(want, testsupport.MustDecodeJSON(t, file.Content)); diff != "" {
		t.Fatalf("layout schema mismatch (-document +generate):\n%s", diff)
	}

	if _, err := p.Document(ctx, pipeline.Request{}); err == nil {
		t.Fatalf("expected error without descriptors")
	}
	if _, err := p.Document(ctx, pipeline.Request{Descriptors: defaultSet(t), Types: []string{"Nope"}}); err == nil {
		t.Fatalf("expected error for unknown type")
	}
}
