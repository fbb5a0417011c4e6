package openapi_test

import (
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-compgen/pkg/descriptor"
	"github.com/goliatone/go-compgen/pkg/jsonschema"
	"github.com/goliatone/go-compgen/pkg/openapi"
	"github.com/goliatone/go-compgen/pkg/pipeline"
	"github.com/goliatone/go-compgen/pkg/testsupport"
)

func layoutDocument(t *testing.T, types ...string) *jsonschema.Document {
	t.Helper()
	set, err := descriptor.Default()
	if err != nil {
		t.Fatalf("default set: %v", err)
	}
	result, err := pipeline.New().Generate(testsupport.Context(t), pipeline.Request{
		Descriptors: set,
		Types:       types,
		DryRun:      true,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return result.Document
}

func TestExport_ComponentsAndRefs(t *testing.T) {
	doc := layoutDocument(t, "Input", "Paragraph")
	spec, err := openapi.Export(testsupport.Context(t), doc,
		openapi.WithTitle("Layout components"),
		openapi.WithVersion("2.1.0"),
		openapi.WithValidatePath("/validate"),
	)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if spec.OpenAPI != openapi.Version || spec.Info.Title != "Layout components" || spec.Info.Version != "2.1.0" {
		t.Fatalf("unexpected header %s %+v", spec.OpenAPI, spec.Info)
	}

	for _, name := range []string{"ComponentBase", "CompInput", "CompParagraph", "InputVariant", "AnyComponent", openapi.LayoutSchema, openapi.ValidationResultSchema} {
		if _, ok := spec.Components.Schemas[name]; !ok {
			t.Fatalf("expected components.schemas.%s", name)
		}
	}

	anyComponent := spec.Components.Schemas["AnyComponent"].Value
	var refs []string
	for _, member := range anyComponent.OneOf {
		refs = append(refs, member.Ref)
	}
	want := []string{"#/components/schemas/CompInput", "#/components/schemas/CompParagraph"}
	if diff := cmp.Diff(want, refs); diff != "" {
		t.Fatalf("oneOf mismatch (-want +got):\n%s", diff)
	}
	if anyComponent.Discriminator == nil || anyComponent.Discriminator.PropertyName != "type" {
		t.Fatalf("expected type discriminator, got %+v", anyComponent.Discriminator)
	}

	if spec.Paths.Value("/validate") == nil || spec.Paths.Value("/validate").Post == nil {
		t.Fatalf("expected POST /validate")
	}

	data, err := openapi.Marshal(spec, openapi.FormatJSON)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(data), "#/definitions/") {
		t.Fatalf("draft-07 refs left in export:\n%s", data)
	}
	if strings.Contains(string(data), `"const"`) || strings.Contains(string(data), `"if"`) {
		t.Fatalf("draft-07 keywords left in export")
	}
}

func TestExport_ConstBecomesEnum(t *testing.T) {
	doc := layoutDocument(t, "Paragraph")
	spec, err := openapi.Export(testsupport.Context(t), doc)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := openapi.Marshal(spec, openapi.FormatJSON)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"Paragraph"`) {
		t.Fatalf("expected type literal in export")
	}
	if len(spec.Paths.Map()) != 0 {
		t.Fatalf("expected no paths without WithValidatePath")
	}
}

func TestMarshal_YAML(t *testing.T) {
	spec, err := openapi.Export(testsupport.Context(t), layoutDocument(t, "Header"))
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	data, err := openapi.Marshal(spec, "yaml")
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), "openapi: 3.0.3") {
		t.Fatalf("unexpected yaml:\n%s", data)
	}
	if _, err := openapi.Marshal(spec, "toml"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestExport_Errors(t *testing.T) {
	if _, err := openapi.Export(testsupport.Context(t), nil); err == nil {
		t.Fatalf("expected error for nil document")
	}
	if _, err := openapi.Marshal(nil, openapi.FormatJSON); err == nil {
		t.Fatalf("expected error for nil spec")
	}
}

func TestExport_DefaultSetArraysHaveItems(t *testing.T) {
	spec, err := openapi.Export(testsupport.Context(t), layoutDocument(t), openapi.WithValidatePath("/validate"))
	if err != nil {
		t.Fatalf("export: %v", err)
	}

	seen := make(map[*openapi3.Schema]bool)
	var visit func(path string, ref *openapi3.SchemaRef)
	visit = func(path string, ref *openapi3.SchemaRef) {
		if ref == nil || ref.Value == nil || seen[ref.Value] {
			return
		}
		schema := ref.Value
		seen[schema] = true
		if schema.Type != nil && schema.Type.Is(openapi3.TypeArray) && schema.Items == nil {
			t.Errorf("array without items at %s", path)
		}
		visit(path+".items", schema.Items)
		for name, prop := range schema.Properties {
			visit(path+"."+name, prop)
		}
		for _, group := range []openapi3.SchemaRefs{schema.AllOf, schema.AnyOf, schema.OneOf} {
			for _, member := range group {
				visit(path, member)
			}
		}
	}
	for name, ref := range spec.Components.Schemas {
		visit(name, ref)
	}
	if _, ok := spec.Components.Schemas["Expression"]; !ok {
		t.Fatalf("expected the Expression definition in the export")
	}
}

func TestExport_ArrayWithoutItems(t *testing.T) {
	doc := jsonschema.NewDocument()
	if err := doc.Define("Tuple", &jsonschema.Schema{Type: "array"}); err != nil {
		t.Fatalf("define: %v", err)
	}
	spec, err := openapi.Export(testsupport.Context(t), doc, openapi.WithoutValidation())
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	tuple := spec.Components.Schemas["Tuple"].Value
	if tuple.Items == nil || tuple.Items.Value == nil {
		t.Fatalf("expected an open items schema, got %+v", tuple)
	}
}
