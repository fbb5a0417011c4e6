package jsonschema_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-compgen/pkg/jsonschema"
)

func fragment(withNested bool) *jsonschema.Schema {
	props := jsonschema.NewProperties()
	props.Set("id", &jsonschema.Schema{Type: "string"})
	s := &jsonschema.Schema{Type: "object", Properties: props}
	if withNested {
		s.Definitions = jsonschema.NewProperties()
		s.Definitions.Set("Shared", &jsonschema.Schema{Type: "string", Title: "Shared"})
	}
	return s
}

func TestDocument_AddComponentHoistsDefinitions(t *testing.T) {
	doc := jsonschema.NewDocument(jsonschema.WithID("https://example.com/layout.schema.json"), jsonschema.WithTitle("Mine"))
	if err := doc.Define("ComponentBase", &jsonschema.Schema{Type: "object"}); err != nil {
		t.Fatalf("define: %v", err)
	}
	if err := doc.AddComponent("Input", "", fragment(true)); err != nil {
		t.Fatalf("add input: %v", err)
	}
	if err := doc.AddComponent("Header", "Heading", fragment(true)); err != nil {
		t.Fatalf("add header: %v", err)
	}

	if diff := cmp.Diff([]string{"ComponentBase", "Shared", "CompInput", "CompHeading"}, doc.Definitions().Keys()); diff != "" {
		t.Fatalf("definitions mismatch (-want +got):\n%s", diff)
	}
	if def, ok := doc.ComponentDefinition("Header"); !ok || def != "CompHeading" {
		t.Fatalf("unexpected definition %q", def)
	}
	input, ok := doc.Component("Input")
	if !ok || input.Definitions != nil {
		t.Fatalf("expected hoisted fragment, got %+v", input)
	}
	if diff := cmp.Diff([]string{"Input", "Header"}, doc.Types()); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}

	root := doc.Schema()
	if root.ID != "https://example.com/layout.schema.json" || root.Title != "Mine" || root.Schema != jsonschema.Draft07 {
		t.Fatalf("unexpected root %+v", root)
	}
	keys := root.Definitions.Keys()
	if keys[len(keys)-1] != jsonschema.AnyComponentDefinition {
		t.Fatalf("AnyComponent should be the last definition, got %v", keys)
	}
	dispatch, _ := root.Definitions.Get(jsonschema.AnyComponentDefinition)
	if len(dispatch.AllOf) != 2 || dispatch.AllOf[1].Then.Ref != "#/definitions/CompHeading" {
		t.Fatalf("unexpected dispatcher %+v", dispatch.AllOf)
	}
	typeSchema, _ := dispatch.Properties.Get("type")
	if diff := cmp.Diff([]any{"Input", "Header"}, typeSchema.Enum); diff != "" {
		t.Fatalf("enum mismatch (-want +got):\n%s", diff)
	}
}

func TestDocument_LayoutEnvelope(t *testing.T) {
	doc := jsonschema.NewDocument()
	if err := doc.Define("BooleanExpression", &jsonschema.Schema{Type: "boolean"}); err != nil {
		t.Fatalf("define: %v", err)
	}
	data, err := json.Marshal(doc.Schema())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	encoded := string(data)
	for _, want := range []string{
		`"required":["data"]`,
		`"layout":{"type":"array","items":{"$ref":"#/definitions/AnyComponent"}}`,
		`"hidden":{"$ref":"#/definitions/BooleanExpression","title":"Hidden"`,
		`"expandedWidth":{"title":"Expanded width"`,
	} {
		if !strings.Contains(encoded, want) {
			t.Fatalf("expected %s in %s", want, encoded)
		}
	}
}

func TestDocument_Errors(t *testing.T) {
	doc := jsonschema.NewDocument()
	if err := doc.Define("", &jsonschema.Schema{}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := doc.Define("X", nil); err == nil {
		t.Fatalf("expected error for nil schema")
	}
	if err := doc.Define("X", &jsonschema.Schema{Type: "string"}); err != nil {
		t.Fatalf("define: %v", err)
	}
	if err := doc.Define("X", &jsonschema.Schema{Type: "string"}); err != nil {
		t.Fatalf("identical redefinition should be accepted: %v", err)
	}
	if err := doc.Define("X", &jsonschema.Schema{Type: "number"}); err == nil {
		t.Fatalf("expected conflict for a different schema")
	}

	if err := doc.AddComponent("", "", fragment(false)); err == nil {
		t.Fatalf("expected error for empty type")
	}
	if err := doc.AddComponent("A", "", nil); err == nil {
		t.Fatalf("expected error for nil fragment")
	}
	if err := doc.AddComponent("A", "", fragment(false)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := doc.AddComponent("A", "", fragment(false)); err == nil {
		t.Fatalf("expected duplicate type error")
	}
}
