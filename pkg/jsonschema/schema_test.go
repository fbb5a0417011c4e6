package jsonschema_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-compgen/pkg/jsonschema"
)

func TestSchemaMarshal_KeywordAndPropertyOrder(t *testing.T) {
	props := jsonschema.NewProperties()
	props.Set("zeta", &jsonschema.Schema{Type: "string"})
	props.Set("alpha", &jsonschema.Schema{Type: "number", Minimum: jsonschema.Float(0)})
	props.Set("zeta", &jsonschema.Schema{Type: "boolean", Default: jsonschema.Lit(false)})

	s := &jsonschema.Schema{
		Properties:           props,
		Type:                 "object",
		Title:                "Example",
		Required:             []string{"zeta"},
		AdditionalProperties: jsonschema.Bool(false),
	}
	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"title":"Example","type":"object","properties":{"zeta":{"type":"boolean","default":false},"alpha":{"type":"number","minimum":0}},"required":["zeta"],"additionalProperties":false}`
	if diff := cmp.Diff(want, string(data)); diff != "" {
		t.Fatalf("encoding mismatch (-want +got):\n%s", diff)
	}
}

func TestSchemaMarshal_ZeroLiterals(t *testing.T) {
	data, err := json.Marshal(&jsonschema.Schema{Const: jsonschema.Lit(""), Examples: []any{0}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(data), `{"const":"","examples":[0]}`; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestSchema_IsEmptyAndRef(t *testing.T) {
	if !(&jsonschema.Schema{}).IsEmpty() {
		t.Fatalf("zero schema should be empty")
	}
	var nilSchema *jsonschema.Schema
	if !nilSchema.IsEmpty() {
		t.Fatalf("nil schema should be empty")
	}
	if !(&jsonschema.Schema{Definitions: jsonschema.NewProperties()}).IsEmpty() {
		t.Fatalf("empty definitions are not written")
	}
	ref := jsonschema.Ref("ComponentBase")
	if ref.Ref != "#/definitions/ComponentBase" || ref.IsEmpty() {
		t.Fatalf("unexpected ref %+v", ref)
	}
}

func TestSchema_Walk(t *testing.T) {
	props := jsonschema.NewProperties()
	props.Set("a", &jsonschema.Schema{Type: "array", Items: &jsonschema.Schema{Type: "string"}})
	defs := jsonschema.NewProperties()
	defs.Set("D", &jsonschema.Schema{Type: "integer"})
	root := &jsonschema.Schema{
		Properties:  props,
		AnyOf:       []*jsonschema.Schema{{Type: "null"}},
		If:          &jsonschema.Schema{},
		Then:        &jsonschema.Schema{},
		Definitions: defs,
	}

	var types []string
	root.Walk(func(s *jsonschema.Schema) { types = append(types, s.Type) })
	want := []string{"", "array", "string", "null", "", "", "integer"}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Fatalf("walk order mismatch (-want +got):\n%s", diff)
	}
}

func TestProperties_Delete(t *testing.T) {
	props := jsonschema.NewProperties()
	for _, name := range []string{"a", "b", "c"} {
		props.Set(name, &jsonschema.Schema{})
	}
	props.Delete("b")
	props.Delete("missing")
	if diff := cmp.Diff([]string{"a", "c"}, props.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	if props.Has("b") || props.Len() != 2 {
		t.Fatalf("b should be gone")
	}

	var nilProps *jsonschema.Properties
	if nilProps.Len() != 0 || nilProps.Keys() != nil {
		t.Fatalf("nil properties should be empty")
	}
}
