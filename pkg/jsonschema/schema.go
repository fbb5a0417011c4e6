package jsonschema

import (
	"bytes"
	"encoding/json"
)

// Draft07 is the dialect URI written to generated documents.
const Draft07 = "http://json-schema.org/draft-07/schema#"

// Literal wraps a JSON value so that zero values (false, 0, "") survive
// marshalling for keywords such as const and default.
type Literal struct {
	Value any
}

// Lit returns a Literal holding v.
func Lit(v any) *Literal {
	return &Literal{Value: v}
}

// MarshalJSON encodes the wrapped value.
func (l *Literal) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("null"), nil
	}
	return json.Marshal(l.Value)
}

// Schema is a draft-07 JSON Schema node. Only the keywords the generator
// emits are modelled. Keyword order in the encoded output is fixed and
// property order follows insertion order.
type Schema struct {
	Schema               string
	ID                   string
	Ref                  string
	Title                string
	Description          string
	Type                 string
	Const                *Literal
	Enum                 []any
	Default              *Literal
	Examples             []any
	Pattern              string
	Minimum              *float64
	Maximum              *float64
	Items                *Schema
	Properties           *Properties
	Required             []string
	AdditionalProperties *bool
	AllOf                []*Schema
	AnyOf                []*Schema
	OneOf                []*Schema
	If                   *Schema
	Then                 *Schema
	Else                 *Schema
	Definitions          *Properties
}

// Ref returns a schema that only references the named definition.
func Ref(definition string) *Schema {
	return &Schema{Ref: "#/definitions/" + definition}
}

// Bool returns a pointer to b, used for AdditionalProperties.
func Bool(b bool) *bool {
	return &b
}

// Float returns a pointer to f, used for Minimum and Maximum.
func Float(f float64) *float64 {
	return &f
}

// IsEmpty reports whether the schema carries no keywords, i.e. it accepts
// any instance.
func (s *Schema) IsEmpty() bool {
	if s == nil {
		return true
	}
	data, err := s.MarshalJSON()
	return err == nil && string(data) == "{}"
}

// Walk visits s and every nested schema depth first. Definitions are
// included.
func (s *Schema) Walk(fn func(*Schema)) {
	if s == nil || fn == nil {
		return
	}
	fn(s)
	s.Items.Walk(fn)
	for _, key := range s.Properties.Keys() {
		child, _ := s.Properties.Get(key)
		child.Walk(fn)
	}
	for _, group := range [][]*Schema{s.AllOf, s.AnyOf, s.OneOf} {
		for _, child := range group {
			child.Walk(fn)
		}
	}
	s.If.Walk(fn)
	s.Then.Walk(fn)
	s.Else.Walk(fn)
	for _, key := range s.Definitions.Keys() {
		child, _ := s.Definitions.Get(key)
		child.Walk(fn)
	}
}

// MarshalJSON writes the schema with a stable keyword order.
func (s *Schema) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("null"), nil
	}
	w := objectWriter{}
	w.str("$schema", s.Schema)
	w.str("$id", s.ID)
	w.str("$ref", s.Ref)
	w.str("title", s.Title)
	w.str("description", s.Description)
	w.str("type", s.Type)
	if s.Const != nil {
		w.value("const", s.Const)
	}
	if len(s.Enum) > 0 {
		w.value("enum", s.Enum)
	}
	if s.Default != nil {
		w.value("default", s.Default)
	}
	if len(s.Examples) > 0 {
		w.value("examples", s.Examples)
	}
	w.str("pattern", s.Pattern)
	if s.Minimum != nil {
		w.value("minimum", *s.Minimum)
	}
	if s.Maximum != nil {
		w.value("maximum", *s.Maximum)
	}
	if s.Items != nil {
		w.value("items", s.Items)
	}
	if s.Properties != nil {
		w.value("properties", s.Properties)
	}
	if len(s.Required) > 0 {
		w.value("required", s.Required)
	}
	if s.AdditionalProperties != nil {
		w.value("additionalProperties", *s.AdditionalProperties)
	}
	if len(s.AllOf) > 0 {
		w.value("allOf", s.AllOf)
	}
	if len(s.AnyOf) > 0 {
		w.value("anyOf", s.AnyOf)
	}
	if len(s.OneOf) > 0 {
		w.value("oneOf", s.OneOf)
	}
	if s.If != nil {
		w.value("if", s.If)
	}
	if s.Then != nil {
		w.value("then", s.Then)
	}
	if s.Else != nil {
		w.value("else", s.Else)
	}
	if s.Definitions != nil && s.Definitions.Len() > 0 {
		w.value("definitions", s.Definitions)
	}
	return w.finish()
}

type objectWriter struct {
	buf   bytes.Buffer
	count int
	err   error
}

func (w *objectWriter) str(key, value string) {
	if value == "" {
		return
	}
	w.value(key, value)
}

func (w *objectWriter) value(key string, value any) {
	if w.err != nil {
		return
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		w.err = err
		return
	}
	w.raw(key, encoded)
}

func (w *objectWriter) raw(key string, encoded []byte) {
	if w.count == 0 {
		w.buf.WriteByte('{')
	} else {
		w.buf.WriteByte(',')
	}
	name, _ := json.Marshal(key)
	w.buf.Write(name)
	w.buf.WriteByte(':')
	w.buf.Write(encoded)
	w.count++
}

func (w *objectWriter) finish() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	if w.count == 0 {
		return []byte("{}"), nil
	}
	w.buf.WriteByte('}')
	return w.buf.Bytes(), nil
}
