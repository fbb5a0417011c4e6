package codegen

import (
	"strings"

	"github.com/goliatone/go-compgen/pkg/jsonschema"
)

// String is a string value.
type String struct {
	Annotations
	pattern string
}

// Str returns a string generator.
func Str() *String {
	return &String{}
}

// Pattern restricts the value with a regular expression.
func (s *String) Pattern(pattern string) *String {
	s.pattern = pattern
	return s
}

func (s *String) TypeScript(*Context, Variant) string { return "string" }

func (s *String) JSONSchema(*Context) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Pattern: s.pattern}
}

// Number is a numeric value. Integer switches the schema type to integer.
type Number struct {
	Annotations
	integer  bool
	min, max *float64
}

// Num returns a number generator.
func Num() *Number {
	return &Number{}
}

// Int returns an integer generator.
func Int() *Number {
	return &Number{integer: true}
}

// Min sets the inclusive lower bound.
func (n *Number) Min(v float64) *Number {
	n.min = jsonschema.Float(v)
	return n
}

// Max sets the inclusive upper bound.
func (n *Number) Max(v float64) *Number {
	n.max = jsonschema.Float(v)
	return n
}

func (n *Number) TypeScript(*Context, Variant) string { return "number" }

func (n *Number) JSONSchema(*Context) *jsonschema.Schema {
	typ := "number"
	if n.integer {
		typ = "integer"
	}
	return &jsonschema.Schema{Type: typ, Minimum: n.min, Maximum: n.max}
}

// Boolean is a boolean value.
type Boolean struct {
	Annotations
}

// Bool returns a boolean generator.
func Bool() *Boolean {
	return &Boolean{}
}

func (b *Boolean) TypeScript(*Context, Variant) string { return "boolean" }

func (b *Boolean) JSONSchema(*Context) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "boolean"}
}

// Constant is a single literal value.
type Constant struct {
	Annotations
	Value any
}

// Const returns a generator for exactly value.
func Const(value any) *Constant {
	return &Constant{Value: value}
}

func (c *Constant) TypeScript(*Context, Variant) string { return Literal(c.Value) }

func (c *Constant) JSONSchema(*Context) *jsonschema.Schema {
	return &jsonschema.Schema{Const: jsonschema.Lit(c.Value)}
}

// Enumeration is one of a fixed set of literals.
type Enumeration struct {
	Annotations
	Values []any
}

// Enum returns a generator accepting any of values.
func Enum(values ...any) *Enumeration {
	return &Enumeration{Values: values}
}

func (e *Enumeration) TypeScript(*Context, Variant) string {
	if len(e.Values) == 0 {
		return "never"
	}
	parts := make([]string, len(e.Values))
	for i, value := range e.Values {
		parts[i] = Literal(value)
	}
	return strings.Join(parts, " | ")
}

func (e *Enumeration) JSONSchema(*Context) *jsonschema.Schema {
	return &jsonschema.Schema{Enum: append([]any(nil), e.Values...)}
}

// Array is a list of Items.
type Array struct {
	Annotations
	Items Generator
}

// Arr returns an array of items.
func Arr(items Generator) *Array {
	return &Array{Items: items}
}

func (a *Array) TypeScript(ctx *Context, v Variant) string {
	item := RenderTypeScript(ctx, a.Items, v)
	if strings.ContainsAny(item, "|&") {
		item = "(" + item + ")"
	}
	return item + "[]"
}

func (a *Array) JSONSchema(ctx *Context) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "array", Items: RenderSchema(ctx, a.Items)}
}

// UnionType accepts any of its members.
type UnionType struct {
	Annotations
	Members []Generator
}

// Union returns a union of members.
func Union(members ...Generator) *UnionType {
	return &UnionType{Members: members}
}

// Add appends a member.
func (u *UnionType) Add(member Generator) *UnionType {
	u.Members = append(u.Members, member)
	return u
}

func (u *UnionType) TypeScript(ctx *Context, v Variant) string {
	if len(u.Members) == 0 {
		return "never"
	}
	parts := make([]string, len(u.Members))
	for i, member := range u.Members {
		parts[i] = RenderTypeScript(ctx, member, v)
	}
	return strings.Join(parts, " | ")
}

func (u *UnionType) JSONSchema(ctx *Context) *jsonschema.Schema {
	out := &jsonschema.Schema{}
	for _, member := range u.Members {
		out.AnyOf = append(out.AnyOf, RenderSchema(ctx, member))
	}
	return out
}

// RawType emits fixed TypeScript text and an optional fixed schema.
type RawType struct {
	Annotations
	TS     string
	Schema *jsonschema.Schema
}

// Raw returns a generator with literal renditions. A nil schema accepts any
// value.
func Raw(ts string, schema *jsonschema.Schema) *RawType {
	return &RawType{TS: ts, Schema: schema}
}

func (r *RawType) TypeScript(*Context, Variant) string { return r.TS }

func (r *RawType) JSONSchema(*Context) *jsonschema.Schema {
	if r.Schema == nil {
		return &jsonschema.Schema{}
	}
	copied := *r.Schema
	return &copied
}
