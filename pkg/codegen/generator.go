package codegen

import (
	"github.com/goliatone/go-compgen/pkg/jsonschema"
)

// Variant selects which rendition of a type is emitted. External is the
// wire facing shape (layout JSON, JSON Schema); Internal is the runtime
// shape used inside the application.
type Variant int

const (
	External Variant = iota
	Internal
)

func (v Variant) String() string {
	if v == Internal {
		return "internal"
	}
	return "external"
}

// Generator is implemented by every value kind in the kit. TypeScript and
// JSONSchema return the bare rendition; callers go through RenderTypeScript
// and RenderSchema so annotations (exports, titles, defaults) are honoured.
type Generator interface {
	Meta() *Annotations
	TypeScript(ctx *Context, v Variant) string
	JSONSchema(ctx *Context) *jsonschema.Schema
}

// Annotations carries the metadata shared by all kinds.
type Annotations struct {
	Title       string
	Description string
	Examples    []any
	Default     any
	HasDefault  bool
	Optional    bool
	ExportAs    string
}

// Meta returns m so kinds embedding Annotations satisfy Generator.
func (m *Annotations) Meta() *Annotations {
	return m
}

// Opt mutates the annotations of a value.
type Opt func(*Annotations)

// With applies opts to g and returns it, keeping the concrete type.
func With[T Generator](g T, opts ...Opt) T {
	meta := g.Meta()
	for _, opt := range opts {
		if opt != nil {
			opt(meta)
		}
	}
	return g
}

// Title sets the human readable title.
func Title(title string) Opt {
	return func(m *Annotations) {
		m.Title = SanitizeText(title)
	}
}

// Description sets the long description.
func Description(description string) Opt {
	return func(m *Annotations) {
		m.Description = SanitizeText(description)
	}
}

// Examples appends example values.
func Examples(values ...any) Opt {
	return func(m *Annotations) {
		m.Examples = append(m.Examples, values...)
	}
}

// Optional marks the value as not required when used as a property.
func Optional() Opt {
	return func(m *Annotations) {
		m.Optional = true
	}
}

// OptionalDefault marks the value optional and records its default.
func OptionalDefault(value any) Opt {
	return func(m *Annotations) {
		m.Optional = true
		m.Default = value
		m.HasDefault = true
	}
}

// ExportAs emits the value as a named declaration (TypeScript) and a named
// definition (JSON Schema) and references it by name everywhere else.
func ExportAs(name string) Opt {
	return func(m *Annotations) {
		m.ExportAs = name
	}
}
