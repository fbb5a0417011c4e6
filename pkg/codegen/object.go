package codegen

import (
	"strings"

	"github.com/goliatone/go-compgen/pkg/jsonschema"
)

// Property is a named member of an Object.
type Property struct {
	Name  string
	Type  Generator
	only  *Variant
	first bool
}

// Prop returns a property visible in both variants.
func Prop(name string, typ Generator) *Property {
	return &Property{Name: name, Type: typ}
}

// OnlyIn restricts the property to one variant.
func (p *Property) OnlyIn(v Variant) *Property {
	p.only = &v
	return p
}

// OmitInSchema keeps the property out of the external variant and therefore
// out of JSON Schema.
func (p *Property) OmitInSchema() *Property {
	return p.OnlyIn(Internal)
}

// InsertFirst places the property before all others when added.
func (p *Property) InsertFirst() *Property {
	p.first = true
	return p
}

// VisibleIn reports whether the property is part of variant v.
func (p *Property) VisibleIn(v Variant) bool {
	return p.only == nil || *p.only == v
}

// Object is an ordered set of properties with optional base types.
type Object struct {
	Annotations
	props   []*Property
	extends []Generator
	closed  bool
}

// Obj returns an object with props in order.
func Obj(props ...*Property) *Object {
	obj := &Object{}
	for _, prop := range props {
		obj.AddProperty(prop)
	}
	return obj
}

// AddProperty adds p. A property with the same name is replaced in place
// unless p was marked InsertFirst, in which case it moves to the front.
func (o *Object) AddProperty(p *Property) *Object {
	if p == nil {
		return o
	}
	for i, existing := range o.props {
		if existing.Name != p.Name {
			continue
		}
		if !p.first {
			o.props[i] = p
			return o
		}
		o.props = append(o.props[:i], o.props[i+1:]...)
		break
	}
	if p.first {
		o.props = append([]*Property{p}, o.props...)
		return o
	}
	o.props = append(o.props, p)
	return o
}

// GetProperty returns the property called name or nil.
func (o *Object) GetProperty(name string) *Property {
	for _, prop := range o.props {
		if prop.Name == name {
			return prop
		}
	}
	return nil
}

// HasProperty reports whether a property called name exists.
func (o *Object) HasProperty(name string) bool {
	return o.GetProperty(name) != nil
}

// Properties returns the properties in order.
func (o *Object) Properties() []*Property {
	return append([]*Property(nil), o.props...)
}

// Extends appends base types. Bases are not deduplicated.
func (o *Object) Extends(bases ...Generator) *Object {
	o.extends = append(o.extends, bases...)
	return o
}

// Bases returns the base types in order.
func (o *Object) Bases() []Generator {
	return append([]Generator(nil), o.extends...)
}

// Closed forbids properties not listed on the object in JSON Schema.
func (o *Object) Closed() *Object {
	o.closed = true
	return o
}

func (o *Object) interfaceable() bool {
	for _, base := range o.extends {
		if !nameable(base) {
			return false
		}
	}
	return true
}

func nameable(g Generator) bool {
	switch g.(type) {
	case *UnionType, *Enumeration, *Constant:
		return false
	case *Reference, *ImportedSymbol:
		return true
	}
	return g.Meta().ExportAs != ""
}

func (o *Object) body(ctx *Context, v Variant) string {
	var b strings.Builder
	count := 0
	for _, prop := range o.props {
		if !prop.VisibleIn(v) {
			continue
		}
		if count == 0 {
			b.WriteString("{\n")
		}
		count++
		pad := ctx.pad(1)
		meta := prop.Type.Meta()
		b.WriteString(DocComment(meta, pad))
		b.WriteString(pad)
		b.WriteString(PropertyName(prop.Name))
		if meta.Optional {
			b.WriteString("?")
		}
		b.WriteString(": ")
		b.WriteString(ctx.nested(func() string { return RenderTypeScript(ctx, prop.Type, v) }))
		b.WriteString(";\n")
	}
	if count == 0 {
		return "{}"
	}
	b.WriteString(ctx.pad(0))
	b.WriteString("}")
	return b.String()
}

func (o *Object) TypeScript(ctx *Context, v Variant) string {
	parts := make([]string, 0, len(o.extends)+1)
	for _, base := range o.extends {
		parts = append(parts, RenderTypeScript(ctx, base, v))
	}
	body := o.body(ctx, v)
	if body != "{}" || len(parts) == 0 {
		parts = append(parts, body)
	}
	return strings.Join(parts, " & ")
}

func (o *Object) JSONSchema(ctx *Context) *jsonschema.Schema {
	own := &jsonschema.Schema{Type: "object", Properties: jsonschema.NewProperties()}
	for _, prop := range o.props {
		if !prop.VisibleIn(External) {
			continue
		}
		own.Properties.Set(prop.Name, RenderSchema(ctx, prop.Type))
		if !prop.Type.Meta().Optional {
			own.Required = append(own.Required, prop.Name)
		}
	}
	if o.closed {
		own.AdditionalProperties = jsonschema.Bool(false)
	}
	if len(o.extends) == 0 {
		return own
	}

	out := &jsonschema.Schema{}
	for _, base := range o.extends {
		out.AllOf = append(out.AllOf, RenderSchema(ctx, base))
	}
	if own.Properties.Len() > 0 || o.closed {
		out.AllOf = append(out.AllOf, own)
	}
	return out
}
