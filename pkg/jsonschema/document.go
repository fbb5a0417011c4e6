package jsonschema

import (
	"fmt"
	"strings"
)

// AnyComponentDefinition names the definition that dispatches on the
// component type discriminator.
const AnyComponentDefinition = "AnyComponent"

// DocumentOption customises a layout Document.
type DocumentOption func(*Document)

// WithID sets the $id written to the root schema.
func WithID(id string) DocumentOption {
	return func(d *Document) {
		d.id = strings.TrimSpace(id)
	}
}

// WithTitle overrides the root title.
func WithTitle(title string) DocumentOption {
	return func(d *Document) {
		if trimmed := strings.TrimSpace(title); trimmed != "" {
			d.title = trimmed
		}
	}
}

// WithDescription overrides the root description.
func WithDescription(description string) DocumentOption {
	return func(d *Document) {
		if trimmed := strings.TrimSpace(description); trimmed != "" {
			d.description = trimmed
		}
	}
}

// Document accumulates shared definitions and component fragments and
// assembles them into the layout file schema consumed by the form renderer
// and by external tooling.
type Document struct {
	id          string
	title       string
	description string
	definitions *Properties
	components  []componentEntry
}

type componentEntry struct {
	typ        string
	definition string
}

// NewDocument returns an empty layout document.
func NewDocument(options ...DocumentOption) *Document {
	doc := &Document{
		title:       "Layout",
		description: "Schema that describes the layout configuration for form based applications.",
		definitions: NewProperties(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(doc)
	}
	return doc
}

// Define registers a shared definition. Registering the same name twice is an
// error unless both schemas encode identically.
func (d *Document) Define(name string, schema *Schema) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("jsonschema: definition name is required")
	}
	if schema == nil {
		return fmt.Errorf("jsonschema: definition %q is nil", name)
	}
	if existing, ok := d.definitions.Get(name); ok {
		if sameEncoding(existing, schema) {
			return nil
		}
		return fmt.Errorf("jsonschema: definition %q already registered", name)
	}
	d.definitions.Set(name, schema)
	return nil
}

// AddComponent registers the schema fragment of one component type under
// Comp<symbol>. Definitions nested in the fragment are hoisted to the root.
func (d *Document) AddComponent(typ, symbol string, fragment *Schema) error {
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return fmt.Errorf("jsonschema: component type is required")
	}
	if symbol == "" {
		symbol = typ
	}
	for _, entry := range d.components {
		if entry.typ == typ {
			return fmt.Errorf("jsonschema: component %q already registered", typ)
		}
	}
	if fragment == nil {
		return fmt.Errorf("jsonschema: component %q has no schema", typ)
	}

	hoisted := *fragment
	nested := hoisted.Definitions
	hoisted.Definitions = nil
	for _, key := range nested.Keys() {
		child, _ := nested.Get(key)
		if err := d.Define(key, child); err != nil {
			return fmt.Errorf("jsonschema: component %q: %w", typ, err)
		}
	}

	definition := "Comp" + symbol
	if err := d.Define(definition, &hoisted); err != nil {
		return err
	}
	d.components = append(d.components, componentEntry{typ: typ, definition: definition})
	return nil
}

// Component returns the fragment registered for typ.
func (d *Document) Component(typ string) (*Schema, bool) {
	for _, entry := range d.components {
		if entry.typ == typ {
			return d.definitions.Get(entry.definition)
		}
	}
	return nil, false
}

// ComponentDefinition returns the definition name registered for typ.
func (d *Document) ComponentDefinition(typ string) (string, bool) {
	for _, entry := range d.components {
		if entry.typ == typ {
			return entry.definition, true
		}
	}
	return "", false
}

// Types lists the registered component types in registration order.
func (d *Document) Types() []string {
	out := make([]string, 0, len(d.components))
	for _, entry := range d.components {
		out = append(out, entry.typ)
	}
	return out
}

// Definitions exposes the registered definitions.
func (d *Document) Definitions() *Properties {
	return d.definitions
}

// Schema assembles the root layout file schema.
func (d *Document) Schema() *Schema {
	definitions := NewProperties()
	for _, key := range d.definitions.Keys() {
		value, _ := d.definitions.Get(key)
		definitions.Set(key, value)
	}
	definitions.Set(AnyComponentDefinition, d.anyComponent())

	hidden := &Schema{Type: "boolean"}
	if d.definitions.Has("BooleanExpression") {
		hidden = Ref("BooleanExpression")
	}
	hidden.Title = "Hidden"
	hidden.Description = "Expression that will hide the page/form layout if true"
	hidden.Default = Lit(false)

	data := &Schema{Type: "object", Properties: NewProperties(), Required: []string{"layout"}}
	data.Properties.Set("layout", &Schema{
		Type:  "array",
		Items: Ref(AnyComponentDefinition),
	})
	data.Properties.Set("hidden", hidden)
	data.Properties.Set("expandedWidth", &Schema{
		Type:        "boolean",
		Title:       "Expanded width",
		Description: "Sets expanded width for pages",
		Default:     Lit(false),
	})

	root := &Schema{
		Schema:      Draft07,
		ID:          d.id,
		Title:       d.title,
		Description: d.description,
		Type:        "object",
		Properties:  NewProperties(),
		Required:    []string{"data"},
		Definitions: definitions,
	}
	root.Properties.Set("$schema", &Schema{Type: "string"})
	root.Properties.Set("data", data)
	return root
}

func (d *Document) anyComponent() *Schema {
	types := make([]any, 0, len(d.components))
	for _, entry := range d.components {
		types = append(types, entry.typ)
	}

	dispatch := &Schema{
		Type:       "object",
		Properties: NewProperties(),
		Required:   []string{"id", "type"},
	}
	dispatch.Properties.Set("id", &Schema{Type: "string"})
	typeSchema := &Schema{Type: "string", Title: "Type", Description: "The component type"}
	if len(types) > 0 {
		typeSchema.Enum = types
	}
	dispatch.Properties.Set("type", typeSchema)

	for _, entry := range d.components {
		cond := &Schema{Properties: NewProperties()}
		cond.Properties.Set("type", &Schema{Const: Lit(entry.typ)})
		dispatch.AllOf = append(dispatch.AllOf, &Schema{
			If:   cond,
			Then: Ref(entry.definition),
		})
	}
	return dispatch
}

func sameEncoding(a, b *Schema) bool {
	left, errLeft := a.MarshalJSON()
	right, errRight := b.MarshalJSON()
	return errLeft == nil && errRight == nil && string(left) == string(right)
}
