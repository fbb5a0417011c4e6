package component

import (
	"fmt"
	"strings"

	cg "github.com/goliatone/go-compgen/pkg/codegen"
)

// Functionality toggles optional parts of the generated definition class.
type Functionality struct {
	// CustomExpressions leaves evalExpressions to the hand written class.
	CustomExpressions bool `json:"customExpressions" yaml:"customExpressions"`
	// DisplayData set to false opts a form component with data model
	// bindings out of the DisplayData contract. Nil means enabled.
	DisplayData *bool `json:"displayData,omitempty" yaml:"displayData,omitempty"`
}

// Requirements are the settings every component must declare.
type Requirements struct {
	Category         Category
	RendersWithLabel bool
	DirectRendering  bool
	Capabilities     map[string]bool
	Functionality    Functionality
}

// Behaviors is emitted verbatim into the runtime Config.
type Behaviors struct {
	IsSummarizable     bool `json:"isSummarizable"`
	CanHaveLabel       bool `json:"canHaveLabel"`
	CanHaveOptions     bool `json:"canHaveOptions"`
	CanHaveAttachments bool `json:"canHaveAttachments"`
}

type state int

const (
	stateBuilding state = iota
	stateFrozen
)

// Config accumulates the shape of one component type. Builder methods are
// only valid while building; OverrideExported and the generation methods
// freeze the config. A Config is not safe for concurrent use.
type Config struct {
	req       Requirements
	typ       string
	symbol    string
	inner     *cg.Object
	exported  cg.Generator
	behaviors Behaviors
	state     state
	finalized bool
	plugins   []Plugin

	summary *summaryOverrides
}

type summaryOverrides struct {
	props []*cg.Property
}

// New returns a config with the base interfaces for req already applied.
func New(req Requirements) *Config {
	caps := make(map[string]bool, len(req.Capabilities))
	for key, value := range req.Capabilities {
		caps[key] = value
	}
	req.Capabilities = caps

	c := &Config{req: req, inner: cg.Obj()}
	for _, base := range BaseInterfacesFor(req.Category, req.RendersWithLabel) {
		c.inner.Extends(cg.Common(base.Props))
		if base.TextResources != "" {
			c.extendTextResources(cg.Common(base.TextResources))
		}
	}
	c.behaviors.IsSummarizable = req.Category.IsFormLike()
	c.behaviors.CanHaveLabel = req.RendersWithLabel
	if req.Category.IsFormLike() {
		c.plugins = append(c.plugins, ValidationPlugin())
	}
	return c
}

// Type returns the discriminator set with SetType.
func (c *Config) Type() string { return c.typ }

// Symbol returns the export name set with SetType.
func (c *Config) Symbol() string { return c.symbol }

// Category returns the configured category.
func (c *Config) Category() Category { return c.req.Category }

// Requirements returns a copy of the settings the config was built with.
func (c *Config) Requirements() Requirements {
	req := c.req
	req.Capabilities = make(map[string]bool, len(c.req.Capabilities))
	for key, value := range c.req.Capabilities {
		req.Capabilities[key] = value
	}
	return req
}

// Behaviors returns the runtime behaviour flags.
func (c *Config) Behaviors() Behaviors { return c.behaviors }

// Inner exposes the builder object. Mutating it bypasses the freeze guard.
func (c *Config) Inner() *cg.Object { return c.inner }

// Frozen reports whether builder operations are rejected.
func (c *Config) Frozen() bool { return c.state == stateFrozen }

// IsFormLike reports whether the component may carry data model bindings.
func (c *Config) IsFormLike() bool { return c.req.Category.IsFormLike() }

func (c *Config) ensureBuilding(op string) error {
	if c.state == stateFrozen {
		return fmt.Errorf("%w: %s on %q", ErrFrozen, op, c.typ)
	}
	return nil
}

// SetType sets the discriminator and export symbol (defaulting to typ) and
// inserts the type constant as the first property.
func (c *Config) SetType(typ, symbol string) error {
	if err := c.ensureBuilding("SetType"); err != nil {
		return err
	}
	typ = strings.TrimSpace(typ)
	if typ == "" {
		return fmt.Errorf("component: type is required")
	}
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		symbol = typ
	}
	if !cg.IsIdentifier(symbol) {
		return fmt.Errorf("component: symbol %q is not a valid identifier", symbol)
	}
	c.typ = typ
	c.symbol = symbol
	c.inner.AddProperty(cg.Prop("type", cg.Const(typ)).InsertFirst())
	return nil
}

// AddProperty adds or replaces a property.
func (c *Config) AddProperty(prop *cg.Property) error {
	if err := c.ensureBuilding("AddProperty"); err != nil {
		return err
	}
	if prop == nil || prop.Name == "" {
		return fmt.Errorf("component: property name is required")
	}
	c.inner.AddProperty(prop)
	return nil
}

// AddDataModelBinding sets the dataModelBindings property. Adding more than
// one binding shape turns the property into a union.
func (c *Config) AddDataModelBinding(binding cg.Generator) error {
	if err := c.ensureBuilding("AddDataModelBinding"); err != nil {
		return err
	}
	if !c.IsFormLike() {
		return fmt.Errorf("%w: %q is a %s component", ErrNotFormLike, c.typ, c.req.Category)
	}
	if binding == nil {
		return fmt.Errorf("component: data model binding is nil")
	}

	const name = "dataModelBindings"
	existing := c.inner.GetProperty(name)
	switch {
	case existing == nil || isPlaceholder(existing):
		c.inner.AddProperty(cg.Prop(name, binding))
	default:
		if union, ok := existing.Type.(*cg.UnionType); ok {
			union.Add(binding)
			return nil
		}
		c.inner.AddProperty(cg.Prop(name, cg.Union(existing.Type, binding)))
	}
	return nil
}

// AddTextResourcesForLabel adds the title, description and help bindings.
func (c *Config) AddTextResourcesForLabel() error {
	if err := c.ensureBuilding("AddTextResourcesForLabel"); err != nil {
		return err
	}
	c.addTextResource(cg.TextResource("title", "Title", "Label text/title shown above the component"))
	c.addTextResource(cg.TextResource("description", "Description", "Label description shown above the component, below the title"))
	c.addTextResource(cg.TextResource("help", "Help text", "Help text shown in a tooltip when clicking the help button"))
	return nil
}

// ExtendTextResources adds a base to the text resource bindings object.
func (c *Config) ExtendTextResources(base cg.Generator) error {
	if err := c.ensureBuilding("ExtendTextResources"); err != nil {
		return err
	}
	c.extendTextResources(base)
	return nil
}

// AddTextResource adds one text resource binding.
func (c *Config) AddTextResource(prop *cg.Property) error {
	if err := c.ensureBuilding("AddTextResource"); err != nil {
		return err
	}
	if prop == nil || prop.Name == "" {
		return fmt.Errorf("component: text resource name is required")
	}
	c.addTextResource(prop)
	return nil
}

// MakeSelectionComponent adds the option list properties. The full variant
// also allows preselecting an option.
func (c *Config) MakeSelectionComponent(full bool) error {
	if err := c.ensureBuilding("MakeSelectionComponent"); err != nil {
		return err
	}
	name := "ISelectionComponent"
	if full {
		name = "ISelectionComponentFull"
	}
	c.inner.Extends(cg.Common(name))
	c.behaviors.CanHaveOptions = true
	return nil
}

// Extends adds a base type to the component.
func (c *Config) Extends(base cg.Generator) error {
	if err := c.ensureBuilding("Extends"); err != nil {
		return err
	}
	if base == nil {
		return fmt.Errorf("component: base is nil")
	}
	c.inner.Extends(base)
	return nil
}

// ExtendsComponent inherits the shape of another component. The base's type
// constant is left out so the child keeps its own discriminator, and common
// bases the child already extends are not repeated.
func (c *Config) ExtendsComponent(other *Config) error {
	if err := c.ensureBuilding("ExtendsComponent"); err != nil {
		return err
	}
	if other == nil {
		return fmt.Errorf("component: base component is nil")
	}
	have := make(map[string]bool)
	for _, base := range c.inner.Bases() {
		if ref, ok := base.(*cg.Reference); ok {
			have[ref.Name] = true
		}
	}
	var bases []cg.Generator
	for _, base := range other.inner.Bases() {
		if ref, ok := base.(*cg.Reference); ok && have[ref.Name] {
			continue
		}
		bases = append(bases, base)
	}
	shape := cg.Obj()
	for _, prop := range other.inner.Properties() {
		if prop.Name != "type" {
			shape.AddProperty(prop)
		}
	}
	if len(shape.Properties()) == 0 {
		c.inner.Extends(bases...)
		return nil
	}
	c.inner.Extends(shape.Extends(bases...))
	return nil
}

// MakeSummarizable opts a non form-like component into summaries.
func (c *Config) MakeSummarizable() error {
	if err := c.ensureBuilding("MakeSummarizable"); err != nil {
		return err
	}
	if c.IsFormLike() {
		return fmt.Errorf("%w: %q", ErrAlwaysSummarizable, c.typ)
	}
	c.extendTextResources(cg.Common("TRBSummarizable"))
	c.inner.Extends(cg.Common("SummarizableComponentProps"))
	c.behaviors.IsSummarizable = true
	return nil
}

// AllowAttachments marks the component as able to carry attachments.
func (c *Config) AllowAttachments() error {
	if err := c.ensureBuilding("AllowAttachments"); err != nil {
		return err
	}
	c.behaviors.CanHaveAttachments = true
	return nil
}

// AddSummaryOverrides declares summary overrides for the component. Extra
// properties extend the common overrides; without them the common shape is
// used as is. It may only be called once.
func (c *Config) AddSummaryOverrides(props ...*cg.Property) error {
	if err := c.ensureBuilding("AddSummaryOverrides"); err != nil {
		return err
	}
	if c.summary != nil {
		return fmt.Errorf("%w: %q already has summary overrides", ErrSummaryOverrides, c.typ)
	}
	c.summary = &summaryOverrides{props: props}
	return nil
}

// OverrideExported replaces the external shape emitted for the component and
// freezes the config.
func (c *Config) OverrideExported(exported cg.Generator) error {
	if err := c.ensureBuilding("OverrideExported"); err != nil {
		return err
	}
	if exported == nil {
		return fmt.Errorf("component: exported override is nil")
	}
	c.exported = exported
	c.state = stateFrozen
	return nil
}

func (c *Config) textResourceBindings() *cg.Object {
	const name = "textResourceBindings"
	existing := c.inner.GetProperty(name)
	if existing != nil && !isPlaceholder(existing) {
		if obj, ok := existing.Type.(*cg.Object); ok {
			return obj
		}
	}
	obj := cg.With(cg.Obj(), cg.Optional())
	c.inner.AddProperty(cg.Prop(name, obj))
	return obj
}

func (c *Config) addTextResource(prop *cg.Property) {
	c.textResourceBindings().AddProperty(prop)
}

func (c *Config) extendTextResources(base cg.Generator) {
	c.textResourceBindings().Extends(base)
}

func (c *Config) hasDataModelBindings() bool {
	prop := c.inner.GetProperty("dataModelBindings")
	return c.IsFormLike() && prop != nil && !isPlaceholder(prop)
}

func isPlaceholder(prop *cg.Property) bool {
	_, raw := prop.Type.(*cg.RawType)
	return raw
}

// finalize freezes the config and adds the internal-only placeholders the
// runtime types rely on. A config without a type stays buildable. It is safe
// to call more than once.
func (c *Config) finalize() error {
	if c.typ == "" {
		return ErrTypeNotSet
	}
	c.state = stateFrozen
	if c.finalized {
		return nil
	}
	c.finalized = true
	for _, name := range []string{"dataModelBindings", "textResourceBindings"} {
		if c.inner.HasProperty(name) {
			continue
		}
		placeholder := cg.With(cg.Raw("undefined", nil), cg.Optional())
		c.inner.AddProperty(cg.Prop(name, placeholder).OmitInSchema())
	}
	return nil
}

func (c *Config) exportedShape() cg.Generator {
	if c.exported != nil {
		return c.exported
	}
	return c.inner
}
