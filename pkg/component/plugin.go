package component

import (
	"fmt"
	"strings"

	cg "github.com/goliatone/go-compgen/pkg/codegen"
)

// Modules the plugin hooks of the definition class import from.
const (
	NodeTypesModule     = "src/utils/layout/types"
	NodeGeneratorModule = "src/utils/layout/generator/NodeGenerator"
	NodesContextModule  = "src/utils/layout/NodesContext"
	ValidationModule    = "src/features/validation/ValidationPlugin"
	ReactModule         = "react"
)

// Plugin attaches runtime behaviour to a component's node. The generated
// definition class instantiates Symbol and routes its node hooks through it.
type Plugin struct {
	// Key identifies the plugin on the component. Keys are unique per
	// component.
	Key string `json:"key" yaml:"key"`
	// Symbol is the plugin class exported by Module.
	Symbol string `json:"symbol" yaml:"symbol"`
	Module string `json:"module" yaml:"module"`
	// GenericArgs are written between angle brackets after Symbol in
	// TypeConfig.plugins.
	GenericArgs string `json:"genericArgs,omitempty" yaml:"genericArgs,omitempty"`
	// ConstructorArgs are passed verbatim to the constructor.
	ConstructorArgs string `json:"constructorArgs,omitempty" yaml:"constructorArgs,omitempty"`
	// StateFactory merges the plugin state into the node state.
	StateFactory bool `json:"stateFactory,omitempty" yaml:"stateFactory,omitempty"`
	// Children lets the plugin claim child components.
	Children bool `json:"children,omitempty" yaml:"children,omitempty"`
	// GeneratorChildren are TypeScript expressions rendered as children of
	// the node generator.
	GeneratorChildren []string `json:"generatorChildren,omitempty" yaml:"generatorChildren,omitempty"`
	// Methods are extra class members emitted as written.
	Methods []string `json:"methods,omitempty" yaml:"methods,omitempty"`
}

// ValidationPlugin is attached to every form and container component.
func ValidationPlugin() Plugin {
	return Plugin{
		Key:          "ValidationPlugin",
		Symbol:       "ValidationPlugin",
		Module:       ValidationModule,
		StateFactory: true,
	}
}

func (p Plugin) validate() error {
	if strings.TrimSpace(p.Key) == "" {
		return fmt.Errorf("%w: key is required", ErrInvalidPlugin)
	}
	if !cg.IsIdentifier(p.Symbol) {
		return fmt.Errorf("%w: %q: symbol %q is not a valid identifier", ErrInvalidPlugin, p.Key, p.Symbol)
	}
	if strings.TrimSpace(p.Module) == "" {
		return fmt.Errorf("%w: %q: module is required", ErrInvalidPlugin, p.Key)
	}
	return nil
}

// AddPlugin attaches p. A second plugin with the same key is rejected.
func (c *Config) AddPlugin(p Plugin) error {
	if err := c.ensureBuilding("AddPlugin"); err != nil {
		return err
	}
	if err := p.validate(); err != nil {
		return err
	}
	for _, existing := range c.plugins {
		if existing.Key == p.Key {
			return fmt.Errorf("%w: %q already has a plugin with the key %q", ErrDuplicatePlugin, c.typ, p.Key)
		}
	}
	p.GeneratorChildren = append([]string(nil), p.GeneratorChildren...)
	p.Methods = append([]string(nil), p.Methods...)
	c.plugins = append(c.plugins, p)
	return nil
}

// Plugins returns the attached plugins in the order they were added.
func (c *Config) Plugins() []Plugin {
	return append([]Plugin(nil), c.plugins...)
}

// pluginUnion is the TypeConfig.plugins type.
func (c *Config) pluginUnion(ctx *cg.Context) string {
	if len(c.plugins) == 0 {
		return "never"
	}
	parts := make([]string, 0, len(c.plugins))
	for _, p := range c.plugins {
		name := ctx.Import(p.Module, p.Symbol, true)
		if p.GenericArgs != "" {
			name += "<" + p.GenericArgs + ">"
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, " | ")
}

func pluginRef(p Plugin) string {
	return "this.plugins[" + cg.Literal(p.Key) + "]"
}

func (c *Config) pluginMap(ctx *cg.Context) string {
	if len(c.plugins) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("  protected plugins = {\n")
	for _, p := range c.plugins {
		fmt.Fprintf(&b, "    %s: new %s(%s),\n", cg.Literal(p.Key), ctx.Import(p.Module, p.Symbol, false), p.ConstructorArgs)
	}
	b.WriteString("  };")
	return b.String()
}

func (c *Config) renderNodeGenerator(ctx *cg.Context) string {
	props := ctx.Import(LayoutComponentModule, "NodeGeneratorProps", true)
	jsx := ctx.Import(ReactModule, "JSX", true)
	createElement := ctx.Import(ReactModule, "createElement", false)
	generator := ctx.Import(NodeGeneratorModule, "NodeGenerator", false)

	args := []string{generator, "props"}
	for _, p := range c.plugins {
		args = append(args, p.GeneratorChildren...)
	}
	return method(
		fmt.Sprintf("renderNodeGenerator(props: %s): %s.Element | null", props, jsx),
		fmt.Sprintf("return %s(%s);", createElement, strings.Join(args, ", ")),
	)
}

func (c *Config) stateFactory(ctx *cg.Context, typeLit string) string {
	props := ctx.Import(NodeTypesModule, "StateFactoryProps", true)
	base := ctx.Import(NodeTypesModule, "BaseNodeData", true)

	spreads := []string{"...baseState"}
	for _, p := range c.plugins {
		if p.StateFactory {
			spreads = append(spreads, "..."+pluginRef(p)+".stateFactory(props as any)")
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  stateFactory(props: %s<%s>) {\n", props, typeLit)
	fmt.Fprintf(&b, "    const baseState: %s<%s> = {\n", base, typeLit)
	b.WriteString("      type: 'node',\n")
	b.WriteString("      pageKey: props.pageKey,\n")
	b.WriteString("      parentId: props.parentId,\n")
	b.WriteString("      depth: props.depth,\n")
	b.WriteString("      isValid: props.isValid,\n")
	b.WriteString("      layout: props.item,\n")
	b.WriteString("      hidden: undefined,\n")
	b.WriteString("      rowIndex: props.rowIndex,\n")
	b.WriteString("      errors: undefined,\n")
	b.WriteString("    };\n\n")
	fmt.Fprintf(&b, "    return { %s };\n", strings.Join(spreads, ", "))
	b.WriteString("  }")
	return b.String()
}

// pluginMethods returns the plugin members that follow the generated
// expression and data model binding methods.
func (c *Config) pluginMethods(ctx *cg.Context, typeLit string) []string {
	nodeData := ctx.Import(NodeTypesModule, "NodeData", true)

	var out []string
	var ready []string
	for _, p := range c.plugins {
		out = append(out, p.Methods...)
		ready = append(ready, pluginRef(p)+".stateIsReady(state as any, fullState)")
	}

	if len(ready) == 0 {
		out = append(out, "  // No plugins in this component\n"+
			method(fmt.Sprintf("pluginStateIsReady(_state: %s<%s>): boolean", nodeData, typeLit), "return true;"))
	} else {
		nodes := ctx.Import(NodesContextModule, "NodesContext", true)
		out = append(out, method(
			fmt.Sprintf("pluginStateIsReady(state: %s<%s>, fullState: %s): boolean", nodeData, typeLit, nodes),
			"return "+strings.Join(ready, " && ")+";",
		))
	}

	var claimers []Plugin
	for _, p := range c.plugins {
		if p.Children {
			claimers = append(claimers, p)
		}
	}
	if len(claimers) == 0 {
		return out
	}

	claimProps := ctx.Import(LayoutComponentModule, "ChildClaimerProps", true)
	var claim, hidden []string
	for _, p := range claimers {
		claim = append(claim, fmt.Sprintf(
			"%s.claimChildren({ ...props, claimChild: (id: string) => props.claimChild(%s, id) });",
			pluginRef(p), cg.Literal(p.Key),
		))
		hidden = append(hidden, pluginRef(p)+".isChildHidden(state as any, childId)")
	}
	out = append(out,
		method(fmt.Sprintf("claimChildren(props: %s<%s>)", claimProps, typeLit), strings.Join(claim, "\n    ")),
		method(fmt.Sprintf("isChildHidden(state: %s<%s>, childId: string)", nodeData, typeLit),
			"return ["+strings.Join(hidden, ", ")+"].some((h) => h);"),
	)
	return out
}
