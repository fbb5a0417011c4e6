package component

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"sync"

	cg "github.com/goliatone/go-compgen/pkg/codegen"
	"github.com/goliatone/go-compgen/pkg/jsonschema"
	"github.com/goliatone/go-compgen/pkg/render/template/gotemplate"
)

// Modules referenced by generated files.
const (
	CompCategoryModule   = "src/layout/common"
	LayoutNodeModule     = "src/utils/layout/LayoutNode"
	LayoutModule         = "src/layout/layout"
	DisplayDataModule    = "src/features/displayData"
	ImplementationModule = "./index"
)

// CapabilityPrefix is the required prefix of capability keys.
const CapabilityPrefix = "renderIn"

//go:embed templates/*.tpl
var templateFiles embed.FS

var (
	engineOnce sync.Once
	engine     *gotemplate.Engine
	engineErr  error
)

// TemplatesFS exposes the TypeScript templates generation renders with.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		return templateFiles
	}
	return sub
}

func templates() (*gotemplate.Engine, error) {
	engineOnce.Do(func() {
		sub, err := fs.Sub(templateFiles, "templates")
		if err != nil {
			engineErr = fmt.Errorf("component: templates: %w", err)
			return
		}
		engine, engineErr = gotemplate.New(gotemplate.WithFS(sub))
	})
	return engine, engineErr
}

// GenerateOption customises one generation call.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	commonPath string
}

// WithCommonImportPath sets the module common definitions are imported from.
func WithCommonImportPath(path string) GenerateOption {
	return func(cfg *generateConfig) {
		if trimmed := strings.TrimSpace(path); trimmed != "" {
			cfg.commonPath = trimmed
		}
	}
}

func (c *Config) newContext(opts []GenerateOption) *cg.Context {
	cfg := generateConfig{commonPath: cg.DefaultCommonPath}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cg.NewContext(cg.WithCommonPath(cfg.commonPath))
}

// ExternalSymbol is the name of the generated wire facing type.
func (c *Config) ExternalSymbol() string { return "Comp" + c.symbol + "External" }

// InternalSymbol is the name of the generated runtime type.
func (c *Config) InternalSymbol() string { return "Comp" + c.symbol + "Internal" }

// GenerateConfigFile renders the config module: the external and internal
// types, TypeConfig and the runtime Config literal. It freezes the config.
func (c *Config) GenerateConfigFile(opts ...GenerateOption) (string, error) {
	if err := c.finalize(); err != nil {
		return "", err
	}
	ctx := c.newContext(opts)

	ctx.AddDeclaration(cg.Declare(ctx, c.ExternalSymbol(), c.exportedShape(), cg.External))
	ctx.AddDeclaration(cg.Declare(ctx, c.InternalSymbol(), c.inner, cg.Internal))
	plain, withRef, err := c.summaryOverrideTypes(ctx)
	if err != nil {
		return "", err
	}

	category := ctx.Import(CompCategoryModule, "CompCategory", false) + "." + c.req.Category.String()
	layoutNode := ctx.Import(LayoutNodeModule, "LayoutNode", false)
	impl := ctx.Import(ImplementationModule, c.symbol, false)

	data := map[string]any{
		"declarations":            strings.Join(ctx.Declarations(), "\n\n"),
		"category":                category,
		"layout":                  c.ExternalSymbol(),
		"nodeItem":                c.InternalSymbol(),
		"nodeObj":                 fmt.Sprintf("%s<%s>", layoutNode, cg.Literal(c.typ)),
		"plugins":                 c.pluginUnion(ctx),
		"summaryOverrides":        plain,
		"summaryOverridesWithRef": withRef,
		"impl":                    impl,
		"rendersWithLabel":        strconv.FormatBool(c.req.RendersWithLabel),
		"layoutNode":              layoutNode,
		"capabilities":            objectLiteral(c.capabilityEntries()),
		"behaviors":               objectLiteral(c.behaviorEntries()),
	}
	data["imports"] = strings.Join(ctx.ImportStatements(), "\n")
	return renderTemplate("config.ts", data)
}

func (c *Config) summaryOverrideTypes(ctx *cg.Context) (string, string, error) {
	if c.summary == nil {
		return "undefined", "undefined", nil
	}
	if !c.behaviors.IsSummarizable {
		return "", "", fmt.Errorf("%w: %q is not summarizable, call MakeSummarizable first", ErrSummaryOverrides, c.typ)
	}

	var overrides cg.Generator = cg.Common("ISummaryOverridesCommon")
	if len(c.summary.props) > 0 {
		overrides = cg.With(
			cg.Obj(c.summary.props...).Extends(cg.Common("ISummaryOverridesCommon")),
			cg.ExportAs(c.symbol+"SummaryOverrides"),
		)
	}
	one := cg.With(cg.Obj(cg.Prop("componentId", cg.Str())).Extends(overrides),
		cg.Title("Summary overrides for "+c.typ),
		cg.Description("Properties for how to display the summary of this "+c.typ+" component"),
	)
	all := cg.With(cg.Obj(cg.Prop("componentType", cg.Const(c.typ))).Extends(overrides),
		cg.Title("Summary overrides for all "+c.typ),
		cg.Description("Properties for how to display the summary of all "+c.typ+" components"),
	)
	union := cg.With(cg.Union(one, all), cg.ExportAs(c.symbol+"SummaryOverridesWithRef"))

	plain := cg.RenderTypeScript(ctx, overrides, cg.External)
	withRef := cg.RenderTypeScript(ctx, union, cg.External)
	return plain, withRef, nil
}

type literalEntry struct {
	key   string
	value string
}

func (c *Config) capabilityKeys() []string {
	keys := make([]string, 0, len(c.req.Capabilities))
	for key := range c.req.Capabilities {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func (c *Config) capabilityEntries() []literalEntry {
	keys := c.capabilityKeys()
	out := make([]literalEntry, 0, len(keys))
	for _, key := range keys {
		out = append(out, literalEntry{key: key, value: strconv.FormatBool(c.req.Capabilities[key])})
	}
	return out
}

func (c *Config) behaviorEntries() []literalEntry {
	b := c.behaviors
	return []literalEntry{
		{"isSummarizable", strconv.FormatBool(b.IsSummarizable)},
		{"canHaveLabel", strconv.FormatBool(b.CanHaveLabel)},
		{"canHaveOptions", strconv.FormatBool(b.CanHaveOptions)},
		{"canHaveAttachments", strconv.FormatBool(b.CanHaveAttachments)},
	}
}

func objectLiteral(entries []literalEntry) string {
	if len(entries) == 0 {
		return "{}"
	}
	var b strings.Builder
	b.WriteString("{\n")
	for _, entry := range entries {
		fmt.Fprintf(&b, "    %s: %s,\n", cg.PropertyName(entry.key), entry.value)
	}
	b.WriteString("  }")
	return b.String()
}

// GenerateDefClass renders the abstract definition class. Every capability
// becomes a can<Capability>() method returning its configured value, and
// attached plugins are wired into the node hooks. It freezes the config.
func (c *Config) GenerateDefClass(opts ...GenerateOption) (string, error) {
	if err := c.finalize(); err != nil {
		return "", err
	}
	keys := c.capabilityKeys()
	for _, key := range keys {
		if !strings.HasPrefix(key, CapabilityPrefix) || len(key) == len(CapabilityPrefix) {
			return "", fmt.Errorf("%w: %q on %q", ErrUnknownCapability, key, c.typ)
		}
	}

	ctx := c.newContext(opts)
	typeLit := cg.Literal(c.typ)
	base := ctx.Import(LayoutComponentModule, c.req.Category.BaseSymbol(), false)

	var methods []string
	if plugins := c.pluginMap(ctx); plugins != "" {
		methods = append(methods, plugins)
	}
	if c.req.DirectRendering {
		methods = append(methods, method("directRender(): boolean", "return true;"))
	}
	for _, key := range keys {
		name := "can" + strings.ToUpper(key[:1]) + key[1:]
		methods = append(methods, method(name+"(): boolean", "return "+strconv.FormatBool(c.req.Capabilities[key])+";"))
	}

	methods = append(methods, c.renderNodeGenerator(ctx), c.stateFactory(ctx, typeLit))

	resolver := ctx.Import(LayoutComponentModule, "ExprResolver", true)
	methods = append(methods, c.evalDefaultExpressions(ctx, resolver, typeLit))
	if !c.req.Functionality.CustomExpressions {
		methods = append(methods,
			"  // Set functionality.customExpressions to provide your own implementation\n"+
				method("evalExpressions(props: "+resolver+"<"+typeLit+">)", "return this.evalDefaultExpressions(props);"))
	}

	var implements []string
	if c.hasDataModelBindings() {
		node := ctx.Import(LayoutNodeModule, "LayoutNode", true)
		bindings := ctx.Import(LayoutModule, "IDataModelBindings", true)
		methods = append(methods, fmt.Sprintf(
			"  // Required because the component has data model bindings\n  abstract useDataModelBindingValidation(node: %s<%s>, bindings: %s<%s>): string[];",
			node, typeLit, bindings, typeLit,
		))
		displayData := c.req.Functionality.DisplayData
		if c.req.Category == CategoryForm && (displayData == nil || *displayData) {
			methods = append(methods, "  // Components with data model bindings produce a display string\n  abstract useDisplayData(nodeId: string): string;")
			implements = append(implements, ctx.Import(DisplayDataModule, "DisplayData", true))
		}
	}

	methods = append(methods, c.pluginMethods(ctx, typeLit)...)

	implementing := ""
	if len(implements) > 0 {
		implementing = " implements " + strings.Join(implements, ", ")
	}

	data := map[string]any{
		"imports":     strings.Join(ctx.ImportStatements(), "\n"),
		"symbol":      c.symbol,
		"base":        base,
		"typeLiteral": typeLit,
		"implements":  implementing,
		"methods":     methods,
	}
	return renderTemplate("def.ts", data)
}

func (c *Config) evalDefaultExpressions(ctx *cg.Context, resolver, typeLit string) string {
	type evaluator struct {
		common string
		fn     string
		when   bool
	}
	evaluators := []evaluator{
		{"ComponentBase", "evalBase", true},
		{"FormComponentProps", "evalFormProps", c.req.Category == CategoryForm},
		{"SummarizableComponentProps", "evalSummarizable", c.behaviors.IsSummarizable},
	}

	var omitted []string
	var spreads []string
	for _, e := range evaluators {
		if !e.when {
			continue
		}
		omitted = append(omitted, "keyof "+cg.RenderTypeScript(ctx, cg.Common(e.common), cg.Internal))
		spreads = append(spreads, "      ...props."+e.fn+"(),")
	}
	omitted = append(omitted, "'hidden'")

	var b strings.Builder
	fmt.Fprintf(&b, "  evalDefaultExpressions(props: %s<%s>) {\n", resolver, typeLit)
	b.WriteString("    return {\n")
	fmt.Fprintf(&b, "      ...(props.item as Omit<typeof props.item, %s>),\n", strings.Join(omitted, " | "))
	for _, spread := range spreads {
		b.WriteString(spread)
		b.WriteString("\n")
	}
	b.WriteString("      ...props.evalTrb(),\n")
	b.WriteString("    };\n")
	b.WriteString("  }")
	return b.String()
}

func method(signature, body string) string {
	return "  " + signature + " {\n    " + body + "\n  }"
}

// ToJSONSchema renders the draft-07 schema of the external shape. Exported
// helper types are attached as definitions. It freezes the config.
func (c *Config) ToJSONSchema() (*jsonschema.Schema, error) {
	if err := c.finalize(); err != nil {
		return nil, err
	}
	ctx := cg.NewContext()
	schema := cg.RenderSchema(ctx, c.exportedShape())
	if defs := ctx.Definitions(); defs.Len() > 0 {
		schema.Definitions = defs
	}
	return schema, nil
}

func renderTemplate(name string, data map[string]any) (string, error) {
	tpl, err := templates()
	if err != nil {
		return "", err
	}
	out, err := tpl.RenderTemplate(name, data)
	if err != nil {
		return "", fmt.Errorf("component: render %s: %w", name, err)
	}
	return out, nil
}
