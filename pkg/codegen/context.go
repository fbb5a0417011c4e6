package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-compgen/pkg/jsonschema"
)

// DefaultCommonPath is the module common definitions are imported from.
const DefaultCommonPath = "src/layout/common.generated"

// ContextOption customises a Context.
type ContextOption func(*Context)

// WithCommonPath sets the module Common references import from. An empty path
// means the common definitions live in the file being generated.
func WithCommonPath(path string) ContextOption {
	return func(c *Context) {
		c.commonPath = path
	}
}

// WithIndent overrides the indentation unit (two spaces by default).
func WithIndent(indent string) ContextOption {
	return func(c *Context) {
		c.indent = indent
	}
}

// Context collects the side effects of rendering one output file: imports,
// exported declarations, referenced common definitions and local schema
// definitions. A Context is not safe for concurrent use.
type Context struct {
	commonPath string
	indent     string
	depth      int

	imports map[string]map[string]bool

	declarations []string
	exported     map[string]*exportedSymbol

	definitions *jsonschema.Properties
	defining    map[string]bool

	commons    []string
	commonSeen map[string]bool
}

type exportedSymbol struct {
	external string
	internal string
}

// NewContext returns an empty rendering context.
func NewContext(opts ...ContextOption) *Context {
	ctx := &Context{
		commonPath:  DefaultCommonPath,
		indent:      "  ",
		imports:     make(map[string]map[string]bool),
		exported:    make(map[string]*exportedSymbol),
		definitions: jsonschema.NewProperties(),
		defining:    make(map[string]bool),
		commonSeen:  make(map[string]bool),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(ctx)
		}
	}
	return ctx
}

// CommonPath returns the module common references resolve to.
func (c *Context) CommonPath() string {
	return c.commonPath
}

// Import registers symbol from module and returns the local name. A symbol
// imported both as a type and as a value is emitted as a value import.
func (c *Context) Import(from, symbol string, typeOnly bool) string {
	if from == "" || symbol == "" {
		return symbol
	}
	symbols, ok := c.imports[from]
	if !ok {
		symbols = make(map[string]bool)
		c.imports[from] = symbols
	}
	if existing, seen := symbols[symbol]; seen {
		symbols[symbol] = existing && typeOnly
	} else {
		symbols[symbol] = typeOnly
	}
	return symbol
}

// ImportStatements renders the collected imports sorted by module, value
// imports before type-only imports of the same module.
func (c *Context) ImportStatements() []string {
	modules := make([]string, 0, len(c.imports))
	for from := range c.imports {
		modules = append(modules, from)
	}
	sort.Strings(modules)

	var out []string
	for _, from := range modules {
		var values, types []string
		for symbol, typeOnly := range c.imports[from] {
			if typeOnly {
				types = append(types, symbol)
			} else {
				values = append(values, symbol)
			}
		}
		sort.Strings(values)
		sort.Strings(types)
		if len(values) > 0 {
			out = append(out, fmt.Sprintf("import { %s } from '%s';", strings.Join(values, ", "), from))
		}
		if len(types) > 0 {
			out = append(out, fmt.Sprintf("import type { %s } from '%s';", strings.Join(types, ", "), from))
		}
	}
	return out
}

// Declarations returns the exported declarations in the order they were
// completed. Dependencies are completed before their dependents.
func (c *Context) Declarations() []string {
	return append([]string(nil), c.declarations...)
}

// AddDeclaration appends a rendered declaration.
func (c *Context) AddDeclaration(source string) {
	if strings.TrimSpace(source) == "" {
		return
	}
	c.declarations = append(c.declarations, source)
}

// Definitions returns the schema definitions collected through ExportAs.
func (c *Context) Definitions() *jsonschema.Properties {
	return c.definitions
}

// UseCommon records a reference to a common definition.
func (c *Context) UseCommon(name string) {
	if c.commonSeen[name] {
		return
	}
	c.commonSeen[name] = true
	c.commons = append(c.commons, name)
}

// UsedCommons lists referenced common definitions in first-use order.
func (c *Context) UsedCommons() []string {
	return append([]string(nil), c.commons...)
}

func (c *Context) pad(extra int) string {
	n := c.depth + extra
	if n <= 0 {
		return ""
	}
	return strings.Repeat(c.indent, n)
}

func (c *Context) nested(fn func() string) string {
	c.depth++
	defer func() { c.depth-- }()
	return fn()
}

func (c *Context) atRoot(fn func() string) string {
	saved := c.depth
	c.depth = 0
	defer func() { c.depth = saved }()
	return fn()
}

// exportSymbol declares g under name (and name+"Internal" when the internal
// rendition differs) and returns the symbol for v.
func (c *Context) exportSymbol(name string, g Generator, v Variant) string {
	if sym, ok := c.exported[name]; ok {
		return sym.pick(v)
	}
	sym := &exportedSymbol{external: name, internal: name}
	c.exported[name] = sym

	external := c.atRoot(func() string { return g.TypeScript(c, External) })
	internal := c.atRoot(func() string { return g.TypeScript(c, Internal) })
	if external == internal {
		c.AddDeclaration(Declare(c, name, g, External))
		return sym.pick(v)
	}

	sym.internal = name + "Internal"
	c.AddDeclaration(Declare(c, sym.external, g, External))
	c.AddDeclaration(Declare(c, sym.internal, g, Internal))
	return sym.pick(v)
}

func (s *exportedSymbol) pick(v Variant) string {
	if v == Internal {
		return s.internal
	}
	return s.external
}

func (c *Context) defineSchema(name string, build func() *jsonschema.Schema) {
	if c.definitions.Has(name) || c.defining[name] {
		return
	}
	c.defining[name] = true
	schema := build()
	delete(c.defining, name)
	c.definitions.Set(name, schema)
}
