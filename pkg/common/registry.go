package common

import (
	"errors"
	"fmt"
	"strings"

	cg "github.com/goliatone/go-compgen/pkg/codegen"
	"github.com/goliatone/go-compgen/pkg/jsonschema"
)

// ErrUnknownDefinition is returned when a name is not part of the library.
var ErrUnknownDefinition = errors.New("common: unknown definition")

type entry struct {
	name  string
	build func() cg.Generator
}

var index = func() map[string]int {
	out := make(map[string]int, len(library))
	for i, e := range library {
		out[e.name] = i
	}
	return out
}()

// Names lists every shared definition in declaration order.
func Names() []string {
	out := make([]string, len(library))
	for i, e := range library {
		out[i] = e.name
	}
	return out
}

// Has reports whether name is a shared definition.
func Has(name string) bool {
	_, ok := index[name]
	return ok
}

// Lookup builds a fresh generator for name, exported under its own name.
func Lookup(name string) (cg.Generator, error) {
	i, ok := index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDefinition, name)
	}
	return cg.With(library[i].build(), cg.ExportAs(name)), nil
}

// GenerateTypeScript renders the common definitions module. References
// between definitions resolve locally.
func GenerateTypeScript() string {
	ctx := cg.NewContext(cg.WithCommonPath(""))
	for _, e := range library {
		g, _ := Lookup(e.name)
		cg.RenderTypeScript(ctx, g, cg.External)
	}

	var b strings.Builder
	if imports := ctx.ImportStatements(); len(imports) > 0 {
		b.WriteString(strings.Join(imports, "\n"))
		b.WriteString("\n\n")
	}
	b.WriteString(strings.Join(ctx.Declarations(), "\n\n"))
	b.WriteString("\n")
	return b.String()
}

// Definitions renders the JSON Schema definition of every shared definition
// in declaration order.
func Definitions() *jsonschema.Properties {
	ctx := cg.NewContext()
	for _, e := range library {
		g, _ := Lookup(e.name)
		cg.RenderSchema(ctx, g)
	}

	collected := ctx.Definitions()
	out := jsonschema.NewProperties()
	for _, e := range library {
		if schema, ok := collected.Get(e.name); ok {
			out.Set(e.name, schema)
		}
	}
	for _, key := range collected.Keys() {
		if !out.Has(key) {
			schema, _ := collected.Get(key)
			out.Set(key, schema)
		}
	}
	return out
}
