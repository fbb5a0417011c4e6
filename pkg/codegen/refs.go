package codegen

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-compgen/pkg/jsonschema"
)

// Reference points at a shared common definition by name.
type Reference struct {
	Annotations
	Name string
}

// Common returns a reference to the common definition name.
func Common(name string) *Reference {
	return &Reference{Name: name}
}

func (r *Reference) TypeScript(ctx *Context, _ Variant) string {
	ctx.UseCommon(r.Name)
	if ctx.CommonPath() == "" {
		return r.Name
	}
	return ctx.Import(ctx.CommonPath(), r.Name, true)
}

func (r *Reference) JSONSchema(ctx *Context) *jsonschema.Schema {
	ctx.UseCommon(r.Name)
	return jsonschema.Ref(r.Name)
}

// ImportedSymbol is a TypeScript symbol imported from another module. It
// has no JSON Schema counterpart unless Schema is set.
type ImportedSymbol struct {
	Annotations
	Symbol   string
	From     string
	TypeOnly bool
	Schema   *jsonschema.Schema
}

// Import returns a value import of symbol from module.
func Import(symbol, from string) *ImportedSymbol {
	return &ImportedSymbol{Symbol: symbol, From: from}
}

// ImportType returns a type-only import of symbol from module.
func ImportType(symbol, from string) *ImportedSymbol {
	return &ImportedSymbol{Symbol: symbol, From: from, TypeOnly: true}
}

func (i *ImportedSymbol) TypeScript(ctx *Context, _ Variant) string {
	return ctx.Import(i.From, i.Symbol, i.TypeOnly)
}

func (i *ImportedSymbol) JSONSchema(*Context) *jsonschema.Schema {
	if i.Schema == nil {
		return &jsonschema.Schema{}
	}
	copied := *i.Schema
	return &copied
}

// ExprKind names the value type an expression resolves to.
type ExprKind string

const (
	ExprBoolean ExprKind = "Boolean"
	ExprString  ExprKind = "String"
	ExprNumber  ExprKind = "Number"
)

// ParseExprKind accepts boolean, string or number in any case.
func ParseExprKind(value string) (ExprKind, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "boolean", "bool":
		return ExprBoolean, nil
	case "string", "str":
		return ExprString, nil
	case "number", "num":
		return ExprNumber, nil
	}
	return "", fmt.Errorf("codegen: unknown expression kind %q", value)
}

// ExpressionsModule is the module expression helper types import from.
const ExpressionsModule = "src/features/expressions/types"

// Expression is a value that may be given either directly or as an
// expression evaluating to Kind.
type Expression struct {
	Annotations
	Kind ExprKind
}

// Expr returns an expression typed value.
func Expr(kind ExprKind) *Expression {
	return &Expression{Kind: kind}
}

func (e *Expression) TypeScript(ctx *Context, _ Variant) string {
	wrapper := ctx.Import(ExpressionsModule, "ExprValToActualOrExpr", true)
	val := ctx.Import(ExpressionsModule, "ExprVal", true)
	return fmt.Sprintf("%s<%s.%s>", wrapper, val, e.Kind)
}

func (e *Expression) JSONSchema(ctx *Context) *jsonschema.Schema {
	name := string(e.Kind) + "Expression"
	ctx.UseCommon(name)
	return jsonschema.Ref(name)
}

// DataModelBinding references a raw data model binding (a dotted path or a
// data type reference).
func DataModelBinding() *Reference {
	return Common("IRawDataModelBinding")
}

// TextResource returns an optional text resource binding property.
func TextResource(name, title, description string) *Property {
	return Prop(name, With(Str(), Optional(), Title(title), Description(description)))
}
