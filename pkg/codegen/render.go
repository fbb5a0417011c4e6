package codegen

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goliatone/go-compgen/pkg/jsonschema"
)

// RenderTypeScript renders g for variant v, replacing exported values with
// their declared symbol.
func RenderTypeScript(ctx *Context, g Generator, v Variant) string {
	if g == nil {
		return "unknown"
	}
	if name := g.Meta().ExportAs; name != "" {
		return ctx.exportSymbol(name, g, v)
	}
	return g.TypeScript(ctx, v)
}

// RenderSchema renders the external JSON Schema for g. Exported values are
// stored as definitions and referenced with $ref.
func RenderSchema(ctx *Context, g Generator) *jsonschema.Schema {
	if g == nil {
		return &jsonschema.Schema{}
	}
	meta := g.Meta()
	if meta.ExportAs != "" {
		ctx.defineSchema(meta.ExportAs, func() *jsonschema.Schema {
			return annotate(g.JSONSchema(ctx), meta)
		})
		return jsonschema.Ref(meta.ExportAs)
	}
	return annotate(g.JSONSchema(ctx), meta)
}

func annotate(schema *jsonschema.Schema, meta *Annotations) *jsonschema.Schema {
	if schema == nil {
		schema = &jsonschema.Schema{}
	}
	if meta.Title != "" {
		schema.Title = meta.Title
	}
	if meta.Description != "" {
		schema.Description = meta.Description
	}
	if meta.HasDefault {
		schema.Default = jsonschema.Lit(meta.Default)
	}
	if len(meta.Examples) > 0 {
		schema.Examples = append([]any(nil), meta.Examples...)
	}
	return schema
}

// Declare renders g as an exported TypeScript declaration named name. Objects
// whose bases can all be named become interfaces; everything else becomes a
// type alias.
func Declare(ctx *Context, name string, g Generator, v Variant) string {
	doc := DocComment(g.Meta(), "")
	if obj, ok := g.(*Object); ok && obj.interfaceable() {
		return doc + Interface(ctx, name, obj, v)
	}
	return doc + TypeAlias(name, ctx.atRoot(func() string { return g.TypeScript(ctx, v) }))
}

// Interface renders obj as `export interface name extends ... { ... }`.
func Interface(ctx *Context, name string, obj *Object, v Variant) string {
	return ctx.atRoot(func() string {
		var bases []string
		for _, base := range obj.extends {
			bases = append(bases, RenderTypeScript(ctx, base, v))
		}
		head := "export interface " + name
		if len(bases) > 0 {
			head += " extends " + strings.Join(bases, ", ")
		}
		body := obj.body(ctx, v)
		return head + " " + body
	})
}

// TypeAlias renders `export type name = body;`.
func TypeAlias(name, body string) string {
	return fmt.Sprintf("export type %s = %s;", name, body)
}

// DocComment renders the title and description of meta as a JSDoc block at
// the given indentation, or an empty string.
func DocComment(meta *Annotations, pad string) string {
	if meta == nil {
		return ""
	}
	var lines []string
	if meta.Title != "" {
		lines = append(lines, meta.Title)
	}
	if meta.Description != "" {
		lines = append(lines, meta.Description)
	}
	if len(lines) == 0 {
		return ""
	}
	text := strings.ReplaceAll(strings.Join(lines, ": "), "*/", "*\\/")
	return pad + "/** " + text + " */\n"
}

// Literal renders v as a TypeScript literal. Strings are single quoted.
func Literal(v any) string {
	switch value := v.(type) {
	case nil:
		return "null"
	case string:
		return quote(value)
	case bool:
		return strconv.FormatBool(value)
	case int:
		return strconv.Itoa(value)
	case int64:
		return strconv.FormatInt(value, 10)
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return "'" + s + "'"
}

var identifierPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// PropertyName quotes name when it is not a valid identifier.
func PropertyName(name string) string {
	if identifierPattern.MatchString(name) {
		return name
	}
	return quote(name)
}

// IsIdentifier reports whether name can be used as a bare TS identifier.
func IsIdentifier(name string) bool {
	return identifierPattern.MatchString(name)
}
