package descriptor

import (
	"fmt"
	"strings"

	cg "github.com/goliatone/go-compgen/pkg/codegen"
	"github.com/goliatone/go-compgen/pkg/common"
)

// Kinds accepted by TypeSpec.Type.
const (
	KindString     = "string"
	KindNumber     = "number"
	KindInteger    = "integer"
	KindBoolean    = "boolean"
	KindConst      = "const"
	KindEnum       = "enum"
	KindArray      = "array"
	KindObject     = "object"
	KindUnion      = "union"
	KindCommon     = "common"
	KindExpression = "expression"
	KindBinding    = "binding"
	KindImport     = "import"
	KindSelf       = "self"
)

// TypeSpec describes one value type in a descriptor file.
type TypeSpec struct {
	Type        string         `json:"type,omitempty" yaml:"type,omitempty"`
	Title       string         `json:"title,omitempty" yaml:"title,omitempty"`
	Description string         `json:"description,omitempty" yaml:"description,omitempty"`
	Optional    bool           `json:"optional,omitempty" yaml:"optional,omitempty"`
	Default     any            `json:"default,omitempty" yaml:"default,omitempty"`
	Examples    []any          `json:"examples,omitempty" yaml:"examples,omitempty"`
	ExportAs    string         `json:"exportAs,omitempty" yaml:"exportAs,omitempty"`
	Pattern     string         `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Minimum     *float64       `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum     *float64       `json:"maximum,omitempty" yaml:"maximum,omitempty"`
	Value       any            `json:"value,omitempty" yaml:"value,omitempty"`
	Values      []any          `json:"values,omitempty" yaml:"values,omitempty"`
	Items       *TypeSpec      `json:"items,omitempty" yaml:"items,omitempty"`
	Members     []TypeSpec     `json:"members,omitempty" yaml:"members,omitempty"`
	Properties  []PropertySpec `json:"properties,omitempty" yaml:"properties,omitempty"`
	Extends     []string       `json:"extends,omitempty" yaml:"extends,omitempty"`
	Ref         string         `json:"ref,omitempty" yaml:"ref,omitempty"`
	Kind        string         `json:"kind,omitempty" yaml:"kind,omitempty"`
	Symbol      string         `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	From        string         `json:"from,omitempty" yaml:"from,omitempty"`
	TypeOnly    bool           `json:"typeOnly,omitempty" yaml:"typeOnly,omitempty"`
}

// PropertySpec is a named TypeSpec. Variant restricts the property to the
// internal or external shape; First moves it to the front.
type PropertySpec struct {
	Name     string `json:"name" yaml:"name"`
	Variant  string `json:"variant,omitempty" yaml:"variant,omitempty"`
	First    bool   `json:"first,omitempty" yaml:"first,omitempty"`
	TypeSpec `yaml:",inline"`
}

// kind resolves the effective kind, inferring it from shorthand fields.
func (s *TypeSpec) kind() string {
	if kind := strings.ToLower(strings.TrimSpace(s.Type)); kind != "" {
		return kind
	}
	switch {
	case s.Ref != "":
		return KindCommon
	case len(s.Values) > 0:
		return KindEnum
	case s.Value != nil:
		return KindConst
	case len(s.Members) > 0:
		return KindUnion
	case s.Items != nil:
		return KindArray
	case len(s.Properties) > 0:
		return KindObject
	}
	return ""
}

// builder converts specs to generators. self is the component object,
// only reachable from the exported override.
type builder struct {
	self cg.Generator
}

// Generator converts a standalone spec into a codegen generator.
func (s TypeSpec) Generator() (cg.Generator, error) {
	return builder{}.generator(s, "")
}

// Property converts the spec into a codegen property.
func (p PropertySpec) Property() (*cg.Property, error) {
	return builder{}.property(p, "")
}

func (b builder) property(p PropertySpec, path string) (*cg.Property, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, fmt.Errorf("%s: property name is required", orRoot(path))
	}
	path = join(path, name)
	typ, err := b.generator(p.TypeSpec, path)
	if err != nil {
		return nil, err
	}
	prop := cg.Prop(name, typ)
	switch strings.ToLower(strings.TrimSpace(p.Variant)) {
	case "":
	case "internal":
		prop.OnlyIn(cg.Internal)
	case "external":
		prop.OnlyIn(cg.External)
	default:
		return nil, fmt.Errorf("%s: unknown variant %q", path, p.Variant)
	}
	if p.First {
		prop.InsertFirst()
	}
	return prop, nil
}

func (b builder) properties(specs []PropertySpec, path string) ([]*cg.Property, error) {
	out := make([]*cg.Property, 0, len(specs))
	seen := make(map[string]struct{}, len(specs))
	for _, spec := range specs {
		prop, err := b.property(spec, path)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[prop.Name]; dup {
			return nil, fmt.Errorf("%s: duplicate property %q", orRoot(path), prop.Name)
		}
		seen[prop.Name] = struct{}{}
		out = append(out, prop)
	}
	return out, nil
}

func (b builder) generator(s TypeSpec, path string) (cg.Generator, error) {
	g, err := b.bare(s, path)
	if err != nil {
		return nil, err
	}
	return cg.With(g, b.options(s)...), nil
}

func (b builder) options(s TypeSpec) []cg.Opt {
	var opts []cg.Opt
	if s.Title != "" {
		opts = append(opts, cg.Title(s.Title))
	}
	if s.Description != "" {
		opts = append(opts, cg.Description(s.Description))
	}
	if len(s.Examples) > 0 {
		opts = append(opts, cg.Examples(s.Examples...))
	}
	switch {
	case s.Default != nil:
		opts = append(opts, cg.OptionalDefault(s.Default))
	case s.Optional:
		opts = append(opts, cg.Optional())
	}
	if s.ExportAs != "" {
		opts = append(opts, cg.ExportAs(s.ExportAs))
	}
	return opts
}

func (b builder) bare(s TypeSpec, path string) (cg.Generator, error) {
	at := orRoot(path)
	switch kind := s.kind(); kind {
	case KindString:
		str := cg.Str()
		if s.Pattern != "" {
			str.Pattern(s.Pattern)
		}
		return str, nil
	case KindNumber, KindInteger:
		num := cg.Num()
		if kind == KindInteger {
			num = cg.Int()
		}
		if s.Minimum != nil {
			num.Min(*s.Minimum)
		}
		if s.Maximum != nil {
			num.Max(*s.Maximum)
		}
		return num, nil
	case KindBoolean:
		return cg.Bool(), nil
	case KindConst:
		if s.Value == nil {
			return nil, fmt.Errorf("%s: const requires value", at)
		}
		return cg.Const(s.Value), nil
	case KindEnum:
		if len(s.Values) == 0 {
			return nil, fmt.Errorf("%s: enum requires values", at)
		}
		return cg.Enum(s.Values...), nil
	case KindArray:
		if s.Items == nil {
			return nil, fmt.Errorf("%s: array requires items", at)
		}
		items, err := b.generator(*s.Items, join(path, "[]"))
		if err != nil {
			return nil, err
		}
		return cg.Arr(items), nil
	case KindObject:
		props, err := b.properties(s.Properties, path)
		if err != nil {
			return nil, err
		}
		obj := cg.Obj(props...)
		for _, name := range s.Extends {
			if !common.Has(name) {
				return nil, fmt.Errorf("%s: unknown common definition %q", at, name)
			}
			obj.Extends(cg.Common(name))
		}
		return obj, nil
	case KindUnion:
		if len(s.Members) == 0 {
			return nil, fmt.Errorf("%s: union requires members", at)
		}
		union := cg.Union()
		for i, member := range s.Members {
			g, err := b.generator(member, join(path, fmt.Sprintf("|%d", i)))
			if err != nil {
				return nil, err
			}
			union.Add(g)
		}
		return union, nil
	case KindCommon:
		if !common.Has(s.Ref) {
			return nil, fmt.Errorf("%s: unknown common definition %q", at, s.Ref)
		}
		return cg.Common(s.Ref), nil
	case KindExpression:
		exprKind, err := cg.ParseExprKind(s.Kind)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", at, err)
		}
		return cg.Expr(exprKind), nil
	case KindBinding:
		return cg.DataModelBinding(), nil
	case KindImport:
		if s.Symbol == "" || s.From == "" {
			return nil, fmt.Errorf("%s: import requires symbol and from", at)
		}
		if s.TypeOnly {
			return cg.ImportType(s.Symbol, s.From), nil
		}
		return cg.Import(s.Symbol, s.From), nil
	case KindSelf:
		if b.self == nil {
			return nil, fmt.Errorf("%s: self is only valid in the exported override", at)
		}
		return b.self, nil
	case "":
		return nil, fmt.Errorf("%s: type is required", at)
	default:
		return nil, fmt.Errorf("%s: unknown type %q", at, s.Type)
	}
}

func join(path, name string) string {
	if path == "" {
		return name
	}
	if strings.HasPrefix(name, "[") || strings.HasPrefix(name, "|") {
		return path + name
	}
	return path + "." + name
}

func orRoot(path string) string {
	if path == "" {
		return "<root>"
	}
	return path
}
