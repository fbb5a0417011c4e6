package openapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-compgen/pkg/jsonschema"
)

// Version is the OpenAPI version written to exported documents.
const Version = "3.0.3"

// Names of the schemas the exporter adds next to the layout definitions.
const (
	LayoutSchema           = "Layout"
	ValidationResultSchema = "ValidationResult"
)

const (
	definitionsPrefix = "#/definitions/"
	componentsPrefix  = "#/components/schemas/"
)

// Formats accepted by Marshal.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Option customises an export.
type Option func(*exporter)

// WithTitle sets info.title. Defaults to the layout document title.
func WithTitle(title string) Option {
	return func(e *exporter) {
		e.title = strings.TrimSpace(title)
	}
}

// WithVersion sets info.version.
func WithVersion(version string) Option {
	return func(e *exporter) {
		if trimmed := strings.TrimSpace(version); trimmed != "" {
			e.version = trimmed
		}
	}
}

// WithValidatePath adds a POST operation at path that accepts a layout and
// answers with a validation result, mirroring the schema server.
func WithValidatePath(path string) Option {
	return func(e *exporter) {
		e.validatePath = strings.TrimSpace(path)
	}
}

// WithoutValidation skips the kin-openapi document validation.
func WithoutValidation() Option {
	return func(e *exporter) {
		e.skipValidation = true
	}
}

type exporter struct {
	title          string
	version        string
	validatePath   string
	skipValidation bool
}

// Export converts doc into an OpenAPI document whose components.schemas hold
// every layout definition, the AnyComponent dispatcher and the Layout root.
func Export(ctx context.Context, doc *jsonschema.Document, options ...Option) (*openapi3.T, error) {
	if ctx == nil {
		return nil, errors.New("openapi: context is required")
	}
	if doc == nil {
		return nil, errors.New("openapi: layout document is required")
	}
	e := &exporter{version: "1.0.0"}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}

	root := doc.Schema()
	title := e.title
	if title == "" {
		title = root.Title
	}

	schemas := make(openapi3.Schemas, root.Definitions.Len()+2)
	for _, name := range root.Definitions.Keys() {
		if name == jsonschema.AnyComponentDefinition {
			continue
		}
		definition, _ := root.Definitions.Get(name)
		schemas[name] = convert(definition)
	}
	schemas[jsonschema.AnyComponentDefinition] = openapi3.NewSchemaRef("", anyComponent(doc))
	if data, ok := root.Properties.Get("data"); ok {
		schemas[LayoutSchema] = openapi3.NewSchemaRef("", &openapi3.Schema{
			Type:        &openapi3.Types{openapi3.TypeObject},
			Title:       root.Title,
			Description: root.Description,
			Required:    []string{"data"},
			Properties:  openapi3.Schemas{"data": convert(data)},
		})
	}

	spec := &openapi3.T{
		OpenAPI: Version,
		Info: &openapi3.Info{
			Title:       title,
			Description: root.Description,
			Version:     e.version,
		},
		Paths:      openapi3.NewPaths(),
		Components: &openapi3.Components{Schemas: schemas},
	}
	if e.validatePath != "" {
		schemas[ValidationResultSchema] = openapi3.NewSchemaRef("", validationResult())
		spec.AddOperation(e.validatePath, "POST", validateOperation())
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	if err := loader.ResolveRefsIn(spec, nil); err != nil {
		return nil, fmt.Errorf("openapi: resolve refs: %w", err)
	}
	if e.skipValidation {
		return spec, nil
	}
	if err := spec.Validate(ctx, openapi3.DisableExamplesValidation(), openapi3.DisableSchemaDefaultsValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return spec, nil
}

// Marshal encodes spec as indented JSON or YAML.
func Marshal(spec *openapi3.T, format string) ([]byte, error) {
	if spec == nil {
		return nil, errors.New("openapi: document is required")
	}
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		data, err := json.MarshalIndent(spec, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("openapi: encode json: %w", err)
		}
		return append(data, '\n'), nil
	case FormatYAML, "yml":
		data, err := yaml.Marshal(spec)
		if err != nil {
			return nil, fmt.Errorf("openapi: encode yaml: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("openapi: unsupported format %q", format)
	}
}

// convert maps a draft-07 node onto an OpenAPI 3.0 schema reference.
func convert(s *jsonschema.Schema) *openapi3.SchemaRef {
	if s == nil {
		return openapi3.NewSchemaRef("", &openapi3.Schema{})
	}
	if s.Ref != "" {
		ref := rewriteRef(s.Ref)
		if !hasRefSiblings(s) {
			return openapi3.NewSchemaRef(ref, nil)
		}
		// $ref siblings are ignored in 3.0, so keep them next to an allOf.
		value := annotations(s)
		value.AllOf = openapi3.SchemaRefs{openapi3.NewSchemaRef(ref, nil)}
		return openapi3.NewSchemaRef("", value)
	}

	out := annotations(s)
	switch s.Type {
	case "":
	case "null":
		// 3.0 has no null type.
		out.Nullable = true
	default:
		out.Type = &openapi3.Types{s.Type}
	}
	if s.Const != nil {
		out.Enum = []any{s.Const.Value}
	}
	if len(s.Enum) > 0 {
		out.Enum = append([]any(nil), s.Enum...)
	}
	out.Pattern = s.Pattern
	out.Min = s.Minimum
	out.Max = s.Maximum
	if s.Items != nil {
		out.Items = convert(s.Items)
	} else if s.Type == "array" {
		// 3.0 requires items on every array.
		out.Items = openapi3.NewSchemaRef("", &openapi3.Schema{})
	}
	if s.Properties != nil && s.Properties.Len() > 0 {
		out.Properties = make(openapi3.Schemas, s.Properties.Len())
		for _, name := range s.Properties.Keys() {
			child, _ := s.Properties.Get(name)
			out.Properties[name] = convert(child)
		}
	}
	out.Required = append([]string(nil), s.Required...)
	if s.AdditionalProperties != nil {
		has := *s.AdditionalProperties
		out.AdditionalProperties = openapi3.AdditionalProperties{Has: &has}
	}
	out.AllOf = convertAll(s.AllOf)
	out.AnyOf = convertAll(s.AnyOf)
	out.OneOf = convertAll(s.OneOf)
	return openapi3.NewSchemaRef("", out)
}

func annotations(s *jsonschema.Schema) *openapi3.Schema {
	out := &openapi3.Schema{
		Title:       s.Title,
		Description: s.Description,
	}
	if s.Default != nil {
		out.Default = s.Default.Value
	}
	if len(s.Examples) > 0 {
		out.Example = s.Examples[0]
	}
	return out
}

func convertAll(items []*jsonschema.Schema) openapi3.SchemaRefs {
	if len(items) == 0 {
		return nil
	}
	out := make(openapi3.SchemaRefs, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	return out
}

func hasRefSiblings(s *jsonschema.Schema) bool {
	return s.Title != "" || s.Description != "" || s.Default != nil || len(s.Examples) > 0
}

func rewriteRef(ref string) string {
	if strings.HasPrefix(ref, definitionsPrefix) {
		return componentsPrefix + strings.TrimPrefix(ref, definitionsPrefix)
	}
	return ref
}

// anyComponent replaces the if/then dispatcher with a discriminated oneOf.
func anyComponent(doc *jsonschema.Document) *openapi3.Schema {
	types := doc.Types()
	sort.Strings(types)
	out := &openapi3.Schema{
		Title:       "Any component",
		Description: "One of the registered layout components, selected by its type.",
	}
	if len(types) == 0 {
		out.Type = &openapi3.Types{openapi3.TypeObject}
		return out
	}
	mapping := make(openapi3.StringMap, len(types))
	for _, typ := range types {
		definition, _ := doc.ComponentDefinition(typ)
		ref := componentsPrefix + definition
		out.OneOf = append(out.OneOf, openapi3.NewSchemaRef(ref, nil))
		mapping[typ] = ref
	}
	out.Discriminator = &openapi3.Discriminator{PropertyName: "type", Mapping: mapping}
	return out
}

func validationResult() *openapi3.Schema {
	issue := &openapi3.Schema{
		Type:     &openapi3.Types{openapi3.TypeObject},
		Required: []string{"message"},
		Properties: openapi3.Schemas{
			"path":    openapi3.NewSchemaRef("", openapi3.NewStringSchema()),
			"field":   openapi3.NewSchemaRef("", openapi3.NewStringSchema()),
			"message": openapi3.NewSchemaRef("", openapi3.NewStringSchema()),
		},
	}
	return &openapi3.Schema{
		Type:     &openapi3.Types{openapi3.TypeObject},
		Required: []string{"valid"},
		Properties: openapi3.Schemas{
			"valid":  openapi3.NewSchemaRef("", openapi3.NewBoolSchema()),
			"issues": openapi3.NewSchemaRef("", openapi3.NewArraySchema().WithItems(issue)),
		},
	}
}

func validateOperation() *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = "validateLayout"
	op.Summary = "Validate a layout file"
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithJSONSchemaRef(openapi3.NewSchemaRef(componentsPrefix+LayoutSchema, nil)),
	}
	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().
			WithDescription("Validation result").
			WithJSONSchemaRef(openapi3.NewSchemaRef(componentsPrefix+ValidationResultSchema, nil))}),
		openapi3.WithStatus(400, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription("Malformed request")}),
	)
	return op
}
