package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	pkgjsonschema "github.com/goliatone/go-compgen/pkg/jsonschema"
)

// SchemaResource is the location the layout schema is registered under when
// it carries no $id of its own.
const SchemaResource = "layout.schema.json"

// SchemaIssue represents a validation error with optional location metadata.
type SchemaIssue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SchemaValidationResult captures the outcome of validating one layout file.
type SchemaValidationResult struct {
	Valid  bool          `json:"valid"`
	Issues []SchemaIssue `json:"issues,omitempty"`
}

// Validator checks layout documents against a compiled layout schema. It is
// safe for concurrent use.
type Validator struct {
	schema *jsonschema.Schema
}

// Compile parses and compiles a draft-07 layout schema.
func Compile(schemaJSON []byte) (*Validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("validation: decode schema: %w", err)
	}
	location := SchemaResource
	if root, ok := doc.(map[string]any); ok {
		if id, ok := root["$id"].(string); ok && strings.TrimSpace(id) != "" {
			location = id
		}
	}

	compiler := jsonschema.NewCompiler()
	compiler.DefaultDraft(jsonschema.Draft7)
	if err := compiler.AddResource(location, doc); err != nil {
		return nil, fmt.Errorf("validation: add schema: %w", err)
	}
	schema, err := compiler.Compile(location)
	if err != nil {
		return nil, fmt.Errorf("validation: compile schema: %w", err)
	}
	return &Validator{schema: schema}, nil
}

// CompileDocument compiles the root schema assembled by doc.
func CompileDocument(doc *pkgjsonschema.Document) (*Validator, error) {
	if doc == nil {
		return nil, errors.New("validation: document is required")
	}
	data, err := json.Marshal(doc.Schema())
	if err != nil {
		return nil, fmt.Errorf("validation: encode document: %w", err)
	}
	return Compile(data)
}

// Validate decodes layout and validates it. Malformed JSON is reported as a
// single issue without a location.
func (v *Validator) Validate(layout []byte) SchemaValidationResult {
	value, err := jsonschema.UnmarshalJSON(bytes.NewReader(layout))
	if err != nil {
		return SchemaValidationResult{Issues: []SchemaIssue{{Message: "invalid JSON: " + err.Error()}}}
	}
	return v.ValidateValue(value)
}

// ValidateValue validates an already decoded layout. Numbers must be decoded
// the way jsonschema.UnmarshalJSON does it.
func (v *Validator) ValidateValue(value any) SchemaValidationResult {
	err := v.schema.Validate(value)
	if err == nil {
		return SchemaValidationResult{Valid: true}
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return SchemaValidationResult{Issues: []SchemaIssue{{Message: strings.TrimSpace(err.Error())}}}
	}
	return SchemaValidationResult{Issues: issuesFromError(verr)}
}

// issuesFromError flattens the error tree into its leaf failures, sorted by
// location and deduplicated.
func issuesFromError(verr *jsonschema.ValidationError) []SchemaIssue {
	var issues []SchemaIssue
	seen := make(map[SchemaIssue]struct{})
	var walk func(unit jsonschema.OutputUnit)
	walk = func(unit jsonschema.OutputUnit) {
		for _, child := range unit.Errors {
			walk(child)
		}
		if len(unit.Errors) > 0 || unit.Error == nil {
			return
		}
		issue := SchemaIssue{
			Path:    unit.InstanceLocation,
			Field:   fieldPathFromPointer(unit.InstanceLocation),
			Message: strings.TrimSpace(unit.Error.String()),
		}
		if _, ok := seen[issue]; ok {
			return
		}
		seen[issue] = struct{}{}
		issues = append(issues, issue)
	}
	walk(*verr.DetailedOutput())

	if len(issues) == 0 {
		issues = append(issues, SchemaIssue{Message: strings.TrimSpace(verr.Error())})
	}
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Path != issues[j].Path {
			return issues[i].Path < issues[j].Path
		}
		return issues[i].Message < issues[j].Message
	})
	return issues
}

// fieldPathFromPointer turns an instance pointer such as /data/layout/0/id
// into data.layout[0].id.
func fieldPathFromPointer(pointer string) string {
	trimmed := strings.TrimSpace(pointer)
	trimmed = strings.TrimPrefix(trimmed, "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return ""
	}

	var out strings.Builder
	for _, part := range strings.Split(trimmed, "/") {
		segment := strings.ReplaceAll(part, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		if isNumeric(segment) {
			out.WriteString("[" + segment + "]")
			continue
		}
		if out.Len() > 0 {
			out.WriteByte('.')
		}
		out.WriteString(segment)
	}
	return out.String()
}

func isNumeric(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
