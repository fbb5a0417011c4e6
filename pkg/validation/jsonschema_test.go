package validation

import (
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-compgen/pkg/descriptor"
	"github.com/goliatone/go-compgen/pkg/pipeline"
	"github.com/goliatone/go-compgen/pkg/testsupport"
)

var (
	layoutOnce   sync.Once
	layoutSchema []byte
	layoutErr    error
)

func defaultLayoutSchema(t *testing.T) []byte {
	t.Helper()
	layoutOnce.Do(func() {
		set, err := descriptor.Default()
		if err != nil {
			layoutErr = err
			return
		}
		result, err := pipeline.New().Generate(testsupport.Context(t), pipeline.Request{Descriptors: set, DryRun: true})
		if err != nil {
			layoutErr = err
			return
		}
		file, _ := result.File(pipeline.DefaultSchemaFile)
		layoutSchema = file.Content
	})
	if layoutErr != nil {
		t.Fatalf("layout schema: %v", layoutErr)
	}
	return layoutSchema
}

func TestValidator_ValidLayout(t *testing.T) {
	validator, err := Compile(defaultLayoutSchema(t))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	result := validator.Validate([]byte(`{
  "data": {
    "layout": [
      {"id": "intro-text", "type": "Paragraph", "textResourceBindings": {"title": "Welcome"}},
      {"id": "name", "type": "Input", "dataModelBindings": {"simpleBinding": "person.name"}}
    ]
  }
}`))
	if !result.Valid {
		t.Fatalf("expected layout to be valid: %#v", result.Issues)
	}
}

func TestValidator_ReportsLocations(t *testing.T) {
	validator, err := Compile(defaultLayoutSchema(t))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	result := validator.Validate([]byte(`{"data": {"layout": [{"type": "Paragraph"}, {"id": "x1", "type": "Nope"}]}}`))
	if result.Valid {
		t.Fatalf("expected layout to be invalid")
	}

	var missingID, unknownType bool
	for _, issue := range result.Issues {
		if issue.Field == "data.layout[0]" && strings.Contains(issue.Message, "missing property") {
			missingID = true
		}
		if issue.Path == "/data/layout/1/type" && issue.Field == "data.layout[1].type" {
			unknownType = true
		}
	}
	if !missingID || !unknownType {
		t.Fatalf("unexpected issues: %#v", result.Issues)
	}
}

func TestValidator_MalformedJSON(t *testing.T) {
	validator, err := Compile(defaultLayoutSchema(t))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	result := validator.Validate([]byte(`{"data":`))
	if result.Valid || len(result.Issues) != 1 || result.Issues[0].Path != "" {
		t.Fatalf("expected one unlocated issue, got %#v", result)
	}
}

func TestCompile_RejectsBrokenSchema(t *testing.T) {
	if _, err := Compile([]byte(`{"type": 12}`)); err == nil {
		t.Fatalf("expected compile error")
	}
	if _, err := Compile([]byte(`not json`)); err == nil {
		t.Fatalf("expected decode error")
	}
	if _, err := CompileDocument(nil); err == nil {
		t.Fatalf("expected error for nil document")
	}
}

func TestFieldPathFromPointer(t *testing.T) {
	cases := map[string]string{
		"":                              "",
		"/":                             "",
		"/data":                         "data",
		"/data/layout/0/id":             "data.layout[0].id",
		"#/data/layout/2/options/1":     "data.layout[2].options[1]",
		"/data/layout/0/textRes~1title": "data.layout[0].textRes/title",
	}
	got := make(map[string]string, len(cases))
	for pointer := range cases {
		got[pointer] = fieldPathFromPointer(pointer)
	}
	if diff := cmp.Diff(cases, got); diff != "" {
		t.Fatalf("field paths mismatch (-want +got):\n%s", diff)
	}
}
