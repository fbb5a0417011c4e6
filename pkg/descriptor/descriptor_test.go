package descriptor_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-compgen/pkg/component"
	"github.com/goliatone/go-compgen/pkg/descriptor"
	"github.com/goliatone/go-compgen/pkg/pipeline"
	"github.com/goliatone/go-compgen/pkg/testsupport"
	"github.com/goliatone/go-compgen/pkg/validation"
)

const noteYAML = `
type: Note
category: Presentation
capabilities:
  renderInTable: false
properties:
  - name: body
    type: string
    optional: true
`

const noteJSON = `{
  "type": "Note",
  "category": "Presentation",
  "capabilities": {"renderInTable": false},
  "properties": [{"name": "body", "type": "string", "optional": true}]
}`

const noteCUE = `
type:     "Note"
category: "Presentation"
capabilities: renderInTable: false
properties: [{name: "body", type: "string", optional: true}]
`

func TestParse_FormatsAgree(t *testing.T) {
	var parsed []*descriptor.Descriptor
	for source, data := range map[string]string{
		"note.yaml": noteYAML,
		"note.json": noteJSON,
		"note.cue":  noteCUE,
	} {
		desc, err := descriptor.Parse([]byte(data), source)
		if err != nil {
			t.Fatalf("parse %s: %v", source, err)
		}
		if desc.Source != source {
			t.Fatalf("expected source %q, got %q", source, desc.Source)
		}
		desc.Source = ""
		parsed = append(parsed, desc)
	}
	for _, desc := range parsed[1:] {
		if diff := cmp.Diff(parsed[0], desc); diff != "" {
			t.Fatalf("formats disagree (-want +got):\n%s", diff)
		}
	}
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"broken.yaml": "type: [unclosed",
		"notype.yaml": "category: Form\n",
		"open.cue":    "type: string\ncategory: \"Form\"\n",
		"invalid.cue": "type: \"A\" & \"B\"\n",
	}
	for source, data := range cases {
		if _, err := descriptor.Parse([]byte(data), source); err == nil {
			t.Fatalf("%s: expected parse error", source)
		}
	}
}

func TestLoadFS_DuplicateType(t *testing.T) {
	fsys := testsupport.MapFS(map[string]string{
		"a/note.yaml": noteYAML,
		"b/note.json": noteJSON,
		"README.md":   "ignored",
	})
	_, err := descriptor.LoadFS(fsys)
	if !errors.Is(err, descriptor.ErrDuplicateType) {
		t.Fatalf("expected ErrDuplicateType, got %v", err)
	}
}

func TestLoadFS_NilIsEmpty(t *testing.T) {
	set, err := descriptor.LoadFS(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("expected empty set, got %d", set.Len())
	}
}

func TestLoadDirs(t *testing.T) {
	dir := t.TempDir()
	testsupport.WriteFiles(t, dir, map[string]string{
		"note.cue":        noteCUE,
		"nested/tip.yaml": "type: Tip\ncategory: Presentation\n",
	})
	set, err := descriptor.LoadDirs(dir)
	if err != nil {
		t.Fatalf("load dirs: %v", err)
	}
	if diff := cmp.Diff([]string{"Note", "Tip"}, set.Types()); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
	desc, _ := set.Lookup("Tip")
	if !strings.HasPrefix(desc.Source, dir) {
		t.Fatalf("expected source below %s, got %s", dir, desc.Source)
	}
}

func TestDefault_BuildsAndGenerates(t *testing.T) {
	set, err := descriptor.Default()
	if err != nil {
		t.Fatalf("default set: %v", err)
	}
	want := []string{"Button", "Checkboxes", "Group", "Header", "Image", "Input", "Paragraph", "TextArea"}
	if diff := cmp.Diff(want, set.Types()); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
	if err := set.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	configs, err := set.BuildAll()
	if err != nil {
		t.Fatalf("build all: %v", err)
	}
	for _, cfg := range configs {
		if _, err := cfg.GenerateConfigFile(); err != nil {
			t.Fatalf("%s config: %v", cfg.Type(), err)
		}
		if _, err := cfg.GenerateDefClass(); err != nil {
			t.Fatalf("%s def: %v", cfg.Type(), err)
		}
		if _, err := cfg.ToJSONSchema(); err != nil {
			t.Fatalf("%s schema: %v", cfg.Type(), err)
		}
	}
}

func TestBuild_InputFromDefaults(t *testing.T) {
	set, err := descriptor.Default()
	if err != nil {
		t.Fatalf("default set: %v", err)
	}
	cfg, err := set.Build("Input")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if cfg.Category() != component.CategoryForm {
		t.Fatalf("expected Form, got %s", cfg.Category())
	}
	if !cfg.Behaviors().IsSummarizable || !cfg.Behaviors().CanHaveLabel {
		t.Fatalf("unexpected behaviors %+v", cfg.Behaviors())
	}

	out, err := cfg.GenerateConfigFile()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, want := range []string{
		"export type InputVariant = 'text' | 'search';",
		"variant?: InputVariant;",
		"summaryOverrides: ISummaryOverridesCommon;",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}

	schema, err := cfg.ToJSONSchema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if !schema.Definitions.Has("InputVariant") {
		t.Fatalf("expected InputVariant definition, got %v", schema.Definitions.Keys())
	}
}

func TestBuild_SelectionAndOverrides(t *testing.T) {
	set, err := descriptor.Default()
	if err != nil {
		t.Fatalf("default set: %v", err)
	}
	cfg, err := set.Build("Checkboxes")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !cfg.Behaviors().CanHaveOptions {
		t.Fatalf("expected options behaviour")
	}
	out, err := cfg.GenerateConfigFile()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	for _, want := range []string{
		"export interface CheckboxesSummaryOverrides extends ISummaryOverridesCommon {",
		"summaryOverrides: CheckboxesSummaryOverrides;",
		"summaryOverridesWithRef: CheckboxesSummaryOverridesWithRef;",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
}

func TestBuild_ExportedOverride(t *testing.T) {
	desc := &descriptor.Descriptor{
		Type:     "Legacy",
		Category: "Presentation",
		Properties: []descriptor.PropertySpec{
			{Name: "body", TypeSpec: descriptor.TypeSpec{Type: "string"}},
		},
		Exported: &descriptor.TypeSpec{
			Type:    "union",
			Members: []descriptor.TypeSpec{{Type: "self"}, {Ref: "IPageBreak"}},
		},
	}
	cfg, err := descriptor.Build(desc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !cfg.Frozen() {
		t.Fatalf("expected override to freeze the config")
	}
	schema, err := cfg.ToJSONSchema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	if len(schema.AnyOf) != 2 {
		t.Fatalf("expected two union members, got %s", testsupport.MustJSON(t, schema))
	}
}

func TestBuild_Errors(t *testing.T) {
	cases := map[string]*descriptor.Descriptor{
		"unknown category": {Type: "X", Category: "Widget"},
		"bindings on presentation": {
			Type: "X", Category: "Presentation",
			DataModel: []descriptor.TypeSpec{{Ref: "IDataModelBindingsSimple"}},
		},
		"unknown common": {Type: "X", Category: "Action", Extends: []string{"INope"}},
		"self outside override": {
			Type: "X", Category: "Action",
			Properties: []descriptor.PropertySpec{{Name: "me", TypeSpec: descriptor.TypeSpec{Type: "self"}}},
		},
		"enum without values": {
			Type: "X", Category: "Action",
			Properties: []descriptor.PropertySpec{{Name: "size", TypeSpec: descriptor.TypeSpec{Type: "enum"}}},
		},
		"bad capability": {Type: "X", Category: "Action", Capabilities: map[string]bool{"showInTable": true}},
		"summarizable form": {Type: "X", Category: "Form", Summarizable: true},
		"duplicate plugin": {
			Type: "X", Category: "Form",
			Plugins: []component.Plugin{component.ValidationPlugin()},
		},
		"needs set":         {Type: "X", Category: "Action", ExtendsComponent: "Y"},
	}
	for name, desc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := descriptor.Build(desc); !errors.Is(err, descriptor.ErrInvalidDescriptor) {
				t.Fatalf("expected ErrInvalidDescriptor, got %v", err)
			}
		})
	}
}

func TestSet_ExtendsComponent(t *testing.T) {
	set := descriptor.NewSet(
		&descriptor.Descriptor{Type: "Base", Category: "Presentation", Properties: []descriptor.PropertySpec{
			{Name: "shared", TypeSpec: descriptor.TypeSpec{Type: "boolean"}},
		}},
		&descriptor.Descriptor{Type: "Child", Category: "Presentation", ExtendsComponent: "Base"},
	)
	first, err := set.Build("Child")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	second, err := set.Build("Child")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if first.Inner().Bases()[len(first.Inner().Bases())-1] == second.Inner().Bases()[len(second.Inner().Bases())-1] {
		t.Fatalf("expected each build to own its base component")
	}

	cyclic := descriptor.NewSet(
		&descriptor.Descriptor{Type: "A", Category: "Action", ExtendsComponent: "B"},
		&descriptor.Descriptor{Type: "B", Category: "Action", ExtendsComponent: "A"},
	)
	if _, err := cyclic.Build("A"); err == nil || !strings.Contains(err.Error(), "cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func extendingSet() *descriptor.Set {
	return descriptor.NewSet(
		&descriptor.Descriptor{Type: "Base", Category: "Presentation", Properties: []descriptor.PropertySpec{
			{Name: "shared", TypeSpec: descriptor.TypeSpec{Type: "boolean"}},
		}},
		&descriptor.Descriptor{Type: "Child", Category: "Presentation", ExtendsComponent: "Base"},
	)
}

func TestSet_ExtendsComponentKeepsOwnType(t *testing.T) {
	cfg, err := extendingSet().Build("Child")
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	ts, err := cfg.GenerateConfigFile()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(ts, "type: 'Child';") || !strings.Contains(ts, "shared: boolean;") {
		t.Fatalf("expected the child type and the inherited property:\n%s", ts)
	}
	for _, unwanted := range []string{"type: 'Base'", "ComponentBase & ComponentBase"} {
		if strings.Contains(ts, unwanted) {
			t.Fatalf("unexpected %q in:\n%s", unwanted, ts)
		}
	}

	schema, err := cfg.ToJSONSchema()
	if err != nil {
		t.Fatalf("schema: %v", err)
	}
	data, err := json.Marshal(schema)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.Contains(string(data), `"const":"Base"`) || !strings.Contains(string(data), `"const":"Child"`) {
		t.Fatalf("unexpected discriminators in %s", data)
	}
}

func TestSet_ExtendsComponentLayoutValidates(t *testing.T) {
	doc, err := pipeline.New().Document(testsupport.Context(t), pipeline.Request{Descriptors: extendingSet()})
	if err != nil {
		t.Fatalf("document: %v", err)
	}
	validator, err := validation.CompileDocument(doc)
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	cases := map[string]bool{
		`{"data":{"layout":[{"id":"child-1","type":"Child","shared":true}]}}`: true,
		`{"data":{"layout":[{"id":"base-1","type":"Base","shared":false}]}}`:  true,
		`{"data":{"layout":[{"id":"child-2","type":"Child"}]}}`:               false,
	}
	for layout, valid := range cases {
		result := validator.Validate([]byte(layout))
		if result.Valid != valid {
			t.Fatalf("%s: expected valid=%v, issues %+v", layout, valid, result.Issues)
		}
	}
}

const tabsYAML = `
type: Tabs
category: Container
plugins:
  - key: tabs
    symbol: TabsPlugin
    module: src/layout/Tabs/TabsPlugin
    children: true
`

func TestBuild_Plugins(t *testing.T) {
	desc, err := descriptor.Parse([]byte(tabsYAML), "Tabs.yaml")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	cfg, err := descriptor.Build(desc)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	var keys []string
	for _, plugin := range cfg.Plugins() {
		keys = append(keys, plugin.Key)
	}
	if diff := cmp.Diff([]string{"ValidationPlugin", "tabs"}, keys); diff != "" {
		t.Fatalf("plugin mismatch (-want +got):\n%s", diff)
	}
	def, err := cfg.GenerateDefClass()
	if err != nil {
		t.Fatalf("generate def: %v", err)
	}
	if !strings.Contains(def, "claimChildren(props: ChildClaimerProps<'Tabs'>)") {
		t.Fatalf("expected the children plugin to claim children:\n%s", def)
	}
}
