package common

import (
	cg "github.com/goliatone/go-compgen/pkg/codegen"
	"github.com/goliatone/go-compgen/pkg/jsonschema"
)

// componentIDPattern rejects ids ending in <dash><number>, which are reserved
// for repeating group rows.
const componentIDPattern = `^[0-9a-zA-Z][0-9a-zA-Z-]*(-?[a-zA-Z]+|[a-zA-Z][0-9]+|-[0-9]{6,})$`

type trb struct {
	name        string
	title       string
	description string
}

func makeTRB(entries ...trb) *cg.Object {
	obj := cg.Obj()
	for _, entry := range entries {
		obj.AddProperty(cg.TextResource(entry.name, entry.title, entry.description))
	}
	return obj
}

func binding(title, description string, opts ...cg.Opt) *cg.Reference {
	opts = append([]cg.Opt{cg.Title(title), cg.Description(description)}, opts...)
	return cg.With(cg.DataModelBinding(), opts...)
}

func gridSize() *cg.Reference {
	return cg.With(cg.Common("IGridSize"), cg.OptionalDefault("auto"))
}

// library lists the shared definitions in declaration order.
var library = []entry{
	{"ISummaryOverridesCommon", func() cg.Generator {
		return cg.Obj(
			cg.Prop("hidden", cg.With(cg.Bool(), cg.Optional())),
			cg.Prop("emptyFieldText", cg.With(cg.Str(), cg.Optional())),
		)
	}},
	{"ILabelSettings", func() cg.Generator {
		return cg.Obj(
			cg.Prop("optionalIndicator", cg.With(cg.Bool(),
				cg.Title("Optional indicator"),
				cg.Description("Show optional indicator on label"),
				cg.Optional(),
			)),
		)
	}},
	{"IPageBreak", func() cg.Generator {
		return cg.With(cg.Obj(
			cg.Prop("breakBefore", cg.With(cg.Expr(cg.ExprString),
				cg.OptionalDefault("auto"),
				cg.Title("Page break before"),
				cg.Description("PDF only: Value or expression indicating whether a page break should be added before the component. Can be either: 'auto' (default), 'always', or 'avoid'."),
				cg.Examples("auto", "always", "avoid"),
			)),
			cg.Prop("breakAfter", cg.With(cg.Expr(cg.ExprString),
				cg.OptionalDefault("auto"),
				cg.Title("Page break after"),
				cg.Description("PDF only: Value or expression indicating whether a page break should be added after the component. Can be either: 'auto' (default), 'always', or 'avoid'."),
				cg.Examples("auto", "always", "avoid"),
			)),
		),
			cg.Title("Page break"),
			cg.Description("Optionally insert page-break before/after component when rendered in PDF"),
		)
	}},
	{"IGridSize", func() cg.Generator {
		return cg.Union(cg.Const("auto"), cg.Enum(1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12))
	}},
	{"IGridStyling", func() cg.Generator {
		return cg.Obj(
			cg.Prop("xs", gridSize()),
			cg.Prop("sm", gridSize()),
			cg.Prop("md", gridSize()),
			cg.Prop("lg", gridSize()),
			cg.Prop("xl", gridSize()),
		)
	}},
	{"IGrid", func() cg.Generator {
		return cg.With(cg.Obj(
			cg.Prop("labelGrid", cg.With(cg.Common("IGridStyling"), cg.Optional())),
			cg.Prop("innerGrid", cg.With(cg.Common("IGridStyling"), cg.Optional())),
		).Extends(cg.Common("IGridStyling")),
			cg.Title("Grid"),
			cg.Description("Settings for the components grid. Used for controlling horizontal alignment"),
		)
	}},
	{"IDataModelReference", func() cg.Generator {
		return cg.Obj(
			cg.Prop("dataType", cg.With(cg.Str(), cg.Title("Data type"), cg.Description("The name of the datamodel type to reference"))),
			cg.Prop("field", cg.With(cg.Str(), cg.Title("Field"), cg.Description("The path to the property using dot-notation"))),
		)
	}},
	{"IRawDataModelBinding", func() cg.Generator {
		return cg.Union(cg.Str(), cg.Common("IDataModelReference"))
	}},
	{"IDataModelBindingsSimple", func() cg.Generator {
		return cg.Obj(
			cg.Prop("simpleBinding", binding(
				"Data model binding",
				"Describes the location in the data model where the component should store its value(s). A simple binding is used for components that only store a single value, usually a string.",
			)),
		).Closed()
	}},
	{"IDataModelBindingsOptionsSimple", func() cg.Generator {
		return cg.Obj(
			cg.Prop("simpleBinding", binding(
				"Data model binding for value",
				"Describes the location in the data model where the component should store its values.",
			)),
			cg.Prop("label", binding(
				"Data model binding for label",
				"Describes the location in the data model where the component should store its labels",
				cg.Optional(),
			)),
			cg.Prop("metadata", binding(
				"Data model binding for metadata",
				"Describes the location in the data model where the component should store its metadata",
				cg.Optional(),
			)),
		).Closed()
	}},
	{"IDataModelBindingsLikert", func() cg.Generator {
		return cg.Obj(
			cg.Prop("answer", binding(
				"Data model binding for answer",
				"Dot notation location for the answers. This must point to a property of the objects inside the question array. The answer for each question will be stored in the answer property of the corresponding question object.",
			)),
			cg.Prop("questions", binding(
				"Data model binding for questions",
				"Dot notation location for a likert structure (array of objects), where the data is stored",
			)),
		).Closed()
	}},
	{"IDataModelBindingsList", func() cg.Generator {
		return cg.Obj(
			cg.Prop("list", binding(
				"Data model binding for values",
				"Describes the location in the data model where the component should store its values. A list binding should be pointed to an array structure in the data model, and is used for components that store multiple simple values (e.g. a list of strings).",
			)),
		).Closed()
	}},
	{"TRBSummarizable", func() cg.Generator {
		return makeTRB(
			trb{"summaryTitle", "Summary title", "Title used in the summary view (overrides the default title)"},
			trb{"summaryAccessibleTitle", "Accessible summary title", "Title used for aria-label on the edit button in the summary view (overrides the default and summary title)"},
		)
	}},
	{"TRBFormComp", func() cg.Generator {
		return makeTRB(
			trb{"tableTitle", "Table title", "Title used in the table view (overrides the default title)"},
			trb{"shortName", "Short name (for validation)", "Alternative name used for required validation messages (overrides the default title)"},
			trb{"requiredValidation", "Required validation message", "Full validation message shown when the component is required and no value has been entered (overrides both the default and shortName)"},
		)
	}},
	{"TRBLabel", func() cg.Generator {
		return makeTRB(
			trb{"title", "Title", "Label text/title shown above the component"},
			trb{"description", "Description", "Label description shown above the component, below the title"},
			trb{"help", "Help text", "Help text shown in a tooltip when clicking the help button"},
		)
	}},
	{"IOption", func() cg.Generator {
		return cg.With(cg.Obj(
			cg.Prop("label", cg.Str()),
			cg.Prop("value", cg.Union(cg.Str(), cg.Num(), cg.Bool(), cg.Raw("null", &jsonschema.Schema{Type: "null"}))),
			cg.Prop("description", cg.With(cg.Str(), cg.Optional())),
			cg.Prop("helpText", cg.With(cg.Str(), cg.Optional())),
		), cg.Examples(map[string]any{"label": "", "value": ""}))
	}},
	{"ISelectionComponent", func() cg.Generator {
		return cg.Obj(
			cg.Prop("optionsId", cg.With(cg.Str(),
				cg.Optional(),
				cg.Title("Dynamic options (fetched from server)"),
				cg.Description("ID of the option list to fetch from the server"),
			)),
			cg.Prop("options", cg.With(cg.Arr(cg.Common("IOption")),
				cg.Optional(),
				cg.Title("Static options"),
				cg.Description("List of static options"),
			)),
			cg.Prop("secure", cg.With(cg.Bool(),
				cg.OptionalDefault(false),
				cg.Title("Secure options (when using optionsId)"),
				cg.Description("Whether to call the secure API endpoint when fetching options from the server (allows for user/instance-specific options)"),
			)),
			cg.Prop("sortOrder", cg.With(cg.Enum("asc", "desc"),
				cg.Optional(),
				cg.Description("Sorts the code list in either ascending or descending order by label."),
			)),
		)
	}},
	{"ISelectionComponentFull", func() cg.Generator {
		return cg.Obj(
			cg.Prop("preselectedOptionIndex", cg.With(cg.Int(),
				cg.Optional(),
				cg.Title("Preselected option index"),
				cg.Description("Index of the option to preselect (if no option has been selected yet)"),
			)),
		).Extends(cg.Common("ISelectionComponent"))
	}},
	{"ComponentBase", func() cg.Generator {
		return cg.Obj(
			cg.Prop("id", cg.With(cg.Str().Pattern(componentIDPattern),
				cg.Title("ID"),
				cg.Description("The component ID. Must be unique within all layouts/pages in a layout-set. Cannot end with a dash followed by a number."),
			)),
			cg.Prop("hidden", cg.With(cg.Expr(cg.ExprBoolean),
				cg.OptionalDefault(false),
				cg.Title("Hidden"),
				cg.Description("Boolean value or expression indicating if the component should be hidden. Defaults to false."),
			)),
			cg.Prop("grid", cg.With(cg.Common("IGrid"), cg.Optional())),
			cg.Prop("pageBreak", cg.With(cg.Common("IPageBreak"), cg.Optional())),
		)
	}},
	{"FormComponentProps", func() cg.Generator {
		return cg.Obj(
			cg.Prop("readOnly", cg.With(cg.Expr(cg.ExprBoolean),
				cg.OptionalDefault(false),
				cg.Title("Read only/disabled?"),
				cg.Description("Boolean value or expression indicating if the component should be read only/disabled. Defaults to false. <br /> <i>Please note that even with read-only fields in components, it may currently be possible to update the field by modifying the request sent to the API or through a direct API call.<i/>"),
			)),
			cg.Prop("required", cg.With(cg.Expr(cg.ExprBoolean),
				cg.OptionalDefault(false),
				cg.Title("Required?"),
				cg.Description("Boolean value or expression indicating if the component should be required. Defaults to false."),
			)),
			cg.Prop("showValidations", cg.With(cg.Common("AllowedValidationMasks"), cg.Optional())),
		)
	}},
	{"SummarizableComponentProps", func() cg.Generator {
		return cg.Obj(
			cg.Prop("renderAsSummary", cg.With(cg.Bool(),
				cg.OptionalDefault(false),
				cg.Title("Render as summary"),
				cg.Description("Boolean value indicating if the component should be rendered as a summary. Defaults to false."),
			)),
			cg.Prop("forceShowInSummary", cg.With(cg.Expr(cg.ExprBoolean),
				cg.OptionalDefault(false),
				cg.Title("Force show in summary"),
				cg.Description("Will force show the component in a summary even if hideEmptyFields is set to true in the summary component."),
			)),
		)
	}},
	{"LabeledComponentProps", func() cg.Generator {
		return cg.Obj(cg.Prop("labelSettings", cg.With(cg.Common("ILabelSettings"), cg.Optional())))
	}},
	{"AllowedValidationMasks", func() cg.Generator {
		return cg.Arr(cg.Enum("Schema", "Component", "Expression", "CustomBackend", "Required", "AllExceptRequired", "All"))
	}},
	{"Expression", func() cg.Generator {
		return cg.With(
			cg.Raw("[string, ...unknown[]]", &jsonschema.Schema{Type: "array", Items: &jsonschema.Schema{}}),
			cg.Title("Expression"),
			cg.Description("An expression: a function name followed by its arguments"),
			cg.Examples([]any{"equals", []any{"component", "my-input"}, "yes"}),
		)
	}},
	{"BooleanExpression", func() cg.Generator { return exprDefinition(cg.ExprBoolean, "boolean") }},
	{"StringExpression", func() cg.Generator { return exprDefinition(cg.ExprString, "string") }},
	{"NumberExpression", func() cg.Generator { return exprDefinition(cg.ExprNumber, "number") }},
}

// expressionDefinition renders as the expression helper type in TypeScript
// and as "literal or expression" in JSON Schema.
type expressionDefinition struct {
	cg.Annotations
	kind    cg.ExprKind
	literal string
}

func exprDefinition(kind cg.ExprKind, literal string) cg.Generator {
	return &expressionDefinition{kind: kind, literal: literal}
}

func (e *expressionDefinition) TypeScript(ctx *cg.Context, v cg.Variant) string {
	return cg.Expr(e.kind).TypeScript(ctx, v)
}

func (e *expressionDefinition) JSONSchema(ctx *cg.Context) *jsonschema.Schema {
	ctx.UseCommon("Expression")
	return &jsonschema.Schema{
		AnyOf: []*jsonschema.Schema{
			{Type: e.literal},
			jsonschema.Ref("Expression"),
		},
	}
}
