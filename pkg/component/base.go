package component

// BaseInterface pairs a common props definition with the text resource
// bindings definition that comes with it. TextResources may be empty.
type BaseInterface struct {
	Props         string
	TextResources string
}

// BaseInterfacesFor returns the base interfaces a component extends, in
// extends order.
func BaseInterfacesFor(category Category, rendersWithLabel bool) []BaseInterface {
	out := []BaseInterface{{Props: "ComponentBase"}}
	if category == CategoryForm {
		out = append(out, BaseInterface{Props: "FormComponentProps", TextResources: "TRBFormComp"})
	}
	if category.IsFormLike() {
		out = append(out, BaseInterface{Props: "SummarizableComponentProps", TextResources: "TRBSummarizable"})
	}
	if rendersWithLabel {
		out = append(out, BaseInterface{Props: "LabeledComponentProps", TextResources: "TRBLabel"})
	}
	return out
}
