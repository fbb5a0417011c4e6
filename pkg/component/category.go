package component

import (
	"fmt"
	"strings"
)

// Category decides which base class a component's definition extends.
type Category int

const (
	CategoryAction Category = iota
	CategoryForm
	CategoryContainer
	CategoryPresentation
)

// LayoutComponentModule exports the category base classes.
const LayoutComponentModule = "src/layout/LayoutComponent"

var categoryNames = [...]string{
	CategoryAction:       "Action",
	CategoryForm:         "Form",
	CategoryContainer:    "Container",
	CategoryPresentation: "Presentation",
}

var categoryBases = [...]string{
	CategoryAction:       "ActionComponent",
	CategoryForm:         "FormComponent",
	CategoryContainer:    "ContainerComponent",
	CategoryPresentation: "PresentationComponent",
}

// Categories lists every category.
func Categories() []Category {
	return []Category{CategoryAction, CategoryForm, CategoryContainer, CategoryPresentation}
}

// ParseCategory accepts a category name in any case.
func ParseCategory(value string) (Category, error) {
	trimmed := strings.TrimSpace(value)
	for i, name := range categoryNames {
		if strings.EqualFold(name, trimmed) {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("component: unknown category %q", value)
}

// Valid reports whether c is one of the declared categories.
func (c Category) Valid() bool {
	return c >= CategoryAction && int(c) < len(categoryNames)
}

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Category(%d)", int(c))
	}
	return categoryNames[c]
}

// BaseSymbol is the class imported from LayoutComponentModule that
// definitions of this category extend.
func (c Category) BaseSymbol() string {
	if !c.Valid() {
		return ""
	}
	return categoryBases[c]
}

// IsFormLike reports whether components of this category store data.
func (c Category) IsFormLike() bool {
	return c == CategoryForm || c == CategoryContainer
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("component: invalid category %d", int(c))
	}
	return []byte(c.String()), nil
}

func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
