package descriptor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-compgen/pkg/common"
	"github.com/goliatone/go-compgen/pkg/component"
)

var (
	// ErrInvalidDescriptor reports a descriptor that cannot drive the builder.
	ErrInvalidDescriptor = errors.New("descriptor: invalid descriptor")
	// ErrDuplicateType reports two descriptors declaring the same type.
	ErrDuplicateType = errors.New("descriptor: duplicate component type")
)

// Selection modes accepted by Descriptor.Selection.
const (
	SelectionNone   = ""
	SelectionSimple = "simple"
	SelectionFull   = "full"
)

// Descriptor declares one component type. It is the file format read by
// LoadFS and the input of Build.
type Descriptor struct {
	Type             string                  `json:"type" yaml:"type"`
	Symbol           string                  `json:"symbol,omitempty" yaml:"symbol,omitempty"`
	Category         string                  `json:"category" yaml:"category"`
	RendersWithLabel bool                    `json:"rendersWithLabel,omitempty" yaml:"rendersWithLabel,omitempty"`
	DirectRendering  bool                    `json:"directRendering,omitempty" yaml:"directRendering,omitempty"`
	Capabilities     map[string]bool         `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	Functionality    component.Functionality `json:"functionality,omitempty" yaml:"functionality,omitempty"`
	LabelResources   bool                    `json:"labelTextResources,omitempty" yaml:"labelTextResources,omitempty"`
	Selection        string                  `json:"selection,omitempty" yaml:"selection,omitempty"`
	Summarizable     bool                    `json:"summarizable,omitempty" yaml:"summarizable,omitempty"`
	Attachments      bool                    `json:"attachments,omitempty" yaml:"attachments,omitempty"`
	DataModel        []TypeSpec              `json:"dataModelBindings,omitempty" yaml:"dataModelBindings,omitempty"`
	TextResources    []PropertySpec          `json:"textResources,omitempty" yaml:"textResources,omitempty"`
	ExtendsTRB       []string                `json:"extendsTextResources,omitempty" yaml:"extendsTextResources,omitempty"`
	Extends          []string                `json:"extends,omitempty" yaml:"extends,omitempty"`
	ExtendsComponent string                  `json:"extendsComponent,omitempty" yaml:"extendsComponent,omitempty"`
	Properties       []PropertySpec          `json:"properties,omitempty" yaml:"properties,omitempty"`
	SummaryOverrides *SummaryOverridesSpec   `json:"summaryOverrides,omitempty" yaml:"summaryOverrides,omitempty"`
	Exported         *TypeSpec               `json:"exported,omitempty" yaml:"exported,omitempty"`
	Plugins          []component.Plugin      `json:"plugins,omitempty" yaml:"plugins,omitempty"`
	Metadata         map[string]any          `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Source           string                  `json:"-" yaml:"-"`
}

// SummaryOverridesSpec declares the summary override shape. An empty
// property list uses the common overrides unchanged.
type SummaryOverridesSpec struct {
	Properties []PropertySpec `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// DisplayName returns Symbol when set, Type otherwise.
func (d *Descriptor) DisplayName() string {
	if d == nil {
		return ""
	}
	if d.Symbol != "" {
		return d.Symbol
	}
	return d.Type
}

// Requirements converts the descriptor settings into builder requirements.
func (d *Descriptor) Requirements() (component.Requirements, error) {
	category, err := component.ParseCategory(d.Category)
	if err != nil {
		return component.Requirements{}, d.invalid("%v", err)
	}
	caps := make(map[string]bool, len(d.Capabilities))
	for key, value := range d.Capabilities {
		caps[key] = value
	}
	return component.Requirements{
		Category:         category,
		RendersWithLabel: d.RendersWithLabel,
		DirectRendering:  d.DirectRendering,
		Capabilities:     caps,
		Functionality:    d.Functionality,
	}, nil
}

// Validate checks the descriptor without building it. Build calls it.
func (d *Descriptor) Validate() error {
	if d == nil {
		return fmt.Errorf("%w: nil descriptor", ErrInvalidDescriptor)
	}
	if strings.TrimSpace(d.Type) == "" {
		return d.invalid("type is required")
	}
	req, err := d.Requirements()
	if err != nil {
		return err
	}
	for key := range d.Capabilities {
		if !strings.HasPrefix(key, component.CapabilityPrefix) {
			return d.invalid("capability %q must start with %q", key, component.CapabilityPrefix)
		}
	}
	switch strings.ToLower(d.Selection) {
	case SelectionNone, SelectionSimple, SelectionFull:
	default:
		return d.invalid("unknown selection mode %q", d.Selection)
	}
	if len(d.DataModel) > 0 && !req.Category.IsFormLike() {
		return d.invalid("%s components cannot have data model bindings", req.Category)
	}
	if d.Summarizable && req.Category.IsFormLike() {
		return d.invalid("%s components are always summarizable", req.Category)
	}
	if d.SummaryOverrides != nil && !d.Summarizable && !req.Category.IsFormLike() {
		return d.invalid("summary overrides require a summarizable component")
	}
	for _, name := range append(append([]string(nil), d.Extends...), d.ExtendsTRB...) {
		if !common.Has(name) {
			return d.invalid("unknown common definition %q", name)
		}
	}
	return nil
}

func (d *Descriptor) invalid(format string, args ...any) error {
	where := d.Type
	if d.Source != "" {
		where = fmt.Sprintf("%s (%s)", d.Type, d.Source)
	}
	return fmt.Errorf("%w: %s: %s", ErrInvalidDescriptor, where, fmt.Sprintf(format, args...))
}
