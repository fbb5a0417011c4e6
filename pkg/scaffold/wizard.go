package scaffold

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-compgen/pkg/component"
	"github.com/goliatone/go-compgen/pkg/descriptor"
)

// Capabilities lists the renderIn flags offered by the wizard.
var Capabilities = []string{
	"renderInTable",
	"renderInButtonGroup",
	"renderInAccordion",
	"renderInAccordionGroup",
	"renderInCards",
	"renderInCardsMedia",
	"renderInTabs",
}

var bindingOptions = []struct {
	label string
	ref   string
}{
	{"Simple value", "IDataModelBindingsSimple"},
	{"Options with label and metadata", "IDataModelBindingsOptionsSimple"},
	{"List of values", "IDataModelBindingsList"},
	{"None", ""},
}

var selectionOptions = []string{"No options", "Options (simple)", "Options (full)"}

var propertyKinds = []string{
	descriptor.KindString,
	descriptor.KindNumber,
	descriptor.KindInteger,
	descriptor.KindBoolean,
}

var typePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9]*$`)

// Option configures a Wizard.
type Option func(*Wizard)

// WithPromptDriver overrides the prompt driver.
func WithPromptDriver(driver PromptDriver) Option {
	return func(w *Wizard) {
		if driver != nil {
			w.driver = driver
		}
	}
}

// WithExisting rejects types already declared in set.
func WithExisting(set *descriptor.Set) Option {
	return func(w *Wizard) {
		w.existing = set
	}
}

// Wizard asks for the settings of a new component and turns the answers into
// a descriptor.
type Wizard struct {
	driver   PromptDriver
	existing *descriptor.Set
}

// New constructs a Wizard. Without WithPromptDriver answers are read from the
// terminal.
func New(options ...Option) *Wizard {
	w := &Wizard{}
	for _, opt := range options {
		if opt != nil {
			opt(w)
		}
	}
	if w.driver == nil {
		w.driver = NewSurveyDriver(nil)
	}
	return w
}

// Run walks through the prompts and returns a descriptor that builds.
func (w *Wizard) Run(ctx context.Context) (*descriptor.Descriptor, error) {
	desc := &descriptor.Descriptor{}

	typ, err := w.driver.Input(ctx, InputConfig{
		Message:   "Component type",
		Help:      "PascalCase name used as the layout type discriminator",
		Validator: w.validateType,
	})
	if err != nil {
		return nil, err
	}
	if err := w.validateType(typ); err != nil {
		return nil, err
	}
	desc.Type = strings.TrimSpace(typ)

	categories := component.Categories()
	names := make([]string, len(categories))
	for i, category := range categories {
		names[i] = category.String()
	}
	idx, err := w.driver.Select(ctx, SelectConfig{Message: "Category", Options: names, DefaultIndex: 1})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(categories) {
		return nil, fmt.Errorf("scaffold: category selection %d out of range", idx)
	}
	category := categories[idx]
	desc.Category = category.String()

	if err := w.askBehaviour(ctx, desc, category); err != nil {
		return nil, err
	}

	picked, err := w.driver.MultiSelect(ctx, SelectConfig{
		Message: "Where can the component be rendered?",
		Options: Capabilities,
	})
	if err != nil {
		return nil, err
	}
	desc.Capabilities = make(map[string]bool, len(Capabilities))
	for _, name := range Capabilities {
		desc.Capabilities[name] = false
	}
	for _, i := range picked {
		if i >= 0 && i < len(Capabilities) {
			desc.Capabilities[Capabilities[i]] = true
		}
	}

	if err := w.askProperties(ctx, desc); err != nil {
		return nil, err
	}

	if _, err := descriptor.Build(desc); err != nil {
		return nil, fmt.Errorf("scaffold: %w", err)
	}
	if err := w.driver.Info(ctx, fmt.Sprintf("Component %s (%s) is ready", desc.Type, desc.Category)); err != nil {
		return nil, err
	}
	return desc, nil
}

func (w *Wizard) askBehaviour(ctx context.Context, desc *descriptor.Descriptor, category component.Category) error {
	if category == component.CategoryForm {
		label, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Render with a label?", Default: true})
		if err != nil {
			return err
		}
		desc.RendersWithLabel = label
		desc.LabelResources = label
	}

	if !category.IsFormLike() {
		summarizable, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Show in summaries?"})
		if err != nil {
			return err
		}
		desc.Summarizable = summarizable
		return nil
	}

	labels := make([]string, len(bindingOptions))
	for i, option := range bindingOptions {
		labels[i] = option.label
	}
	idx, err := w.driver.Select(ctx, SelectConfig{Message: "Data model binding", Options: labels})
	if err != nil {
		return err
	}
	if idx >= 0 && idx < len(bindingOptions) && bindingOptions[idx].ref != "" {
		desc.DataModel = []descriptor.TypeSpec{{Ref: bindingOptions[idx].ref}}
	}

	if category != component.CategoryForm {
		return nil
	}
	selection, err := w.driver.Select(ctx, SelectConfig{Message: "Option list", Options: selectionOptions})
	if err != nil {
		return err
	}
	switch selection {
	case 1:
		desc.Selection = descriptor.SelectionSimple
	case 2:
		desc.Selection = descriptor.SelectionFull
	}
	attachments, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Accept file attachments?"})
	if err != nil {
		return err
	}
	desc.Attachments = attachments
	return nil
}

func (w *Wizard) askProperties(ctx context.Context, desc *descriptor.Descriptor) error {
	seen := make(map[string]struct{})
	for {
		name, err := w.driver.Input(ctx, InputConfig{
			Message: "Property name (leave empty to finish)",
			Validator: func(value string) error {
				if _, ok := seen[strings.TrimSpace(value)]; ok {
					return fmt.Errorf("property %q already added", value)
				}
				return nil
			},
		})
		if err != nil {
			return err
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return nil
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("scaffold: property %q already added", name)
		}
		seen[name] = struct{}{}

		idx, err := w.driver.Select(ctx, SelectConfig{Message: "Type of " + name, Options: propertyKinds})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(propertyKinds) {
			return fmt.Errorf("scaffold: property kind selection %d out of range", idx)
		}
		optional, err := w.driver.Confirm(ctx, ConfirmConfig{Message: "Is " + name + " optional?", Default: true})
		if err != nil {
			return err
		}
		desc.Properties = append(desc.Properties, descriptor.PropertySpec{
			Name:     name,
			TypeSpec: descriptor.TypeSpec{Type: propertyKinds[idx], Optional: optional},
		})
	}
}

func (w *Wizard) validateType(value string) error {
	value = strings.TrimSpace(value)
	if !typePattern.MatchString(value) {
		return fmt.Errorf("scaffold: type %q must be PascalCase", value)
	}
	if w.existing != nil {
		if _, ok := w.existing.Lookup(value); ok {
			return fmt.Errorf("%w: %s", ErrTypeExists, value)
		}
	}
	return nil
}

// Marshal encodes desc as a YAML descriptor file.
func Marshal(desc *descriptor.Descriptor) ([]byte, error) {
	if desc == nil {
		return nil, errors.New("scaffold: descriptor is required")
	}
	data, err := yaml.Marshal(desc)
	if err != nil {
		return nil, fmt.Errorf("scaffold: encode %s: %w", desc.Type, err)
	}
	return data, nil
}

// WriteFile stores desc as <dir>/<Type>.yaml and returns the path. Existing
// files are never overwritten.
func WriteFile(dir string, desc *descriptor.Descriptor) (string, error) {
	data, err := Marshal(desc)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("scaffold: mkdir %s: %w", dir, err)
	}
	target := filepath.Join(dir, desc.Type+".yaml")
	file, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("scaffold: create %s: %w", target, err)
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return "", fmt.Errorf("scaffold: write %s: %w", target, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("scaffold: close %s: %w", target, err)
	}
	return target, nil
}
