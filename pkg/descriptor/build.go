package descriptor

import (
	"fmt"
	"strconv"
	"strings"

	cg "github.com/goliatone/go-compgen/pkg/codegen"
	"github.com/goliatone/go-compgen/pkg/component"
)

// Build drives the component builder from desc. Descriptors that extend
// another component must be built through a Set.
func Build(desc *Descriptor) (*component.Config, error) {
	if desc != nil && desc.ExtendsComponent != "" {
		return nil, desc.invalid("extendsComponent %q needs a descriptor set", desc.ExtendsComponent)
	}
	return build(desc, nil)
}

func build(desc *Descriptor, base *component.Config) (*component.Config, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	req, err := desc.Requirements()
	if err != nil {
		return nil, err
	}

	cfg := component.New(req)
	steps := []func() error{
		func() error { return cfg.SetType(desc.Type, desc.Symbol) },
		func() error {
			if base == nil {
				return nil
			}
			return cfg.ExtendsComponent(base)
		},
		func() error {
			for _, name := range desc.Extends {
				if err := cfg.Extends(cg.Common(name)); err != nil {
					return err
				}
			}
			return nil
		},
		func() error {
			if !desc.LabelResources {
				return nil
			}
			return cfg.AddTextResourcesForLabel()
		},
		func() error {
			for _, name := range desc.ExtendsTRB {
				if err := cfg.ExtendTextResources(cg.Common(name)); err != nil {
					return err
				}
			}
			return nil
		},
		func() error { return addTextResources(cfg, desc.TextResources) },
		func() error {
			for i, spec := range desc.DataModel {
				binding, err := builder{}.generator(spec, "dataModelBindings|"+strconv.Itoa(i))
				if err != nil {
					return err
				}
				if err := cfg.AddDataModelBinding(binding); err != nil {
					return err
				}
			}
			return nil
		},
		func() error {
			switch strings.ToLower(desc.Selection) {
			case SelectionSimple:
				return cfg.MakeSelectionComponent(false)
			case SelectionFull:
				return cfg.MakeSelectionComponent(true)
			}
			return nil
		},
		func() error {
			if !desc.Summarizable {
				return nil
			}
			return cfg.MakeSummarizable()
		},
		func() error {
			if !desc.Attachments {
				return nil
			}
			return cfg.AllowAttachments()
		},
		func() error {
			for _, plugin := range desc.Plugins {
				if err := cfg.AddPlugin(plugin); err != nil {
					return err
				}
			}
			return nil
		},
		func() error {
			props, err := builder{}.properties(desc.Properties, "")
			if err != nil {
				return err
			}
			for _, prop := range props {
				if err := cfg.AddProperty(prop); err != nil {
					return err
				}
			}
			return nil
		},
		func() error {
			if desc.SummaryOverrides == nil {
				return nil
			}
			props, err := builder{}.properties(desc.SummaryOverrides.Properties, "summaryOverrides")
			if err != nil {
				return err
			}
			return cfg.AddSummaryOverrides(props...)
		},
		func() error {
			if desc.Exported == nil {
				return nil
			}
			exported, err := builder{self: cfg.Inner()}.generator(*desc.Exported, "exported")
			if err != nil {
				return err
			}
			return cfg.OverrideExported(exported)
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDescriptor, desc.Type, err)
		}
	}
	return cfg, nil
}

func addTextResources(cfg *component.Config, specs []PropertySpec) error {
	for _, spec := range specs {
		if spec.kind() == "" {
			spec.Type = KindString
			spec.Optional = true
		}
		prop, err := builder{}.property(spec, "textResourceBindings")
		if err != nil {
			return err
		}
		if err := cfg.AddTextResource(prop); err != nil {
			return err
		}
	}
	return nil
}
