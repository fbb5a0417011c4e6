package descriptor

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-compgen/pkg/component"
)

// Set holds descriptors keyed by component type.
type Set struct {
	byType map[string]*Descriptor
}

// NewSet returns a set seeded with descs.
func NewSet(descs ...*Descriptor) *Set {
	set := &Set{byType: make(map[string]*Descriptor, len(descs))}
	for _, desc := range descs {
		if desc != nil {
			set.byType[desc.Type] = desc
		}
	}
	return set
}

// Add registers desc. Types must be unique across the set.
func (s *Set) Add(desc *Descriptor) error {
	if desc == nil {
		return fmt.Errorf("%w: nil descriptor", ErrInvalidDescriptor)
	}
	typ := strings.TrimSpace(desc.Type)
	if typ == "" {
		return fmt.Errorf("%w: %s: type is required", ErrInvalidDescriptor, desc.Source)
	}
	if existing, ok := s.byType[typ]; ok {
		return fmt.Errorf("%w: %q (files %s and %s)", ErrDuplicateType, typ, existing.Source, desc.Source)
	}
	desc.Type = typ
	s.byType[typ] = desc
	return nil
}

// Merge adds every descriptor of other.
func (s *Set) Merge(other *Set) error {
	if other == nil {
		return nil
	}
	for _, desc := range other.Descriptors() {
		if err := s.Add(desc); err != nil {
			return err
		}
	}
	return nil
}

// Lookup returns the descriptor registered for typ.
func (s *Set) Lookup(typ string) (*Descriptor, bool) {
	desc, ok := s.byType[typ]
	return desc, ok
}

// Len reports the number of descriptors.
func (s *Set) Len() int { return len(s.byType) }

// Types lists the registered types in lexical order.
func (s *Set) Types() []string {
	types := make([]string, 0, len(s.byType))
	for typ := range s.byType {
		types = append(types, typ)
	}
	sort.Strings(types)
	return types
}

// Descriptors returns the descriptors sorted by type.
func (s *Set) Descriptors() []*Descriptor {
	types := s.Types()
	out := make([]*Descriptor, 0, len(types))
	for _, typ := range types {
		out = append(out, s.byType[typ])
	}
	return out
}

// Validate checks every descriptor, including extendsComponent targets.
func (s *Set) Validate() error {
	for _, desc := range s.Descriptors() {
		if err := desc.Validate(); err != nil {
			return err
		}
		if base := desc.ExtendsComponent; base != "" {
			if _, ok := s.byType[base]; !ok {
				return desc.invalid("extends unknown component %q", base)
			}
		}
	}
	return nil
}

// Build builds the config for typ. Components named by extendsComponent are
// built fresh for every dependant so no two configs share builder state.
func (s *Set) Build(typ string) (*component.Config, error) {
	return s.build(typ, nil)
}

// BuildAll builds every descriptor in type order.
func (s *Set) BuildAll() ([]*component.Config, error) {
	types := s.Types()
	out := make([]*component.Config, 0, len(types))
	for _, typ := range types {
		cfg, err := s.Build(typ)
		if err != nil {
			return nil, err
		}
		out = append(out, cfg)
	}
	return out, nil
}

func (s *Set) build(typ string, stack []string) (*component.Config, error) {
	desc, ok := s.byType[typ]
	if !ok {
		return nil, fmt.Errorf("%w: unknown component %q", ErrInvalidDescriptor, typ)
	}
	for _, seen := range stack {
		if seen == typ {
			return nil, desc.invalid("extendsComponent cycle %s", strings.Join(append(stack, typ), " -> "))
		}
	}
	var base *component.Config
	if desc.ExtendsComponent != "" {
		var err error
		base, err = s.build(desc.ExtendsComponent, append(stack, typ))
		if err != nil {
			return nil, err
		}
	}
	return build(desc, base)
}
