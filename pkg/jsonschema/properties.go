package jsonschema

import "encoding/json"

// Properties is an insertion ordered map of named schemas. It backs both the
// properties and the definitions keywords.
type Properties struct {
	keys   []string
	values map[string]*Schema
}

// NewProperties returns an empty ordered map.
func NewProperties() *Properties {
	return &Properties{values: make(map[string]*Schema)}
}

// Set stores schema under name. Existing entries keep their position.
func (p *Properties) Set(name string, schema *Schema) {
	if p.values == nil {
		p.values = make(map[string]*Schema)
	}
	if _, exists := p.values[name]; !exists {
		p.keys = append(p.keys, name)
	}
	p.values[name] = schema
}

// Get returns the schema stored under name.
func (p *Properties) Get(name string) (*Schema, bool) {
	if p == nil {
		return nil, false
	}
	schema, ok := p.values[name]
	return schema, ok
}

// Has reports whether name is present.
func (p *Properties) Has(name string) bool {
	_, ok := p.Get(name)
	return ok
}

// Delete removes name if present.
func (p *Properties) Delete(name string) {
	if p == nil {
		return
	}
	if _, ok := p.values[name]; !ok {
		return
	}
	delete(p.values, name)
	for i, key := range p.keys {
		if key == name {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the names in insertion order.
func (p *Properties) Keys() []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.keys...)
}

// Len reports the number of entries.
func (p *Properties) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// MarshalJSON writes the entries as a JSON object in insertion order.
func (p *Properties) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("{}"), nil
	}
	w := objectWriter{}
	for _, key := range p.keys {
		encoded, err := json.Marshal(p.values[key])
		if err != nil {
			return nil, err
		}
		w.raw(key, encoded)
	}
	return w.finish()
}
