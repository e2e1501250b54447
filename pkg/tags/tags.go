// Package tags reconciles the category taxonomies of the two platforms.
package tags

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Mapping maps a raw primary category to a unified category name.
// It is loaded once and never mutated.
type Mapping struct {
	lookup map[string]string
	keys   []string
}

// NewMapping builds a Mapping from pairs, keeping the given key order.
// Later duplicates override earlier values but keep the first position.
func NewMapping(pairs ...[2]string) *Mapping {
	m := &Mapping{lookup: make(map[string]string, len(pairs))}
	for _, p := range pairs {
		if _, exists := m.lookup[p[0]]; !exists {
			m.keys = append(m.keys, p[0])
		}
		m.lookup[p[0]] = p[1]
	}
	return m
}

// LoadMapping reads a YAML document whose top level is a string->string map.
// File order of the keys is preserved for the tag selector.
func LoadMapping(path string) (*Mapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read mapping: %w", err)
	}
	return ParseMapping(data)
}

// ParseMapping decodes a YAML mapping document.
func ParseMapping(data []byte) (*Mapping, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse mapping: %w", err)
	}
	if len(doc.Content) == 0 {
		return NewMapping(), nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parse mapping: expected a map at top level, got kind %d", root.Kind)
	}

	pairs := make([][2]string, 0, len(root.Content)/2)
	for i := 0; i+1 < len(root.Content); i += 2 {
		k, v := root.Content[i], root.Content[i+1]
		if k.Kind != yaml.ScalarNode || v.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("parse mapping: line %d: key and value must be strings", k.Line)
		}
		pairs = append(pairs, [2]string{k.Value, v.Value})
	}
	return NewMapping(pairs...), nil
}

// Lookup returns the unified name for a raw tag.
func (m *Mapping) Lookup(tag string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m.lookup[tag]
	return v, ok
}

// Keys returns the raw tags in file order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Values returns the distinct unified names in first-seen key order.
func (m *Mapping) Values() []string {
	if m == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(m.keys))
	var out []string
	for _, k := range m.keys {
		v := m.lookup[k]
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// HasKey reports whether tag is a selectable map tag.
func (m *Mapping) HasKey(tag string) bool {
	_, ok := m.Lookup(tag)
	return ok
}

// Len returns the number of raw tags.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Unify resolves the unified tag of one record: the mapped primary category
// when it has an entry, the secondary category unchanged otherwise.
func Unify(primary, secondary string, m *Mapping) string {
	if v, ok := m.Lookup(primary); ok {
		return v
	}
	return secondary
}
