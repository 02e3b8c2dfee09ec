package managed

import "gopkg.in/yaml.v3"

// Map is a YAML mapping that preserves insertion order when marshalled,
// so repeated runs over the same model serialize byte-identically.
type Map struct {
	keys []string
	vals map[string]any
}

// NewMap returns an empty ordered mapping.
func NewMap() *Map {
	return &Map{vals: make(map[string]any)}
}

// Set stores a value under key, keeping first-insertion order.
func (m *Map) Set(key string, v any) *Map {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
	return m
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (any, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Len returns the number of keys.
func (m *Map) Len() int {
	return len(m.keys)
}

// MarshalYAML emits the mapping as a yaml.Node with keys in insertion
// order. Nil values render as an explicit empty mapping ({}), never as
// a bare null, so consumers always see a present-but-empty entry.
func (m *Map) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if len(m.keys) == 0 {
		node.Style = yaml.FlowStyle
	}
	for _, key := range m.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}
		valNode, err := encodeValue(m.vals[key])
		if err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

func encodeValue(v any) (*yaml.Node, error) {
	if v == nil {
		return &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Style: yaml.FlowStyle}, nil
	}
	node := &yaml.Node{}
	if err := node.Encode(v); err != nil {
		return nil, err
	}
	return node, nil
}
