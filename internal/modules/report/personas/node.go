package personas

import "math"

// Node is a read-only view over one JSON-Schema object in its decoded
// map[string]any form.
type Node map[string]any

func (n Node) Type() string {
	switch t := n["type"].(type) {
	case string:
		return t
	case []any:
		for _, v := range t {
			if s, ok := v.(string); ok && s != "null" {
				return s
			}
		}
	}
	return ""
}

func (n Node) Property(name string) (Node, bool) {
	props, ok := n["properties"].(map[string]any)
	if !ok {
		return nil, false
	}
	child, ok := props[name].(map[string]any)
	return Node(child), ok
}

func (n Node) PropertyNames() []string {
	props, _ := n["properties"].(map[string]any)
	out := make([]string, 0, len(props))
	for k := range props {
		out = append(out, k)
	}
	return out
}

func (n Node) Required() []string {
	switch r := n["required"].(type) {
	case []string:
		return r
	case []any:
		out := make([]string, 0, len(r))
		for _, v := range r {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

func (n Node) Items() (Node, bool) {
	it, ok := n["items"].(map[string]any)
	return Node(it), ok
}

// Additional returns the schema for undeclared object keys, when one is given.
func (n Node) Additional() (Node, bool) {
	ap, ok := n["additionalProperties"].(map[string]any)
	return Node(ap), ok
}

func (n Node) MinLength() (int, bool) { return n.intKeyword("minLength") }
func (n Node) MaxLength() (int, bool) { return n.intKeyword("maxLength") }
func (n Node) MinItems() (int, bool)  { return n.intKeyword("minItems") }
func (n Node) MaxItems() (int, bool)  { return n.intKeyword("maxItems") }

func (n Node) Enum() []string {
	raw, ok := n["enum"].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (n Node) intKeyword(k string) (int, bool) {
	switch v := n[k].(type) {
	case float64:
		if v < 0 || v != math.Trunc(v) {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case uint64:
		return int(v), true
	}
	return 0, false
}
