package personas

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

type ValidationError struct {
	Schema string
	Issues []Issue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Issues) == 0 {
		return "validation failed"
	}
	parts := make([]string, 0, len(e.Issues))
	for _, is := range e.Issues {
		parts = append(parts, is.Path+": "+is.Message)
	}
	return fmt.Sprintf("%s: %d validation issue(s): %s", e.Schema, len(e.Issues), strings.Join(parts, "; "))
}

// Validate checks v (as produced by encoding/json into any) against schema.
// Keys the schema does not declare are ignored unless additionalProperties
// carries a sub-schema, which is then applied to them.
func Validate(schema Node, v any) []Issue {
	var issues []Issue
	validateNode(schema, v, "$", &issues)
	return issues
}

func validateNode(n Node, v any, path string, issues *[]Issue) {
	add := func(format string, args ...any) {
		*issues = append(*issues, Issue{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	switch n.Type() {
	case "object":
		obj, ok := v.(map[string]any)
		if !ok {
			add("expected object, got %s", kindOf(v))
			return
		}
		for _, name := range n.Required() {
			if _, present := obj[name]; !present {
				*issues = append(*issues, Issue{Path: join(path, name), Message: "required"})
			}
		}
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		extra, hasExtra := n.Additional()
		for _, k := range keys {
			if child, ok := n.Property(k); ok {
				validateNode(child, obj[k], join(path, k), issues)
			} else if hasExtra {
				validateNode(extra, obj[k], join(path, k), issues)
			}
		}

	case "array":
		arr, ok := v.([]any)
		if !ok {
			add("expected array, got %s", kindOf(v))
			return
		}
		if min, ok := n.MinItems(); ok && len(arr) < min {
			add("expected at least %d items, got %d", min, len(arr))
		}
		if max, ok := n.MaxItems(); ok && len(arr) > max {
			add("expected at most %d items, got %d", max, len(arr))
		}
		if items, ok := n.Items(); ok {
			for i, el := range arr {
				validateNode(items, el, path+"["+strconv.Itoa(i)+"]", issues)
			}
		}

	case "string":
		s, ok := v.(string)
		if !ok {
			add("expected string, got %s", kindOf(v))
			return
		}
		l := utf8.RuneCountInString(s)
		if min, ok := n.MinLength(); ok && l < min {
			add("expected at least %d characters, got %d", min, l)
		}
		if max, ok := n.MaxLength(); ok && l > max {
			add("expected at most %d characters, got %d", max, l)
		}
		if enum := n.Enum(); len(enum) > 0 && !contains(enum, s) {
			add("expected one of [%s], got %q", strings.Join(enum, ", "), s)
		}

	case "number":
		if _, ok := v.(float64); !ok {
			add("expected number, got %s", kindOf(v))
		}

	case "integer":
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) {
			add("expected integer, got %s", kindOf(v))
		}

	case "boolean":
		if _, ok := v.(bool); !ok {
			add("expected boolean, got %s", kindOf(v))
		}
	}
}

func join(path, key string) string {
	if path == "$" {
		return key
	}
	return path + "." + key
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func kindOf(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case float64:
		if t == math.Trunc(t) {
			return "integer"
		}
		return "number"
	case bool:
		return "boolean"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
