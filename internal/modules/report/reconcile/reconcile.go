package reconcile

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/yungbote/tgdash-backend/internal/modules/report/personas"
	"github.com/yungbote/tgdash-backend/internal/platform/logger"
)

var (
	ErrEmpty       = errors.New("empty model response")
	ErrUnparseable = errors.New("model response is not valid JSON")
)

// padded lists the long-form prose fields that may be topped up with spaces
// when the model stops a little short of the minimum.
var padded = map[string]bool{
	"summary":               true,
	"day_overview":          true,
	"group_atmosphere":      true,
	"creative_temperature":  true,
	"interaction_chemistry": true,
	"reasoning":             true,
	"intro":                 true,
}

type Reconciler struct {
	log *logger.Logger
}

func New(baseLog *logger.Logger) *Reconciler {
	if baseLog == nil {
		baseLog = logger.Nop()
	}
	return &Reconciler{log: baseLog.With("component", "Reconciler")}
}

// Reconcile turns raw model text into data that satisfies contract. Valid input
// is returned untouched. Otherwise strings are padded or truncated to the
// schema bounds and the result is validated once more.
func (r *Reconciler) Reconcile(raw string, contract personas.Contract, label string) (map[string]any, error) {
	log := r.log.With("context", label, "schema", contract.SchemaName)

	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, ErrEmpty
	}

	var v any
	if err := json.Unmarshal([]byte(trimmed), &v); err != nil {
		if strings.HasSuffix(trimmed, "}") || strings.HasSuffix(trimmed, "]") {
			log.Warn("Model response unparseable", "error", err, "preview", trimmed)
			return nil, fmt.Errorf("%w: %v", ErrUnparseable, err)
		}
		repaired := balance(trimmed)
		if err2 := json.Unmarshal([]byte(repaired), &v); err2 != nil {
			log.Warn("Model response repair failed", "error", err2, "preview", trimmed)
			return nil, fmt.Errorf("%w: %v", ErrUnparseable, err2)
		}
		log.Info("Repaired truncated model response", "appended", len(repaired)-len(trimmed))
	}

	obj, ok := v.(map[string]any)
	if !ok {
		return nil, &personas.ValidationError{
			Schema: contract.SchemaName,
			Issues: []personas.Issue{{Path: "$", Message: "expected object"}},
		}
	}

	err := contract.Validate(obj)
	if err == nil {
		return obj, nil
	}
	log.Warn("Initial validation failed, attempting fixes", "error", err)

	fixed := padStrings(contract.Node(), obj, "", log)
	fixed = truncateStrings(contract.Node(), fixed, "", log)

	out, _ := fixed.(map[string]any)
	if err = contract.Validate(out); err != nil {
		log.Error("Validation failed even after fixes", "error", err)
		return nil, err
	}
	log.Info("Validation succeeded after fixes")
	return out, nil
}

// Decode converts reconciled data into the contract's typed shape.
func Decode(data map[string]any, contract personas.Contract) (any, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	out := contract.NewData()
	if err := json.Unmarshal(b, out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", contract.SchemaName, err)
	}
	return out, nil
}

// balance appends the closers a cut-off answer is missing, innermost first.
// Brackets inside string literals are ignored; an unterminated string is
// closed before anything else.
func balance(s string) string {
	var (
		open     []byte
		inString bool
		escaped  bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			open = append(open, '}')
		case '[':
			open = append(open, ']')
		case '}', ']':
			if n := len(open); n > 0 && open[n-1] == c {
				open = open[:n-1]
			}
		}
	}
	var b strings.Builder
	b.WriteString(s)
	if inString {
		if escaped {
			b.WriteByte('\\')
		}
		b.WriteByte('"')
	}
	for i := len(open) - 1; i >= 0; i-- {
		b.WriteByte(open[i])
	}
	return b.String()
}

func padStrings(n personas.Node, v any, key string, log *logger.Logger) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			cn, _ := n.Property(k)
			out[k] = padStrings(cn, child, k, log)
		}
		return out
	case []any:
		items, _ := n.Items()
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = padStrings(items, child, "", log)
		}
		return out
	case string:
		if !padded[key] {
			return t
		}
		min, ok := n.MinLength()
		if !ok {
			return t
		}
		if l := utf8.RuneCountInString(t); l < min {
			log.Warn("Padding short field", "field", key, "from", l, "to", min)
			return t + strings.Repeat(" ", min-l)
		}
		return t
	default:
		return v
	}
}

func truncateStrings(n personas.Node, v any, key string, log *logger.Logger) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			cn, _ := n.Property(k)
			out[k] = truncateStrings(cn, child, k, log)
		}
		return out
	case []any:
		items, _ := n.Items()
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = truncateStrings(items, child, key, log)
		}
		return out
	case string:
		max, ok := n.MaxLength()
		if !ok {
			return t
		}
		if l := utf8.RuneCountInString(t); l > max {
			log.Warn("Truncating long field", "field", key, "from", l, "to", max)
			return Truncate(t, max)
		}
		return t
	default:
		return v
	}
}

// Truncate shortens s to at most max runes, preferring to cut at the last
// space before max-3 and appending "...".
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	limit := max - 3
	cut := -1
	for i := limit; i >= 0; i-- {
		if r[i] == ' ' {
			cut = i
			break
		}
	}
	if cut <= 0 {
		cut = limit
	}
	return string(r[:cut]) + "..."
}
