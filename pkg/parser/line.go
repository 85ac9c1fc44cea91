package parser

import (
	"fmt"
	"strings"
)

// LineRecord is the structured form of one input line.
type LineRecord struct {
	Command string
	Free    []string
	Named   map[string]string

	keys []string
}

// NewLineRecord creates an empty record for the given command name.
func NewLineRecord(command string) *LineRecord {
	return &LineRecord{
		Command: command,
		Free:    []string{},
		Named:   make(map[string]string),
	}
}

// ToLineRecord groups tokens into a LineRecord. The first token names the
// command only when it is a value; otherwise every token is an argument.
// A marker followed by another marker, or by nothing, is a flag with an
// empty value.
func ToLineRecord(tokens []Token) *LineRecord {
	rec := NewLineRecord("")

	start := 0
	if len(tokens) > 0 && !tokens[0].IsMarker() {
		rec.Command = tokens[0].Text
		start = 1
	}

	for i := start; i < len(tokens); i++ {
		tok := tokens[i]
		if !tok.IsMarker() {
			rec.AddFree(tok.Text)
			continue
		}
		if i+1 >= len(tokens) || tokens[i+1].IsMarker() {
			rec.AddNamed(tok.Text, "")
			continue
		}
		rec.AddNamed(tok.Text, tokens[i+1].Text)
		i++
	}

	return rec
}

// AddFree appends a positional value.
func (r *LineRecord) AddFree(value string) {
	r.Free = append(r.Free, value)
}

// AddNamed records a named value. A repeated key keeps its first position
// but takes the latest value.
func (r *LineRecord) AddNamed(key, value string) {
	if r.Named == nil {
		r.Named = make(map[string]string)
	}
	if _, exists := r.Named[key]; !exists {
		r.keys = append(r.keys, key)
	}
	r.Named[key] = value
}

// NamedKeys returns the named-argument keys in the order they first appeared.
func (r *LineRecord) NamedKeys() []string {
	if len(r.keys) == len(r.Named) {
		return append([]string(nil), r.keys...)
	}
	// Named was filled directly; fall back to whatever order we can offer.
	keys := make([]string, 0, len(r.Named))
	seen := make(map[string]bool, len(r.Named))
	for _, k := range r.keys {
		if _, ok := r.Named[k]; ok && !seen[k] {
			keys = append(keys, k)
			seen[k] = true
		}
	}
	for k := range r.Named {
		if !seen[k] {
			keys = append(keys, k)
		}
	}
	return keys
}

// Value returns the value recorded for key.
func (r *LineRecord) Value(key string) (string, bool) {
	v, ok := r.Named[key]
	return v, ok
}

// HasAny reports whether any of the given non-empty names was supplied.
func (r *LineRecord) HasAny(names ...string) bool {
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, ok := r.Named[n]; ok {
			return true
		}
	}
	return false
}

// FreeCount returns the number of positional values.
func (r *LineRecord) FreeCount() int {
	return len(r.Free)
}

// ArgCount returns the number of positional and named values.
func (r *LineRecord) ArgCount() int {
	return len(r.Free) + len(r.Named)
}

func (r *LineRecord) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "command: %q", r.Command)
	fmt.Fprintf(&sb, " free: %q", r.Free)
	sb.WriteString(" named: [")
	for i, k := range r.NamedKeys() {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s=%q", k, r.Named[k])
	}
	sb.WriteString("]")
	return sb.String()
}
