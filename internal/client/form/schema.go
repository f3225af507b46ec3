// Package form implements the edit dialogs of the dashboard as explicit
// state machines: a schema-driven form with field-scoped validation, and the
// two-step delete confirmation flow.
package form

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// FieldKind selects the validation rule set of a field.
type FieldKind int

const (
	// Text is a single-line string field.
	Text FieldKind = iota
	// Multiline is a free-text field.
	Multiline
	// URL accepts an empty string or a well-formed absolute URL.
	URL
	// Date accepts an ISO-8601 date ("2006-01-02" or RFC 3339).
	Date
	// Tags is a comma-separated list rendered as an ordered string slice.
	Tags
)

// Field describes one form input and its constraints.
type Field struct {
	// Name is the payload key of the field.
	Name string
	// Label is the human-readable name used in validation messages.
	Label string
	// Kind selects the validation rules.
	Kind FieldKind
	// Required rejects empty values.
	Required bool
	// MaxLen bounds the value length in characters; 0 means unbounded.
	MaxLen int
}

// Schema is the ordered field list of one dialog.
type Schema struct {
	Fields []Field
}

// Values holds the current form input keyed by field name.
type Values map[string]string

// Validate checks every field and returns field-scoped messages. An empty
// map means the form may be submitted. Validation never touches the network.
func (s Schema) Validate(v Values) map[string]string {
	errs := make(map[string]string)
	for _, f := range s.Fields {
		val := strings.TrimSpace(v[f.Name])

		if val == "" {
			if f.Required {
				errs[f.Name] = fmt.Sprintf("%s is required", f.Label)
			}
			continue
		}
		if f.MaxLen > 0 && len([]rune(val)) > f.MaxLen {
			errs[f.Name] = fmt.Sprintf("%s must be at most %d characters", f.Label, f.MaxLen)
			continue
		}

		switch f.Kind {
		case URL:
			if !isAbsoluteURL(val) {
				errs[f.Name] = "Invalid URL"
			}
		case Date:
			if _, err := ParseDate(val); err != nil {
				errs[f.Name] = "Invalid date"
			}
		}
	}
	return errs
}

// isAbsoluteURL reports whether s parses as a URL with scheme and host.
func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// ParseDate parses an ISO-8601 date, accepting a bare date or a full
// RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// TagList splits a comma-separated Tags value into an ordered list,
// trimming whitespace and dropping empty entries.
func TagList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
