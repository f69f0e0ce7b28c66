// Package query parses URL query strings into a case-insensitive
// parameter mapping, the way the catalog viewer page reads them.
package query

import (
	"net/url"
	"strings"
)

// Params is a parsed query string. Keys are lower-cased, percent-decoded
// parameter names; values are percent-decoded with their case preserved.
// A Params is built once per parse and never written again.
type Params map[string]Value

// Value is a single parameter value. Present distinguishes "p=" (present,
// empty) from an entry that had no "=" at all.
type Value struct {
	Text    string
	Present bool
}

// Parse turns the raw query string (everything after "?", excluding the
// "?") into a Params. Duplicate names keep the last occurrence. It never
// fails: entries without "=" are kept with an absent value, and percent
// escapes that cannot be decoded are kept as written.
func Parse(raw string) Params {
	p := make(Params)
	if raw == "" {
		return p
	}
	for _, entry := range strings.Split(raw, "&") {
		name, value, found := strings.Cut(entry, "=")
		key := strings.ToLower(decode(name))
		if !found {
			p[key] = Value{}
			continue
		}
		p[key] = Value{Text: decode(value), Present: true}
	}
	return p
}

// decode percent-decodes s, falling back to the raw text when the
// escaping is malformed. A literal "+" is kept as "+": the viewer
// applies percent-decoding only, not form decoding.
func decode(s string) string {
	d, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return d
}

// Get returns the value for name (matched case-insensitively), or the
// empty string when the parameter is missing or has no value.
func (p Params) Get(name string) string {
	return p[strings.ToLower(name)].Text
}

// Has reports whether the parameter appeared in the query string at all,
// with or without a value.
func (p Params) Has(name string) bool {
	_, ok := p[strings.ToLower(name)]
	return ok
}

// GetDefault returns the value for name, or def when the parameter is
// missing or valueless.
func (p Params) GetDefault(name, def string) string {
	if v, ok := p[strings.ToLower(name)]; ok && v.Present {
		return v.Text
	}
	return def
}
