package tabular

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Column describes how a canonical field is found among a table's headers.
type Column struct {
	// Field is the canonical field name used by downstream code.
	Field string
	// Names are accepted header spellings, matched exactly after normalization.
	Names []string
	// Contains are substrings tried when no exact name matches.
	Contains []string
	// Required makes an unresolved column a LoadError.
	Required bool
}

// Schema maps canonical fields to header positions of one table.
type Schema struct {
	table   *Table
	index   map[string]int
	headers map[string]string
}

// Resolve maps every column to a header of t. Exact matches are assigned before
// any substring fallback so that a fallback never steals a header another column
// names exactly.
func Resolve(t *Table, columns []Column) (*Schema, error) {
	normalized := make([]string, len(t.Header))
	for i, h := range t.Header {
		normalized[i] = NormalizeHeader(h)
	}

	s := &Schema{table: t, index: make(map[string]int), headers: make(map[string]string)}
	claimed := make(map[int]bool)

	assign := func(col Column, i int) {
		s.index[col.Field] = i
		s.headers[col.Field] = t.Header[i]
		claimed[i] = true
	}

	for _, col := range columns {
		if i := findExact(normalized, col.Names, claimed); i >= 0 {
			assign(col, i)
		}
	}

	for _, col := range columns {
		if _, ok := s.index[col.Field]; ok {
			continue
		}
		if i := findContaining(normalized, col.Contains, claimed); i >= 0 {
			assign(col, i)
			continue
		}
		if col.Required {
			return nil, &LoadError{Source: t.Name, Column: col.Field, Err: ErrMissingColumn}
		}
	}

	return s, nil
}

// Header returns the original header resolved for field.
func (s *Schema) Header(field string) string {
	return s.headers[field]
}

// Get returns the cell of row for field, or "" when the field is unresolved.
func (s *Schema) Get(row []string, field string) string {
	i, ok := s.index[field]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

// Each calls fn for every data row of the table with its 1-based data row number.
func (s *Schema) Each(fn func(rowNum int, row []string)) {
	for i, row := range s.table.Rows {
		fn(i+1, row)
	}
}

func findExact(headers, names []string, claimed map[int]bool) int {
	for _, name := range names {
		want := NormalizeHeader(name)
		for i, h := range headers {
			if !claimed[i] && h == want {
				return i
			}
		}
	}
	return -1
}

func findContaining(headers, substrings []string, claimed map[int]bool) int {
	for _, sub := range substrings {
		want := NormalizeHeader(sub)
		if want == "" {
			continue
		}
		for i, h := range headers {
			if !claimed[i] && strings.Contains(h, want) {
				return i
			}
		}
	}
	return -1
}

// NormalizeHeader lowercases a header, strips diacritics and collapses whitespace.
func NormalizeHeader(header string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	s, _, err := transform.String(t, header)
	if err != nil {
		s = header
	}
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}
