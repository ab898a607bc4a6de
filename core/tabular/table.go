package tabular

import "strings"

// naTokens are the cell values pandas reads as missing by default.
var naTokens = map[string]struct{}{
	"":     {},
	"nan":  {},
	"NaN":  {},
	"-nan": {},
	"NULL": {},
	"null": {},
	"None": {},
	"NA":   {},
	"N/A":  {},
	"n/a":  {},
	"#N/A": {},
	"<NA>": {},
	"NaT":  {},
}

// Warning is a non-fatal issue found while reading a table.
type Warning struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Table is a loaded input file. Every row has exactly len(Header) cells.
type Table struct {
	Name     string
	Header   []string
	Rows     [][]string
	Warnings []Warning
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// cleanCell trims a raw cell and, unless keepNA is set, maps NA tokens to the
// empty string.
func cleanCell(s string, keepNA bool) string {
	s = strings.TrimSpace(s)
	if keepNA {
		return s
	}
	if _, ok := naTokens[s]; ok {
		return ""
	}
	return s
}

// newTable builds a Table from raw records, the first being the header.
// Short rows are padded and long rows truncated, each with a warning.
func newTable(name string, records [][]string, cfg readConfig) (*Table, error) {
	if len(records) == 0 {
		return nil, &LoadError{Source: name, Err: ErrEmpty}
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		header[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	t := &Table{Name: name, Header: header, Rows: make([][]string, 0, len(records)-1)}
	for i, rec := range records[1:] {
		rowNum := i + 2 // header is row 1
		if len(rec) == 0 {
			continue
		}
		if len(rec) != len(header) {
			t.Warnings = append(t.Warnings, Warning{
				Row:     rowNum,
				Message: columnCountMessage(len(rec), len(header)),
			})
		}

		row := make([]string, len(header))
		for j := range row {
			if j < len(rec) {
				row[j] = cleanCell(rec[j], cfg.keepNA)
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}

func columnCountMessage(got, want int) string {
	if got < want {
		return "row has fewer columns than the header; padding with empty values"
	}
	return "row has more columns than the header; truncating extra columns"
}
