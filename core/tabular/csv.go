package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
)

// delimiters are tried in order; the first yielding at least two header columns wins.
var delimiters = []rune{',', ';'}

// ReadCSV parses delimited text into a Table.
func ReadCSV(name string, r io.Reader, opts ...ReadOption) (*Table, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Source: name, Err: err}
	}

	data, _, err := DetectAndDecode(raw)
	if err != nil {
		return nil, &LoadError{Source: name, Err: err}
	}

	var lastErr error
	for _, delim := range delimiters {
		records, err := parseDelimited(data, delim)
		if err != nil {
			lastErr = err
			continue
		}
		if len(records) == 0 {
			return nil, &LoadError{Source: name, Err: ErrEmpty}
		}
		if len(records[0]) < 2 && delim != delimiters[len(delimiters)-1] {
			continue
		}
		return newTable(name, records, newReadConfig(opts))
	}

	return nil, &LoadError{Source: name, Err: fmt.Errorf("unreadable delimited text: %w", lastErr)}
}

func parseDelimited(data []byte, delim rune) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delim
	// Variable field counts are padded or truncated by newTable.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	return reader.ReadAll()
}
