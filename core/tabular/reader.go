package tabular

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Format is a tabular file format.
type Format string

const (
	// FormatCSV is delimited text.
	FormatCSV Format = "csv"
	// FormatXLSX is an Office Open XML workbook.
	FormatXLSX Format = "xlsx"
)

// FormatFromName infers the format from a file or object name.
// Names without a known spreadsheet extension are treated as delimited text.
func FormatFromName(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	case ".xls":
		return "", &LoadError{Source: name, Err: fmt.Errorf("%w: legacy .xls workbook, save it as .xlsx", ErrUnsupportedFormat)}
	default:
		return FormatCSV, nil
	}
}

// ParseFormat validates a user supplied output format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV, "":
		return FormatCSV, nil
	case FormatXLSX, "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ReadOption customizes how cells are read.
type ReadOption func(*readConfig)

type readConfig struct {
	keepNA bool
}

// KeepNA keeps NA tokens such as "N/A" or "None" as text instead of reading
// them as empty cells. Use it for generated reports, whose cells are data.
func KeepNA() ReadOption {
	return func(c *readConfig) { c.keepNA = true }
}

func newReadConfig(opts []ReadOption) readConfig {
	var cfg readConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Read decodes r according to the extension of name.
func Read(name string, r io.Reader, opts ...ReadOption) (*Table, error) {
	format, err := FormatFromName(name)
	if err != nil {
		return nil, err
	}
	if format == FormatXLSX {
		return ReadXLSX(name, r, opts...)
	}
	return ReadCSV(name, r, opts...)
}

// ReadFile opens and reads a local file. A missing file is a LoadError wrapping
// ErrMissingFile.
func ReadFile(path string, opts ...ReadOption) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &LoadError{Source: path, Err: ErrMissingFile}
		}
		return nil, &LoadError{Source: path, Err: err}
	}
	defer f.Close()

	return Read(filepath.Base(path), f, opts...)
}
