package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// WriteCSV writes header and rows as UTF-8 CSV prefixed with a BOM so that
// spreadsheet applications keep accented characters intact.
func WriteCSV(w io.Writer, header []string, rows [][]string) error {
	if _, err := w.Write(bomUTF8); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	return cw.Error()
}

// Write encodes header and rows in the given format.
func Write(w io.Writer, format Format, header []string, rows [][]string) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, header, rows)
	case FormatXLSX:
		return WriteXLSX(w, header, rows)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// WriteFile writes header and rows to path in the format implied by its extension.
func WriteFile(path string, header []string, rows [][]string) (err error) {
	format, err := FormatFromName(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	return Write(f, format, header, rows)
}
