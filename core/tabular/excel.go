package tabular

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the first sheet of a workbook into a Table.
func ReadXLSX(name string, r io.Reader, opts ...ReadOption) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &LoadError{Source: name, Err: fmt.Errorf("open workbook: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &LoadError{Source: name, Err: ErrEmpty}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &LoadError{Source: name, Err: fmt.Errorf("read sheet %s: %w", sheets[0], err)}
	}

	// Leading blank rows above the header are common in hand-kept sheets.
	for len(rows) > 0 && len(rows[0]) == 0 {
		rows = rows[1:]
	}

	return newTable(name, rows, newReadConfig(opts))
}

const reportSheet = "Reporte"

// WriteXLSX writes header and rows as a single-sheet workbook with a bold,
// filterable header row.
func WriteXLSX(w io.Writer, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeSheetRow(f, 1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeSheetRow(f, i+2, row); err != nil {
			return err
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetRowStyle(reportSheet, 1, 1, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	if len(header) > 0 {
		last, err := excelize.CoordinatesToCellName(len(header), len(rows)+1)
		if err != nil {
			return err
		}
		if err := f.AutoFilter(reportSheet, "A1:"+last, nil); err != nil {
			return fmt.Errorf("set autofilter: %w", err)
		}
	}

	return f.Write(w)
}

func writeSheetRow(f *excelize.File, rowNum int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
	}
	if err := f.SetSheetRow(reportSheet, cell, &row); err != nil {
		return fmt.Errorf("write row %d: %w", rowNum, err)
	}
	return nil
}
