package abandons

import (
	"strings"

	"abandon-report/core/reconcile"
	"abandon-report/core/tabular"
)

// DiffReports keeps the rows of current whose case number does not appear in prior.
// Rows without a case number are kept. Columns of current pass through unchanged.
func DiffReports(current, prior *tabular.Table) (*tabular.Table, error) {
	numbers, err := CaseNumbers(prior)
	if err != nil {
		return nil, err
	}
	seen := reconcile.CaseNumberSet(numbers)

	s, err := tabular.Resolve(current, PriorColumns)
	if err != nil {
		return nil, err
	}

	out := &tabular.Table{Name: current.Name, Header: current.Header}
	s.Each(func(_ int, row []string) {
		if _, ok := seen[strings.TrimSpace(s.Get(row, fieldCaseNumber))]; !ok {
			out.Rows = append(out.Rows, row)
		}
	})
	return out, nil
}
