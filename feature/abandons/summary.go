package abandons

import (
	"sort"
	"strconv"

	"abandon-report/core/output"
	"abandon-report/core/reconcile"
)

// SummaryView renders a run summary as a metric/value table.
type SummaryView struct {
	reconcile.Summary `yaml:",inline"`

	// NewRows is the size of the incremental report, or -1 without a prior set.
	NewRows int `json:"new_rows" yaml:"new_rows"`
}

// NewSummaryView builds the view of a finished run.
func NewSummaryView(result *Result) SummaryView {
	v := SummaryView{Summary: result.Report.Summary, NewRows: -1}
	if result.HasPrior() {
		v.NewRows = len(result.New)
	}
	return v
}

// Table implements output.Tabler.
func (v SummaryView) Table() output.Data {
	s := v.Summary
	rows := [][]string{
		{"master rows", strconv.Itoa(s.MasterRows)},
		{"dropped invalid id", strconv.Itoa(s.DroppedInvalidID)},
		{"filtered by reason", strconv.Itoa(s.FilteredByReason)},
		{"reservation rows", strconv.Itoa(s.ReservationRows)},
		{"transaction rows", strconv.Itoa(s.TransactionRows)},
		{"unparseable dates", strconv.Itoa(s.UnparseableDates)},
		{"output rows", strconv.Itoa(s.OutputRows)},
		{"fan-out rows", strconv.Itoa(s.FanOutRows)},
		{"resolved", strconv.Itoa(s.Resolved)},
		{"manual", strconv.Itoa(s.Manual)},
		{"absent", strconv.Itoa(s.Absent)},
	}

	rules := make([]string, 0, len(s.ByRule))
	for name := range s.ByRule {
		rules = append(rules, name)
	}
	sort.Strings(rules)
	for _, name := range rules {
		rows = append(rows, []string{"rule " + name, strconv.Itoa(s.ByRule[name])})
	}

	rows = append(rows,
		[]string{"total amount", s.TotalAmount.StringFixed(0)},
		[]string{"unparsed amounts", strconv.Itoa(s.UnparsedAmounts)},
	)
	if v.NewRows >= 0 {
		rows = append(rows, []string{"new rows", strconv.Itoa(v.NewRows)})
	}
	for _, skipped := range s.SkippedSources {
		rows = append(rows, []string{"skipped " + skipped.Source, skipped.Reason})
	}

	return output.Data{
		Headers:      []string{"Metric", "Value"},
		Rows:         rows,
		RightAligned: []int{1},
	}
}
