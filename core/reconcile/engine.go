package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultAllowedReasons are the compensation reasons kept when filtering is on.
var DefaultAllowedReasons = []string{
	"usuario pierde el vuelo",
	"reserva no encuentra conductor o no llega el conductor",
}

// ErrInvalidOptions is wrapped by every Options validation failure.
var ErrInvalidOptions = errors.New("invalid options")

// Input holds the records of one run.
type Input struct {
	Master       []MasterRecord
	Reservations []ReservationRecord
	Transactions []TransactionRecord

	// ReservationIndex, when set, is used instead of indexing Reservations.
	ReservationIndex *ReservationIndex
}

// Options controls a run.
type Options struct {
	// MasterPolicy sanitizes the master; rows whose id is absent under it are dropped.
	MasterPolicy Policy

	// LookupPolicy normalizes reservation and transaction ids.
	LookupPolicy Policy

	// FilterReasons keeps only master rows whose reason is in AllowedReasons.
	FilterReasons bool

	// AllowedReasons is compared trimmed and case-insensitive.
	AllowedReasons []string

	// ManualMarker is written for records needing manual review.
	ManualMarker string

	// Rules overrides the resolution priority list.
	Rules []Rule
}

// DefaultOptions returns strict master sanitizing, lenient lookups and no reason filter.
func DefaultOptions() Options {
	return Options{
		MasterPolicy:   PolicyStrict,
		LookupPolicy:   PolicyLenient,
		AllowedReasons: DefaultAllowedReasons,
		ManualMarker:   DefaultManualMarker,
	}
}

// Validate checks policies and the reason allow-list.
func (o Options) Validate() error {
	if _, err := ParsePolicy(string(o.MasterPolicy)); err != nil {
		return fmt.Errorf("%w: master policy: %v", ErrInvalidOptions, err)
	}
	if _, err := ParsePolicy(string(o.LookupPolicy)); err != nil {
		return fmt.Errorf("%w: lookup policy: %v", ErrInvalidOptions, err)
	}
	if o.FilterReasons && len(o.AllowedReasons) == 0 {
		return fmt.Errorf("%w: reason filter enabled with an empty allow-list", ErrInvalidOptions)
	}
	return nil
}

// SkippedSource is an input file left out of a run.
type SkippedSource struct {
	Source string `json:"source" yaml:"source"`
	Reason string `json:"reason" yaml:"reason"`
}

// Summary provides aggregate counts for a run.
type Summary struct {
	// MasterRows is the number of master rows read.
	MasterRows int `json:"master_rows" yaml:"master_rows"`

	// DroppedInvalidID counts master rows dropped by the master policy.
	DroppedInvalidID int `json:"dropped_invalid_id" yaml:"dropped_invalid_id"`

	// FilteredByReason counts master rows removed by the reason filter.
	FilteredByReason int `json:"filtered_by_reason" yaml:"filtered_by_reason"`

	// ReservationRows is the number of indexed reservation rows.
	ReservationRows int `json:"reservation_rows" yaml:"reservation_rows"`

	// TransactionRows is the number of indexed transaction rows.
	TransactionRows int `json:"transaction_rows" yaml:"transaction_rows"`

	// UnparseableDates counts reservation and transaction times that failed to parse.
	UnparseableDates int `json:"unparseable_dates" yaml:"unparseable_dates"`

	// OutputRows is the number of report rows.
	OutputRows int `json:"output_rows" yaml:"output_rows"`

	// FanOutRows counts report rows beyond one per kept master row.
	FanOutRows int `json:"fan_out_rows" yaml:"fan_out_rows"`

	// Resolved, Manual and Absent count report rows by resolution kind.
	Resolved int `json:"resolved" yaml:"resolved"`
	Manual   int `json:"manual" yaml:"manual"`
	Absent   int `json:"absent" yaml:"absent"`

	// ByRule counts report rows by the rule that resolved them.
	ByRule map[string]int `json:"by_rule" yaml:"by_rule"`

	// TotalAmount sums the amounts of kept master rows, once per master row.
	TotalAmount decimal.Decimal `json:"total_amount" yaml:"total_amount"`

	// UnparsedAmounts counts kept master rows whose amount is not a number.
	UnparsedAmounts int `json:"unparsed_amounts" yaml:"unparsed_amounts"`

	// SkippedSources lists input files that were left out.
	SkippedSources []SkippedSource `json:"skipped_sources,omitempty" yaml:"skipped_sources,omitempty"`
}

// Report is the result of a run.
type Report struct {
	Rows    []Row   `json:"rows"`
	Summary Summary `json:"summary"`
}

// Header returns the report columns in output order.
func (r *Report) Header() []string {
	return Header()
}

// Values returns the report cells in Header order.
func (r *Report) Values() [][]string {
	return Values(r.Rows)
}

// Build runs the pipeline: sanitize and filter the master, index the lookup
// sources, left join, resolve and format. Field level problems degrade to empty
// values; only invalid options return an error.
func Build(in Input, opts Options) (*Report, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	summary := Summary{
		MasterRows: len(in.Master),
		ByRule:     make(map[string]int),
	}

	master, dropped := sanitizeMaster(in.Master, opts.MasterPolicy)
	summary.DroppedInvalidID = dropped

	if opts.FilterReasons {
		var filtered int
		master, filtered = FilterReasons(master, opts.AllowedReasons)
		summary.FilteredByReason = filtered
	}

	reservations := in.ReservationIndex
	if reservations == nil {
		reservations = IndexReservations(in.Reservations, opts.LookupPolicy)
	}
	transactions := IndexTransactions(in.Transactions, opts.LookupPolicy)
	summary.ReservationRows = reservations.Rows
	summary.TransactionRows = transactions.Rows
	summary.UnparseableDates = reservations.UnparseableDates + transactions.UnparseableDates

	for _, m := range master {
		if amount, ok := ParseAmount(m.Amount); ok {
			summary.TotalAmount = summary.TotalAmount.Add(amount)
		} else if strings.TrimSpace(m.Amount) != "" {
			summary.UnparsedAmounts++
		}
	}

	joined := Join(master, opts.LookupPolicy, reservations, transactions)
	resolver := NewResolver(opts.Rules...)
	formatter := NewFormatter(opts.ManualMarker)

	rows := make([]Row, 0, len(joined))
	for i := range joined {
		res := resolver.Resolve(&joined[i])
		rows = append(rows, formatter.Row(&joined[i], res))

		summary.ByRule[res.Rule]++
		switch res.Kind {
		case ResolvedTime:
			summary.Resolved++
		case ResolvedManual:
			summary.Manual++
		default:
			summary.Absent++
		}
	}

	summary.OutputRows = len(rows)
	summary.FanOutRows = len(rows) - len(master)

	return &Report{Rows: rows, Summary: summary}, nil
}

// sanitizeMaster drops master rows whose reservation id is absent under policy.
func sanitizeMaster(master []MasterRecord, policy Policy) ([]MasterRecord, int) {
	kept := make([]MasterRecord, 0, len(master))
	for _, m := range master {
		if _, ok := NormalizeID(m.ReservationID, policy); ok {
			kept = append(kept, m)
		}
	}
	return kept, len(master) - len(kept)
}

// FilterReasons keeps master rows whose trimmed reason matches one of allowed,
// ignoring case. It returns the kept rows and the number removed.
func FilterReasons(master []MasterRecord, allowed []string) ([]MasterRecord, int) {
	set := make(map[string]struct{}, len(allowed))
	for _, reason := range allowed {
		set[strings.ToLower(strings.TrimSpace(reason))] = struct{}{}
	}

	kept := make([]MasterRecord, 0, len(master))
	for _, m := range master {
		if _, ok := set[strings.ToLower(strings.TrimSpace(m.Reason))]; ok {
			kept = append(kept, m)
		}
	}
	return kept, len(master) - len(kept)
}
