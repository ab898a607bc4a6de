package reconcile

import (
	"database/sql"
	"strings"
)

// ReservationIndex maps join keys to journey start times, in source order.
type ReservationIndex struct {
	starts map[string][]sql.NullTime

	// Rows is the number of indexed reservation rows.
	Rows int

	// AbsentKeys counts rows whose identifier normalized to absent.
	AbsentKeys int

	// UnparseableDates counts rows whose start time could not be parsed.
	UnparseableDates int
}

// IndexReservations normalizes and indexes the reservation log. Rows without a
// usable key can never match and are left out.
func IndexReservations(records []ReservationRecord, policy Policy) *ReservationIndex {
	idx := &ReservationIndex{starts: make(map[string][]sql.NullTime, len(records))}
	for _, rec := range records {
		key, ok := NormalizeID(rec.ReservationID, policy)
		if !ok {
			idx.AbsentKeys++
			continue
		}
		start := parseNullTime(rec.StartLocalAt)
		if !start.Valid {
			idx.UnparseableDates++
		}
		idx.starts[key] = append(idx.starts[key], start)
		idx.Rows++
	}
	return idx
}

// Len returns the number of distinct keys.
func (idx *ReservationIndex) Len() int {
	return len(idx.starts)
}

type transactionLeg struct {
	mode sql.NullString
	from sql.NullTime
	to   sql.NullTime
}

// TransactionIndex maps join keys to transaction legs, in source order.
// Legs sharing a key are all kept.
type TransactionIndex struct {
	legs map[string][]transactionLeg

	// Rows is the number of indexed transaction rows.
	Rows int

	// AbsentKeys counts rows whose identifier normalized to absent.
	AbsentKeys int

	// UnparseableDates counts non-empty airport times that could not be parsed.
	UnparseableDates int
}

// IndexTransactions normalizes and indexes the concatenated transaction extracts.
func IndexTransactions(records []TransactionRecord, policy Policy) *TransactionIndex {
	idx := &TransactionIndex{legs: make(map[string][]transactionLeg, len(records))}
	for _, rec := range records {
		key, ok := NormalizeID(rec.ReservationID, policy)
		if !ok {
			idx.AbsentKeys++
			continue
		}

		mode := strings.TrimSpace(rec.Mode)
		leg := transactionLeg{
			mode: sql.NullString{String: mode, Valid: mode != ""},
			from: parseNullTime(rec.FromAirport),
			to:   parseNullTime(rec.ToAirport),
		}
		if !leg.from.Valid && strings.TrimSpace(rec.FromAirport) != "" {
			idx.UnparseableDates++
		}
		if !leg.to.Valid && strings.TrimSpace(rec.ToAirport) != "" {
			idx.UnparseableDates++
		}

		idx.legs[key] = append(idx.legs[key], leg)
		idx.Rows++
	}
	return idx
}

// Len returns the number of distinct keys.
func (idx *TransactionIndex) Len() int {
	return len(idx.legs)
}

// Join left joins master rows to reservations and then to transactions.
// Each master row yields one joined row per matching combination, or a single row
// with invalid fields when nothing matches. Master keys are normalized under
// policy; an absent key matches nothing. Either index may be nil.
func Join(master []MasterRecord, policy Policy, reservations *ReservationIndex, transactions *TransactionIndex) []JoinedRecord {
	joined := make([]JoinedRecord, 0, len(master))
	noStart := []sql.NullTime{{}}
	noLeg := []transactionLeg{{}}

	for _, m := range master {
		key, ok := NormalizeID(m.ReservationID, policy)

		starts := noStart
		legs := noLeg
		if ok {
			if reservations != nil {
				if found := reservations.starts[key]; len(found) > 0 {
					starts = found
				}
			}
			if transactions != nil {
				if found := transactions.legs[key]; len(found) > 0 {
					legs = found
				}
			}
		}

		for _, start := range starts {
			for _, leg := range legs {
				joined = append(joined, JoinedRecord{
					Master:       m,
					Key:          key,
					JourneyStart: start,
					Mode:         leg.mode,
					FromAirport:  leg.from,
					ToAirport:    leg.to,
				})
			}
		}
	}

	return joined
}
