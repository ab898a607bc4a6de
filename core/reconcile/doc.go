// Package reconcile links compensation events to the trip they compensate and
// decides which timestamp represents the start of that trip.
//
// Three sources take part:
//
//  1. Master: one row per compensation event, carrying a raw reservation id.
//  2. Reservations: the journey log, with an authoritative start time.
//  3. Transactions: airport legs with a mode tag and from/to airport times.
//
// # Pipeline
//
// Data flows one way:
//
//	raw records -> normalized keys and dates -> joined rows -> resolution -> report rows
//
// Identifiers are normalized under a Policy (lenient or strict). The master is
// left joined to reservations and then to transactions; every master row survives
// and duplicate keys fan out. Each joined row is then resolved by an ordered list
// of rules, first match wins, into a Resolution: a concrete time, a manual entry
// marker or absent. A Formatter turns the resolution into the display fields of
// the report.
//
// # Usage Example
//
//	report, err := reconcile.Build(reconcile.Input{
//	    Master:       master,
//	    Reservations: reservations,
//	    Transactions: transactions,
//	}, reconcile.DefaultOptions())
//
//	fresh := reconcile.NewRecords(report.Rows, reconcile.CaseNumberSet(prior))
//
// # Caching
//
// Long running processes that rebuild reports against the same journey log can
// keep lookup indices in an IndexCache, which coalesces concurrent builds.
package reconcile
