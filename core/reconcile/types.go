package reconcile

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// Policy selects how raw identifiers are accepted as join keys.
type Policy string

const (
	// PolicyLenient accepts any non-empty identifier.
	PolicyLenient Policy = "lenient"
	// PolicyStrict accepts only short numeric identifiers.
	PolicyStrict Policy = "strict"
)

// ParsePolicy validates a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyLenient, PolicyStrict:
		return p, nil
	default:
		return "", fmt.Errorf("unknown identifier policy %q (want %q or %q)", s, PolicyLenient, PolicyStrict)
	}
}

// MasterRecord is one compensation event as read from the master list.
// Every field holds the cleaned cell text; empty means missing.
type MasterRecord struct {
	// CompensationDate is the master's own date column, passed through untouched.
	CompensationDate string `json:"compensation_date"`

	// ContactEmail is the passenger's contact address.
	ContactEmail string `json:"contact_email"`

	// CaseNumber is the ticket number, also the display key for incremental runs.
	CaseNumber string `json:"case_number"`

	// OperatorEmail is the address used to load the compensation.
	OperatorEmail string `json:"operator_email"`

	// Amount is the compensation amount as written in the source.
	Amount string `json:"amount"`

	// Reason is the free-text compensation reason.
	Reason string `json:"reason"`

	// ReservationID is the raw, heterogeneous reservation identifier.
	ReservationID string `json:"reservation_id"`

	// Classification is the airport compensation tag.
	Classification string `json:"classification"`
}

// ReservationRecord is one journey entry of the reservation log.
type ReservationRecord struct {
	ReservationID string
	StartLocalAt  string
}

// TransactionRecord is one airport leg from a transaction extract.
type TransactionRecord struct {
	ReservationID string
	Mode          string
	FromAirport   string
	ToAirport     string
}

// JoinedRecord is a master row after the left joins. Fields from a side that did
// not match are invalid, never zero values.
type JoinedRecord struct {
	// Master is the originating compensation event.
	Master MasterRecord

	// Key is the normalized reservation identifier.
	Key string

	// JourneyStart is the reservation log's start time.
	JourneyStart sql.NullTime

	// Mode is the transaction mode tag. Invalid when no transaction matched.
	Mode sql.NullString

	// FromAirport is the parsed from-airport transaction time.
	FromAirport sql.NullTime

	// ToAirport is the parsed to-airport transaction time.
	ToAirport sql.NullTime
}

// Kind tags the shape of a Resolution.
type Kind int

const (
	// ResolvedAbsent means no source yields a start time.
	ResolvedAbsent Kind = iota
	// ResolvedTime means Resolution.Time holds the start time.
	ResolvedTime
	// ResolvedManual means a person has to decide the start time.
	ResolvedManual
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case ResolvedTime:
		return "time"
	case ResolvedManual:
		return "manual"
	default:
		return "absent"
	}
}

// Resolution is the outcome of resolving one joined record.
type Resolution struct {
	// Kind selects which of the other fields are meaningful.
	Kind Kind

	// Time is set only for ResolvedTime.
	Time time.Time

	// Rule names the rule that produced this resolution.
	Rule string
}

// Absent returns an absent resolution attributed to rule.
func Absent(rule string) Resolution {
	return Resolution{Kind: ResolvedAbsent, Rule: rule}
}

// Manual returns a manual entry resolution attributed to rule.
func Manual(rule string) Resolution {
	return Resolution{Kind: ResolvedManual, Rule: rule}
}

// At returns a concrete resolution attributed to rule.
func At(t time.Time, rule string) Resolution {
	return Resolution{Kind: ResolvedTime, Time: t, Rule: rule}
}
