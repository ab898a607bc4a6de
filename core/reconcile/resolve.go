package reconcile

import "strings"

// roundTripMode is the transaction mode tag of a round trip.
const roundTripMode = "Round"

// Rule names.
const (
	RuleReservation      = "reservation"
	RuleNoTransaction    = "no-transaction"
	RuleManualEntry      = "manual-entry"
	RuleFromAirport      = "from-airport"
	RuleToAirport        = "to-airport"
	RuleModeWithoutTimes = "mode-without-times"
	RuleNone             = "none"
)

// Rule is one step of the resolution priority list.
type Rule struct {
	// Name identifies the rule in resolutions and summaries.
	Name string

	// Applies reports whether the rule decides rec.
	Applies func(rec *JoinedRecord) bool

	// Resolve produces the outcome for a record the rule applies to.
	Resolve func(rec *JoinedRecord) Resolution
}

// DefaultRules returns the trip start priority list. The reservation log wins
// over anything derived from transactions; round trips and legs with two
// candidate times go to manual review.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name:    RuleReservation,
			Applies: func(r *JoinedRecord) bool { return r.JourneyStart.Valid },
			Resolve: func(r *JoinedRecord) Resolution { return At(r.JourneyStart.Time, RuleReservation) },
		},
		{
			Name:    RuleNoTransaction,
			Applies: func(r *JoinedRecord) bool { return !r.Mode.Valid },
			Resolve: func(*JoinedRecord) Resolution { return Absent(RuleNoTransaction) },
		},
		{
			Name: RuleManualEntry,
			Applies: func(r *JoinedRecord) bool {
				return strings.TrimSpace(r.Mode.String) == roundTripMode || (r.FromAirport.Valid && r.ToAirport.Valid)
			},
			Resolve: func(*JoinedRecord) Resolution { return Manual(RuleManualEntry) },
		},
		{
			Name:    RuleFromAirport,
			Applies: func(r *JoinedRecord) bool { return r.FromAirport.Valid },
			Resolve: func(r *JoinedRecord) Resolution { return At(r.FromAirport.Time, RuleFromAirport) },
		},
		{
			Name:    RuleToAirport,
			Applies: func(r *JoinedRecord) bool { return r.ToAirport.Valid },
			Resolve: func(r *JoinedRecord) Resolution { return At(r.ToAirport.Time, RuleToAirport) },
		},
		{
			Name:    RuleModeWithoutTimes,
			Applies: func(*JoinedRecord) bool { return true },
			Resolve: func(*JoinedRecord) Resolution { return Absent(RuleModeWithoutTimes) },
		},
	}
}

// Resolver evaluates rules top to bottom; the first rule that applies wins.
type Resolver struct {
	rules []Rule
}

// NewResolver returns a resolver over rules, or over DefaultRules when none are given.
func NewResolver(rules ...Rule) *Resolver {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &Resolver{rules: rules}
}

// Rules returns the rule names in evaluation order.
func (r *Resolver) Rules() []string {
	names := make([]string, len(r.rules))
	for i, rule := range r.rules {
		names[i] = rule.Name
	}
	return names
}

// Resolve decides the trip start of rec.
func (r *Resolver) Resolve(rec *JoinedRecord) Resolution {
	for _, rule := range r.rules {
		if rule.Applies(rec) {
			return rule.Resolve(rec)
		}
	}
	return Absent(RuleNone)
}
