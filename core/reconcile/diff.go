package reconcile

import "strings"

// CaseNumberSet builds the set of trimmed, non-empty case numbers.
func CaseNumberSet(caseNumbers []string) map[string]struct{} {
	set := make(map[string]struct{}, len(caseNumbers))
	for _, c := range caseNumbers {
		if c = strings.TrimSpace(c); c != "" {
			set[c] = struct{}{}
		}
	}
	return set
}

// NewRecords returns the rows whose case number is not in prior.
// Rows without a case number are always new.
func NewRecords(rows []Row, prior map[string]struct{}) []Row {
	fresh := make([]Row, 0, len(rows))
	for _, r := range rows {
		if _, seen := prior[strings.TrimSpace(r.CaseNumber)]; !seen {
			fresh = append(fresh, r)
		}
	}
	return fresh
}
