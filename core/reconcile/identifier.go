package reconcile

import "strings"

// maxStrictIDLength bounds identifiers accepted by PolicyStrict.
const maxStrictIDLength = 20

// NormalizeID turns a raw identifier into a join key. The second return value is
// false when the identifier is absent under the given policy.
//
// Surrounding whitespace and one trailing ".0" (left behind when numeric ids are
// exported as floats) are removed before the policy is applied. Scientific
// notation ("1.2345E+11") is never expanded.
func NormalizeID(raw string, policy Policy) (string, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, ".0")
	if s == "" {
		return "", false
	}

	if policy == PolicyStrict && !isStrictID(s) {
		return "", false
	}
	return s, true
}

// isStrictID reports whether s is made of digits with at most one decimal point.
func isStrictID(s string) bool {
	if len(s) > maxStrictIDLength {
		return false
	}

	digits, points := 0, 0
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.':
			points++
		default:
			return false
		}
	}
	return digits > 0 && points <= 1
}
