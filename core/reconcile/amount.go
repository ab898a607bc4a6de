package reconcile

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// groupedAmount matches es-CL style amounts: dot thousands, optional comma decimals.
var groupedAmount = regexp.MustCompile(`^-?\d{1,3}(\.\d{3})+(,\d+)?$`)

// ParseAmount reads a compensation amount such as "15000", "$15.000" or
// "1.234,50". The second return value is false when the text is not a number.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "CLP")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, false
	}

	switch {
	case groupedAmount.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ",") == 1 && !strings.Contains(s, "."):
		s = strings.Replace(s, ",", ".", 1)
	default:
		s = strings.ReplaceAll(s, ",", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
