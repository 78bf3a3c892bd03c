// Package mob converts between picoMOB (the network minor unit, "pmob") and
// display MOB. All arithmetic in the service happens in pmob int64 values;
// MOB strings exist only for customer-facing messages.
package mob

import (
	"fmt"
	"strings"
)

// PmobPerMob is the minor-unit scale of the payment network: 1 MOB = 10^12 pmob.
const PmobPerMob int64 = 1_000_000_000_000

// FormatMob renders a pmob amount as a trimmed decimal MOB string, e.g.
// 1_500_000_000_000 -> "1.5", 20 * PmobPerMob -> "20".
func FormatMob(pmob int64) string {
	neg := pmob < 0
	if neg {
		pmob = -pmob
	}
	whole := pmob / PmobPerMob
	frac := pmob % PmobPerMob

	s := fmt.Sprintf("%d", whole)
	if frac > 0 {
		fracStr := strings.TrimRight(fmt.Sprintf("%012d", frac), "0")
		s = s + "." + fracStr
	}
	if neg {
		s = "-" + s
	}
	return s
}

// ValueInCurrency converts a pmob amount to local currency using the drop's
// MOB-to-currency conversion rate.
func ValueInCurrency(pmob int64, rate float64) float64 {
	return float64(pmob) / float64(PmobPerMob) * rate
}

// FormatCurrency renders a currency value with its symbol, e.g. "£25.50".
func FormatCurrency(symbol string, value float64) string {
	return fmt.Sprintf("%s%.2f", symbol, value)
}
