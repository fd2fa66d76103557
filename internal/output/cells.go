package output

import (
	"strconv"
	"strings"
)

// Column headers shared by every tabular format.
var headers = []string{"#", "Prompt", "Output", "Latency (s)", "Tokens", "Cost ($)"}

// absent is shown in text formats for a metric the backend did not report.
const absent = "-"

// LatencyCell renders a latency with its three decimals.
func LatencyCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 3, 64)
}

// TokensCell renders a token count.
func TokensCell(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// CostCell renders a cost with six decimals.
func CostCell(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

func orAbsent(s string) string {
	if s == "" {
		return absent
	}
	return s
}

// singleLine collapses whitespace runs so multi-line text fits one cell.
func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to at most n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 3 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
