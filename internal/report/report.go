package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"klsetracker/internal/quote"
)

const (
	lineWidth  = 95
	disclaimer = "Disclaimer: Data is provided for informational purposes only and is not intended for trading purposes."
)

// Render formats the record set as a fixed-column-width console table
// framed by 95-character separators, with a title carrying the run
// timestamp and a trailing disclaimer. Pure formatting; it succeeds for
// any record set, including sets with long company names that overflow
// their column.
func Render(set *quote.Set, now time.Time) string {
	heavy := strings.Repeat("=", lineWidth)
	light := strings.Repeat("-", lineWidth)

	var b strings.Builder
	b.WriteString(heavy + "\n")
	fmt.Fprintf(&b, "Market Report for %s\n", now.Format("2006-01-02 15:04:05"))
	b.WriteString(heavy + "\n")
	fmt.Fprintf(&b, "%-30s | %-8s | %11s | %11s | %11s | %11s | %10s | %10s\n",
		"Company", "Symbol", "Prev. Close", "Last Done", "High", "Low", "Change", "% Change")
	b.WriteString(light + "\n")

	for _, rec := range set.Records() {
		fmt.Fprintf(&b, "%-30s | %-8s | RM%-9s | RM%-9s | RM%-9s | RM%-9s | %10s | %10s\n",
			rec.CompanyName,
			rec.Symbol,
			rec.PrevClose.StringFixed(3),
			rec.LastDone.StringFixed(3),
			rec.High.StringFixed(3),
			rec.Low.StringFixed(3),
			signed(rec.Change, 3),
			signed(rec.ChangePct, 2)+"%")
	}

	b.WriteString(light + "\n")
	b.WriteString(disclaimer + "\n")
	b.WriteString(heavy + "\n")
	return b.String()
}

// Summarize lists the five largest and five smallest movers by
// percentage change plus gainer/loser/unchanged counts. With fewer than
// ten records the two slices overlap; that duplication is intentional.
func Summarize(set *quote.Set) string {
	recs := set.Records()
	sorted := make([]quote.Record, len(recs))
	copy(sorted, recs)
	// descending by change_pct, stable so set order breaks ties
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ChangePct.GreaterThan(sorted[j].ChangePct)
	})

	var lines []string
	lines = append(lines, "TOP 5 GAINERS:")
	lines = append(lines, strings.Repeat("-", 40))
	for i, rec := range head(sorted, 5) {
		lines = append(lines, fmt.Sprintf("%d. %-20s %6s%%", i+1, clip(rec.CompanyName, 20), signed(rec.ChangePct, 2)))
	}

	lines = append(lines, "\nTOP 5 LOSERS:")
	lines = append(lines, strings.Repeat("-", 40))
	for i, rec := range tail(sorted, 5) {
		lines = append(lines, fmt.Sprintf("%d. %-20s %6s%%", i+1, clip(rec.CompanyName, 20), signed(rec.ChangePct, 2)))
	}

	var gainers, losers, unchanged int
	for _, rec := range recs {
		switch rec.ChangePct.Sign() {
		case 1:
			gainers++
		case -1:
			losers++
		default:
			unchanged++
		}
	}
	lines = append(lines, fmt.Sprintf("\nTotal stocks tracked: %d", len(recs)))
	lines = append(lines, fmt.Sprintf("Gainers: %d", gainers))
	lines = append(lines, fmt.Sprintf("Losers: %d", losers))
	lines = append(lines, fmt.Sprintf("Unchanged: %d", unchanged))

	return strings.Join(lines, "\n")
}

// signed renders d with an explicit sign; zero gets "+" like a
// %+.Nf format verb would produce.
func signed(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	if d.Sign() >= 0 {
		s = "+" + s
	}
	return s
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

func head(recs []quote.Record, n int) []quote.Record {
	if len(recs) < n {
		n = len(recs)
	}
	return recs[:n]
}

func tail(recs []quote.Record, n int) []quote.Record {
	if len(recs) < n {
		n = len(recs)
	}
	return recs[len(recs)-n:]
}
