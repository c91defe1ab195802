package quote

import (
	"time"

	"github.com/shopspring/decimal"
)

// SymbolEntry ties a display name to a Bursa Malaysia ticker.
// Entries come from configuration and are never mutated.
type SymbolEntry struct {
	Name   string `json:"name"`
	Ticker string `json:"ticker"`
}

// Raw is the provider payload for one symbol. Every field is optional;
// nil means the provider did not return that key.
type Raw struct {
	RegularMarketPrice         *float64
	CurrentPrice               *float64
	PreviousClose              *float64
	RegularMarketPreviousClose *float64
	DayHigh                    *float64
	DayLow                     *float64
}

// Record is the normalized per-symbol output. Prices and Change carry
// three fractional digits, ChangePct two. All rounding is bank rounding
// (half to even).
type Record struct {
	CompanyName string          `csv:"company_name"`
	Symbol      string          `csv:"symbol"`
	PrevClose   decimal.Decimal `csv:"prev_close"`
	LastDone    decimal.Decimal `csv:"last_done"`
	High        decimal.Decimal `csv:"high"`
	Low         decimal.Decimal `csv:"low"`
	Change      decimal.Decimal `csv:"change"`
	ChangePct   decimal.Decimal `csv:"change_pct"`
	CurrentDate string          `csv:"current_date"`
	PrevDate    string          `csv:"prev_date"`
}

const dateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

// Normalize resolves the price fields of raw with fallback precedence and
// derives change and percentage change. It returns false when neither the
// primary nor the fallback key resolved for last done or previous close;
// such symbols carry no record and are excluded downstream.
//
// Last done prefers regularMarketPrice over currentPrice; previous close
// prefers previousClose over regularMarketPreviousClose. Day high and low
// default to zero when absent.
//
// PrevDate is the wall clock date minus one calendar day with no weekend
// adjustment, so a Monday run reports the Sunday date. That mirrors the
// upstream report this feeds and is covered by tests.
func Normalize(entry SymbolEntry, raw Raw, now time.Time) (Record, bool) {
	last := first(raw.RegularMarketPrice, raw.CurrentPrice)
	prev := first(raw.PreviousClose, raw.RegularMarketPreviousClose)
	if last == nil || prev == nil {
		return Record{}, false
	}

	lastDone := decimal.NewFromFloat(*last)
	prevClose := decimal.NewFromFloat(*prev)
	change := lastDone.Sub(prevClose)

	changePct := decimal.Zero
	if !prevClose.IsZero() {
		changePct = change.Div(prevClose).Mul(hundred)
	}

	return Record{
		CompanyName: entry.Name,
		Symbol:      entry.Ticker,
		PrevClose:   prevClose.RoundBank(3),
		LastDone:    lastDone.RoundBank(3),
		High:        orZero(raw.DayHigh),
		Low:         orZero(raw.DayLow),
		Change:      change.RoundBank(3),
		ChangePct:   changePct.RoundBank(2),
		CurrentDate: now.Format(dateLayout),
		PrevDate:    now.AddDate(0, 0, -1).Format(dateLayout),
	}, true
}

func first(vals ...*float64) *float64 {
	for _, v := range vals {
		if v != nil {
			return v
		}
	}
	return nil
}

func orZero(v *float64) decimal.Decimal {
	if v == nil {
		return decimal.Zero.RoundBank(3)
	}
	return decimal.NewFromFloat(*v).RoundBank(3)
}
