package marketday

import "time"

// IsMarketDay reports whether now falls on a weekday. Bursa Malaysia
// trades Monday through Friday; public holidays are not considered, so a
// holiday run fetches and reports whatever the provider returns.
func IsMarketDay(now time.Time) bool {
	wd := now.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
