// Package fitness holds the pure derivation helpers shared by the
// activity and stats layers.
package fitness

import (
	"fmt"
	"time"
)

// CalculatePace returns the pace in seconds per mile. A zero (or
// negative) distance yields 0 so callers can leave the pace field
// unset instead of dividing by zero.
func CalculatePace(distanceMiles float64, durationSeconds int64) int64 {
	if distanceMiles <= 0 {
		return 0
	}
	return int64(float64(durationSeconds) / distanceMiles)
}

// FormatPace renders a seconds-per-mile value as "M:SS" with
// zero-padded seconds.
func FormatPace(secondsPerMile int64) string {
	return fmt.Sprintf("%d:%02d", secondsPerMile/60, secondsPerMile%60)
}

// PeriodKey returns the calendar-month key ("YYYY-MM") an activity
// timestamp falls into.
func PeriodKey(t time.Time) string {
	return t.Format("2006-01")
}
