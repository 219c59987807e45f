package player

import (
	"fmt"
	"math"
)

// FormatDuration renders a duration in seconds as "minutes:seconds" with the
// seconds zero-padded to two digits. Both components truncate rather than
// round; malformed or unavailable durations render as "0:00".
func FormatDuration(seconds float64) string {
	if math.IsNaN(seconds) || math.IsInf(seconds, 0) || seconds < 0 {
		return "0:00"
	}

	total := int(seconds)
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}
