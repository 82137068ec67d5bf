package routing

import (
	"fmt"
	"math"
)

// FormatDuration renders seconds as "X min Y sec", dropping whichever part
// is zero.
func FormatDuration(seconds float64) string {
	minutes := int(seconds) / 60
	remaining := int(math.Round(math.Mod(seconds, 60)))

	if minutes == 0 {
		return fmt.Sprintf("%d sec", remaining)
	}
	if remaining == 0 {
		return fmt.Sprintf("%d min", minutes)
	}

	return fmt.Sprintf("%d min %d sec", minutes, remaining)
}

// FormatDistance renders kilometres as metres below 100m, one decimal below
// 10km and whole kilometres beyond.
func FormatDistance(kilometres float64) string {
	if kilometres < 0.1 {
		return fmt.Sprintf("%d m", int(math.Round(kilometres*1000)))
	}
	if kilometres < 10 {
		return fmt.Sprintf("%.1f km", kilometres)
	}

	return fmt.Sprintf("%d km", int(math.Round(kilometres)))
}
