package helper

import (
	"fmt"
	"strings"
)

// FormatPoints prints championship points without a trailing ".0" for whole
// values, matching how the official tables print them.
func FormatPoints(points float64) string {
	if points == float64(int64(points)) {
		return fmt.Sprintf("%d", int64(points))
	}
	return fmt.Sprintf("%.1f", points)
}

// ShortenEventName trims the literal "Grand Prix" from an event name for
// compact axis labels and keyboards.
func ShortenEventName(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(name, "Grand Prix", ""))
}
