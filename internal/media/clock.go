package media

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatClock renders a second offset as HH:MM:SS. Fractions truncate to
// whole seconds; minutes and hours roll over via total-seconds conversion,
// not string slicing.
func FormatClock(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// ParseClock parses an HH:MM:SS offset back into seconds. It accepts the
// output of FormatClock and the whole-second prefix of caption timestamps.
func ParseClock(value string) (float64, error) {
	value = strings.TrimSpace(value)
	parts := strings.Split(value, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("clock value %q: want HH:MM:SS", value)
	}
	var total float64
	for _, part := range parts {
		// Caption timestamps carry fractional seconds in the last field.
		field, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return 0, fmt.Errorf("clock value %q: %w", value, err)
		}
		total = total*60 + field
	}
	return total, nil
}

// FormatCaptionTimestamp renders a second offset in the caption timing
// format HH:MM:SS.mmm.
func FormatCaptionTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int(seconds*1000 + 0.5)
	return fmt.Sprintf("%s.%03d", FormatClock(float64(millis/1000)), millis%1000)
}
