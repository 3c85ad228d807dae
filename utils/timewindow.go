package utils

import (
	"fmt"
	"time"

	"github.com/jinzhu/now"
)

// HasExplicitTime reports whether a timestamp carries a real time-of-day
// component. Date pickers that only produced a date leave the clock at the
// midnight default, which the workflow must reject.
func HasExplicitTime(t time.Time) bool {
	if t.IsZero() {
		return false
	}
	return !t.Equal(now.With(t).BeginningOfDay())
}

// ParseTimeOfDay parses an optional HH:mm or HH:mm:ss window boundary.
func ParseTimeOfDay(value string) (time.Duration, error) {
	layouts := []string{"15:04:05", "15:04"}
	for _, layout := range layouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return time.Duration(parsed.Hour())*time.Hour +
				time.Duration(parsed.Minute())*time.Minute +
				time.Duration(parsed.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("invalid time of day %q", value)
}

// TimeOfDay returns how far t is into its own day.
func TimeOfDay(t time.Time) time.Duration {
	return t.Sub(now.With(t).BeginningOfDay())
}
