package utils

import (
	"fmt"
	"time"
)

// CurrentSemester derives the active semester label from a point in time:
// January-May is Spring, June-August is Summer, the rest is Fall.
func CurrentSemester(now time.Time) string {
	year := now.Year()
	switch month := now.Month(); {
	case month >= time.January && month <= time.May:
		return fmt.Sprintf("Spring%d", year)
	case month >= time.June && month <= time.August:
		return fmt.Sprintf("Summer%d", year)
	default:
		return fmt.Sprintf("Fall%d", year)
	}
}
