package domain

import (
	"fmt"
	"strings"
	"time"
)

// ClockLayout is the stored form of a time of day: zero-padded 24h HH:MM.
const ClockLayout = "15:04"

var clockLayouts = []string{ClockLayout, "15:04:05", "3:04pm", "3pm"}

// ParseClock reads a time of day such as "9:00", "14:30" or "2pm" and
// returns it as HH:MM. Blank input means all day and returns "".
func ParseClock(s string) (string, error) {
	v := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
	if v == "" {
		return "", nil
	}
	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(ClockLayout), nil
		}
	}
	return "", fmt.Errorf("invalid time %q (expected HH:MM)", s)
}
