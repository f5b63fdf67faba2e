package shop

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*([AaPp][Mm])?$`)

// IsOpen reports whether s accepts orders at now. Missing hours fail open.
//
// Windows that cross midnight (closing earlier than opening) are not
// supported and evaluate as closed outside [open, close].
func IsOpen(s Shop, now time.Time) bool {
	if s.OpeningTime == "" || s.ClosingTime == "" {
		return true
	}
	current := now.Hour()*60 + now.Minute()
	return ParseClock(s.OpeningTime) <= current && current <= ParseClock(s.ClosingTime)
}

// ParseClock converts "HH:MM" or "hh:mm AM/PM" to minutes since midnight.
// Anything unparseable is minute 0.
func ParseClock(value string) int {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(value))
	if m == nil {
		return 0
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	if minutes > 59 {
		return 0
	}

	switch strings.ToUpper(m[3]) {
	case "":
		if hours > 23 {
			return 0
		}
	case "AM":
		if hours < 1 || hours > 12 {
			return 0
		}
		if hours == 12 {
			hours = 0
		}
	case "PM":
		if hours < 1 || hours > 12 {
			return 0
		}
		if hours != 12 {
			hours += 12
		}
	}
	return hours*60 + minutes
}
