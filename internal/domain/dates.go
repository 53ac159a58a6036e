package domain

import "time"

// The API has served two date formats over its lifetime: day-first
// (DD.MM.YYYY) everywhere historically, and ISO (YYYY-MM-DD) for reminder
// target dates on newer deployments. Both are accepted everywhere.
var dateLayouts = []string{"02.01.2006", "2006-01-02"}

// ParseDate parses a fueling or reminder date string. It never mutates the
// record it came from; callers re-parse on every read.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
