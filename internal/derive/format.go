package derive

import (
	"strings"
	"time"
	"unicode"

	"github.com/farellandr/clubhub/internal/club"
)

// Slugify lowercases s and joins its letter/digit runs with single hyphens.
func Slugify(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pending && b.Len() > 0 {
				b.WriteByte('-')
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

// FormatDate renders a day as "Fri, 15 Mar 2024"; empty for the zero time.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Mon, 02 Jan 2006")
}

// FormatDay is FormatDate for a YYYY-MM-DD string.
func FormatDay(day string) string {
	return FormatDate(club.ParseDay(day))
}

// FormatClock turns "18:30" into "6:30 PM". Unparseable input is returned as is.
func FormatClock(clock string) string {
	t, err := time.Parse(club.ClockLayout, strings.TrimSpace(clock))
	if err != nil {
		return clock
	}
	return t.Format("3:04 PM")
}
