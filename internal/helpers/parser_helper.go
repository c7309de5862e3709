package helpers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/farellandr/clubhub/internal/club"
	"github.com/gin-gonic/gin"
)

const MaxPageLimit = 100

func StringToInt(s string) (int, error) {
	return strconv.Atoi(s)
}

// ParsePagination reads page and limit, clamping limit to MaxPageLimit.
func ParsePagination(c *gin.Context, defaultLimit int) (page, limit int, err error) {
	page, err = StringToInt(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		return 0, 0, fmt.Errorf("invalid page number")
	}
	limit, err = StringToInt(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		return 0, 0, fmt.Errorf("invalid limit")
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit, nil
}

func TotalPages(total int64, limit int) int64 {
	if limit <= 0 {
		return 0
	}
	return (total + int64(limit) - 1) / int64(limit)
}

// ParseBool treats "1", "true" and "yes" as true, anything else as false.
func ParseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

func ParseDay(s string) (string, error) {
	s = strings.TrimSpace(s)
	if _, err := time.Parse(club.DayLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return s, nil
}

// ParseClock accepts an empty value; the event then has no start time.
func ParseClock(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if _, err := time.Parse(club.ClockLayout, s); err != nil {
		return "", fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return s, nil
}

// StartsAt combines a calendar day and an optional clock time in loc.
// Without a clock time the event starts at midnight.
func StartsAt(day, clock string, loc *time.Location) (time.Time, error) {
	if clock == "" {
		clock = "00:00"
	}
	return time.ParseInLocation(club.DayLayout+" "+club.ClockLayout, day+" "+clock, loc)
}

func ParseNonNegative(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := StringToInt(s)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid number %q", s)
	}
	return n, nil
}
