// Package derive computes presentation values from fetched club records:
// upcoming/past partitions, category and search filters, date ordering,
// countdowns and slugs. Everything here is pure apart from Tick.
package derive

import (
	"slices"
	"strings"
	"time"
)

// AllCategories disables category filtering.
const AllCategories = "all"

type Dated interface {
	When() time.Time
}

type Categorized interface {
	CategoryName() string
}

type Searchable interface {
	SearchFields() []string
}

// Partition splits items into upcoming and past relative to now. An item
// starting exactly at now is upcoming.
func Partition[T Dated](items []T, now time.Time) (upcoming, past []T) {
	for _, it := range items {
		if it.When().Before(now) {
			past = append(past, it)
		} else {
			upcoming = append(upcoming, it)
		}
	}
	return upcoming, past
}

func Upcoming[T Dated](items []T, now time.Time) []T {
	up, _ := Partition(items, now)
	return up
}

func Past[T Dated](items []T, now time.Time) []T {
	_, past := Partition(items, now)
	return past
}

// ByCategory keeps items whose category name equals category exactly. An
// empty category or "all" returns the input unchanged.
func ByCategory[T Categorized](items []T, category string) []T {
	if category == "" || strings.EqualFold(category, AllCategories) {
		return items
	}
	var out []T
	for _, it := range items {
		if it.CategoryName() == category {
			out = append(out, it)
		}
	}
	return out
}

// Search keeps items where any searchable field contains query, ignoring case.
func Search[T Searchable](items []T, query string) []T {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return items
	}
	var out []T
	for _, it := range items {
		for _, f := range it.SearchFields() {
			if strings.Contains(strings.ToLower(f), q) {
				out = append(out, it)
				break
			}
		}
	}
	return out
}

// SortByDate returns a sorted copy; ties keep their input order.
func SortByDate[T Dated](items []T, descending bool) []T {
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		c := a.When().Compare(b.When())
		if descending {
			return -c
		}
		return c
	})
	return out
}

// Categories lists the distinct category names in first-seen order.
func Categories[T Categorized](items []T) []string {
	seen := make(map[string]bool)
	var out []string
	for _, it := range items {
		name := it.CategoryName()
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
