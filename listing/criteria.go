package listing

import (
	"strings"
	"time"
)

type SortKey string

const (
	SortNone  SortKey = ""
	SortScore SortKey = "score"
	SortName  SortKey = "name"
)

func ParseSortKey(s string) SortKey {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case SortScore:
		return SortScore
	case SortName:
		return SortName
	default:
		return SortNone
	}
}

// Criteria is the filter state of a list view.
type Criteria struct {
	Status string
	Day    time.Time
	Skills []string
	Sort   SortKey
}

const DayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD day in loc. An empty string yields the zero time.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DayLayout, s, loc)
}

// Fields extracts the filter-relevant fields of T. A nil accessor disables the matching
// criterion.
type Fields[T any] struct {
	Status func(T) string
	Date   func(T) time.Time
	Skills func(T) []string
	Score  func(T) float64
	Name   func(T) string
}

// Apply derives the filtered and sorted view from the full collection.
func Apply[T any](items []T, c Criteria, f Fields[T]) []T {
	out := clone(items)
	if f.Status != nil {
		out = ByStatus(out, c.Status, f.Status)
	}
	if f.Date != nil {
		out = ByDay(out, c.Day, f.Date)
	}
	if f.Skills != nil {
		out = BySkills(out, c.Skills, f.Skills)
	}
	switch c.Sort {
	case SortScore:
		if f.Score != nil {
			out = SortByScore(out, f.Score)
		}
	case SortName:
		if f.Name != nil {
			out = SortByName(out, f.Name)
		}
	}
	return out
}
