// Package listing filters and sorts already fetched collections. Every function returns a new
// slice and leaves its input untouched.
package listing

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

func Keep[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

func clone[T any](items []T) []T {
	return append(make([]T, 0, len(items)), items...)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ByStatus keeps items whose status equals status, ignoring case. An empty status keeps all.
func ByStatus[T any](items []T, status string, statusOf func(T) string) []T {
	want := normalize(status)
	if want == "" {
		return clone(items)
	}
	return Keep(items, func(item T) bool {
		return normalize(statusOf(item)) == want
	})
}

// ByDay keeps items whose date falls on the calendar day of day, evaluated in day's location.
// A zero day keeps all; items with a zero date never match.
func ByDay[T any](items []T, day time.Time, dateOf func(T) time.Time) []T {
	if day.IsZero() {
		return clone(items)
	}
	y, m, d := day.Date()
	return Keep(items, func(item T) bool {
		date := dateOf(item)
		if date.IsZero() {
			return false
		}
		iy, im, id := date.In(day.Location()).Date()
		return iy == y && im == m && id == d
	})
}

// BySkills keeps items whose tags contain every selected tag.
func BySkills[T any](items []T, tags []string, tagsOf func(T) []string) []T {
	if len(tags) == 0 {
		return clone(items)
	}
	return Keep(items, func(item T) bool {
		have := tagsOf(item)
		for _, tag := range tags {
			if !slices.Contains(have, tag) {
				return false
			}
		}
		return true
	})
}

// SortByScore orders by descending score; ties keep their relative order.
func SortByScore[T any](items []T, scoreOf func(T) float64) []T {
	out := clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return cmp.Compare(scoreOf(b), scoreOf(a))
	})
	return out
}

// SortByName orders case-insensitively by name; ties keep their relative order.
func SortByName[T any](items []T, nameOf func(T) string) []T {
	out := clone(items)
	slices.SortStableFunc(out, func(a, b T) int {
		return strings.Compare(strings.ToLower(nameOf(a)), strings.ToLower(nameOf(b)))
	})
	return out
}

// Statuses lists the distinct non-empty statuses in first-seen order.
func Statuses[T any](items []T, statusOf func(T) string) []string {
	return Distinct(items, statusOf)
}

// Distinct lists the distinct non-empty values of a string field in first-seen order.
func Distinct[T any](items []T, valueOf func(T) string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, item := range items {
		s := strings.TrimSpace(valueOf(item))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Skills lists the distinct tags in first-seen order.
func Skills[T any](items []T, tagsOf func(T) []string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, item := range items {
		for _, tag := range tagsOf(item) {
			if _, ok := seen[tag]; ok || tag == "" {
				continue
			}
			seen[tag] = struct{}{}
			out = append(out, tag)
		}
	}
	return out
}
