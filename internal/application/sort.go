package application

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type SortKey string

const (
	SortKeyDate     SortKey = "date"
	SortKeyName     SortKey = "name"
	SortKeyPosition SortKey = "position"
)

type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

// NewComparator returns a total order over rows for the given key:
// dates compare by timestamp, strings by locale-aware collation, and
// descending flips the sign.
func NewComparator(key SortKey, direction SortDirection) func(a, b Application) int {
	coll := collate.New(language.English, collate.Loose)
	cmp := func(a, b Application) int {
		switch key {
		case SortKeyName:
			return coll.CompareString(a.FullName, b.FullName)
		case SortKeyPosition:
			return coll.CompareString(a.Job.Position, b.Job.Position)
		default:
			if a.AppliedAt.Equal(b.AppliedAt) {
				return 0
			}
			if a.AppliedAt.Before(b.AppliedAt) {
				return -1
			}
			return 1
		}
	}
	if direction == SortDescending {
		return func(a, b Application) int { return -cmp(a, b) }
	}
	return cmp
}

// Sort orders rows in place, stable across equal keys.
func Sort(apps []Application, key SortKey, direction SortDirection) {
	cmp := NewComparator(key, direction)
	sort.SliceStable(apps, func(i, j int) bool {
		return cmp(apps[i], apps[j]) < 0
	})
}
