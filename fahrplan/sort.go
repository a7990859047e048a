package fahrplan

import "sort"

type SortDirection int

const (
	Ascending SortDirection = iota
	Descending
)

func (d SortDirection) String() string {
	if d == Descending {
		return "DESC"
	}
	return "ASC"
}

// Sort returns a new slice ordered by the given field. The ascending sort
// is stable, equal keys keep their input order. Descending reverses the
// fully sorted ascending sequence instead of flipping the comparator, so
// tie order is the exact reverse of the ascending result.
func Sort(events []EventWithLiveStatus, sortBy Field, direction SortDirection) []EventWithLiveStatus {
	sorted := make([]EventWithLiveStatus, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(&sorted[i], &sorted[j], sortBy)
	})
	if direction == Descending {
		for i, j := 0, len(sorted)-1; i < j; i, j = i+1, j-1 {
			sorted[i], sorted[j] = sorted[j], sorted[i]
		}
	}
	return sorted
}

func less(a, b *EventWithLiveStatus, sortBy Field) bool {
	if sortBy == FieldDate {
		return a.Date.Before(b.Date)
	}
	accessor, ok := textAccessors[sortBy]
	if !ok {
		return false
	}
	left, _ := accessor(a)
	right, _ := accessor(b)
	return left < right
}
