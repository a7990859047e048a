package fahrplan

import "time"

// congressDates are the days-of-December the congress runs on, in day
// index order.
var congressDates = []int{27, 28, 29, 30}

// DefaultDay picks the initial day filter from wall-clock time: during
// the congress window it is the running day's index, otherwise day 0.
func DefaultDay(now time.Time) int {
	if now.Month() != time.December {
		return 0
	}
	for index, date := range congressDates {
		if now.Day() == date {
			return index
		}
	}
	return 0
}
