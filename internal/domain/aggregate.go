package domain

import "slices"

// MostActive returns every cookie tied for the highest access count.
// An empty set yields an empty, non-nil slice. The result is sorted.
func MostActive(activity ActivitySet) []string {
	maxCount := 0
	for _, a := range activity {
		maxCount = max(maxCount, a.Count())
	}

	winners := make([]string, 0)
	for id, a := range activity {
		if a.Count() == maxCount {
			winners = append(winners, id)
		}
	}
	slices.Sort(winners)
	return winners
}
