package services

import "courier-route-service/internal/domain"

// Dominates reports whether q is at least as good as p in time, cost and CO2
// while not being the identical point.
func Dominates(q, p domain.Performance) bool {
	return q.Time <= p.Time && q.Cost <= p.Cost && q.CO2 <= p.CO2 && q != p
}

// ParetoIndices returns the indices of non-dominated points in discovery order.
// Equal points never dominate each other, so duplicates survive together.
func ParetoIndices(points []domain.Performance) []int {
	out := make([]int, 0, len(points))
	for i, p := range points {
		dominated := false
		for j, q := range points {
			if i == j {
				continue
			}
			if Dominates(q, p) {
				dominated = true
				break
			}
		}
		if !dominated {
			out = append(out, i)
		}
	}
	return out
}
