package domain

import "time"

// FloodWindowCapacity bounds the number of post timestamps a room remembers.
const FloodWindowCapacity = 50

// FloodWindow keeps the most recent accepted post timestamps of a room, oldest first.
// It is not safe for concurrent use; the owning room serializes access.
type FloodWindow struct {
	stamps []time.Time
}

// Allow reports whether one more post fits: fewer than max accepted posts
// must be younger than window. A non-positive max disables throttling.
func (w *FloodWindow) Allow(now time.Time, max int, window time.Duration) bool {
	if max <= 0 {
		return true
	}
	cutoff := now.Add(-window)
	recent := 0
	for i := len(w.stamps) - 1; i >= 0; i-- {
		if !w.stamps[i].After(cutoff) {
			break
		}
		recent++
	}
	return recent < max
}

// Record appends an accepted post, evicting the oldest past capacity.
func (w *FloodWindow) Record(at time.Time) {
	if len(w.stamps) == FloodWindowCapacity {
		copy(w.stamps, w.stamps[1:])
		w.stamps = w.stamps[:FloodWindowCapacity-1]
	}
	w.stamps = append(w.stamps, at)
}

func (w *FloodWindow) Len() int {
	return len(w.stamps)
}
