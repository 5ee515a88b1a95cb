package tracker

import "math"

// Percentage is current/total*100 clamped to [0, 100], 0 while total is unknown.
func Percentage(current, total uint32) float64 {
	if total == 0 {
		return 0
	}
	return clampPercent(float64(current) / float64(total) * 100)
}

func clampPercent(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// setTotal starts a phase with a known unit count.
func (t *Task) setTotal(total uint32) {
	t.Total = total
	t.Current = 0
	t.Percentage = 0
}

// advance moves current forward, never backwards and never past total.
// moved is false when the value did not increase.
func (t *Task) advance(current uint32) (moved bool, clamped bool) {
	if t.Total > 0 && current > t.Total {
		current = t.Total
		clamped = true
	}
	if current <= t.Current {
		return false, clamped
	}
	t.Current = current
	t.Percentage = Percentage(t.Current, t.Total)
	return true, clamped
}

// clearProgress drops the counters when a phase has no numeric progress.
func (t *Task) clearProgress() {
	t.Current = 0
	t.Total = 0
	t.Percentage = 0
}
