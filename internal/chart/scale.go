package chart

import "math"

// LinearScale maps [0, DomainMax] onto [0, RangeLen].
type LinearScale struct {
	DomainMax float64
	RangeLen  float64
}

// NewLinearScale builds a scale. A non-positive domain is treated as 1.
func NewLinearScale(domainMax, rangeLen float64) LinearScale {
	if domainMax <= 0 || math.IsNaN(domainMax) {
		domainMax = 1
	}
	return LinearScale{DomainMax: domainMax, RangeLen: rangeLen}
}

// Map returns the range position of v, clamped to the domain.
func (s LinearScale) Map(v float64) float64 {
	return clamp(v, 0, s.DomainMax) / s.DomainMax * s.RangeLen
}

// Ticks returns n+1 evenly spaced domain values from 0 to DomainMax.
func (s LinearScale) Ticks(n int) []float64 {
	if n < 1 {
		n = 1
	}
	ticks := make([]float64, n+1)
	for i := range ticks {
		ticks[i] = s.DomainMax * float64(i) / float64(n)
	}
	return ticks
}

var niceSteps = []float64{1, 1.5, 2, 2.5, 3, 4, 5, 6, 8, 10}

// NiceMax rounds v up to a readable axis maximum. Non-positive values
// yield 1.
func NiceMax(v float64) float64 {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 1
	}
	mag := math.Pow(10, math.Floor(math.Log10(v)))
	norm := v / mag
	for _, step := range niceSteps {
		if norm <= step+1e-9 {
			return step * mag
		}
	}
	return 10 * mag
}
