package chart

import "math"

// Arc is one segment of a donut gauge drawn as a dashed circle stroke.
// Length and Gap form the stroke-dasharray, Offset the stroke-dashoffset.
// MidAngle is the segment's middle in degrees, 0 pointing right and -90
// pointing to 12 o'clock.
type Arc struct {
	Percent  float64
	Length   float64
	Gap      float64
	Offset   float64
	MidAngle float64
}

// DashArray renders the stroke-dasharray value. An empty arc yields
// "0 C", which draws nothing.
func (a Arc) DashArray() string {
	return Num(a.Length) + " " + Num(a.Gap)
}

// DashOffset renders the stroke-dashoffset value.
func (a Arc) DashOffset() string {
	return Num(a.Offset)
}

// Circumference returns 2*pi*r.
func Circumference(r float64) float64 {
	return 2 * math.Pi * r
}

// GaugeArcs lays out the positive, neutral and negative percentages as
// consecutive arcs starting at 12 o'clock. Each percentage is clamped to
// [0,100] and the running total never exceeds 100, so the arc lengths never
// sum past the circumference.
func GaugeArcs(pos, neu, neg, r float64) [3]Arc {
	c := Circumference(r)
	var arcs [3]Arc
	start := 0.0
	for i, pct := range []float64{pos, neu, neg} {
		pct = clamp(pct, 0, 100)
		if start+pct > 100 {
			pct = 100 - start
		}
		length := pct / 100 * c
		arcs[i] = Arc{
			Percent:  pct,
			Length:   length,
			Gap:      c - length,
			Offset:   -start / 100 * c,
			MidAngle: (start+pct/2)*3.6 - 90,
		}
		start += pct
	}
	return arcs
}

// Callout returns the position of a label at angle (degrees) and distance
// from the centre, both as percentages of the gauge box. The box centre is
// (50,50) and its edge is at distance 50.
func Callout(angle, distance float64) (left, top float64) {
	rad := angle * math.Pi / 180
	return 50 + distance*math.Cos(rad), 50 + distance*math.Sin(rad)
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NeedleRotation maps a performance ratio to a dial angle in degrees:
// 1 points up, 0.5 and 1.5 reach the horizontal stops.
func NeedleRotation(ratio float64) float64 {
	return clamp((ratio-1)*180, -90, 90)
}
