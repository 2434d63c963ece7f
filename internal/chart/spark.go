package chart

// Sparkline box and scale used by the category blocks.
const (
	SparkWidth  = 280.0
	SparkHeight = 80.0
	sparkLeft   = 30.0
	sparkStep   = 55.0
	sparkUnit   = 8.0
)

// SparkX returns the x coordinate of week i.
func SparkX(i int) float64 {
	return sparkLeft + float64(i)*sparkStep
}

// SparkY returns the y coordinate of a score on the 0..10 scale.
func SparkY(score float64) float64 {
	return SparkHeight - clamp(score, 0, 10)*sparkUnit
}

// SparkPoints returns one point per present score. Missing weeks are
// skipped, so the line joins the remaining points directly.
func SparkPoints(scores []*float64) []Point {
	var pts []Point
	for i, s := range scores {
		if s == nil {
			continue
		}
		pts = append(pts, Point{X: SparkX(i), Y: SparkY(*s)})
	}
	return pts
}

// RingCircumference is the stroke length of the staff ratio rings (r=10).
const RingCircumference = 62.8

// RingArc describes the value stroke of a ratio ring.
type RingArc struct {
	Dash    float64
	Stroke  string
	Opacity float64
}

// DashArray renders the ring's stroke-dasharray value.
func (r RingArc) DashArray() string {
	return Num(r.Dash) + " " + Num(RingCircumference)
}

// Ring returns the value stroke for pct percent in color. A zero ring is
// still drawn, pale and translucent.
func Ring(pct float64, color string) RingArc {
	pct = clamp(pct, 0, 100)
	if pct == 0 {
		return RingArc{Dash: 0, Stroke: "#eee", Opacity: 0.3}
	}
	return RingArc{Dash: pct / 100 * RingCircumference, Stroke: color, Opacity: 1}
}
