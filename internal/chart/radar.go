package chart

import (
	"math"
	"strings"
)

// RadarMax is the value at the outer edge of every radar axis.
const RadarMax = 10.0

// anchorEpsilon decides when a label sits on the vertical axis.
const anchorEpsilon = 1e-6

// RadarAngle returns the angle of axis i of n in radians. Axis 0 points
// straight up and the rest follow clockwise.
func RadarAngle(i, n int) float64 {
	if n <= 0 {
		return -math.Pi / 2
	}
	return -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
}

// RadarPoint places value on axis i of n. Values are clamped to
// [0, RadarMax].
func RadarPoint(i, n int, value float64, center Point, radius float64) Point {
	a := RadarAngle(i, n)
	r := clamp(value, 0, RadarMax) / RadarMax * radius
	return Point{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}
}

// RadarLabel returns the label position for axis i of n, pad units
// outside the radius, and the text-anchor that keeps the label clear of
// the chart.
func RadarLabel(i, n int, center Point, radius, pad float64) (Point, string) {
	a := RadarAngle(i, n)
	r := radius + pad
	p := Point{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)}

	cos := math.Cos(a)
	switch {
	case cos > anchorEpsilon:
		return p, "start"
	case cos < -anchorEpsilon:
		return p, "end"
	default:
		return p, "middle"
	}
}

// RadarPolygon returns the points of values spread over len(values) axes.
func RadarPolygon(values []float64, center Point, radius float64) []Point {
	pts := make([]Point, len(values))
	for i, v := range values {
		pts[i] = RadarPoint(i, len(values), v, center, radius)
	}
	return pts
}

// PointList renders points for a polygon or polyline points attribute.
func PointList(points []Point) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = p.String()
	}
	return strings.Join(parts, " ")
}

// WrapLabel splits labels longer than max characters into two lines at the
// space closest to the middle. Labels without a space stay on one line.
func WrapLabel(label string, max int) []string {
	if len([]rune(label)) <= max {
		return []string{label}
	}
	mid := len(label) / 2
	best := -1
	for i, r := range label {
		if r != ' ' {
			continue
		}
		if best < 0 || absInt(i-mid) < absInt(best-mid) {
			best = i
		}
	}
	if best < 0 {
		return []string{label}
	}
	return []string{label[:best], label[best+1:]}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
