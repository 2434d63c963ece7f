// Package chart holds the pure geometry behind the report's inline SVG
// charts: smoothed lines, gauge arcs, radar polygons, ratio rings and the
// axis scales of the combo chart. Nothing here touches the page.
package chart

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Point is a position in SVG user units.
type Point struct {
	X, Y float64
}

// Num formats v with at most two decimals and no trailing zeros.
func Num(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "0"
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func (p Point) String() string {
	return Num(p.X) + "," + Num(p.Y)
}

// smoothing scales the control-point distance relative to the neighbours.
const smoothing = 0.2

// controlPoint returns a bezier control point for cur, following the line
// from prev to next. Missing neighbours are replaced by cur itself.
func controlPoint(cur Point, prev, next *Point, reverse bool) Point {
	p, n := cur, cur
	if prev != nil {
		p = *prev
	}
	if next != nil {
		n = *next
	}
	dx, dy := n.X-p.X, n.Y-p.Y
	length := math.Hypot(dx, dy) * smoothing
	angle := math.Atan2(dy, dx)
	if reverse {
		angle += math.Pi
	}
	return Point{X: cur.X + math.Cos(angle)*length, Y: cur.Y + math.Sin(angle)*length}
}

// SmoothPath returns the SVG path data of a smooth curve through points:
// one M command followed by a cubic C command per remaining point. Fewer
// than two points yield an empty path.
func SmoothPath(points []Point) string {
	if len(points) < 2 {
		return ""
	}
	at := func(i int) *Point {
		if i < 0 || i >= len(points) {
			return nil
		}
		return &points[i]
	}

	var sb strings.Builder
	sb.WriteString("M " + points[0].String())
	for i := 1; i < len(points); i++ {
		start := controlPoint(points[i-1], at(i-2), &points[i], false)
		end := controlPoint(points[i], &points[i-1], at(i+1), true)
		fmt.Fprintf(&sb, " C %s %s %s", start, end, points[i])
	}
	return sb.String()
}

// AreaPath closes a smooth line down to baseline so it can be filled.
func AreaPath(points []Point, baseline float64) string {
	line := SmoothPath(points)
	if line == "" {
		return ""
	}
	first, last := points[0], points[len(points)-1]
	return fmt.Sprintf("%s L %s,%s L %s,%s Z", line, Num(last.X), Num(baseline), Num(first.X), Num(baseline))
}
