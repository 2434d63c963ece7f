package chart

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNum(t *testing.T) {
	cases := map[float64]string{
		0:        "0",
		8:        "8",
		8.5:      "8.5",
		1.0 / 3:  "0.33",
		-0.001:   "0",
		62.8:     "62.8",
		100.0001: "100",
	}
	for in, want := range cases {
		assert.Equal(t, want, Num(in), "Num(%v)", in)
	}
	assert.Equal(t, "0", Num(math.NaN()))
}

func TestSmoothPathTooFewPoints(t *testing.T) {
	assert.Equal(t, "", SmoothPath(nil))
	assert.Equal(t, "", SmoothPath([]Point{{X: 1, Y: 2}}))
}

func TestSmoothPathCommandCount(t *testing.T) {
	for n := 2; n <= 6; n++ {
		pts := make([]Point, n)
		for i := range pts {
			pts[i] = Point{X: float64(i * 10), Y: float64((i * 7) % 5)}
		}
		d := SmoothPath(pts)
		assert.True(t, strings.HasPrefix(d, "M "), d)
		assert.Equal(t, 1, strings.Count(d, "M"))
		assert.Equal(t, n-1, strings.Count(d, "C"))
	}
}

func TestSmoothPathStraightLineKeepsControlPointsOnLine(t *testing.T) {
	d := SmoothPath([]Point{{X: 0, Y: 0}, {X: 10, Y: 0}})
	assert.Equal(t, "M 0,0 C 2,0 8,0 10,0", d)
}

func TestSmoothPathDeterministic(t *testing.T) {
	pts := []Point{{X: 30, Y: 32}, {X: 140, Y: 16}, {X: 250, Y: 8}}
	assert.Equal(t, SmoothPath(pts), SmoothPath(pts))
}

func TestAreaPathClosesToBaseline(t *testing.T) {
	pts := []Point{{X: 30, Y: 32}, {X: 85, Y: 16}}
	d := AreaPath(pts, 80)
	assert.True(t, strings.HasSuffix(d, "L 85,80 L 30,80 Z"), d)
	assert.Equal(t, "", AreaPath(pts[:1], 80))
}

func TestGaugeArcsSumWithinCircumference(t *testing.T) {
	cases := [][3]float64{
		{80, 10, 10},
		{33.3, 33.3, 33.4},
		{120, 50, -5},
		{0, 0, 0},
		{60, 60, 60},
	}
	for _, c := range cases {
		arcs := GaugeArcs(c[0], c[1], c[2], 15.9155)
		circ := Circumference(15.9155)
		var total float64
		for _, a := range arcs {
			assert.GreaterOrEqual(t, a.Length, 0.0)
			total += a.Length
		}
		assert.LessOrEqual(t, total, circ+1e-9, "%v", c)
	}
}

func TestGaugeArcsConsecutive(t *testing.T) {
	arcs := GaugeArcs(50, 25, 25, 10)
	circ := Circumference(10)

	assert.InDelta(t, 0, arcs[0].Offset, 1e-9)
	assert.InDelta(t, -circ/2, arcs[1].Offset, 1e-9)
	assert.InDelta(t, -circ*0.75, arcs[2].Offset, 1e-9)

	assert.InDelta(t, 0, arcs[0].MidAngle, 1e-9)
	assert.InDelta(t, 135, arcs[1].MidAngle, 1e-9)
}

func TestGaugeArcZeroIsInvisible(t *testing.T) {
	arcs := GaugeArcs(100, 0, 0, 10)
	assert.Equal(t, 0.0, arcs[1].Length)
	assert.Equal(t, "0 "+Num(Circumference(10)), arcs[1].DashArray())
	assert.Equal(t, 0.0, arcs[2].Percent)
}

func TestCallout(t *testing.T) {
	left, top := Callout(-90, 68)
	assert.InDelta(t, 50, left, 1e-9)
	assert.InDelta(t, -18, top, 1e-9)
}

func TestRadarPoint(t *testing.T) {
	c := Point{X: 100, Y: 100}

	p := RadarPoint(0, 4, 10, c, 50)
	assert.InDelta(t, 100, p.X, 1e-9)
	assert.InDelta(t, 50, p.Y, 1e-9)

	p = RadarPoint(1, 4, 5, c, 50)
	assert.InDelta(t, 125, p.X, 1e-9)
	assert.InDelta(t, 100, p.Y, 1e-9)

	over := RadarPoint(2, 4, 14, c, 50)
	assert.InDelta(t, 150, over.Y, 1e-9)

	under := RadarPoint(3, 4, -2, c, 50)
	assert.InDelta(t, 100, under.X, 1e-9)
}

func TestRadarLabelAnchors(t *testing.T) {
	c := Point{X: 0, Y: 0}
	_, top := RadarLabel(0, 4, c, 50, 10)
	_, right := RadarLabel(1, 4, c, 50, 10)
	_, bottom := RadarLabel(2, 4, c, 50, 10)
	_, left := RadarLabel(3, 4, c, 50, 10)
	assert.Equal(t, []string{"middle", "start", "middle", "end"}, []string{top, right, bottom, left})

	p, _ := RadarLabel(0, 4, c, 50, 10)
	assert.InDelta(t, -60, p.Y, 1e-9)
}

func TestRadarPolygon(t *testing.T) {
	pts := RadarPolygon([]float64{8, 8, 8}, Point{X: 0, Y: 0}, 100)
	require.Len(t, pts, 3)
	for _, p := range pts {
		assert.InDelta(t, 80, math.Hypot(p.X, p.Y), 1e-9)
	}
	assert.Equal(t, 3, len(strings.Fields(PointList(pts))))
}

func TestWrapLabel(t *testing.T) {
	assert.Equal(t, []string{"Cleanliness"}, WrapLabel("Cleanliness", 12))
	assert.Equal(t, []string{"Food &", "Beverage"}, WrapLabel("Food & Beverage", 12))
	assert.Equal(t, []string{"Hotel Amenities", "& Atmosphere"}, WrapLabel("Hotel Amenities & Atmosphere", 12))
	assert.Equal(t, []string{"Supercalifragilistic"}, WrapLabel("Supercalifragilistic", 12))
}

func TestSparkPointsSkipNulls(t *testing.T) {
	six, eight, nine := 6.0, 8.0, 9.0
	pts := SparkPoints([]*float64{&six, nil, &eight, nil, &nine})
	require.Len(t, pts, 3)
	assert.Equal(t, Point{X: 30, Y: 32}, pts[0])
	assert.Equal(t, Point{X: 140, Y: 16}, pts[1])
	assert.Equal(t, Point{X: 250, Y: 8}, pts[2])
}

func TestRing(t *testing.T) {
	empty := Ring(0, "#2FAA68")
	assert.Equal(t, "#eee", empty.Stroke)
	assert.Equal(t, 0.3, empty.Opacity)
	assert.Equal(t, "0 62.8", empty.DashArray())

	full := Ring(100, "#2FAA68")
	assert.Equal(t, "#2FAA68", full.Stroke)
	assert.Equal(t, "62.8 62.8", full.DashArray())

	half := Ring(50, "#CE4049")
	assert.InDelta(t, 31.4, half.Dash, 1e-9)
}

func TestNiceMax(t *testing.T) {
	cases := map[float64]float64{
		0:    1,
		7:    8,
		10:   10,
		107:  150,
		211:  250,
		1000: 1000,
		-4:   1,
	}
	for in, want := range cases {
		assert.InDelta(t, want, NiceMax(in), 1e-9, "NiceMax(%v)", in)
	}
}

func TestLinearScale(t *testing.T) {
	s := NewLinearScale(200, 100)
	assert.InDelta(t, 50, s.Map(100), 1e-9)
	assert.InDelta(t, 100, s.Map(400), 1e-9)
	assert.InDelta(t, 0, s.Map(-1), 1e-9)
	assert.Equal(t, []float64{0, 50, 100, 150, 200}, s.Ticks(4))

	zero := NewLinearScale(0, 100)
	assert.InDelta(t, 0, zero.Map(0), 1e-9)
}

func TestNeedleRotation(t *testing.T) {
	assert.InDelta(t, 0, NeedleRotation(1), 1e-9)
	assert.InDelta(t, 22.5, NeedleRotation(1.125), 1e-9)
	assert.InDelta(t, 90, NeedleRotation(3), 1e-9)
	assert.InDelta(t, -90, NeedleRotation(0.2), 1e-9)
}
