package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"
	"unicode"

	"github.com/TobiSchelling/hotelreport/internal/category"
	"github.com/TobiSchelling/hotelreport/internal/chart"
	"github.com/TobiSchelling/hotelreport/internal/document"
)

//go:embed templates/fragments.html
var fragmentFS embed.FS

var fragments = template.Must(template.New("fragments").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).ParseFS(fragmentFS, "templates/fragments.html"))

// Sentiment colors shared by gauges, rings and highlights.
const (
	ColorPositive = "#2FAA68"
	ColorNeutral  = "#EFB82C"
	ColorNegative = "#CE4049"
)

// warningThreshold is the lowest score that is not flagged as bad.
const warningThreshold = 6.0

func execute(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := fragments.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.String(), nil
}

// ScoreClass classifies a score against goal: score-good at or above the
// goal, score-warning from 6, score-bad below.
func ScoreClass(score, goal float64) string {
	switch {
	case score >= goal:
		return "score-good"
	case score >= warningThreshold:
		return "score-warning"
	default:
		return "score-bad"
	}
}

// FormatScore prints a score the way it was supplied: 8 stays 8, 8.25 stays
// 8.25.
func FormatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOneDecimal(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// ScoreCell is one week of the category score table.
type ScoreCell struct {
	Value string
	Class string
}

type categoryView struct {
	Name       string
	Meta       category.Meta
	Reviews    int
	DotClass   string
	Trend      string
	Positive   string
	Negative   string
	Cells      []ScoreCell
	Goal       string
	Width      string
	Height     string
	GoalY      string
	GoalX2     string
	GradientID string
	Line       string
	Area       string
	Points     []pointView
}

type pointView struct {
	X, Y string
}

// slug lowercases s and joins its letter and digit runs with dashes.
func slug(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(r)
			dash = false
			continue
		}
		dash = true
	}
	return b.String()
}

func reviewDot(n int) string {
	switch {
	case n > 15:
		return "dot-green"
	case n > 5:
		return "dot-gold"
	default:
		return "dot-hollow"
	}
}

// CategoryBlock renders one category section: header, comment, the
// five-week sparkline, the score table and the highlight boxes. Missing
// weeks show as "-" and are left out of the line.
func CategoryBlock(summary document.CategorySummary, series document.WeeklySeries, reviews int, goal float64) (string, error) {
	meta := category.Lookup(summary.Category)

	cells := make([]ScoreCell, document.Weeks)
	for i, s := range series {
		if s == nil {
			cells[i] = ScoreCell{Value: "-"}
			continue
		}
		cells[i] = ScoreCell{Value: FormatScore(*s), Class: ScoreClass(*s, goal)}
	}

	pts := chart.SparkPoints(series[:])
	view := categoryView{
		Name:       summary.Category,
		Meta:       meta,
		Reviews:    reviews,
		DotClass:   reviewDot(reviews),
		Trend:      summary.Trend,
		Positive:   summary.Positive,
		Negative:   summary.Negative,
		Cells:      cells,
		Goal:       FormatScore(goal),
		Width:      chart.Num(chart.SparkWidth),
		Height:     chart.Num(chart.SparkHeight),
		GoalY:      chart.Num(chart.SparkY(goal)),
		GoalX2:     chart.Num(chart.SparkWidth - 10),
		GradientID: "grad-" + slug(summary.Category),
		Line:       chart.SmoothPath(pts),
		Area:       chart.AreaPath(pts, chart.SparkHeight),
	}
	for _, p := range pts {
		view.Points = append(view.Points, pointView{X: chart.Num(p.X), Y: chart.Num(p.Y)})
	}
	return execute("category", view)
}

type kpiArc struct {
	Color      string
	DashArray  string
	DashOffset string
}

type kpiCallout struct {
	Top, Left string
	Color     string
	Percent   string
}

type kpiView struct {
	Meta       category.Meta
	Goal       string
	Radius     string
	Arcs       []kpiArc
	Callouts   []kpiCallout
	Score      string
	ScoreClass string
}

// gaugeRadius gives the 36x36 gauge a circumference of 100.
const gaugeRadius = 15.9155

// calloutDistance places gauge labels just outside the ring.
const calloutDistance = 68.0

// KPIGauge renders the donut gauge for one dashboard category. Segment
// percentages are taken against the category's own total. Labels carry at
// most one decimal; zero segments get no label.
func KPIGauge(c document.DashboardCategory, goal float64) (string, error) {
	total := c.Total()
	if total <= 0 {
		total = 1
	}
	pcts := [3]float64{
		float64(c.Positive) / float64(total) * 100,
		float64(c.Neutral) / float64(total) * 100,
		float64(c.Negative) / float64(total) * 100,
	}
	colors := [3]string{ColorPositive, ColorNeutral, ColorNegative}
	arcs := chart.GaugeArcs(pcts[0], pcts[1], pcts[2], gaugeRadius)

	view := kpiView{
		Meta:       category.Lookup(c.Category),
		Goal:       FormatScore(goal),
		Radius:     strconv.FormatFloat(gaugeRadius, 'f', -1, 64),
		Score:      FormatScore(c.Score),
		ScoreClass: ScoreClass(c.Score, goal),
	}
	for i, a := range arcs {
		view.Arcs = append(view.Arcs, kpiArc{Color: colors[i], DashArray: a.DashArray(), DashOffset: a.DashOffset()})
		if a.Percent <= 0 {
			continue
		}
		left, top := chart.Callout(a.MidAngle, calloutDistance)
		view.Callouts = append(view.Callouts, kpiCallout{
			Top:     chart.Num(top),
			Left:    chart.Num(left),
			Color:   colors[i],
			Percent: percentLabel(a.Percent),
		})
	}
	return execute("kpi", view)
}

// percentLabel rounds to one decimal and drops a trailing ".0".
func percentLabel(pct float64) string {
	return strconv.FormatFloat(math.Round(pct*10)/10, 'f', -1, 64)
}

// RadarAxis is one spoke of the radar chart.
type RadarAxis struct {
	Label string
	Value float64
}

type radarLabel struct {
	X, Y   string
	Anchor string
	Lines  []string
}

type radarView struct {
	Size   string
	Center pointView
	Grid   []string
	Spokes []pointView
	Target string
	Actual string
	Labels []radarLabel
}

// Radar geometry.
const (
	radarSize     = 360.0
	radarRadius   = 120.0
	radarLabelPad = 16.0
	radarWrapAt   = 12
)

// Radar renders reference polygons at 2, 4, 6, 8 and 10, the target polygon
// at goal on every axis and the actual scores.
func Radar(axes []RadarAxis, goal float64) (string, error) {
	if len(axes) == 0 {
		return "", nil
	}
	center := chart.Point{X: radarSize / 2, Y: radarSize / 2}
	n := len(axes)

	fill := func(v float64) []float64 {
		vals := make([]float64, n)
		for i := range vals {
			vals[i] = v
		}
		return vals
	}

	view := radarView{
		Size:   chart.Num(radarSize),
		Center: pointView{X: chart.Num(center.X), Y: chart.Num(center.Y)},
		Target: chart.PointList(chart.RadarPolygon(fill(goal), center, radarRadius)),
	}
	for level := 2.0; level <= chart.RadarMax; level += 2 {
		view.Grid = append(view.Grid, chart.PointList(chart.RadarPolygon(fill(level), center, radarRadius)))
	}

	values := make([]float64, n)
	for i, a := range axes {
		values[i] = a.Value
		tip := chart.RadarPoint(i, n, chart.RadarMax, center, radarRadius)
		view.Spokes = append(view.Spokes, pointView{X: chart.Num(tip.X), Y: chart.Num(tip.Y)})

		pos, anchor := chart.RadarLabel(i, n, center, radarRadius, radarLabelPad)
		view.Labels = append(view.Labels, radarLabel{
			X:      chart.Num(pos.X),
			Y:      chart.Num(pos.Y),
			Anchor: anchor,
			Lines:  chart.WrapLabel(a.Label, radarWrapAt),
		})
	}
	view.Actual = chart.PointList(chart.RadarPolygon(values, center, radarRadius))
	return execute("radar", view)
}

// TopList renders up to limit numbered phrases.
func TopList(items []document.Phrase, limit int) (string, error) {
	if limit >= 0 && len(items) > limit {
		items = items[:limit]
	}
	return execute("toplist", items)
}

type solutionView struct {
	Meta   category.Meta
	Action string
}

// SolutionItem renders one suggested action with its category icon.
func SolutionItem(s document.CategorySolution) (string, error) {
	return execute("solution", solutionView{Meta: category.Lookup(s.Category), Action: s.Action})
}
