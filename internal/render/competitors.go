package render

import (
	"fmt"
	"math"
	"sort"

	"github.com/TobiSchelling/hotelreport/internal/category"
	"github.com/TobiSchelling/hotelreport/internal/chart"
	"github.com/TobiSchelling/hotelreport/internal/document"
)

// barColors cycles over the competitor bars; the subject always takes the
// first color.
var barColors = []string{"#3b556e", "#917b9f", "#9fb0c8", "#c5a665", "#7a62ae"}

func barColor(i int) string {
	return barColors[i%len(barColors)]
}

type barView struct {
	Name    string
	Subject bool
	Width   string
	Color   string
	Score   string
}

// CompetitorBars renders one horizontal bar per hotel, subject first. Bar
// width is the average score as a share of 10.
func CompetitorBars(c *document.Competitors) (string, error) {
	if c == nil {
		return "", nil
	}
	var bars []barView
	for i, h := range c.All() {
		avg := h.AverageScore()
		width := 0.0
		if !math.IsNaN(avg) {
			width = math.Max(0, math.Min(100, avg/chart.RadarMax*100))
		}
		bars = append(bars, barView{
			Name:    h.Name,
			Subject: i == 0,
			Width:   chart.Num(width),
			Color:   barColor(i),
			Score:   formatOneDecimal(avg),
		})
	}
	return execute("bars", bars)
}

type needleView struct {
	Rotation string
	Ratio    string
	Class    string
}

// RelativePerformance returns the subject's average divided by the mean of
// the competitor averages, or NaN when either side has no data.
func RelativePerformance(c *document.Competitors) float64 {
	if c == nil {
		return math.NaN()
	}
	var vals []float64
	for _, h := range c.Competitors {
		vals = append(vals, h.AverageScore())
	}
	avg := meanIgnoringNaN(vals)
	subject := c.Hotel.AverageScore()
	if math.IsNaN(avg) || math.IsNaN(subject) || avg <= 0 {
		return math.NaN()
	}
	return subject / avg
}

// NeedleGauge renders the relative performance dial. A ratio of 1 points
// straight up; the needle swings 90 degrees either way at 0.5 and 1.5.
func NeedleGauge(c *document.Competitors) (string, error) {
	ratio := RelativePerformance(c)
	if math.IsNaN(ratio) {
		return "", nil
	}
	class := "positive"
	if ratio < 1 {
		class = "negative"
	}
	return execute("needle", needleView{
		Rotation: chart.Num(chart.NeedleRotation(ratio)),
		Ratio:    fmt.Sprintf("%.2f", ratio),
		Class:    class,
	})
}

type hotelHead struct {
	Full  string
	Short string
}

type compCell struct {
	Value string
	Class string
}

// ComparisonRow is one category line of the comparison table.
type ComparisonRow struct {
	Category  string
	Cells     []compCell
	Avg       string
	Diff      string
	DiffClass string
}

type comparisonView struct {
	Hotels []hotelHead
	Rows   []ComparisonRow
}

const headWidth = 15

func shortName(name string) string {
	r := []rune(name)
	if len(r) <= headWidth {
		return name
	}
	return string(r[:headWidth]) + "..."
}

// diffEpsilon is the smallest difference shown as better or worse.
const diffEpsilon = 0.05

// DiffClass classifies subject-minus-average differences.
func DiffClass(diff float64) string {
	switch {
	case math.IsNaN(diff):
		return "neutral"
	case diff >= diffEpsilon:
		return "positive"
	case diff <= -diffEpsilon:
		return "negative"
	default:
		return "neutral"
	}
}

func meanIgnoringNaN(vals []float64) float64 {
	var sum float64
	n := 0
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// comparisonCategories lists the canonical categories followed by any
// other category found in the scores, sorted by name.
func comparisonCategories(c *document.Competitors) []string {
	names := make([]string, 0, len(category.All))
	for _, cat := range category.All {
		names = append(names, cat.String())
	}

	seen := make(map[string]bool)
	var extra []string
	for _, h := range c.All() {
		for name := range h.Scores {
			if _, known := category.Parse(name); known || seen[name] {
				continue
			}
			seen[name] = true
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// ComparisonRows builds the comparison table rows. Avg is the mean of the
// competitor scores that are present; Diff is subject minus Avg.
func ComparisonRows(c *document.Competitors, goal float64) []ComparisonRow {
	if c == nil {
		return nil
	}
	var rows []ComparisonRow
	for _, name := range comparisonCategories(c) {
		row := ComparisonRow{Category: name}

		subject := c.Hotel.Score(name)
		row.Cells = append(row.Cells, scoreCell(subject, goal))

		var others []float64
		for _, h := range c.Competitors {
			v := h.Score(name)
			others = append(others, v)
			row.Cells = append(row.Cells, scoreCell(v, goal))
		}

		avg := meanIgnoringNaN(others)
		row.Avg = formatOneDecimal(avg)

		diff := subject - avg
		row.DiffClass = DiffClass(diff)
		row.Diff = "-"
		if !math.IsNaN(diff) {
			row.Diff = fmt.Sprintf("%+.1f", diff)
		}
		rows = append(rows, row)
	}
	return rows
}

func scoreCell(v, goal float64) compCell {
	if math.IsNaN(v) {
		return compCell{Value: "-"}
	}
	return compCell{Value: formatOneDecimal(v), Class: ScoreClass(v, goal)}
}

// ComparisonTable renders the per-category comparison of the subject with
// its competitors.
func ComparisonTable(c *document.Competitors, goal float64) (string, error) {
	if c == nil {
		return "", nil
	}
	view := comparisonView{Rows: ComparisonRows(c, goal)}
	for _, h := range c.All() {
		view.Hotels = append(view.Hotels, hotelHead{Full: h.Name, Short: shortName(h.Name)})
	}
	return execute("comparison", view)
}

type comboTick struct {
	Y     string
	Label string
}

type comboBar struct {
	X, Y, W, H string
	LabelX     string
	Label      string
	Color      string
}

type comboView struct {
	Width, Height         string
	PlotLeft, PlotRight   string
	LeftAxisX, RightAxisX string
	LabelY                string
	LeftTicks             []comboTick
	RightTicks            []comboTick
	Bars                  []comboBar
	Line                  string
	Dots                  []pointView
}

// Combo chart geometry.
const (
	comboWidth   = 640.0
	comboHeight  = 280.0
	comboLeft    = 56.0
	comboRight   = 44.0
	comboTop     = 24.0
	comboBottom  = 40.0
	comboTicks   = 5
	comboBarFill = 0.55
	comboLabelAt = 12
)

// ComboChart renders review volume as bars against a left axis and the
// average score as a line against a right axis from 0 to 10.
func ComboChart(c *document.Competitors) (string, error) {
	if c == nil {
		return "", nil
	}
	hotels := c.All()
	plotW := comboWidth - comboLeft - comboRight
	plotH := comboHeight - comboTop - comboBottom
	baseY := comboTop + plotH

	maxReviews := 0.0
	for _, h := range hotels {
		maxReviews = math.Max(maxReviews, float64(h.Reviews))
	}
	volume := chart.NewLinearScale(chart.NiceMax(maxReviews), plotH)
	score := chart.NewLinearScale(chart.RadarMax, plotH)

	view := comboView{
		Width:      chart.Num(comboWidth),
		Height:     chart.Num(comboHeight),
		PlotLeft:   chart.Num(comboLeft),
		PlotRight:  chart.Num(comboLeft + plotW),
		LeftAxisX:  chart.Num(comboLeft - 8),
		RightAxisX: chart.Num(comboLeft + plotW + 8),
		LabelY:     chart.Num(baseY + 18),
	}
	for _, t := range volume.Ticks(comboTicks) {
		view.LeftTicks = append(view.LeftTicks, comboTick{Y: chart.Num(baseY - volume.Map(t)), Label: chart.Num(t)})
	}
	for _, t := range score.Ticks(comboTicks) {
		view.RightTicks = append(view.RightTicks, comboTick{Y: chart.Num(baseY - score.Map(t)), Label: chart.Num(t)})
	}

	if len(hotels) == 0 {
		return execute("combo", view)
	}
	band := plotW / float64(len(hotels))
	barW := band * comboBarFill
	var line []chart.Point
	for i, h := range hotels {
		mid := comboLeft + band*float64(i) + band/2
		height := volume.Map(float64(h.Reviews))
		view.Bars = append(view.Bars, comboBar{
			X:      chart.Num(mid - barW/2),
			Y:      chart.Num(baseY - height),
			W:      chart.Num(barW),
			H:      chart.Num(height),
			LabelX: chart.Num(mid),
			Label:  truncate(h.Name, comboLabelAt),
			Color:  barColor(i),
		})
		if avg := h.AverageScore(); !math.IsNaN(avg) {
			p := chart.Point{X: mid, Y: baseY - score.Map(avg)}
			line = append(line, p)
			view.Dots = append(view.Dots, pointView{X: chart.Num(p.X), Y: chart.Num(p.Y)})
		}
	}
	if len(line) >= 2 {
		view.Line = chart.PointList(line)
	}
	return execute("combo", view)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
