package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/TobiSchelling/hotelreport/internal/document"
	"github.com/TobiSchelling/hotelreport/internal/render"
)

// Workbook sheet names, in order.
const (
	SheetOverview    = "Overview"
	SheetCategories  = "Categories"
	SheetCompetitors = "Competitors"
	SheetStaff       = "Staff"
	SheetSolutions   = "Solutions"
)

type sheet struct {
	name   string
	header []any
	rows   [][]any
	width  float64
}

// XLSX builds a workbook with one sheet per report section. Sections whose
// document is missing keep their header row only.
func XLSX(b *document.Bundle, goal float64) ([]byte, error) {
	if b == nil || b.Report == nil {
		return nil, ErrNoData
	}
	sheets := []sheet{
		overviewSheet(b),
		categoriesSheet(b.Report),
		competitorsSheet(b.Competitors, goal),
		staffSheet(b.Dashboard),
		solutionsSheet(b.Report),
	}

	f := excelize.NewFile()
	defer f.Close()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("creating header style: %w", err)
	}

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", s.name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, err
		}
		if err := writeSheet(f, s, bold); err != nil {
			return nil, fmt.Errorf("writing sheet %s: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("writing workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, s sheet, headerStyle int) error {
	if err := f.SetSheetRow(s.name, "A1", &s.header); err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(s.header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(s.name, "A1", last, headerStyle); err != nil {
		return err
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
	}
	if s.width > 0 {
		return f.SetColWidth(s.name, "A", "A", s.width)
	}
	return nil
}

// cellValue leaves NaN cells empty.
func cellValue(v float64) any {
	if math.IsNaN(v) {
		return nil
	}
	return v
}

func overviewSheet(b *document.Bundle) sheet {
	r := b.Report
	period := document.ParsePeriod(r.PeriodLabel)
	rows := [][]any{
		{"Hotel", r.ResolveHotelName("")},
		{"Period", period.String()},
	}

	var score *float64
	if r.DashboardOverview != nil {
		score = r.DashboardOverview.OverallScore
	}
	if score == nil && b.Dashboard != nil {
		score = b.Dashboard.OverallScore
	}
	if score != nil {
		rows = append(rows, []any{"Overall score", *score})
	}

	if r.DataOverview != nil {
		rows = append(rows, []any{"Total reviews", r.DataOverview.TotalReviews})
	} else if b.Dashboard != nil && b.Dashboard.TotalReviews > 0 {
		rows = append(rows, []any{"Total reviews", b.Dashboard.TotalReviews})
	}

	s := r.SentimentSummary
	if s == nil && b.Dashboard != nil {
		s = b.Dashboard.Sentiment
	}
	if s != nil {
		pos, neu, neg := document.SentimentRatios(*s)
		rows = append(rows,
			[]any{"Positive", s.Positive},
			[]any{"Neutral", s.Neutral},
			[]any{"Negative", s.Negative},
			[]any{"Positive %", pos},
			[]any{"Neutral %", neu},
			[]any{"Negative %", neg},
		)
	}
	if r.Insights != nil {
		rows = append(rows,
			[]any{"Highlight", r.Insights.Highlight},
			[]any{"Main issue", r.Insights.Issue},
		)
	}
	return sheet{name: SheetOverview, header: []any{"Field", "Value"}, rows: rows, width: 18}
}

func categoriesSheet(r *document.Report) sheet {
	header := []any{"Category"}
	for w := 1; w <= document.Weeks; w++ {
		header = append(header, fmt.Sprintf("Week %d", w))
	}
	header = append(header, "Reviews", "Trend", "Positive", "Negative")

	series := r.WeeklySeries()
	var rows [][]any
	for _, c := range r.CategorySummaries() {
		row := []any{c.Category}
		for _, score := range series[c.Category] {
			if score == nil {
				row = append(row, nil)
				continue
			}
			row = append(row, *score)
		}
		row = append(row, r.ReviewCount(c), c.Trend, c.Positive, c.Negative)
		rows = append(rows, row)
	}
	return sheet{name: SheetCategories, header: header, rows: rows, width: 30}
}

func competitorsSheet(c *document.Competitors, goal float64) sheet {
	header := []any{"Hotel", "Average", "Reviews"}
	if c == nil {
		return sheet{name: SheetCompetitors, header: header, width: 28}
	}
	comparison := render.ComparisonRows(c, goal)
	for _, row := range comparison {
		header = append(header, row.Category)
	}

	var rows [][]any
	for _, h := range c.All() {
		row := []any{h.Name, cellValue(h.AverageScore()), h.Reviews}
		for _, cr := range comparison {
			row = append(row, cellValue(h.Score(cr.Category)))
		}
		rows = append(rows, row)
	}

	avg := []any{"Competitor average", nil, nil}
	diff := []any{"Difference", nil, nil}
	for _, cr := range comparison {
		avg = append(avg, dashToNil(cr.Avg))
		diff = append(diff, dashToNil(cr.Diff))
	}
	rows = append(rows, avg, diff)
	return sheet{name: SheetCompetitors, header: header, rows: rows, width: 28}
}

func dashToNil(s string) any {
	if s == "-" {
		return nil
	}
	return s
}

func staffSheet(d *document.Dashboard) sheet {
	header := []any{"Name", "Last mention", "Total", "Positive", "Negative", "Positive ratio"}
	var rows [][]any
	if d != nil {
		for _, m := range d.Staff {
			total := m.Mentions()
			rows = append(rows, []any{
				m.Name,
				document.FormatDate(m.LastMention),
				total,
				m.Positive,
				m.Negative,
				render.RatioDisplay(m.Positive, total),
			})
		}
	}
	return sheet{name: SheetStaff, header: header, rows: rows, width: 24}
}

func solutionsSheet(r *document.Report) sheet {
	header := []any{"Category", "Action"}
	var rows [][]any
	if r.Solution != nil {
		if r.Solution.Overall != "" {
			rows = append(rows, []any{"Management focus", r.Solution.Overall})
		}
		for _, s := range r.Solution.CategorySolutions {
			if strings.TrimSpace(s.Action) == "-" {
				continue
			}
			rows = append(rows, []any{s.Category, s.Action})
		}
	}
	return sheet{name: SheetSolutions, header: header, rows: rows, width: 30}
}
