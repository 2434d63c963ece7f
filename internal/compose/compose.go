package compose

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/yuin/goldmark"

	"github.com/TobiSchelling/hotelreport/internal/category"
	"github.com/TobiSchelling/hotelreport/internal/config"
	"github.com/TobiSchelling/hotelreport/internal/document"
	"github.com/TobiSchelling/hotelreport/internal/logger"
	"github.com/TobiSchelling/hotelreport/internal/render"
)

//go:embed templates/report.html
var reportTemplate string

// ErrNoReport is returned when a bundle carries no report document.
var ErrNoReport = errors.New("no report document loaded")

// Containers that receive appended fragments. They are emptied before every
// compose so a re-render never repeats content.
var appendContainers = []string{
	"kpi-container",
	"radar-container",
	"staff-body",
	"staff-body-2",
	"competitor-bars",
	"competitor-needle",
	"competitor-table",
	"combo-chart",
	"list-positives",
	"list-negatives",
	"cat-container-1",
	"cat-container-2",
	"sol-list-1",
	"sol-list-2",
	"debug-log",
}

// firstCategoryPage is how many canonical categories go on the first
// category page; the rest follow on the second.
const firstCategoryPage = 4

const topListLimit = 5

// Composer turns a document bundle into the rendered report page.
type Composer struct {
	layout   config.Layout
	branding config.Branding
	md       goldmark.Markdown
}

// NewComposer creates a composer with the given layout and branding.
func NewComposer(layout config.Layout, branding config.Branding) *Composer {
	return &Composer{layout: layout, branding: branding, md: goldmark.New()}
}

// Blank returns a fresh page with every fragment container emptied.
func (c *Composer) Blank() (*render.Page, error) {
	page, err := render.NewPage(reportTemplate)
	if err != nil {
		return nil, err
	}
	page.Clear(appendContainers...)
	return page, nil
}

// Compose renders b into a new page. Each call starts from the template, so
// composing the same bundle twice yields the same markup.
func (c *Composer) Compose(b *document.Bundle) (*render.Page, error) {
	if b == nil || b.Report == nil {
		return nil, ErrNoReport
	}
	page, err := c.Blank()
	if err != nil {
		return nil, err
	}

	r := b.Report
	steps := []struct {
		name string
		fn   func() error
	}{
		{"cover", func() error { c.cover(page, r); return nil }},
		{"dashboard", func() error { return c.dashboard(page, r, b.Dashboard, b.Competitors) }},
		{"staff", func() error { return c.staff(page, b.Dashboard) }},
		{"competitors", func() error { return c.competitors(page, b.Competitors) }},
		{"overview", func() error { return c.overview(page, r, b.Dashboard) }},
		{"top lists", func() error { return c.topLists(page, r) }},
		{"categories", func() error { return c.categories(page, r) }},
		{"solutions", func() error { return c.solutions(page, r) }},
		{"contact", func() error { c.contact(page, r); return nil }},
	}
	for _, s := range steps {
		if err := s.fn(); err != nil {
			return nil, fmt.Errorf("composing %s: %w", s.name, err)
		}
	}

	logger.Log.WithFields(logrus.Fields{
		"hotel":       r.ResolveHotelName(c.branding.DefaultHotelName),
		"period":      r.PeriodLabel,
		"dashboard":   b.Dashboard != nil,
		"competitors": b.Competitors != nil,
		"pages":       len(page.PageIDs()),
	}).Debug("Report composed")
	return page, nil
}

// Failure renders the empty report with the error panel shown.
func (c *Composer) Failure(cause error) (*render.Page, error) {
	page, err := c.Blank()
	if err != nil {
		return nil, err
	}
	msg := "unknown error"
	if cause != nil {
		msg = cause.Error()
	}
	page.SetHTML("debug-log", "<strong>⚠️ ERROR:</strong> Data Load Failed<br><br>"+html.EscapeString(msg))
	page.SetAttr("debug-log", "style", "display:block")
	return page, nil
}

func (c *Composer) markdown(src string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.String(), nil
}

func (c *Composer) cover(page *render.Page, r *document.Report) {
	name := r.ResolveHotelName(c.branding.DefaultHotelName)
	page.SetHTML("cover-hotel-name", strings.ReplaceAll(html.EscapeString(name), ",", ",<br>"))

	period := document.ParsePeriod(r.PeriodLabel)
	page.SetText("cover-year", period.Year)
	page.SetText("cover-month", period.Month)
	page.SetTextAll(".date-placeholder", period.String())
}

func (c *Composer) dashboard(page *render.Page, r *document.Report, d *document.Dashboard, comp *document.Competitors) error {
	var score *float64
	if r.DashboardOverview != nil {
		score = r.DashboardOverview.OverallScore
	}
	if score == nil && d != nil {
		score = d.OverallScore
	}
	if score != nil {
		page.SetText("dashboard-score", render.FormatScore(*score))
	}

	var axes []render.RadarAxis
	if d != nil {
		for _, cat := range d.Categories {
			markup, err := render.KPIGauge(cat, c.layout.Goal)
			if err != nil {
				return err
			}
			page.Append("kpi-container", markup)
			axes = append(axes, render.RadarAxis{Label: cat.Category, Value: cat.Score})
		}
	}
	if len(axes) == 0 && comp != nil {
		axes = radarFromScores(comp.Hotel.Scores)
	}
	markup, err := render.Radar(axes, c.layout.Goal)
	if err != nil {
		return err
	}
	if markup != "" {
		page.Append("radar-container", markup)
	}
	return nil
}

// radarFromScores orders a score map canonically, then by name.
func radarFromScores(scores map[string]float64) []render.RadarAxis {
	var axes []render.RadarAxis
	for _, cat := range category.All {
		if v, ok := scores[cat.String()]; ok {
			axes = append(axes, render.RadarAxis{Label: cat.String(), Value: v})
		}
	}
	var extra []string
	for name := range scores {
		if _, known := category.Parse(name); !known {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	for _, name := range extra {
		axes = append(axes, render.RadarAxis{Label: name, Value: scores[name]})
	}
	return axes
}

func (c *Composer) staff(page *render.Page, d *document.Dashboard) error {
	var members []document.StaffMember
	if d != nil {
		members = d.Staff
	}
	rows, err := render.StaffRows(members)
	if err != nil {
		return err
	}

	perPage := c.layout.StaffRowsPerPage
	for i, row := range rows {
		if i < perPage {
			page.Append("staff-body", row)
		} else {
			page.Append("staff-body-2", row)
		}
	}
	if len(rows) <= perPage {
		page.Remove("#page-staff-2")
	}
	return nil
}

func (c *Composer) competitors(page *render.Page, comp *document.Competitors) error {
	if comp == nil {
		page.Remove("#page-competitors")
		return nil
	}
	parts := []struct {
		id string
		fn func() (string, error)
	}{
		{"competitor-bars", func() (string, error) { return render.CompetitorBars(comp) }},
		{"competitor-needle", func() (string, error) { return render.NeedleGauge(comp) }},
		{"competitor-table", func() (string, error) { return render.ComparisonTable(comp, c.layout.Goal) }},
		{"combo-chart", func() (string, error) { return render.ComboChart(comp) }},
	}
	for _, p := range parts {
		markup, err := p.fn()
		if err != nil {
			return err
		}
		page.Append(p.id, markup)
	}
	return nil
}

func (c *Composer) overview(page *render.Page, r *document.Report, d *document.Dashboard) error {
	switch {
	case r.DataOverview != nil:
		page.SetText("total-reviews", strconv.Itoa(r.DataOverview.TotalReviews))
	case d != nil && d.TotalReviews > 0:
		page.SetText("total-reviews", strconv.Itoa(d.TotalReviews))
	}

	s := r.SentimentSummary
	if s == nil && d != nil {
		s = d.Sentiment
	}
	if s != nil {
		page.SetText("sent-pos", strconv.Itoa(s.Positive))
		page.SetText("sent-neu", strconv.Itoa(s.Neutral))
		page.SetText("sent-neg", strconv.Itoa(s.Negative))
		pos, neu, neg := document.SentimentRatios(*s)
		page.SetText("ratio-pos", pos)
		page.SetText("ratio-neu", neu)
		page.SetText("ratio-neg", neg)
	}

	if r.Insights == nil {
		return nil
	}
	page.SetText("txt-highlight", r.Insights.Highlight)
	page.SetText("txt-issue", r.Insights.Issue)
	trend, err := c.markdown(r.Insights.TrendInsights)
	if err != nil {
		return err
	}
	page.SetHTML("txt-trend", trend)
	return nil
}

func (c *Composer) topLists(page *render.Page, r *document.Report) error {
	if r.Insights == nil {
		return nil
	}
	lists := []struct {
		id    string
		items []document.Phrase
	}{
		{"list-positives", r.Insights.Strengths},
		{"list-negatives", r.Insights.Improvements},
	}
	for _, l := range lists {
		markup, err := render.TopList(l.items, topListLimit)
		if err != nil {
			return err
		}
		page.Append(l.id, markup)
	}
	return nil
}

func (c *Composer) categories(page *render.Page, r *document.Report) error {
	summaries := r.CategorySummaries()
	if len(summaries) == 0 {
		return nil
	}
	byName := make(map[string]document.CategorySummary, len(summaries))
	for _, s := range summaries {
		if _, dup := byName[s.Category]; !dup {
			byName[s.Category] = s
		}
	}
	series := r.WeeklySeries()

	block := func(id string, s document.CategorySummary) error {
		markup, err := render.CategoryBlock(s, series[s.Category], r.ReviewCount(s), c.layout.Goal)
		if err != nil {
			return err
		}
		page.Append(id, markup)
		return nil
	}

	for i, cat := range category.All {
		s, ok := byName[cat.String()]
		if !ok {
			continue
		}
		id := "cat-container-1"
		if i >= firstCategoryPage {
			id = "cat-container-2"
		}
		if err := block(id, s); err != nil {
			return err
		}
	}

	for _, s := range summaries {
		if _, known := category.Parse(s.Category); known {
			continue
		}
		logger.Log.WithField("category", s.Category).Debug("Rendering non-canonical category with generic style")
		if err := block("cat-container-2", s); err != nil {
			return err
		}
	}
	return nil
}

func (c *Composer) solutions(page *render.Page, r *document.Report) error {
	if r.Solution == nil {
		return nil
	}
	if r.Solution.Overall != "" {
		focus, err := c.markdown(r.Solution.Overall)
		if err != nil {
			return err
		}
		page.SetHTML("mgmt-focus-text", focus)
	}

	n := 0
	for _, s := range r.Solution.CategorySolutions {
		if strings.TrimSpace(s.Action) == "-" {
			continue
		}
		markup, err := render.SolutionItem(s)
		if err != nil {
			return err
		}
		id := "sol-list-1"
		if n >= c.layout.SolutionsFirstPage {
			id = "sol-list-2"
		}
		page.Append(id, markup)
		n++
	}
	return nil
}

// Contact returns the contact block for r: its own contact_info when
// present, the configured default otherwise.
func (c *Composer) Contact(r *document.Report) config.Contact {
	if r != nil && r.ContactInfo != nil {
		ci := r.ContactInfo
		return config.Contact{
			Email:        ci.Email,
			Website:      ci.Website,
			CompanyName:  ci.CompanyName,
			AddressLine1: ci.AddressLine1,
			AddressLine2: ci.AddressLine2,
		}
	}
	return c.branding.Contact
}

func (c *Composer) contact(page *render.Page, r *document.Report) {
	ct := c.Contact(r)
	page.SetText("c-email", ct.Email)
	page.SetAttr("c-email", "href", "mailto:"+ct.Email)
	page.SetText("c-web", ct.Website)
	page.SetAttr("c-web", "href", websiteURL(ct.Website))
	page.SetText("c-name", ct.CompanyName)
	page.SetText("c-addr1", ct.AddressLine1)
	page.SetText("c-addr2", ct.AddressLine2)
}

func websiteURL(site string) string {
	if strings.HasPrefix(site, "http://") || strings.HasPrefix(site, "https://") {
		return site
	}
	return "https://" + site
}
