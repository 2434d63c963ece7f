package compose

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TobiSchelling/hotelreport/internal/config"
	"github.com/TobiSchelling/hotelreport/internal/document"
	"github.com/TobiSchelling/hotelreport/internal/render"
)

func newComposer() *Composer {
	cfg := config.Default()
	return NewComposer(cfg.Layout, cfg.Branding)
}

func bundleFrom(t *testing.T, report string) *document.Bundle {
	t.Helper()
	b, err := (*document.Bundle)(nil).With(document.KindReport, []byte(report))
	require.NoError(t, err)
	return b
}

func texts(sel *goquery.Selection) []string {
	var out []string
	sel.Each(func(_ int, s *goquery.Selection) {
		out = append(out, strings.TrimSpace(s.Text()))
	})
	return out
}

func composeSample(t *testing.T) *render.Page {
	t.Helper()
	b, err := document.SampleBundle()
	require.NoError(t, err)
	page, err := newComposer().Compose(b)
	require.NoError(t, err)
	return page
}

func TestComposeSampleCover(t *testing.T) {
	page := composeSample(t)
	doc := page.Document()

	assert.Equal(t, 2, doc.Find("#cover-hotel-name br").Length())
	assert.Equal(t, "2026", page.Text("cover-year"))
	assert.Equal(t, "January", page.Text("cover-month"))
	for _, d := range texts(doc.Find(".date-placeholder")) {
		assert.Equal(t, "January, 2026", d)
	}
	assert.Equal(t, "8.6", page.Text("dashboard-score"))
}

func TestComposeSampleSections(t *testing.T) {
	page := composeSample(t)
	doc := page.Document()

	assert.Equal(t, 7, doc.Find("#kpi-container .kpi-card").Length())
	assert.Equal(t, 1, doc.Find("#radar-container svg").Length())

	assert.Equal(t, 12, doc.Find("#staff-body tr").Length())
	assert.Equal(t, 2, doc.Find("#staff-body-2 tr").Length())

	assert.Equal(t, 4, doc.Find("#competitor-bars .comp-row").Length())
	assert.Equal(t, 7, doc.Find("#competitor-table tbody tr").Length())
	assert.Equal(t, 1, doc.Find("#combo-chart svg").Length())

	assert.Equal(t, "107", page.Text("total-reviews"))
	assert.Equal(t, "80.4", page.Text("ratio-pos"))
	assert.Equal(t, 1, doc.Find("#txt-trend strong").Length())

	assert.Equal(t, 5, doc.Find("#list-positives .list-item").Length())
	assert.Equal(t, 3, doc.Find("#list-negatives .list-item").Length())

	assert.Equal(t, 4, doc.Find("#cat-container-1 .cat-block").Length())
	assert.Equal(t, 3, doc.Find("#cat-container-2 .cat-block").Length())

	assert.Equal(t, 5, doc.Find("#sol-list-1 .sol-item").Length())
	assert.Equal(t, 1, doc.Find("#sol-list-2 .sol-item").Length())
	assert.NotContains(t, texts(doc.Find(".sol-title")), "Location")

	assert.Equal(t, []string{
		"page-cover", "page-dashboard", "page-staff", "page-staff-2", "page-competitors", "page-overview",
		"page-lists", "page-categories-1", "page-categories-2", "page-solutions-1", "page-solutions-2", "page-contact",
	}, page.PageIDs())
}

func TestComposeCleanlinessNullWeeks(t *testing.T) {
	page := composeSample(t)
	block := page.Document().Find(`#cat-container-1 .cat-block[data-category="cln"]`)
	require.Equal(t, 1, block.Length())
	assert.Equal(t, []string{"Score", "6", "-", "8", "-", "9", "8"}, texts(block.Find(".score-row td")))
	assert.Equal(t, 3, block.Find("circle.chart-point").Length())
	assert.Contains(t, block.Find(".cat-reviews").Text(), "Reviews: 24")
}

func TestComposeReviewCountPrefersCategoryCounts(t *testing.T) {
	page := composeSample(t)
	block := page.Document().Find(`.cat-block[data-category="loc"]`)
	assert.Contains(t, block.Find(".cat-reviews").Text(), "Reviews: 40")
}

func TestComposeIsIdempotent(t *testing.T) {
	b, err := document.SampleBundle()
	require.NoError(t, err)
	c := newComposer()

	first, err := c.Compose(b)
	require.NoError(t, err)
	second, err := c.Compose(b)
	require.NoError(t, err)

	a, err := first.HTML()
	require.NoError(t, err)
	z, err := second.HTML()
	require.NoError(t, err)
	assert.Equal(t, a, z)
	assert.Equal(t, 4, second.Document().Find("#cat-container-1 .cat-block").Length())
}

func TestComposeReportOnly(t *testing.T) {
	page, err := newComposer().Compose(bundleFrom(t, `{"sentiment_summary": {"positive": 8, "neutral": 1, "negative": 1}}`))
	require.NoError(t, err)

	ids := page.PageIDs()
	assert.NotContains(t, ids, "page-competitors")
	assert.NotContains(t, ids, "page-staff-2")
	assert.Contains(t, ids, "page-staff")

	assert.Equal(t, "Excelsior Hotel Gallia", page.Text("cover-hotel-name"))
	assert.Equal(t, "2025", page.Text("cover-year"))
	assert.Equal(t, "December", page.Text("cover-month"))
	assert.Equal(t, "-", page.Text("dashboard-score"))

	assert.Equal(t, "80.0", page.Text("ratio-pos"))
	assert.Equal(t, "10.0", page.Text("ratio-neu"))
	assert.Equal(t, "10.0", page.Text("ratio-neg"))
}

func TestComposeDefaultContact(t *testing.T) {
	page, err := newComposer().Compose(bundleFrom(t, `{"hotel_name": "Hotel A"}`))
	require.NoError(t, err)

	assert.Equal(t, "Where to know Insights GmbH", page.Text("c-name"))
	assert.Equal(t, "Potsdamer Platz 10 Haus 2, 5. OG Quartier", page.Text("c-addr1"))
	href, _ := page.Document().Find("#c-email").Attr("href")
	assert.Equal(t, "mailto:info@wheretoknow.com", href)
	web, _ := page.Document().Find("#c-web").Attr("href")
	assert.Equal(t, "https://www.wheretoknow.com", web)
}

func TestComposeDocumentContact(t *testing.T) {
	page, err := newComposer().Compose(bundleFrom(t, `{"contact_info": {
		"email": "gm@hotel-a.example", "website": "https://hotel-a.example",
		"company_name": "Hotel A Group", "address_line_1": "Main St 1", "address_line_2": "Vienna"
	}}`))
	require.NoError(t, err)

	assert.Equal(t, "Hotel A Group", page.Text("c-name"))
	web, _ := page.Document().Find("#c-web").Attr("href")
	assert.Equal(t, "https://hotel-a.example", web)
}

func TestComposeCategoryOrderAndUnknown(t *testing.T) {
	page, err := newComposer().Compose(bundleFrom(t, `{"insights": {"category_summary": [
		{"category": "Value for Money"},
		{"category": "Spa & Wellness"},
		{"category": "Room Comfort"},
		{"category": "Location & Neighbourhood"}
	]}}`))
	require.NoError(t, err)
	doc := page.Document()

	assert.Equal(t, []string{"Location & Neighbourhood", "Room Comfort"}, texts(doc.Find("#cat-container-1 .cat-name")))
	assert.Equal(t, []string{"Value for Money", "Spa & Wellness"}, texts(doc.Find("#cat-container-2 .cat-name")))
}

func TestComposeRadarFallsBackToCompetitorScores(t *testing.T) {
	b := bundleFrom(t, `{"hotel_name": "A"}`)
	b, err := b.With(document.KindCompetitors, []byte(`{"hotel": {"name": "A", "scores": {"Cleanliness": 8, "Location & Neighbourhood": 9, "Pool": 7}}}`))
	require.NoError(t, err)

	page, err := newComposer().Compose(b)
	require.NoError(t, err)
	labels := texts(page.Document().Find("#radar-container text.radar-label"))
	assert.Equal(t, []string{"Location &Neighbourhood", "Cleanliness", "Pool"}, labels)
}

func TestComposeNoReport(t *testing.T) {
	_, err := newComposer().Compose(&document.Bundle{})
	assert.True(t, errors.Is(err, ErrNoReport))
}

func TestFailureShowsDebugPanel(t *testing.T) {
	page, err := newComposer().Failure(errors.New("Could not find data.json <here>"))
	require.NoError(t, err)

	style, _ := page.Document().Find("#debug-log").Attr("style")
	assert.Equal(t, "display:block", style)
	assert.Contains(t, page.Text("debug-log"), "Data Load Failed")
	assert.Contains(t, page.Text("debug-log"), "Could not find data.json <here>")
	assert.Equal(t, 0, page.Document().Find("#kpi-container *").Length())
}
