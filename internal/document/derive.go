package document

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Weeks is the fixed length of every weekly score series.
const Weeks = 5

// WeeklySeries holds up to five weekly scores. A nil entry means no data
// for that week, which is distinct from a score of zero.
type WeeklySeries [Weeks]*float64

// Present returns the number of weeks that carry a score.
func (w WeeklySeries) Present() int {
	n := 0
	for _, s := range w {
		if s != nil {
			n++
		}
	}
	return n
}

// Trend returns the weekly trend, preferring the top-level copy over the
// one nested in insights.
func (r *Report) Trend() []Week {
	if len(r.WeeklyCategoryTrend) > 0 {
		return r.WeeklyCategoryTrend
	}
	if r.Insights != nil {
		return r.Insights.WeeklyCategoryTrend
	}
	return nil
}

// CategorySummaries returns the category summaries, or nil.
func (r *Report) CategorySummaries() []CategorySummary {
	if r.Insights == nil {
		return nil
	}
	return r.Insights.CategorySummary
}

// WeeklySeries builds one series per summarized category, keyed by the
// category name. Scores for categories without a summary are dropped and
// only the first five weeks are used.
func (r *Report) WeeklySeries() map[string]WeeklySeries {
	series := make(map[string]WeeklySeries)
	for _, c := range r.CategorySummaries() {
		series[c.Category] = WeeklySeries{}
	}

	for wIdx, week := range r.Trend() {
		if wIdx >= Weeks {
			break
		}
		for _, cs := range week.CategoryScores {
			s, ok := series[cs.Category]
			if !ok || cs.Score == nil {
				continue
			}
			score := *cs.Score
			s[wIdx] = &score
			series[cs.Category] = s
		}
	}
	return series
}

// ReviewCount returns the review count for a category summary:
// category_counts first, then the summary's own count_total, then zero.
func (r *Report) ReviewCount(c CategorySummary) int {
	if n, ok := r.CategoryCounts[c.Category]; ok && n > 0 {
		return n
	}
	return c.CountTotal
}

// ResolveHotelName applies the fallback chain hotel_name, then
// data_overview.hotel_name, then fallback.
func (r *Report) ResolveHotelName(fallback string) string {
	if r.HotelName != "" {
		return r.HotelName
	}
	if r.DataOverview != nil && r.DataOverview.HotelName != "" {
		return r.DataOverview.HotelName
	}
	return fallback
}

// Ratio returns part as a percentage of total. A non-positive total is
// replaced by one so the result is always finite.
func Ratio(part, total int) float64 {
	if total <= 0 {
		total = 1
	}
	return float64(part) / float64(total) * 100
}

// FormatRatio formats a percentage with one decimal.
func FormatRatio(pct float64) string {
	return strconv.FormatFloat(pct, 'f', 1, 64)
}

// SentimentRatios returns the positive, neutral and negative percentages
// of s, each formatted with one decimal.
func SentimentRatios(s Sentiment) (pos, neu, neg string) {
	total := s.Total()
	return FormatRatio(Ratio(s.Positive, total)),
		FormatRatio(Ratio(s.Neutral, total)),
		FormatRatio(Ratio(s.Negative, total))
}

// Period is a reporting period split for display.
type Period struct {
	Year  string
	Month string
}

// String formats the period as "Month, Year".
func (p Period) String() string {
	return fmt.Sprintf("%s, %s", p.Month, p.Year)
}

// ParsePeriod splits a "YYYY-MM" label. An empty label yields
// December 2025; an unknown month yields January.
func ParsePeriod(label string) Period {
	if label == "" {
		return Period{Year: "2025", Month: "December"}
	}
	parts := strings.SplitN(label, "-", 2)
	p := Period{Year: parts[0], Month: "January"}
	if len(parts) == 2 {
		if m, err := strconv.Atoi(parts[1]); err == nil && m >= 1 && m <= 12 {
			p.Month = time.Month(m).String()
		}
	}
	return p
}

// FormatDate normalizes a date in any common layout to YYYY-MM-DD.
// Empty input yields "-" and unparseable input is returned unchanged.
func FormatDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "-"
	}
	t, err := dateparse.ParseAny(s)
	if err != nil {
		return s
	}
	return t.Format("2006-01-02")
}

// AverageScore returns the hotel's overall average, computing it from the
// category scores when absent. NaN means no data.
func (h Hotel) AverageScore() float64 {
	if h.Average != nil {
		return *h.Average
	}
	if len(h.Scores) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, s := range h.Scores {
		sum += s
	}
	return sum / float64(len(h.Scores))
}

// Score returns the hotel's score for a category, or NaN.
func (h Hotel) Score(category string) float64 {
	if s, ok := h.Scores[category]; ok {
		return s
	}
	return math.NaN()
}

// All returns the subject hotel followed by its competitors.
func (c *Competitors) All() []Hotel {
	hotels := make([]Hotel, 0, len(c.Competitors)+1)
	hotels = append(hotels, c.Hotel)
	return append(hotels, c.Competitors...)
}
