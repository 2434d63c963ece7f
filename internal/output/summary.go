// Package output prints colored terminal digests of a report.
package output

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/TobiSchelling/hotelreport/internal/category"
	"github.com/TobiSchelling/hotelreport/internal/document"
	"github.com/TobiSchelling/hotelreport/internal/render"
)

const barWidth = 30

// styles holds all the styles used in the digest.
type styles struct {
	header   lipgloss.Style
	good     lipgloss.Style
	warning  lipgloss.Style
	bad      lipgloss.Style
	dim      lipgloss.Style
	bold     lipgloss.Style
	positive lipgloss.Style
	neutral  lipgloss.Style
	negative lipgloss.Style
}

func newStyles() styles {
	return styles{
		header:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		good:     lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		bad:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
		dim:      lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		bold:     lipgloss.NewStyle().Bold(true),
		positive: lipgloss.NewStyle().Foreground(lipgloss.Color(render.ColorPositive)),
		neutral:  lipgloss.NewStyle().Foreground(lipgloss.Color(render.ColorNeutral)),
		negative: lipgloss.NewStyle().Foreground(lipgloss.Color(render.ColorNegative)),
	}
}

func (s styles) score(v, goal float64) lipgloss.Style {
	switch render.ScoreClass(v, goal) {
	case "score-good":
		return s.good
	case "score-warning":
		return s.warning
	default:
		return s.bad
	}
}

// Summary writes a digest of b: headline figures, sentiment split,
// category scores against goal and the competitor ranking.
func Summary(w io.Writer, b *document.Bundle, goal float64, defaultHotel string) {
	st := newStyles()
	r := b.Report

	period := document.ParsePeriod(r.PeriodLabel)
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.header.Render(strings.ToUpper(r.ResolveHotelName(defaultHotel))))
	fmt.Fprintln(w, st.dim.Render(period.String()))
	fmt.Fprintln(w)

	if score := overallScore(b); score != nil {
		fmt.Fprintf(w, "  Overall score  %s %s\n",
			st.score(*score, goal).Bold(true).Render(render.FormatScore(*score)),
			st.dim.Render(fmt.Sprintf("(goal %s)", render.FormatScore(goal))))
	}
	if total := totalReviews(b); total > 0 {
		fmt.Fprintf(w, "  Reviews        %d\n", total)
	}

	if s := sentiment(b); s != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.bold.Render("Sentiment"))
		pos, neu, neg := document.SentimentRatios(*s)
		fmt.Fprintln(w, "  "+sentimentBar(*s, st))
		fmt.Fprintf(w, "  %s %s%%  %s %s%%  %s %s%%\n",
			st.positive.Render("■ positive"), pos,
			st.neutral.Render("■ neutral"), neu,
			st.negative.Render("■ negative"), neg)
	}

	if cats := categoryScores(b); len(cats) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.bold.Render("Categories"))
		for _, c := range cats {
			name := category.Lookup(c.name).Short
			fmt.Fprintf(w, "  %-12s %s %s\n",
				name,
				st.score(c.score, goal).Render(scoreBar(c.score)),
				st.score(c.score, goal).Render(render.FormatScore(c.score)))
		}
	}

	if b.Competitors != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.bold.Render("Competitors"))
		for i, h := range b.Competitors.All() {
			avg := h.AverageScore()
			label := "-"
			if !math.IsNaN(avg) {
				label = fmt.Sprintf("%.1f", avg)
			}
			line := fmt.Sprintf("  %-28s %s", truncate(h.Name, 28), label)
			if i == 0 {
				line = st.bold.Render(line)
			}
			fmt.Fprintln(w, line)
		}
		if rel := render.RelativePerformance(b.Competitors); !math.IsNaN(rel) {
			fmt.Fprintf(w, "  %s\n", st.dim.Render(fmt.Sprintf("relative performance %.2f", rel)))
		}
	}
	fmt.Fprintln(w)
}

type categoryScore struct {
	name  string
	score float64
}

func overallScore(b *document.Bundle) *float64 {
	if b.Report.DashboardOverview != nil && b.Report.DashboardOverview.OverallScore != nil {
		return b.Report.DashboardOverview.OverallScore
	}
	if b.Dashboard != nil {
		return b.Dashboard.OverallScore
	}
	return nil
}

func totalReviews(b *document.Bundle) int {
	if b.Report.DataOverview != nil {
		return b.Report.DataOverview.TotalReviews
	}
	if b.Dashboard != nil {
		return b.Dashboard.TotalReviews
	}
	return 0
}

func sentiment(b *document.Bundle) *document.Sentiment {
	if b.Report.SentimentSummary != nil {
		return b.Report.SentimentSummary
	}
	if b.Dashboard != nil {
		return b.Dashboard.Sentiment
	}
	return nil
}

// categoryScores prefers dashboard scores and falls back to the latest
// weekly score of each summarized category.
func categoryScores(b *document.Bundle) []categoryScore {
	var out []categoryScore
	if b.Dashboard != nil && len(b.Dashboard.Categories) > 0 {
		for _, c := range b.Dashboard.Categories {
			out = append(out, categoryScore{name: c.Category, score: c.Score})
		}
		return out
	}
	series := b.Report.WeeklySeries()
	for _, c := range b.Report.CategorySummaries() {
		s := series[c.Category]
		for i := len(s) - 1; i >= 0; i-- {
			if s[i] != nil {
				out = append(out, categoryScore{name: c.Category, score: *s[i]})
				break
			}
		}
	}
	return out
}

func sentimentBar(s document.Sentiment, st styles) string {
	total := s.Total()
	if total == 0 {
		return st.dim.Render(strings.Repeat("░", barWidth))
	}
	pos := int(math.Round(float64(s.Positive) / float64(total) * barWidth))
	neg := int(math.Round(float64(s.Negative) / float64(total) * barWidth))
	if pos+neg > barWidth {
		neg = barWidth - pos
	}
	neu := barWidth - pos - neg
	return st.positive.Render(strings.Repeat("█", pos)) +
		st.neutral.Render(strings.Repeat("█", neu)) +
		st.negative.Render(strings.Repeat("█", neg))
}

func scoreBar(score float64) string {
	filled := int(math.Round(math.Max(0, math.Min(10, score)) / 10 * 20))
	return strings.Repeat("█", filled) + strings.Repeat("░", 20-filled)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
