package document

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Report is the primary document (data.json).
type Report struct {
	HotelName           string             `json:"hotel_name,omitempty"`
	PeriodLabel         string             `json:"period_label,omitempty"`
	DataOverview        *DataOverview      `json:"data_overview,omitempty"`
	DashboardOverview   *DashboardOverview `json:"dashboard_overview,omitempty"`
	SentimentSummary    *Sentiment         `json:"sentiment_summary,omitempty"`
	Insights            *Insights          `json:"insights,omitempty"`
	WeeklyCategoryTrend []Week             `json:"weekly_category_trend,omitempty"`
	CategoryCounts      map[string]int     `json:"category_counts,omitempty"`
	Solution            *Solution          `json:"solution,omitempty"`
	ContactInfo         *ContactInfo       `json:"contact_info,omitempty"`
}

// DataOverview carries identity and volume figures.
type DataOverview struct {
	HotelName    string `json:"hotel_name,omitempty"`
	TotalReviews int    `json:"total_reviews"`
}

// DashboardOverview carries the headline score.
type DashboardOverview struct {
	OverallScore *float64 `json:"overall_score,omitempty"`
}

// Sentiment holds counts of positive, neutral and negative reviews.
type Sentiment struct {
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

// Total is the sum of the three counts.
func (s Sentiment) Total() int {
	return s.Positive + s.Neutral + s.Negative
}

// Insights holds the narrative parts of the report.
type Insights struct {
	Highlight           string            `json:"highlight,omitempty"`
	Issue               string            `json:"issue,omitempty"`
	TrendInsights       string            `json:"trend_insights,omitempty"`
	Strengths           []Phrase          `json:"strengths,omitempty"`
	Improvements        []Phrase          `json:"improvements,omitempty"`
	CategorySummary     []CategorySummary `json:"category_summary,omitempty"`
	WeeklyCategoryTrend []Week            `json:"weekly_category_trend,omitempty"`
}

// Phrase is one ranked strength or improvement.
type Phrase struct {
	Phrase string `json:"phrase"`
	Count  int    `json:"count,omitempty"`
}

// CategorySummary is the narrative for a single category.
type CategorySummary struct {
	Category   string `json:"category"`
	Trend      string `json:"trend,omitempty"`
	Positive   string `json:"positive,omitempty"`
	Negative   string `json:"negative,omitempty"`
	CountTotal int    `json:"count_total,omitempty"`
}

// Week is one week of per-category scores. Absent scores are null.
type Week struct {
	Week           WeekLabel       `json:"week,omitempty"`
	CategoryScores []CategoryScore `json:"category_scores"`
}

// WeekLabel names a week. Producers send either a string ("W1") or a
// bare number (1); both decode to the same text.
type WeekLabel string

func (l *WeekLabel) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*l = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = WeekLabel(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("week label must be a string or number: %w", err)
	}
	*l = WeekLabel(n.String())
	return nil
}

// CategoryScore is a single category's score for a week.
type CategoryScore struct {
	Category string   `json:"category"`
	Score    *float64 `json:"score"`
}

// Solution holds the management focus and per-category actions.
type Solution struct {
	Overall           string             `json:"overall,omitempty"`
	CategorySolutions []CategorySolution `json:"category_solutions,omitempty"`
}

// CategorySolution is a suggested action for one category. An action of
// "-" means no suggestion.
type CategorySolution struct {
	Category string `json:"category"`
	Action   string `json:"action"`
}

// ContactInfo is the branding block on the last page.
type ContactInfo struct {
	Email        string `json:"email"`
	Website      string `json:"website"`
	CompanyName  string `json:"company_name"`
	AddressLine1 string `json:"address_line_1"`
	AddressLine2 string `json:"address_line_2"`
}

// Dashboard is the optional KPI document (dashboard.json).
type Dashboard struct {
	OverallScore *float64            `json:"overall_score,omitempty"`
	TotalReviews int                 `json:"total_reviews,omitempty"`
	Sentiment    *Sentiment          `json:"sentiment,omitempty"`
	Categories   []DashboardCategory `json:"categories,omitempty"`
	Staff        []StaffMember       `json:"staff,omitempty"`
}

// DashboardCategory is one service category's score and mention counts.
type DashboardCategory struct {
	Category string  `json:"category"`
	Score    float64 `json:"score"`
	Positive int     `json:"positive"`
	Neutral  int     `json:"neutral"`
	Negative int     `json:"negative"`
	Mentions int     `json:"mentions,omitempty"`
}

// Total is the category's own total: the sum of its counts, or Mentions
// when no counts were supplied.
func (c DashboardCategory) Total() int {
	if sum := c.Positive + c.Neutral + c.Negative; sum > 0 {
		return sum
	}
	return c.Mentions
}

// StaffMember is one staff name or role mentioned in reviews.
type StaffMember struct {
	Name        string `json:"name"`
	Initial     string `json:"initial,omitempty"`
	Total       int    `json:"total"`
	Positive    int    `json:"positive"`
	Negative    int    `json:"negative"`
	LastMention string `json:"last_mention,omitempty"`
}

// Mentions returns Total, or positive+negative when Total is missing.
func (s StaffMember) Mentions() int {
	if s.Total > 0 {
		return s.Total
	}
	return s.Positive + s.Negative
}

// Competitors is the optional comparison document (competitors.json).
type Competitors struct {
	Hotel       Hotel   `json:"hotel"`
	Competitors []Hotel `json:"competitors"`
}

// Hotel is one hotel in the competitor comparison.
type Hotel struct {
	Name    string             `json:"name"`
	Average *float64           `json:"average,omitempty"`
	Reviews int                `json:"reviews,omitempty"`
	Scores  map[string]float64 `json:"scores,omitempty"`
}
