package document

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanStripsBOMAndFence(t *testing.T) {
	raw := []byte("\xef\xbb\xbf  ```json\n{\"hotel_name\": \"A\"}\n```\n")
	assert.Equal(t, `{"hotel_name": "A"}`, string(Clean(raw)))
}

func TestCleanLeavesPlainJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, string(Clean([]byte("\n {\"a\":1} \n"))))
}

func TestDecodeReport(t *testing.T) {
	r, err := DecodeReport([]byte(`{
		"hotel_name": "Hotel A",
		"period_label": "2026-01",
		"sentiment_summary": {"positive": 8, "neutral": 1, "negative": 1},
		"insights": {"category_summary": [{"category": "Cleanliness"}]},
		"weekly_category_trend": [{"week": "W1", "category_scores": [{"category": "Cleanliness", "score": null}]}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, "Hotel A", r.HotelName)
	require.NotNil(t, r.SentimentSummary)
	assert.Equal(t, 10, r.SentimentSummary.Total())
	require.Len(t, r.Trend(), 1)
	assert.Nil(t, r.Trend()[0].CategoryScores[0].Score)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := DecodeReport([]byte(`{"hotel_name": `))
	var pe *ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, KindReport, pe.Kind)
}

func TestDecodeRejectsEmpty(t *testing.T) {
	_, err := DecodeDashboard([]byte("  \n"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmpty))
}

func TestDecodeRejectsWrongTypes(t *testing.T) {
	cases := map[string]string{
		"string count":   `{"sentiment": {"positive": "many"}}`,
		"negative count": `{"sentiment": {"positive": -3}}`,
		"array root":     `[1, 2, 3]`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeDashboard([]byte(doc))
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, KindDashboard, pe.Kind)
		})
	}
}

func TestDecodeAcceptsNumericWeekLabels(t *testing.T) {
	raw := []byte(`{
		"insights": {"category_summary": [{"category": "Cleanliness"}]},
		"weekly_category_trend": [
			{"week": 1, "category_scores": [{"category": "Cleanliness", "score": 7}]},
			{"week": "W2", "category_scores": [{"category": "Cleanliness", "score": 8}]}
		]
	}`)
	require.NoError(t, Validate(KindReport, Clean(raw)))

	r, err := DecodeReport(raw)
	require.NoError(t, err)
	require.Len(t, r.Trend(), 2)
	assert.Equal(t, WeekLabel("1"), r.Trend()[0].Week)
	assert.Equal(t, WeekLabel("W2"), r.Trend()[1].Week)
	assert.Equal(t, 2, r.WeeklySeries()["Cleanliness"].Present())

	_, err = DecodeReport([]byte(`{"weekly_category_trend": [{"week": true, "category_scores": []}]}`))
	var pe *ParseError
	assert.ErrorAs(t, err, &pe)
}

func TestValidateAllowsUnknownCategoriesAndFields(t *testing.T) {
	err := Validate(KindCompetitors, []byte(`{
		"hotel": {"name": "A", "scores": {"Spa & Wellness": 7.5}, "stars": 5},
		"competitors": []
	}`))
	assert.NoError(t, err)
}

func TestSamplesDecode(t *testing.T) {
	b, err := SampleBundle()
	require.NoError(t, err)
	require.NotNil(t, b.Report)
	require.NotNil(t, b.Dashboard)
	require.NotNil(t, b.Competitors)
	assert.Len(t, b.Dashboard.Staff, 14)
	assert.NotEmpty(t, b.RawBytes(KindReport))
}

func TestWeeklySeriesKeepsNullWeeks(t *testing.T) {
	r, err := DecodeReport([]byte(`{
		"insights": {"category_summary": [{"category": "Cleanliness"}]},
		"weekly_category_trend": [
			{"category_scores": [{"category": "Cleanliness", "score": 6}, {"category": "Spa", "score": 3}]},
			{"category_scores": [{"category": "Cleanliness", "score": null}]},
			{"category_scores": [{"category": "Cleanliness", "score": 8}]},
			{"category_scores": [{"category": "Cleanliness", "score": null}]},
			{"category_scores": [{"category": "Cleanliness", "score": 9}]},
			{"category_scores": [{"category": "Cleanliness", "score": 1}]}
		]
	}`))
	require.NoError(t, err)

	series := r.WeeklySeries()
	require.Contains(t, series, "Cleanliness")
	assert.NotContains(t, series, "Spa")

	s := series["Cleanliness"]
	assert.Equal(t, 3, s.Present())
	assert.Nil(t, s[1])
	assert.Nil(t, s[3])
	assert.Equal(t, 6.0, *s[0])
	assert.Equal(t, 9.0, *s[4])
}

func TestTrendPrefersTopLevel(t *testing.T) {
	r := &Report{
		WeeklyCategoryTrend: []Week{{Week: "top"}},
		Insights:            &Insights{WeeklyCategoryTrend: []Week{{Week: "nested"}, {Week: "nested"}}},
	}
	assert.Equal(t, WeekLabel("top"), r.Trend()[0].Week)

	r.WeeklyCategoryTrend = nil
	assert.Len(t, r.Trend(), 2)
}

func TestReviewCountFallback(t *testing.T) {
	r := &Report{CategoryCounts: map[string]int{"Cleanliness": 12}}
	assert.Equal(t, 12, r.ReviewCount(CategorySummary{Category: "Cleanliness", CountTotal: 4}))
	assert.Equal(t, 4, r.ReviewCount(CategorySummary{Category: "Room Comfort", CountTotal: 4}))
	assert.Equal(t, 0, r.ReviewCount(CategorySummary{Category: "Value for Money"}))
}

func TestResolveHotelName(t *testing.T) {
	r := &Report{DataOverview: &DataOverview{HotelName: "From Overview"}}
	assert.Equal(t, "From Overview", r.ResolveHotelName("Fallback"))
	r.HotelName = "Direct"
	assert.Equal(t, "Direct", r.ResolveHotelName("Fallback"))
	assert.Equal(t, "Fallback", (&Report{}).ResolveHotelName("Fallback"))
}

func TestSentimentRatios(t *testing.T) {
	pos, neu, neg := SentimentRatios(Sentiment{Positive: 8, Neutral: 1, Negative: 1})
	assert.Equal(t, []string{"80.0", "10.0", "10.0"}, []string{pos, neu, neg})

	pos, neu, neg = SentimentRatios(Sentiment{})
	assert.Equal(t, []string{"0.0", "0.0", "0.0"}, []string{pos, neu, neg})
}

func TestParsePeriod(t *testing.T) {
	assert.Equal(t, Period{Year: "2026", Month: "January"}, ParsePeriod("2026-01"))
	assert.Equal(t, Period{Year: "2025", Month: "December"}, ParsePeriod(""))
	assert.Equal(t, Period{Year: "2024", Month: "January"}, ParsePeriod("2024-13"))
	assert.Equal(t, "March, 2026", ParsePeriod("2026-03").String())
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "2025-12-24", FormatDate("2025-12-24"))
	assert.Equal(t, "2025-12-05", FormatDate("12/05/2025"))
	assert.Equal(t, "-", FormatDate(" "))
	assert.Equal(t, "unknown", FormatDate("unknown"))
}

func TestBundleWithLeavesOriginalOnError(t *testing.T) {
	b, err := (*Bundle)(nil).With(KindReport, []byte(`{"hotel_name": "First"}`))
	require.NoError(t, err)

	_, err = b.With(KindReport, []byte(`{"hotel_name": 5}`))
	require.Error(t, err)
	assert.Equal(t, "First", b.Report.HotelName)
	assert.JSONEq(t, `{"hotel_name": "First"}`, string(b.RawBytes(KindReport)))

	next, err := b.With(KindDashboard, []byte(`{"total_reviews": 3}`))
	require.NoError(t, err)
	assert.Nil(t, b.Dashboard)
	assert.Equal(t, 3, next.Dashboard.TotalReviews)
	assert.Equal(t, "First", next.Report.HotelName)
}

func TestHotelAverageScore(t *testing.T) {
	avg := 8.4
	assert.Equal(t, 8.4, Hotel{Average: &avg}.AverageScore())
	assert.InDelta(t, 7.0, Hotel{Scores: map[string]float64{"a": 6, "b": 8}}.AverageScore(), 1e-9)
	assert.True(t, math.IsNaN(Hotel{}.AverageScore()))
	assert.True(t, math.IsNaN(Hotel{}.Score("Cleanliness")))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Dashboard ")
	require.NoError(t, err)
	assert.Equal(t, KindDashboard, k)

	_, err = ParseKind("staff")
	assert.Error(t, err)
}
