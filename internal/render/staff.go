package render

import (
	"strconv"

	"github.com/TobiSchelling/hotelreport/internal/chart"
	"github.com/TobiSchelling/hotelreport/internal/document"
)

type staffView struct {
	Name          string
	Initial       string
	LastMention   string
	Total         int
	PositiveLabel string
	NegativeLabel string
	PositiveRing  chart.RingArc
	NegativeRing  chart.RingArc
	Ratio         string
}

// RatioDisplay formats the positive share: whole percentages without
// decimals, otherwise one decimal, and "0%" when nothing was positive.
func RatioDisplay(positive, total int) string {
	if positive <= 0 {
		return "0%"
	}
	pct := document.Ratio(positive, total)
	if pct == float64(int64(pct)) {
		return strconv.FormatInt(int64(pct), 10) + "%"
	}
	return strconv.FormatFloat(pct, 'f', 1, 64) + "%"
}

func countLabel(n, total int) string {
	if n <= 0 {
		return "-"
	}
	return strconv.Itoa(n) + "/" + strconv.Itoa(total)
}

func initial(m document.StaffMember) string {
	if m.Initial != "" {
		return m.Initial
	}
	for _, r := range m.Name {
		return string(r)
	}
	return "?"
}

// StaffRow renders one staff table row with its ratio rings.
func StaffRow(m document.StaffMember) (string, error) {
	total := m.Mentions()
	return execute("staff", staffView{
		Name:          m.Name,
		Initial:       initial(m),
		LastMention:   document.FormatDate(m.LastMention),
		Total:         total,
		PositiveLabel: countLabel(m.Positive, total),
		NegativeLabel: countLabel(m.Negative, total),
		PositiveRing:  chart.Ring(document.Ratio(m.Positive, total), ColorPositive),
		NegativeRing:  chart.Ring(document.Ratio(m.Negative, total), ColorNegative),
		Ratio:         RatioDisplay(m.Positive, total),
	})
}

// StaffRows renders one row per staff member, in order.
func StaffRows(staff []document.StaffMember) ([]string, error) {
	rows := make([]string, 0, len(staff))
	for _, m := range staff {
		row, err := StaffRow(m)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
