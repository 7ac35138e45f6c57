package render

import (
	"fmt"

	"github.com/go-analyze/charts"
	"gitlab.com/yelinaung/finance-notebook/internal/models"
)

// Chart renders a PNG pie of the period's expense breakdown by category.
// Only money-out entries chart; a period with none returns an error the
// caller turns into a plain text reply.
func Chart(txs []models.Transaction, label string) ([]byte, error) {
	totals := Aggregate(txs, "")

	var values []float64
	var names []string
	for _, ct := range totals {
		for _, c := range ct.Top {
			name := c.Category
			if len(totals) > 1 {
				name = fmt.Sprintf("%s (%s)", c.Category, ct.Currency)
			}
			names = append(names, name)
			values = append(values, c.Total.InexactFloat64())
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("no expenses to chart")
	}

	p, err := charts.PieRender(
		values,
		charts.TitleOptionFunc(charts.TitleOption{
			Text: fmt.Sprintf("Spending by category (%s)", label),
		}),
		charts.LegendLabelsOptionFunc(names),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create chart: %w", err)
	}

	buf, err := p.Bytes()
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	return buf, nil
}
