package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/wcharczuk/go-chart/v2"
)

// ErrNoChartData is returned when the report has no monthly income in the currency.
var ErrNoChartData = errors.New("no monthly income to draw")

// monthlyIncome sums total income of all platforms per month in one currency.
func monthlyIncome(report Report, currency string) ([]Month, map[Month]Amount) {
	income := map[Month]Amount{}
	for _, row := range report.Monthly.Rows {
		if row.Currency != currency {
			continue
		}
		income[row.Month] = income[row.Month].Add(row.Get(CategoryTotalIncome))
	}
	months := make([]Month, 0, len(income))
	for month, amount := range income {
		if amount.Valid {
			months = append(months, month)
		}
	}
	sort.Slice(months, func(i, j int) bool {
		return months[i].Before(months[j])
	})
	return months, income
}

// RenderIncomeChart draws PNG bar chart of total income per month.
func RenderIncomeChart(report Report, currency string, w io.Writer) error {
	months, income := monthlyIncome(report, currency)
	if len(months) == 0 {
		return fmt.Errorf("%w in %s", ErrNoChartData, currency)
	}
	bars := make([]chart.Value, 0, len(months))
	for _, month := range months {
		bars = append(bars, chart.Value{
			Label: month.String(),
			Value: income[month].Float64(),
		})
	}
	graph := chart.BarChart{
		Title: fmt.Sprintf("%s, %s", i18n.T("Total income per month"), currency),
		Background: chart.Style{
			Padding: chart.Box{Top: 40},
		},
		Height:       512,
		Width:        max(512, 64*len(bars)),
		BarWidth:     40,
		Bars:         bars,
		UseBaseValue: true,
		BaseValue:    0,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("can't render income chart: %w", err)
	}
	return nil
}

// SaveIncomeChart renders income chart into PNG file. File is not left behind on errors.
func SaveIncomeChart(report Report, currency, path string) error {
	var buf bytes.Buffer
	if err := RenderIncomeChart(report, currency, &buf); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("can't create chart file '%s': %w", path, err)
	}
	_, err = buf.WriteTo(file)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return fmt.Errorf("can't write chart file '%s': %w", path, err)
	}
	return nil
}
