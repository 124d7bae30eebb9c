package main

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func testReport() Report {
	return Aggregate([]CanonicalTable{
		{Platform: "Mintos", Rows: []CanonicalRow{
			canonicalRow("Mintos", date(2018, time.September, 3), "EUR", map[Category]string{
				CategoryStartBalance: "100", CategoryEndBalance: "101.5", CategoryInterest: "1.5", CategoryTotalIncome: "1.5",
			}),
			canonicalRow("Mintos", date(2018, time.October, 1), "EUR", map[Category]string{
				CategoryStartBalance: "101.5", CategoryEndBalance: "101.5", CategoryInterest: "0", CategoryTotalIncome: "0",
			}),
		}},
	})
}

func TestWriteReportXlsx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.xlsx")

	err := WriteReportXlsx(testReport(), path)

	require.NoError(t, err)
	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, file.Sheets, 3)
	assert.Equal(t, "Daily results", file.Sheets[0].Name)
	assert.Equal(t, "Monthly results", file.Sheets[1].Name)
	assert.Equal(t, "Total results", file.Sheets[2].Name)

	daily := file.Sheets[0]
	require.Len(t, daily.Rows, 3)
	var header []string
	for _, cell := range daily.Rows[0].Cells {
		header = append(header, cell.String())
	}
	assert.Equal(t, []string{
		"Platform", "Currency", "Date", "Month", "Start balance", "End balance", "Total income",
		"Interest payments", "Investments", "Redemption payments", "Buybacks",
		"Interest payments on buybacks", "Late fees", "Defaults",
	}, header)
	first := daily.Rows[1].Cells
	assert.Equal(t, "Mintos", first[0].String())
	assert.Equal(t, "2018-09-03", first[2].String())
	assert.Equal(t, "2018-09", first[3].String())
	startBalance, err := first[4].Float()
	require.NoError(t, err)
	assert.Equal(t, 100.0, startBalance)
	assert.Equal(t, NotApplicableText, first[8].String())

	total := file.Sheets[2]
	require.Len(t, total.Rows, 3)
	assert.Equal(t, TotalGroupName, total.Rows[2].Cells[0].String())
	assert.Equal(t, NotApplicableText, total.Rows[2].Cells[2].String())
}

func TestWriteReportXlsx_German(t *testing.T) {
	require.NoError(t, i18n.SetLocale("de"))
	defer i18n.SetLocale("en")
	path := filepath.Join(t.TempDir(), "report.xlsx")

	require.NoError(t, WriteReportXlsx(testReport(), path))

	file, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	var names []string
	for _, sheet := range file.Sheets {
		names = append(names, sheet.Name)
	}
	assert.Equal(t, []string{"Tagesergebnisse", "Monatsergebnisse", "Gesamtergebnis"}, names)
}

func TestDumpReport(t *testing.T) {
	result := EvaluationResult{
		Warnings:  []string{"Mintos: unknown cash flow type will be ignored in result: Bonus"},
		Failures:  []PlatformFailure{{Platform: "Iuvo", Err: errors.New("broken file")}},
		Cancelled: []string{"Twino"},
	}
	var sb strings.Builder

	err := DumpReport(testReport(), result, mustDateRange(t, "2018-09-01", "2018-10-31"), &sb)

	require.NoError(t, err)
	expected := `P2P lending results for 2018-09-01 - 2018-10-31

Monthly results
Platform	Currency	Month	Start balance	End balance	Total income	Interest payments	Investments	Redemption payments	Buybacks	Interest payments on buybacks	Late fees	Defaults
Mintos	EUR	2018-09	100.00	101.50	1.50	1.50	N/A	N/A	N/A	N/A	N/A	N/A
Mintos	EUR	2018-10	101.50	101.50	0.00	0.00	N/A	N/A	N/A	N/A	N/A	N/A

Total results
Platform	Currency	Start balance	End balance	Total income	Interest payments	Investments	Redemption payments	Buybacks	Interest payments on buybacks	Late fees	Defaults
Mintos	EUR	100.00	101.50	1.50	1.50	N/A	N/A	N/A	N/A	N/A	N/A
Total	EUR	N/A	N/A	1.50	1.50	N/A	N/A	N/A	N/A	N/A	N/A

Warnings:
Mintos: unknown cash flow type will be ignored in result: Bonus

Failed platforms:
Iuvo: broken file

Cancelled platforms: Twino
`
	assertStringEqual(t, sb.String(), expected)
}

func TestDumpReport_Empty(t *testing.T) {
	var sb strings.Builder

	err := DumpReport(Report{}, EvaluationResult{}, mustDateRange(t, "2018-09-01", "2018-09-30"), &sb)

	require.NoError(t, err)
	assertStringEqual(t, sb.String(), "P2P lending results for 2018-09-01 - 2018-09-30\nNo results available!\n")
}
