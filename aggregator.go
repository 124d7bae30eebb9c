package main

import (
	"sort"
	"strings"
)

// ReportDecimalPlaces is the precision of all report cells.
const ReportDecimalPlaces = 2

type groupKey struct {
	platform string
	currency string
	month    Month
}

// Aggregate combines canonical tables of all platforms into daily, monthly and total tables.
// Result doesn't depend on order of tables or rows inside them.
// Returns empty report if there are no rows at all.
func Aggregate(tables []CanonicalTable) Report {
	var daily []ReportRow
	for _, table := range tables {
		for _, row := range table.Rows {
			daily = append(daily, ReportRow{
				Platform: row.Platform,
				Currency: row.Currency,
				Date:     row.Date,
				Month:    MonthOf(row.Date),
				Values:   displayValues(row.Values),
			})
		}
	}
	if len(daily) == 0 {
		return Report{}
	}
	sort.Slice(daily, func(i, j int) bool {
		return dailyLess(daily[i], daily[j])
	})

	monthly := rollUp(daily, func(r ReportRow) groupKey {
		return groupKey{platform: r.Platform, currency: r.Currency, month: r.Month}
	})
	total := rollUp(monthly, func(r ReportRow) groupKey {
		return groupKey{platform: r.Platform, currency: r.Currency}
	})
	total = append(total, totalsAcrossPlatforms(total)...)

	return Report{
		Daily:   ReportTable{Rows: roundRows(daily)},
		Monthly: ReportTable{Rows: roundRows(monthly)},
		Total:   ReportTable{Rows: roundRows(total)},
	}
}

// dailyLess orders by platform, currency and date. Balances break ties of duplicated days.
func dailyLess(a, b ReportRow) bool {
	if a.Platform != b.Platform {
		return a.Platform < b.Platform
	}
	if a.Currency != b.Currency {
		return a.Currency < b.Currency
	}
	if a.Date != b.Date {
		return a.Date.Before(b.Date)
	}
	return rowFingerprint(a) < rowFingerprint(b)
}

func rowFingerprint(r ReportRow) string {
	parts := make([]string, 0, len(DisplayColumns))
	for _, c := range DisplayColumns {
		parts = append(parts, r.Values[c].String())
	}
	return strings.Join(parts, "|")
}

// rollUp groups consecutive rows with the same key. Rows must be sorted so groups are contiguous.
// Flow columns are summed where at least one value exists, balances are taken from
// the first and the last row of the group.
func rollUp(rows []ReportRow, keyOf func(ReportRow) groupKey) []ReportRow {
	var result []ReportRow
	for start := 0; start < len(rows); {
		key := keyOf(rows[start])
		end := start + 1
		for end < len(rows) && keyOf(rows[end]) == key {
			end++
		}
		group := rows[start:end]
		values := make(map[Category]Amount, len(DisplayColumns))
		for _, c := range DisplayColumns {
			if c.IsBalance() {
				continue
			}
			sum := NotApplicable
			for _, row := range group {
				sum = sum.Add(row.Values[c])
			}
			values[c] = sum
		}
		values[CategoryStartBalance] = group[0].Values[CategoryStartBalance]
		values[CategoryEndBalance] = group[len(group)-1].Values[CategoryEndBalance]
		result = append(result, ReportRow{
			Platform: key.platform,
			Currency: key.currency,
			Month:    key.month,
			Values:   values,
		})
		start = end
	}
	return result
}

// totalsAcrossPlatforms sums flow columns of all platforms per currency, balances stay blank.
func totalsAcrossPlatforms(rows []ReportRow) []ReportRow {
	byCurrency := map[string]map[Category]Amount{}
	var currencies []string
	for _, row := range rows {
		values, ok := byCurrency[row.Currency]
		if !ok {
			values = map[Category]Amount{}
			for _, c := range DisplayColumns {
				values[c] = NotApplicable
			}
			byCurrency[row.Currency] = values
			currencies = append(currencies, row.Currency)
		}
		for _, c := range DisplayColumns {
			if !c.IsBalance() {
				values[c] = values[c].Add(row.Values[c])
			}
		}
	}
	sort.Strings(currencies)
	result := make([]ReportRow, 0, len(currencies))
	for _, currency := range currencies {
		result = append(result, ReportRow{
			Platform: TotalGroupName,
			Currency: currency,
			Values:   byCurrency[currency],
		})
	}
	return result
}

// displayValues copies display columns, absent ones become NotApplicable.
func displayValues(values map[Category]Amount) map[Category]Amount {
	result := make(map[Category]Amount, len(DisplayColumns))
	for _, c := range DisplayColumns {
		result[c] = values[c]
	}
	return result
}

func roundRows(rows []ReportRow) []ReportRow {
	for i := range rows {
		for c, value := range rows[i].Values {
			rows[i].Values[c] = value.Round(ReportDecimalPlaces)
		}
	}
	return rows
}
