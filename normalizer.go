package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// statementEntry is one date-filtered row of a raw statement.
type statementEntry struct {
	at       time.Time
	date     civil.Date
	currency string
	// flows contains classified amounts of the row, empty for unknown and ignored labels.
	flows map[Category]Amount
	// amount is the row amount used to restore balance before the row.
	amount  Amount
	balance Amount
	// startBalance and endBalance are set for wide statements only.
	startBalance Amount
	endBalance   Amount
}

type dayKey struct {
	date     civil.Date
	currency string
}

type dayBalances struct {
	start Amount
	end   Amount
}

// Normalize converts raw statement of one platform into canonical daily rows.
// Returns the table and comma-separated sorted labels which mapping doesn't know ("" if none).
// Errors are *StatementClassificationError.
func Normalize(
	raw RawTable,
	platform string,
	dateRange DateRange,
	mapping StatementMapping,
) (CanonicalTable, string, error) {
	if raw.Len() == 0 {
		produced := mapping.producedCategories(raw.Renamed(mapping.columnNames()))
		rows := fillMissingMonths(nil, dateRange, produced)
		return buildCanonicalTable(platform, rows, produced), "", nil
	}

	// Rename and check required columns.
	table := raw.Renamed(mapping.columnNames())
	if !table.HasColumn(ColumnDate) {
		return CanonicalTable{}, "", classificationError(platform, "%w: date column '%s'", ErrMissingColumn, mapping.DateColumn)
	}
	if !mapping.IsWide() {
		if !table.HasColumn(mapping.CashFlowTypeColumn) {
			return CanonicalTable{}, "", classificationError(platform, "%w: cash flow type column '%s'", ErrMissingColumn, mapping.CashFlowTypeColumn)
		}
		if !table.HasColumn(mapping.AmountColumn) {
			return CanonicalTable{}, "", classificationError(platform, "%w: amount column '%s'", ErrMissingColumn, mapping.AmountColumn)
		}
	}
	if mapping.BalanceColumn != "" && !table.HasColumn(mapping.BalanceColumn) {
		return CanonicalTable{}, "", classificationError(platform, "%w: balance column '%s'", ErrMissingColumn, mapping.BalanceColumn)
	}
	produced := mapping.producedCategories(table)

	// Filter by dates and classify.
	var entries []statementEntry
	unknownLabels := map[string]struct{}{}
	for i := range table.Rows {
		dateCell := table.Value(i, ColumnDate)
		if cellString(dateCell) == "" {
			continue
		}
		at, err := cellTime(dateCell, mapping.DateFormat)
		if err != nil {
			return CanonicalTable{}, "", classificationError(platform, "%w '%s' in row %d with format '%s': %v",
				ErrUnparseableDate, cellString(dateCell), i+1, mapping.DateFormat, err)
		}
		if !dateRange.ContainsTime(at) {
			continue
		}
		entry := statementEntry{
			at:       at,
			date:     civil.DateOf(at),
			currency: ReferenceCurrency,
			flows:    map[Category]Amount{},
		}
		if currency := table.Text(i, ColumnCurrency); currency != "" {
			entry.currency = strings.ToUpper(currency)
		}
		if mapping.IsWide() {
			err = classifyWideRow(table, i, mapping, &entry)
		} else {
			err = classifyRow(table, i, mapping, &entry, unknownLabels)
		}
		if err != nil {
			return CanonicalTable{}, "", classificationError(platform, "row %d: %w", i+1, err)
		}
		entries = append(entries, entry)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].at.Before(entries[j].at)
	})

	// Pivot flows by date and currency.
	pivot := map[dayKey]map[Category]Amount{}
	for _, entry := range entries {
		if len(entry.flows) == 0 && !(mapping.IsWide() && entry.startBalance.Valid) {
			continue
		}
		key := dayKey{entry.date, entry.currency}
		values, ok := pivot[key]
		if !ok {
			values = map[Category]Amount{}
			pivot[key] = values
		}
		for category, amount := range entry.flows {
			values[category] = values[category].Add(amount)
		}
	}

	var balances map[dayKey]dayBalances
	if produced[CategoryStartBalance] && produced[CategoryEndBalance] {
		balances = extractBalances(entries, mapping.IsWide())
	}

	rows := make([]canonicalDraft, 0, len(pivot))
	for key, values := range pivot {
		draft := canonicalDraft{date: key.date, currency: key.currency, values: values}
		if b, ok := balances[key]; ok {
			draft.values[CategoryStartBalance] = b.start
			draft.values[CategoryEndBalance] = b.end
		}
		rows = append(rows, draft)
	}
	sortDrafts(rows)
	rows = fillMissingMonths(rows, dateRange, produced)

	unknown := make([]string, 0, len(unknownLabels))
	for label := range unknownLabels {
		unknown = append(unknown, label)
	}
	sort.Strings(unknown)
	return buildCanonicalTable(platform, rows, produced), strings.Join(unknown, ", "), nil
}

// classifyRow maps the row label to category and parses amount and balance.
func classifyRow(
	table RawTable,
	row int,
	mapping StatementMapping,
	entry *statementEntry,
	unknownLabels map[string]struct{},
) error {
	amount, err := cellAmount(table.Value(row, mapping.AmountColumn), mapping.DecimalComma)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnparseableAmount, err)
	}
	entry.amount = amount
	if mapping.BalanceColumn != "" {
		entry.balance, err = cellAmount(table.Value(row, mapping.BalanceColumn), mapping.DecimalComma)
		if err != nil {
			return fmt.Errorf("%w: balance: %v", ErrUnparseableAmount, err)
		}
	}

	label := table.Text(row, mapping.CashFlowTypeColumn)
	if label == "" {
		return nil
	}
	category, ok := mapping.CashFlowTypes[label]
	if !ok {
		unknownLabels[label] = struct{}{}
		return nil
	}
	if !category.IsFlow() {
		return nil
	}
	entry.flows[transferDirection(category, amount)] = amount.Add(ZeroAmount())
	return nil
}

// classifyWideRow reads every category column of a wide statement row.
func classifyWideRow(table RawTable, row int, mapping StatementMapping, entry *statementEntry) error {
	for _, column := range table.Columns {
		category, err := ParseCategory(column)
		if err != nil || !(category.IsFlow() || category.IsBalance()) {
			continue
		}
		amount, err := cellAmount(table.Value(row, column), mapping.DecimalComma)
		if err != nil {
			return fmt.Errorf("%w: column '%s': %v", ErrUnparseableAmount, column, err)
		}
		switch category {
		case CategoryStartBalance:
			entry.startBalance = amount.Add(ZeroAmount())
		case CategoryEndBalance:
			entry.endBalance = amount.Add(ZeroAmount())
		default:
			direction := transferDirection(category, amount)
			entry.flows[direction] = entry.flows[direction].Add(amount).Add(ZeroAmount())
		}
	}
	return nil
}

// transferDirection routes transfers by sign: deposits are positive, withdrawals are negative.
func transferDirection(category Category, amount Amount) Category {
	if category != CategoryIncomingTransfer && category != CategoryOutgoingTransfer {
		return category
	}
	if amount.OrZero().IsNegative() {
		return CategoryOutgoingTransfer
	}
	return CategoryIncomingTransfer
}

// extractBalances returns start and end balances per date and currency.
// Entries must be sorted chronologically.
func extractBalances(entries []statementEntry, wide bool) map[dayKey]dayBalances {
	result := map[dayKey]dayBalances{}
	for _, entry := range entries {
		key := dayKey{entry.date, entry.currency}
		b, seen := result[key]
		if wide {
			if !seen {
				b.start = entry.startBalance
			}
			b.end = entry.endBalance
		} else {
			if !entry.balance.Valid {
				continue
			}
			if !seen {
				// Balance already includes the amount of this row.
				b.start = entry.balance.Sub(entry.amount)
			}
			b.end = entry.balance
		}
		result[key] = b
	}
	return result
}

// canonicalDraft is a canonical row before columns are completed.
type canonicalDraft struct {
	date     civil.Date
	currency string
	values   map[Category]Amount
}

func sortDrafts(rows []canonicalDraft) {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].date != rows[j].date {
			return rows[i].date.Before(rows[j].date)
		}
		return rows[i].currency < rows[j].currency
	})
}

// fillMissingMonths adds zero row at the 1st day of every month without rows, per currency.
// Balances of an inserted row are the end balance of the previous populated month,
// or the start balance of the next populated month if there is no previous one, or zero.
func fillMissingMonths(
	rows []canonicalDraft,
	dateRange DateRange,
	produced map[Category]bool,
) []canonicalDraft {
	currencies := []string{}
	populated := map[string]map[Month]bool{}
	for _, row := range rows {
		if _, ok := populated[row.currency]; !ok {
			populated[row.currency] = map[Month]bool{}
			currencies = append(currencies, row.currency)
		}
		populated[row.currency][MonthOf(row.date)] = true
	}
	if len(currencies) == 0 {
		currencies = append(currencies, ReferenceCurrency)
	}
	sort.Strings(currencies)
	withBalances := produced[CategoryStartBalance] && produced[CategoryEndBalance]

	result := append([]canonicalDraft{}, rows...)
	for _, currency := range currencies {
		for _, month := range dateRange.Months() {
			if populated[currency][month] {
				continue
			}
			draft := canonicalDraft{
				date:     month.FirstDay(),
				currency: currency,
				values:   map[Category]Amount{},
			}
			if withBalances {
				balance := carriedBalance(rows, currency, month)
				draft.values[CategoryStartBalance] = balance
				draft.values[CategoryEndBalance] = balance
			}
			result = append(result, draft)
		}
	}
	sortDrafts(result)
	return result
}

// carriedBalance finds balance for a month without rows. Rows must be sorted by date.
func carriedBalance(rows []canonicalDraft, currency string, month Month) Amount {
	var previous, next *canonicalDraft
	for i := range rows {
		row := &rows[i]
		if row.currency != currency {
			continue
		}
		if MonthOf(row.date).Before(month) {
			previous = row
		} else if next == nil {
			next = row
		}
	}
	switch {
	case previous != nil && previous.values[CategoryEndBalance].Valid:
		return previous.values[CategoryEndBalance]
	case next != nil && next.values[CategoryStartBalance].Valid:
		return next.values[CategoryStartBalance]
	}
	return ZeroAmount()
}

// buildCanonicalTable completes every display column and computes total income.
func buildCanonicalTable(
	platform string,
	drafts []canonicalDraft,
	produced map[Category]bool,
) CanonicalTable {
	columns := append([]Category{}, DisplayColumns...)
	for _, c := range []Category{CategoryIncomingTransfer, CategoryOutgoingTransfer} {
		if produced[c] {
			columns = append(columns, c)
		}
	}

	table := CanonicalTable{Platform: platform, Rows: make([]CanonicalRow, 0, len(drafts))}
	for _, draft := range drafts {
		values := make(map[Category]Amount, len(columns))
		for _, c := range columns {
			value := draft.values[c]
			if !value.Valid && produced[c] {
				value = ZeroAmount()
			}
			values[c] = value
		}
		total := ZeroAmount()
		for _, c := range columns {
			if c.IsIncome() {
				total = total.Add(NewAmount(values[c].OrZero()))
			}
		}
		values[CategoryTotalIncome] = total
		table.Rows = append(table.Rows, CanonicalRow{
			Platform: platform,
			Date:     draft.date,
			Currency: draft.currency,
			Values:   values,
		})
	}
	return table
}
