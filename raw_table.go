package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// RawTable is a parsed statement before normalization.
// Cells are primitive values: string, float64, int, decimal.Decimal, time.Time or nil.
// Methods never modify the receiver, transformations return new tables.
type RawTable struct {
	Columns []string
	Rows    [][]any
}

// NewRawTable builds table from columns and rows.
func NewRawTable(columns []string, rows ...[]any) RawTable {
	return RawTable{Columns: columns, Rows: rows}
}

// Len returns number of rows.
func (t RawTable) Len() int {
	return len(t.Rows)
}

// ColumnIndex returns index of the column or -1.
func (t RawTable) ColumnIndex(name string) int {
	for i, column := range t.Columns {
		if column == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the column exists.
func (t RawTable) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Value returns cell of the row in the column, nil if absent.
func (t RawTable) Value(row int, column string) any {
	i := t.ColumnIndex(column)
	if i < 0 || row < 0 || row >= len(t.Rows) || i >= len(t.Rows[row]) {
		return nil
	}
	return t.Rows[row][i]
}

// Text returns cell as trimmed string.
func (t RawTable) Text(row int, column string) string {
	return cellString(t.Value(row, column))
}

// Renamed returns table with columns renamed by the map. Not mentioned columns stay as is.
func (t RawTable) Renamed(names map[string]string) RawTable {
	columns := make([]string, len(t.Columns))
	for i, column := range t.Columns {
		if newName, ok := names[column]; ok {
			columns[i] = newName
		} else {
			columns[i] = column
		}
	}
	return RawTable{Columns: columns, Rows: t.Rows}
}

// Filtered returns table with rows for which keep returns true.
func (t RawTable) Filtered(keep func(row int) bool) RawTable {
	rows := make([][]any, 0, len(t.Rows))
	for i, row := range t.Rows {
		if keep(i) {
			rows = append(rows, row)
		}
	}
	return RawTable{Columns: t.Columns, Rows: rows}
}

// WithColumn returns table with the column set to computed values.
// Existing column with the same name is replaced.
func (t RawTable) WithColumn(name string, value func(row int) any) RawTable {
	index := t.ColumnIndex(name)
	columns := t.Columns
	if index < 0 {
		columns = append(append([]string{}, t.Columns...), name)
		index = len(columns) - 1
	}
	rows := make([][]any, len(t.Rows))
	for i, row := range t.Rows {
		newRow := make([]any, len(columns))
		copy(newRow, row)
		newRow[index] = value(i)
		rows[i] = newRow
	}
	return RawTable{Columns: columns, Rows: rows}
}

// WithoutTail returns table without last n rows, like statement footers.
func (t RawTable) WithoutTail(n int) RawTable {
	if n <= 0 {
		return t
	}
	if n >= len(t.Rows) {
		return RawTable{Columns: t.Columns}
	}
	return RawTable{Columns: t.Columns, Rows: t.Rows[:len(t.Rows)-n]}
}

func cellString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(time.DateTime)
	default:
		return strings.TrimSpace(fmt.Sprintf("%v", v))
	}
}

// cellAmount converts cell to amount. Empty cell is NotApplicable.
func cellAmount(value any, decimalComma bool) (Amount, error) {
	switch v := value.(type) {
	case nil:
		return NotApplicable, nil
	case float64:
		return AmountFromFloat(v), nil
	case int:
		return NewAmount(decimal.NewFromInt(int64(v))), nil
	case int64:
		return NewAmount(decimal.NewFromInt(v)), nil
	case decimal.Decimal:
		return NewAmount(v), nil
	case Amount:
		return v, nil
	case string:
		return ParseAmount(v, decimalComma)
	default:
		return NotApplicable, fmt.Errorf("unsupported amount cell %#v", value)
	}
}

// cellTime converts cell to time. Strings are parsed with the layout in UTC.
func cellTime(value any, layout string) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		return time.Parse(layout, strings.TrimSpace(v))
	default:
		return time.Time{}, fmt.Errorf("unsupported date cell %#v", value)
	}
}
