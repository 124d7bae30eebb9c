package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Amount is a decimal money value which may be "not applicable".
// Zero value is NotApplicable, i.e. distinct from a valid zero.
type Amount struct {
	Value decimal.Decimal
	Valid bool
}

// NotApplicable marks a category which doesn't exist for the platform.
var NotApplicable = Amount{}

// NotApplicableText is how NotApplicable is rendered in outputs.
const NotApplicableText = "N/A"

// NewAmount wraps decimal as a valid amount.
func NewAmount(value decimal.Decimal) Amount {
	return Amount{Value: value, Valid: true}
}

// ZeroAmount returns valid zero.
func ZeroAmount() Amount {
	return Amount{Value: decimal.Zero, Valid: true}
}

// AmountFromFloat converts float read from a spreadsheet cell.
func AmountFromFloat(value float64) Amount {
	return NewAmount(decimal.NewFromFloat(value))
}

// MustParseAmount parses amount in "1,500.00" format or panics. For constants and tests.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s, false)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseAmount removes currency signs, spaces and thousands separators and parses decimal.
// With decimalComma "1.500,25" is parsed as 1500.25, otherwise "1,500.25" is.
// Empty string is NotApplicable.
func ParseAmount(s string, decimalComma bool) (Amount, error) {
	sanitized := strings.TrimSpace(s)
	if sanitized == "" {
		return NotApplicable, nil
	}
	sanitized = strings.NewReplacer("€", "", "EUR", "", " ", "", "\u00a0", "").Replace(sanitized)
	if decimalComma {
		sanitized = strings.ReplaceAll(sanitized, ".", "")
		sanitized = strings.ReplaceAll(sanitized, ",", ".")
	} else {
		sanitized = strings.ReplaceAll(sanitized, ",", "")
	}
	value, err := decimal.NewFromString(sanitized)
	if err != nil {
		return NotApplicable, fmt.Errorf("can't parse amount '%s': %w", s, err)
	}
	return NewAmount(value), nil
}

// Add sums amounts. Result is NotApplicable only if both are NotApplicable.
func (a Amount) Add(b Amount) Amount {
	switch {
	case !a.Valid && !b.Valid:
		return NotApplicable
	case !a.Valid:
		return b
	case !b.Valid:
		return a
	}
	return NewAmount(a.Value.Add(b.Value))
}

// Sub subtracts amounts with the same NotApplicable rules as Add.
func (a Amount) Sub(b Amount) Amount {
	if !b.Valid {
		return a
	}
	return a.Add(NewAmount(b.Value.Neg()))
}

// Round rounds half away from zero. NotApplicable stays as is.
func (a Amount) Round(places int32) Amount {
	if !a.Valid {
		return a
	}
	return NewAmount(a.Value.Round(places))
}

// OrZero returns value or zero for NotApplicable.
func (a Amount) OrZero() decimal.Decimal {
	if !a.Valid {
		return decimal.Zero
	}
	return a.Value
}

// IsZero returns true only for valid zero.
func (a Amount) IsZero() bool {
	return a.Valid && a.Value.IsZero()
}

// Equal compares amounts by value, NotApplicable equals only NotApplicable.
func (a Amount) Equal(b Amount) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Value.Equal(b.Value)
}

// Float64 returns value for spreadsheet cells and charts.
func (a Amount) Float64() float64 {
	f, _ := a.OrZero().Float64()
	return f
}

func (a Amount) String() string {
	if !a.Valid {
		return NotApplicableText
	}
	return a.Value.StringFixed(2)
}

// MarshalJSON implements the json.Marshaler interface.
func (a Amount) MarshalJSON() ([]byte, error) {
	if !a.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value.StringFixed(2))
}

// CanonicalRow is one day of one platform in one currency.
type CanonicalRow struct {
	Platform string
	Date     civil.Date
	Currency string
	// Values has an entry for every column of DisplayColumns.
	Values map[Category]Amount
}

// Get returns value of the column or NotApplicable.
func (r CanonicalRow) Get(c Category) Amount {
	return r.Values[c]
}

// CanonicalTable is a normalized statement of one platform, sorted by date and currency.
type CanonicalTable struct {
	Platform string
	Rows     []CanonicalRow
}

// Len returns number of rows.
func (t CanonicalTable) Len() int {
	return len(t.Rows)
}

// ReportRow is a row of one of the aggregated report tables.
type ReportRow struct {
	Platform string
	Currency string
	// Date is set only for daily rows.
	Date civil.Date
	// Month is set for daily and monthly rows.
	Month  Month
	Values map[Category]Amount
}

// Get returns value of the column or NotApplicable.
func (r ReportRow) Get(c Category) Amount {
	return r.Values[c]
}

// ReportTable is one of the write-once aggregated tables.
type ReportTable struct {
	Rows []ReportRow
}

// Len returns number of rows.
func (t ReportTable) Len() int {
	return len(t.Rows)
}

// Report groups daily, monthly and total results.
type Report struct {
	Daily   ReportTable
	Monthly ReportTable
	Total   ReportTable
}

// IsEmpty returns true if no platform produced any data.
func (r Report) IsEmpty() bool {
	return r.Total.Len() == 0
}
