package main

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

func TestRawTable_Transformations(t *testing.T) {
	table := NewRawTable(
		[]string{"Date", "Type", "Amount"},
		[]any{"2018-09-01", "Interest", 1.5},
		[]any{"2018-09-02", "Deposit", "100"},
		[]any{"2018-09-03", "Interest", nil},
	)

	renamed := table.Renamed(map[string]string{"Date": ColumnDate})
	if diff := cmp.Diff([]string{ColumnDate, "Type", "Amount"}, renamed.Columns); diff != "" {
		t.Errorf("Renamed columns mismatch (-want +got):\n%s", diff)
	}
	if table.Columns[0] != "Date" {
		t.Error("Renamed must not modify receiver")
	}

	filtered := table.Filtered(func(row int) bool { return table.Text(row, "Type") == "Interest" })
	if filtered.Len() != 2 || filtered.Text(1, "Date") != "2018-09-03" {
		t.Errorf("Filtered: got %+v", filtered.Rows)
	}

	withColumn := table.WithColumn("Label", func(row int) any { return table.Text(row, "Type") + "!" })
	if withColumn.Text(1, "Label") != "Deposit!" || table.HasColumn("Label") {
		t.Errorf("WithColumn: got %+v", withColumn)
	}
	replaced := withColumn.WithColumn("Type", func(row int) any { return "X" })
	if len(replaced.Columns) != 4 || replaced.Text(0, "Type") != "X" || withColumn.Text(0, "Type") != "Interest" {
		t.Errorf("WithColumn replace: got %+v", replaced)
	}

	if got := table.WithoutTail(2); got.Len() != 1 {
		t.Errorf("WithoutTail: got %d rows", got.Len())
	}
	if got := table.WithoutTail(5); got.Len() != 0 || len(got.Columns) != 3 {
		t.Errorf("WithoutTail of all rows: got %+v", got)
	}
	if table.Value(0, "Absent") != nil || table.Value(7, "Date") != nil {
		t.Error("Value of absent cell must be nil")
	}
}

func TestCellAmount(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		want    Amount
		wantErr bool
	}{
		{"nil", nil, NotApplicable, false},
		{"float", 1.25, MustParseAmount("1.25"), false},
		{"int", 3, MustParseAmount("3"), false},
		{"decimal", decimal.RequireFromString("-0.5"), MustParseAmount("-0.5"), false},
		{"string", "1,000.10", MustParseAmount("1000.1"), false},
		{"bool", true, NotApplicable, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := cellAmount(tt.value, false)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestCellTime(t *testing.T) {
	got, err := cellTime(" 02.01.2018 ", "02.01.2006")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(time.Date(2018, time.January, 2, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("got %s", got)
	}
	excelTime := time.Date(2018, time.March, 4, 10, 0, 0, 0, time.UTC)
	if got, _ := cellTime(excelTime, "ignored"); !got.Equal(excelTime) {
		t.Errorf("time cell: got %s", got)
	}
	if _, err := cellTime(42.0, "2006-01-02"); err == nil {
		t.Error("expected error for number cell")
	}
}
