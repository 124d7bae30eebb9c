package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCsvStatementReader_ReadRawTable(t *testing.T) {
	content := "\ufeff\"Confirmation Date\",\"Cash Flow Type\",\"Amount\",\n" +
		"01/09/2018 10:00,Deposit,100,\n" +
		",,,\n" +
		"02/09/2018 10:00,\"Interest, late\",\"1,000.5\",\n" +
		"Total,,1100.5,\n" +
		"\n"
	path := writeTempFile(t, "estateguru.csv", content)

	table, err := ReadRawTableFromFile(path, ReadOptions{SkipFooter: 1})

	require.NoError(t, err)
	assert.Equal(t, []string{"Confirmation Date", "Cash Flow Type", "Amount"}, table.Columns)
	want := [][]any{
		{"01/09/2018 10:00", "Deposit", "100"},
		{"02/09/2018 10:00", "Interest, late", "1,000.5"},
	}
	if diff := cmp.Diff(want, table.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestCsvStatementReader_Delimiter(t *testing.T) {
	path := writeTempFile(t, "statement.csv", "Date;Type;Amount\n01.09.2018;Interest;1,5\n")

	table, err := CsvStatementReader{}.ReadRawTable(path, ReadOptions{Delimiter: ';'})

	require.NoError(t, err)
	assert.Equal(t, "1,5", table.Text(0, "Amount"))
}

func TestXlsxStatementReader_ReadRawTable(t *testing.T) {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Statement")
	require.NoError(t, err)
	for _, values := range [][]string{
		{"Account statement"},
		{"Period: 2018-09-01 - 2018-09-30"},
		{"Date", "Transaction Type", "Turnover"},
	} {
		row := sheet.AddRow()
		for _, value := range values {
			row.AddCell().SetString(value)
		}
	}
	dataRow := sheet.AddRow()
	dataRow.AddCell().SetString("2018-09-01 10:00:00")
	dataRow.AddCell().SetString("deposit")
	dataRow.AddCell().SetFloat(100.25)
	footer := sheet.AddRow()
	footer.AddCell().SetString("Total")
	path := filepath.Join(t.TempDir(), "iuvo.xlsx")
	require.NoError(t, file.Save(path))

	table, err := ReadRawTableFromFile(path, ReadOptions{HeaderRow: 2, SkipFooter: 1})

	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Transaction Type", "Turnover"}, table.Columns)
	require.Equal(t, 1, table.Len())
	assert.Equal(t, "2018-09-01 10:00:00", table.Text(0, "Date"))
	assert.Equal(t, "deposit", table.Text(0, "Transaction Type"))
	turnover, err := cellAmount(table.Value(0, "Turnover"), false)
	require.NoError(t, err)
	assertAmount(t, "100.25", turnover)
}

func TestReadRawTableFromFile_Errors(t *testing.T) {
	_, err := ReadRawTableFromFile(filepath.Join(t.TempDir(), "absent.csv"), ReadOptions{})
	checkErrorContainsSubstring(t, err, "file does not exist")

	path := writeTempFile(t, "statement.json", "{}")
	_, err = ReadRawTableFromFile(path, ReadOptions{})
	checkErrorContainsSubstring(t, err, "unknown format of statement file")

	path = writeTempFile(t, "short.csv", "Date,Amount\n")
	_, err = ReadRawTableFromFile(path, ReadOptions{HeaderRow: 3})
	checkErrorContainsSubstring(t, err, "can't find header in row 4")
}

func TestStatementReaderFor(t *testing.T) {
	tests := []struct {
		path string
		want StatementReader
	}{
		{"a/statement.csv", CsvStatementReader{}},
		{"a/statement.XLSX", XlsxStatementReader{}},
		{"a/statement.xls", XlsStatementReader{}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			reader, err := statementReaderFor(tt.path)

			require.NoError(t, err)
			assert.Equal(t, tt.want, reader)
		})
	}
}

func TestXlsStatementReader_NotAnXlsFile(t *testing.T) {
	path := writeTempFile(t, "statement.xls", "Date,Amount\n01.09.2018,1\n")

	_, err := ReadRawTableFromFile(path, ReadOptions{})

	checkErrorContainsSubstring(t, err, "failed to open file")
}

func TestTableFromRecords_HeaderOnly(t *testing.T) {
	table, err := tableFromRecords([][]any{{"Date", "Amount", ""}}, ReadOptions{SkipFooter: 2})

	require.NoError(t, err)
	assert.Equal(t, []string{"Date", "Amount"}, table.Columns)
	assert.Equal(t, 0, table.Len())
}

func TestXlsNumberValue(t *testing.T) {
	september := time.Date(2018, time.September, 3, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name        string
		formatIndex int
		format      string
		want        any
	}{
		{"general", 0, "", 43346.0},
		{"two decimals", 2, "", 43346.0},
		{"built-in date", 14, "", september},
		{"built-in date time", 22, "", september},
		{"custom date", 164, "dd.mm.yyyy", september},
		{"custom number", 165, "#,##0.00 €", 43346.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := xlsNumberValue(43346, tt.formatIndex, tt.format)

			if want, ok := tt.want.(time.Time); ok {
				require.IsType(t, time.Time{}, got)
				assert.True(t, want.Equal(got.(time.Time)), "got %v", got)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
