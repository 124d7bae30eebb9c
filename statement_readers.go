package main

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shakinm/xlsReader/xls"
	"github.com/shakinm/xlsReader/xls/structure"
	"github.com/tealeg/xlsx"
)

// ReadOptions describe layout of a statement file.
type ReadOptions struct {
	// HeaderRow is 0-based index of the row with column names.
	HeaderRow int `validate:"min=0"`
	// SkipFooter is number of trailing rows with totals or notes to drop.
	SkipFooter int `validate:"min=0"`
	// Delimiter of CSV files, ',' by default.
	Delimiter rune
}

// StatementReader reads raw table from a downloaded statement file.
type StatementReader interface {
	// ReadRawTable parses file into rows of cells under the header row.
	ReadRawTable(filePath string, opts ReadOptions) (RawTable, error)
}

// ReadRawTableFromFile chooses reader by file extension.
func ReadRawTableFromFile(filePath string, opts ReadOptions) (RawTable, error) {
	absPath, err := getAbsolutePath(filePath)
	if err != nil {
		return RawTable{}, err
	}
	reader, err := statementReaderFor(absPath)
	if err != nil {
		return RawTable{}, err
	}
	return reader.ReadRawTable(absPath, opts)
}

func statementReaderFor(filePath string) (StatementReader, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return CsvStatementReader{}, nil
	case ".xlsx":
		return XlsxStatementReader{}, nil
	case ".xls":
		return XlsStatementReader{}, nil
	}
	return nil, fmt.Errorf("unknown format of statement file '%s'", filePath)
}

type CsvStatementReader struct{}

func (r CsvStatementReader) ReadRawTable(filePath string, opts ReadOptions) (RawTable, error) {
	fileData, err := os.ReadFile(filePath)
	if err != nil {
		return RawTable{}, fmt.Errorf("failed to read file: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(fileData))
	reader.FieldsPerRecord = -1 // Allow variable number of fields per record
	reader.LazyQuotes = true
	if opts.Delimiter != 0 {
		reader.Comma = opts.Delimiter
	}

	var records [][]any
	lineNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return RawTable{}, fmt.Errorf("error reading line %d: %w", lineNum, err)
		}
		cells := make([]any, len(record))
		for i, value := range record {
			cells[i] = value
		}
		records = append(records, cells)
		lineNum++
	}
	return tableFromRecords(records, opts)
}

type XlsxStatementReader struct{}

func (r XlsxStatementReader) ReadRawTable(filePath string, opts ReadOptions) (RawTable, error) {
	f, err := xlsx.OpenFile(filePath)
	if err != nil {
		return RawTable{}, fmt.Errorf("failed to open file: %w", err)
	}
	if len(f.Sheets) < 1 {
		return RawTable{}, fmt.Errorf("no sheets in '%s'", filePath)
	}

	// Statements have data on the first sheet.
	firstSheet := f.Sheets[0]
	var records [][]any
	for _, row := range firstSheet.Rows {
		if row == nil {
			records = append(records, nil)
			continue
		}
		cells := make([]any, len(row.Cells))
		for i, cell := range row.Cells {
			cells[i] = xlsxCellValue(cell, f.Date1904)
		}
		records = append(records, cells)
	}
	return tableFromRecords(records, opts)
}

// xlsxCellValue returns float64 for numbers, time.Time for dates and string otherwise.
func xlsxCellValue(cell *xlsx.Cell, date1904 bool) any {
	if cell == nil {
		return nil
	}
	if cell.Type() == xlsx.CellTypeNumeric || cell.Type() == xlsx.CellTypeDate {
		value, err := cell.Float()
		if err == nil {
			if isDateNumFmt(cell.NumFmt) {
				return xlsx.TimeFromExcelTime(value, date1904)
			}
			return value
		}
	}
	return strings.TrimSpace(cell.String())
}

func isDateNumFmt(numFmt string) bool {
	format := strings.ToLower(numFmt)
	return strings.Contains(format, "yy") ||
		strings.Contains(format, "dd") ||
		strings.Contains(format, "h:mm")
}

type XlsStatementReader struct{}

func (r XlsStatementReader) ReadRawTable(filePath string, opts ReadOptions) (RawTable, error) {
	f, err := xls.OpenFile(filePath)
	if err != nil {
		return RawTable{}, fmt.Errorf("failed to open file: %w", err)
	}
	firstSheet, err := f.GetSheet(0)
	if err != nil {
		return RawTable{}, fmt.Errorf("failed to get first sheet: %w", err)
	}

	var records [][]any
	for _, row := range firstSheet.GetRows() {
		var cells []any
		for _, cell := range row.GetCols() {
			cells = append(cells, xlsCellValue(&f, cell))
		}
		records = append(records, cells)
	}
	return tableFromRecords(records, opts)
}

// xlsCellValue returns float64 for numbers, time.Time for dates and string otherwise.
func xlsCellValue(wb *xls.Workbook, cell structure.CellData) any {
	switch cell.GetType() {
	case "*record.Number", "*record.Rk":
		xf := wb.GetXFbyIndex(cell.GetXFIndex())
		formatIndex := xf.GetFormatIndex()
		format := wb.GetFormatByIndex(formatIndex)
		return xlsNumberValue(cell.GetFloat64(), formatIndex, format.String())
	}
	return strings.TrimSpace(cell.GetString())
}

// xlsNumberValue converts Excel serial dates by built-in (14-22, 45-47) or custom date format.
func xlsNumberValue(value float64, formatIndex int, format string) any {
	builtinDate := (formatIndex >= 14 && formatIndex <= 22) || (formatIndex >= 45 && formatIndex <= 47)
	if builtinDate || (formatIndex >= 164 && isDateNumFmt(format)) {
		return xlsx.TimeFromExcelTime(value, false)
	}
	return value
}

// tableFromRecords takes column names from the header row and drops empty rows and footer.
func tableFromRecords(records [][]any, opts ReadOptions) (RawTable, error) {
	if opts.HeaderRow >= len(records) {
		return RawTable{}, fmt.Errorf("can't find header in row %d, file has only %d rows", opts.HeaderRow+1, len(records))
	}

	var columns []string
	for i, cell := range records[opts.HeaderRow] {
		name := cellString(cell)
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		columns = append(columns, strings.Trim(name, `"`))
	}
	for len(columns) > 0 && columns[len(columns)-1] == "" {
		columns = columns[:len(columns)-1]
	}
	if len(columns) == 0 {
		return RawTable{}, fmt.Errorf("header row %d is empty", opts.HeaderRow+1)
	}

	body := records[opts.HeaderRow+1:]
	for len(body) > 0 && isEmptyRecord(body[len(body)-1]) {
		body = body[:len(body)-1]
	}
	table := RawTable{Columns: columns}
	for _, record := range body {
		row := make([]any, len(columns))
		copy(row, record)
		table.Rows = append(table.Rows, row)
	}
	table = table.WithoutTail(opts.SkipFooter)
	return table.Filtered(func(row int) bool {
		return !isEmptyRecord(table.Rows[row])
	}), nil
}

func isEmptyRecord(record []any) bool {
	for _, cell := range record {
		if cellString(cell) != "" {
			return false
		}
	}
	return true
}
