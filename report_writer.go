package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"
)

const xlsxAmountFormat = "#,##0.00"

type reportSheet struct {
	name  string
	table ReportTable
	// withDate and withMonth control leading columns of the sheet.
	withDate  bool
	withMonth bool
}

func reportSheets(report Report) []reportSheet {
	return []reportSheet{
		{name: i18n.T("Daily results"), table: report.Daily, withDate: true},
		{name: i18n.T("Monthly results"), table: report.Monthly, withMonth: true},
		{name: i18n.T("Total results"), table: report.Total},
	}
}

// WriteReportXlsx saves report into XLSX file with one sheet per table.
func WriteReportXlsx(report Report, path string) error {
	file, err := buildReportXlsx(report)
	if err != nil {
		return err
	}
	if err := file.Save(path); err != nil {
		return fmt.Errorf("can't save report into '%s': %w", path, err)
	}
	return nil
}

// WriteReportXlsxTo writes report in XLSX format into writer.
func WriteReportXlsxTo(report Report, w io.Writer) error {
	file, err := buildReportXlsx(report)
	if err != nil {
		return err
	}
	return file.Write(w)
}

func buildReportXlsx(report Report) (*xlsx.File, error) {
	file := xlsx.NewFile()
	for _, s := range reportSheets(report) {
		sheet, err := file.AddSheet(s.name)
		if err != nil {
			return nil, fmt.Errorf("can't add '%s' sheet: %w", s.name, err)
		}
		header := sheet.AddRow()
		for _, title := range sheetHeader(s) {
			header.AddCell().SetString(title)
		}
		for _, row := range s.table.Rows {
			xlsxRow := sheet.AddRow()
			xlsxRow.AddCell().SetString(row.Platform)
			xlsxRow.AddCell().SetString(row.Currency)
			if s.withDate {
				xlsxRow.AddCell().SetString(row.Date.String())
			}
			if s.withDate || s.withMonth {
				xlsxRow.AddCell().SetString(row.Month.String())
			}
			for _, c := range DisplayColumns {
				cell := xlsxRow.AddCell()
				value := row.Get(c)
				if !value.Valid {
					cell.SetString(NotApplicableText)
					continue
				}
				cell.SetFloatWithFormat(value.Float64(), xlsxAmountFormat)
			}
		}
	}
	return file, nil
}

func sheetHeader(s reportSheet) []string {
	header := []string{i18n.T("Platform"), i18n.T("Currency")}
	if s.withDate {
		header = append(header, i18n.T("Date"))
	}
	if s.withDate || s.withMonth {
		header = append(header, i18n.T("Month"))
	}
	for _, c := range DisplayColumns {
		header = append(header, c.Label())
	}
	return header
}

// DumpReport writes human readable monthly and total results with warnings and failures.
func DumpReport(report Report, result EvaluationResult, dateRange DateRange, writer io.Writer) error {
	var sb strings.Builder
	sb.WriteString(i18n.T("Report for dates", "start", dateRange.Start, "end", dateRange.End))
	sb.WriteString("\n")
	if report.IsEmpty() {
		sb.WriteString(i18n.T("No results available!"))
		sb.WriteString("\n")
	} else {
		for _, s := range reportSheets(report)[1:] {
			sb.WriteString("\n")
			sb.WriteString(s.name)
			sb.WriteString("\n")
			sb.WriteString(strings.Join(sheetHeader(s), "\t"))
			sb.WriteString("\n")
			for _, row := range s.table.Rows {
				cells := []string{row.Platform, row.Currency}
				if s.withMonth {
					cells = append(cells, row.Month.String())
				}
				for _, c := range DisplayColumns {
					cells = append(cells, row.Get(c).String())
				}
				sb.WriteString(strings.Join(cells, "\t"))
				sb.WriteString("\n")
			}
		}
	}
	if len(result.Warnings) > 0 {
		sb.WriteString("\n")
		sb.WriteString(i18n.T("Warnings"))
		sb.WriteString("\n")
		for _, warning := range result.Warnings {
			sb.WriteString(warning)
			sb.WriteString("\n")
		}
	}
	if len(result.Failures) > 0 {
		sb.WriteString("\n")
		sb.WriteString(i18n.T("Failed platforms"))
		sb.WriteString("\n")
		for _, failure := range result.Failures {
			sb.WriteString(i18n.T("p failed err", "p", failure.Platform, "err", failure.Err))
			sb.WriteString("\n")
		}
	}
	if len(result.Cancelled) > 0 {
		sb.WriteString("\n")
		sb.WriteString(i18n.T("Cancelled platforms", "platforms", result.Cancelled))
		sb.WriteString("\n")
	}
	_, err := io.WriteString(writer, sb.String())
	return err
}
