package main

import (
	"fmt"
	"maps"
)

// StatementMapping describes how raw statement of a platform maps to canonical columns.
// All column names except DateColumn refer to names after RenameColumns is applied.
type StatementMapping struct {
	// DateColumn is the raw name of the column with dates, renamed to ColumnDate.
	DateColumn string `validate:"required"`
	// DateFormat is the Go layout of dates, ignored for cells already read as time.
	DateFormat string `validate:"required"`
	// RenameColumns maps raw column names to canonical ones, e.g. "Currency" to ColumnCurrency.
	// In wide statements it maps columns with totals to category names.
	RenameColumns map[string]string
	// CashFlowTypeColumn holds platform-specific labels. Empty for wide statements.
	CashFlowTypeColumn string `validate:"required_with=CashFlowTypes"`
	// CashFlowTypes maps labels to categories.
	CashFlowTypes map[string]Category `validate:"required_with=CashFlowTypeColumn,dive,category"`
	// AmountColumn holds signed amounts of cash flows.
	AmountColumn string `validate:"required_with=CashFlowTypeColumn"`
	// BalanceColumn holds account balance after each cash flow, optional.
	BalanceColumn string
	// DecimalComma is true for amounts like "1.500,25".
	DecimalComma bool
}

// IsWide returns true for statements which have a column per category instead of labels.
func (m StatementMapping) IsWide() bool {
	return m.CashFlowTypeColumn == ""
}

// columnNames returns rename map including date column.
func (m StatementMapping) columnNames() map[string]string {
	names := make(map[string]string, len(m.RenameColumns)+1)
	maps.Copy(names, m.RenameColumns)
	if _, ok := names[m.DateColumn]; !ok && m.DateColumn != ColumnDate {
		names[m.DateColumn] = ColumnDate
	}
	return names
}

// producedCategories returns flow and balance categories which statement may fill.
// Wide statements produce categories of their columns.
func (m StatementMapping) producedCategories(table RawTable) map[Category]bool {
	result := map[Category]bool{}
	if m.IsWide() {
		for _, column := range table.Columns {
			if c, err := ParseCategory(column); err == nil && (c.IsFlow() || c.IsBalance()) {
				result[c] = true
			}
		}
		if result[CategoryIncomingTransfer] || result[CategoryOutgoingTransfer] {
			result[CategoryIncomingTransfer] = true
			result[CategoryOutgoingTransfer] = true
		}
		return result
	}
	for _, c := range m.CashFlowTypes {
		if c.IsFlow() {
			result[c] = true
		}
	}
	if result[CategoryIncomingTransfer] || result[CategoryOutgoingTransfer] {
		result[CategoryIncomingTransfer] = true
		result[CategoryOutgoingTransfer] = true
	}
	if m.BalanceColumn != "" {
		result[CategoryStartBalance] = true
		result[CategoryEndBalance] = true
	}
	return result
}

// WithCashFlowTypes returns copy of the mapping with extra labels.
func (m StatementMapping) WithCashFlowTypes(extra map[string]Category) StatementMapping {
	types := make(map[string]Category, len(m.CashFlowTypes)+len(extra))
	maps.Copy(types, m.CashFlowTypes)
	maps.Copy(types, extra)
	m.CashFlowTypes = types
	return m
}

// Validate checks mapping fields.
func (m StatementMapping) Validate() error {
	if err := validate.Struct(m); err != nil {
		return fmt.Errorf("invalid statement mapping: %w", err)
	}
	return nil
}
