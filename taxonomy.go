package main

import (
	"fmt"
	"slices"
	"strings"
)

// Category is a canonical cash-flow category or a report column.
type Category string

// Cash-flow categories.
const (
	CategoryInvestment       Category = "investment"
	CategoryRedemption       Category = "redemption"
	CategoryInterest         Category = "interest"
	CategoryBuyback          Category = "buyback"
	CategoryBuybackInterest  Category = "buyback-interest"
	CategoryLateFee          Category = "late-fee"
	CategoryDefault          Category = "default"
	CategoryIncomingTransfer Category = "incoming-transfer"
	CategoryOutgoingTransfer Category = "outgoing-transfer"
	CategoryStartBalance     Category = "start-balance"
	CategoryEndBalance       Category = "end-balance"
	CategoryTotalIncome      Category = "total-income"
	// CategoryIgnored marks known labels which contribute to no column.
	CategoryIgnored Category = "ignored"
)

// ReferenceCurrency is used for statements without a currency column.
const ReferenceCurrency = "EUR"

// Canonical column names of a renamed raw table.
const (
	ColumnDate     = "date"
	ColumnCurrency = "currency"
)

// TotalGroupName is the platform name of synthetic rows summing all platforms.
const TotalGroupName = "Total"

// DisplayColumns is the order of columns in all reports.
var DisplayColumns = []Category{
	CategoryStartBalance,
	CategoryEndBalance,
	CategoryTotalIncome,
	CategoryInterest,
	CategoryInvestment,
	CategoryRedemption,
	CategoryBuyback,
	CategoryBuybackInterest,
	CategoryLateFee,
	CategoryDefault,
}

// IncomeCategories are summed into CategoryTotalIncome.
var IncomeCategories = []Category{
	CategoryInterest,
	CategoryLateFee,
	CategoryBuybackInterest,
	CategoryDefault,
}

var allCategories = []Category{
	CategoryInvestment,
	CategoryRedemption,
	CategoryInterest,
	CategoryBuyback,
	CategoryBuybackInterest,
	CategoryLateFee,
	CategoryDefault,
	CategoryIncomingTransfer,
	CategoryOutgoingTransfer,
	CategoryStartBalance,
	CategoryEndBalance,
	CategoryTotalIncome,
	CategoryIgnored,
}

// IsBalance returns true for columns which are carried, not summed.
func (c Category) IsBalance() bool {
	return c == CategoryStartBalance || c == CategoryEndBalance
}

// IsIncome returns true if category contributes to total income.
func (c Category) IsIncome() bool {
	return slices.Contains(IncomeCategories, c)
}

// IsFlow returns true for categories which a statement row may be classified into.
func (c Category) IsFlow() bool {
	return c != CategoryIgnored && c != CategoryTotalIncome && !c.IsBalance()
}

// Label returns localized name of the category.
func (c Category) Label() string {
	return i18n.T(string(c))
}

// ParseCategory parses category by its canonical name, case-insensitive.
func ParseCategory(name string) (Category, error) {
	candidate := Category(strings.ToLower(strings.TrimSpace(name)))
	if slices.Contains(allCategories, candidate) {
		return candidate, nil
	}
	return "", fmt.Errorf("unknown category '%s'", name)
}
