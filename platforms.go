package main

import (
	"fmt"
	"strings"
)

// Platform identifies a supported P2P lending platform.
type Platform int

const (
	Bondora Platform = iota
	DoFinance
	Estateguru
	Grupeer
	Iuvo
	Mintos
	PeerBerry
	Robocash
	Swaper
	Twino
	Viainvest
)

// PlatformSpec holds everything needed to normalize a statement of the platform.
type PlatformSpec struct {
	Platform Platform
	Name     string `validate:"required"`
	// Suffix is the extension of downloaded statement files.
	Suffix  string `validate:"oneof=csv xls xlsx"`
	Read    ReadOptions
	Mapping StatementMapping
	// Prepare adapts raw table before normalization, optional.
	Prepare func(table RawTable, mapping StatementMapping) (RawTable, StatementMapping, error)
}

// PrepareStatement applies Prepare hook if the platform has one.
func (s PlatformSpec) PrepareStatement(table RawTable) (RawTable, StatementMapping, error) {
	if s.Prepare == nil || table.Len() == 0 {
		return table, s.Mapping, nil
	}
	prepared, mapping, err := s.Prepare(table, s.Mapping)
	if err != nil {
		return RawTable{}, StatementMapping{}, classificationError(s.Name, "%w", err)
	}
	return prepared, mapping, nil
}

var platformSpecs = [...]PlatformSpec{
	Bondora: {
		Platform: Bondora,
		Name:     "Bondora",
		Suffix:   "xlsx",
		Mapping: StatementMapping{
			DateColumn: "Period",
			DateFormat: "02.01.2006",
			RenameColumns: map[string]string{
				"Opening balance":            string(CategoryStartBalance),
				"Closing balance":            string(CategoryEndBalance),
				"Interest received - total":  string(CategoryInterest),
				"Net capital deployed":       string(CategoryIncomingTransfer),
				"Net loan investments":       string(CategoryInvestment),
				"Principal received - total": string(CategoryRedemption),
			},
		},
		Prepare: prepareBondora,
	},
	DoFinance: {
		Platform: DoFinance,
		Name:     "DoFinance",
		Suffix:   "xlsx",
		Read:     ReadOptions{SkipFooter: 2},
		Mapping: StatementMapping{
			DateColumn:         "Processing Date",
			DateFormat:         "02.01.2006",
			CashFlowTypeColumn: "Transaction Type",
			CashFlowTypes: map[string]Category{
				"Withdrawal":     CategoryOutgoingTransfer,
				"Profit":         CategoryInterest,
				"Investor Bonus": CategoryInterest,
			},
			AmountColumn: "Amount, €",
		},
		Prepare: prepareDoFinance,
	},
	Estateguru: {
		Platform: Estateguru,
		Name:     "Estateguru",
		Suffix:   "csv",
		Read:     ReadOptions{SkipFooter: 1},
		Mapping: StatementMapping{
			DateColumn: "Confirmation Date",
			DateFormat: "02/01/2006 15:04",
			RenameColumns: map[string]string{
				"Cash Flow Type": "EG Cash Flow Type",
			},
			CashFlowTypeColumn: "EG Cash Flow Type",
			CashFlowTypes: map[string]Category{
				"Bonus":                   CategoryInterest,
				"Deposit":                 CategoryIncomingTransfer,
				"Withdrawal":              CategoryOutgoingTransfer,
				"Indemnity":               CategoryLateFee,
				"Principal":               CategoryRedemption,
				"Investment(Auto Invest)": CategoryInvestment,
				"Penalty":                 CategoryLateFee,
				"Interest":                CategoryInterest,
			},
			AmountColumn:  "Amount",
			BalanceColumn: "Available to invest",
		},
		Prepare: prepareEstateguru,
	},
	Grupeer: {
		Platform: Grupeer,
		Name:     "Grupeer",
		Suffix:   "xlsx",
		Mapping: StatementMapping{
			DateColumn: "Date",
			DateFormat: "02.01.2006",
			RenameColumns: map[string]string{
				"Currency": ColumnCurrency,
			},
			CashFlowTypeColumn: "Type",
			CashFlowTypes: map[string]Category{
				"Cashback":   CategoryInterest,
				"Deposit":    CategoryIncomingTransfer,
				"Withdrawal": CategoryOutgoingTransfer,
				"Interest":   CategoryInterest,
				"Investment": CategoryInvestment,
				"Principal":  CategoryRedemption,
			},
			AmountColumn:  "Amount",
			BalanceColumn: "Balance",
			DecimalComma:  true,
		},
	},
	Iuvo: {
		Platform: Iuvo,
		Name:     "Iuvo",
		Suffix:   "xlsx",
		Read:     ReadOptions{HeaderRow: 3, SkipFooter: 3},
		Mapping: StatementMapping{
			DateColumn:         "Date",
			DateFormat:         "2006-01-02 15:04:05",
			CashFlowTypeColumn: "Transaction Type",
			CashFlowTypes: map[string]Category{
				"deposit":                    CategoryIncomingTransfer,
				"late_fee":                   CategoryLateFee,
				"payment_interest":           CategoryInterest,
				"payment_interest_early":     CategoryInterest,
				"primary_market_auto_invest": CategoryInvestment,
				"payment_principal_buyback":  CategoryBuyback,
				"payment_principal":          CategoryRedemption,
				"payment_principal_early":    CategoryRedemption,
			},
			AmountColumn:  "Turnover",
			BalanceColumn: "Balance",
		},
	},
	Mintos: {
		Platform: Mintos,
		Name:     "Mintos",
		Suffix:   "xlsx",
		Mapping: StatementMapping{
			DateColumn: "Date",
			DateFormat: "2006-01-02 15:04:05",
			RenameColumns: map[string]string{
				"Currency": ColumnCurrency,
			},
			CashFlowTypeColumn: mintosCashFlowTypeColumn,
			CashFlowTypes: map[string]Category{
				"Cashback bonus":                   CategoryInterest,
				"Delayed interest income on rebuy": CategoryBuybackInterest,
				"Interest income":                  CategoryInterest,
				"Interest income on rebuy":         CategoryBuybackInterest,
				"Investment principal rebuy":       CategoryBuyback,
				"Investment principal increase":    CategoryInvestment,
				"Investment principal repayment":   CategoryRedemption,
				"Incoming client payment":          CategoryIncomingTransfer,
				"Outgoing client payment":          CategoryOutgoingTransfer,
				"Late payment fee income":          CategoryLateFee,
				"Reversed incoming client payment": CategoryOutgoingTransfer,
			},
			AmountColumn:  "Turnover",
			BalanceColumn: "Balance",
		},
		Prepare: prepareMintos,
	},
	PeerBerry: {
		Platform: PeerBerry,
		Name:     "PeerBerry",
		Suffix:   "xlsx",
		Mapping: StatementMapping{
			DateColumn: "Date",
			DateFormat: "2006-01-02",
			RenameColumns: map[string]string{
				"Currency Id": ColumnCurrency,
			},
			CashFlowTypeColumn: "Type",
			CashFlowTypes: map[string]Category{
				"BUYBACK_INTEREST":    CategoryBuybackInterest,
				"BUYBACK_PRINCIPAL":   CategoryBuyback,
				"INVESTMENT":          CategoryInvestment,
				"REPAYMENT_INTEREST":  CategoryInterest,
				"REPAYMENT_PRINCIPAL": CategoryRedemption,
			},
			AmountColumn: "Amount",
		},
	},
	Robocash: {
		Platform: Robocash,
		Name:     "Robocash",
		Suffix:   "xlsx",
		Mapping: StatementMapping{
			DateColumn:         "Date and time",
			DateFormat:         "2006-01-02 15:04:05",
			CashFlowTypeColumn: "Operation",
			CashFlowTypes: map[string]Category{
				"Adding funds":                 CategoryIncomingTransfer,
				"Paying interest":              CategoryInterest,
				"Purchasing a loan":            CategoryInvestment,
				"Returning a loan":             CategoryRedemption,
				"Withdrawal of funds":          CategoryOutgoingTransfer,
				"Creating a portfolio":         CategoryIgnored,
				"Refilling a portfolio":        CategoryIgnored,
				"Withdrawing from a portfolio": CategoryIgnored,
			},
			AmountColumn:  "Amount",
			BalanceColumn: "Portfolio's balance",
		},
	},
	Swaper: {
		Platform: Swaper,
		Name:     "Swaper",
		Suffix:   "xlsx",
		Mapping: StatementMapping{
			DateColumn:         "Booking date",
			DateFormat:         "02.01.2006",
			CashFlowTypeColumn: "Transaction type",
			CashFlowTypes: map[string]Category{
				"BUYBACK_INTEREST":    CategoryBuybackInterest,
				"BUYBACK_PRINCIPAL":   CategoryBuyback,
				"EXTENSION_INTEREST":  CategoryInterest,
				"FUNDING":             CategoryIncomingTransfer,
				"INVESTMENT":          CategoryInvestment,
				"REPAYMENT_INTEREST":  CategoryInterest,
				"REPAYMENT_PRINCIPAL": CategoryRedemption,
				"WITHDRAWAL":          CategoryOutgoingTransfer,
			},
			AmountColumn: "Amount",
		},
	},
	Twino: {
		Platform: Twino,
		Name:     "Twino",
		Suffix:   "xlsx",
		Read:     ReadOptions{HeaderRow: 2},
		Mapping: StatementMapping{
			DateColumn:         "Processing Date",
			DateFormat:         "02.01.2006 15:04",
			CashFlowTypeColumn: twinoCashFlowTypeColumn,
			CashFlowTypes: map[string]Category{
				"BUYBACK INTEREST":              CategoryBuybackInterest,
				"BUYBACK PRINCIPAL":             CategoryBuyback,
				"BUY_SHARES PRINCIPAL":          CategoryInvestment,
				"CURRENCY_FLUCTUATION INTEREST": CategoryInterest,
				"EXTENSION INTEREST":            CategoryInterest,
				"EXTENSION PRINCIPAL":           CategoryRedemption,
				"REPAYMENT INTEREST":            CategoryInterest,
				"REPAYMENT PRINCIPAL":           CategoryRedemption,
				"REPURCHASE INTEREST":           CategoryBuybackInterest,
				"REPURCHASE PRINCIPAL":          CategoryBuyback,
				"SCHEDULE INTEREST":             CategoryInterest,
			},
			AmountColumn: "Amount, EUR",
		},
		Prepare: prepareTwino,
	},
	Viainvest: {
		Platform: Viainvest,
		Name:     "Viainvest",
		Suffix:   "xlsx",
		Mapping: StatementMapping{
			DateColumn:         "Value date",
			DateFormat:         "01/02/2006",
			CashFlowTypeColumn: "Transaction type",
			CashFlowTypes: map[string]Category{
				"Amount invested in loan":                          CategoryInvestment,
				"Amount of interest payment received":              CategoryInterest,
				"Amount of funds deposited":                        CategoryIncomingTransfer,
				"Amount of principal repayment received":           CategoryRedemption,
				"Amount of Withholding Tax deducted":               CategoryInterest,
				"Correction of amount of Withholding Tax deducted": CategoryInterest,
				"VIACONTO.se Cashback bonus payment received":      CategoryInterest,
				"VIASMS.pl Cashback bonus payment received":        CategoryInterest,
			},
			AmountColumn: viainvestAmountColumn,
		},
		Prepare: prepareViainvest,
	},
}

// Platforms returns specs of all supported platforms in stable order.
func Platforms() []PlatformSpec {
	return platformSpecs[:]
}

// Spec returns spec of the platform.
func (p Platform) Spec() PlatformSpec {
	return platformSpecs[p]
}

func (p Platform) String() string {
	if p < 0 || int(p) >= len(platformSpecs) {
		return fmt.Sprintf("Platform(%d)", int(p))
	}
	return platformSpecs[p].Name
}

// LookupPlatform finds platform by name, case-insensitive.
func LookupPlatform(name string) (PlatformSpec, error) {
	for _, spec := range platformSpecs {
		if strings.EqualFold(spec.Name, strings.TrimSpace(name)) {
			return spec, nil
		}
	}
	names := make([]string, 0, len(platformSpecs))
	for _, spec := range platformSpecs {
		names = append(names, spec.Name)
	}
	return PlatformSpec{}, fmt.Errorf("%w '%s', supported only: %s", ErrUnknownPlatform, name, strings.Join(names, ", "))
}

// Bondora exports monthly totals. Defaults are planned principal which wasn't received.
func prepareBondora(table RawTable, mapping StatementMapping) (RawTable, StatementMapping, error) {
	const received, planned = "Principal received - total", "Principal planned - total"
	if !table.HasColumn(received) || !table.HasColumn(planned) {
		return table, mapping, nil
	}
	var parseErr error
	result := table.WithColumn(string(CategoryDefault), func(row int) any {
		receivedAmount, err := cellAmount(table.Value(row, received), mapping.DecimalComma)
		if err != nil {
			parseErr = err
			return nil
		}
		plannedAmount, err := cellAmount(table.Value(row, planned), mapping.DecimalComma)
		if err != nil {
			parseErr = err
			return nil
		}
		return receivedAmount.Sub(plannedAmount)
	})
	if parseErr != nil {
		return RawTable{}, mapping, fmt.Errorf("%w: defaults: %v", ErrUnparseableAmount, parseErr)
	}
	return result, mapping, nil
}

// DoFinance labels repayments and investments with loan details, map them by prefix.
func prepareDoFinance(table RawTable, mapping StatementMapping) (RawTable, StatementMapping, error) {
	prefixes := []struct {
		prefix   string
		category Category
	}{
		{"Repayment", CategoryRedemption},
		{"Investment", CategoryInvestment},
		{"Funding", CategoryIncomingTransfer},
	}
	extra := map[string]Category{}
	for row := range table.Rows {
		label := table.Text(row, mapping.CashFlowTypeColumn)
		for _, p := range prefixes {
			if strings.HasPrefix(label, p.prefix) {
				extra[label] = p.category
				break
			}
		}
	}
	return table, mapping.WithCashFlowTypes(extra), nil
}

// Estateguru statements contain pending cash flows, only approved ones are real.
func prepareEstateguru(table RawTable, mapping StatementMapping) (RawTable, StatementMapping, error) {
	const statusColumn = "Cash Flow Status"
	if !table.HasColumn(statusColumn) {
		return table, mapping, nil
	}
	return table.Filtered(func(row int) bool {
		return table.Text(row, statusColumn) == "Approved"
	}), mapping, nil
}

const mintosCashFlowTypeColumn = "Mintos Cash Flow Type"

// Mintos puts cash flow type and loan number into "Details".
func prepareMintos(table RawTable, mapping StatementMapping) (RawTable, StatementMapping, error) {
	if !table.HasColumn("Details") {
		return table, mapping, nil
	}
	return table.WithColumn(mintosCashFlowTypeColumn, func(row int) any {
		details := table.Text(row, "Details")
		label, _, _ := strings.Cut(details, " Loan ID: ")
		label = strings.TrimSuffix(label, " Rebuy purpose")
		return strings.TrimSpace(label)
	}), mapping, nil
}

const twinoCashFlowTypeColumn = "Twino Cash Flow Type"

// Twino splits cash flow type between "Type" and "Description".
func prepareTwino(table RawTable, mapping StatementMapping) (RawTable, StatementMapping, error) {
	if !table.HasColumn("Type") || !table.HasColumn("Description") {
		return table, mapping, nil
	}
	return table.WithColumn(twinoCashFlowTypeColumn, func(row int) any {
		return strings.TrimSpace(table.Text(row, "Type") + " " + table.Text(row, "Description"))
	}), mapping, nil
}

const viainvestAmountColumn = "Amount"

// Viainvest splits amount into credit and debit columns, empty cells are zero.
func prepareViainvest(table RawTable, mapping StatementMapping) (RawTable, StatementMapping, error) {
	const credit, debit = "Credit (€)", "Debit (€)"
	if !table.HasColumn(credit) || !table.HasColumn(debit) {
		return table, mapping, nil
	}
	var parseErr error
	result := table.WithColumn(viainvestAmountColumn, func(row int) any {
		creditAmount, err := cellAmount(table.Value(row, credit), mapping.DecimalComma)
		if err != nil {
			parseErr = err
			return nil
		}
		debitAmount, err := cellAmount(table.Value(row, debit), mapping.DecimalComma)
		if err != nil {
			parseErr = err
			return nil
		}
		return creditAmount.OrZero().Sub(debitAmount.OrZero())
	})
	if parseErr != nil {
		return RawTable{}, mapping, fmt.Errorf("%w: credit or debit: %v", ErrUnparseableAmount, parseErr)
	}
	return result, mapping, nil
}
