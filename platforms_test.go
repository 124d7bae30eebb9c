package main

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlatformSpecs_AreValid(t *testing.T) {
	names := map[string]bool{}
	for i, spec := range Platforms() {
		t.Run(spec.Name, func(t *testing.T) {
			assert.Equal(t, Platform(i), spec.Platform)
			assert.NoError(t, validate.Struct(spec))
			assert.NoError(t, spec.Mapping.Validate())
			assert.False(t, names[spec.Name], "duplicated name")
			names[spec.Name] = true
			for label, category := range spec.Mapping.CashFlowTypes {
				assert.True(t, category.IsFlow() || category == CategoryIgnored, "%s maps to %s", label, category)
			}
		})
	}
	assert.Len(t, names, 11)
}

func TestLookupPlatform(t *testing.T) {
	spec, err := LookupPlatform(" peerberry ")
	require.NoError(t, err)
	assert.Equal(t, PeerBerry, spec.Platform)
	assert.Equal(t, "PeerBerry", PeerBerry.String())
	assert.Equal(t, "Platform(42)", Platform(42).String())

	_, err = LookupPlatform("Viventor")
	assert.True(t, errors.Is(err, ErrUnknownPlatform))
	checkErrorContainsSubstring(t, err, "Bondora, DoFinance")
}

func TestPrepareStatement_Mintos(t *testing.T) {
	spec := Mintos.Spec()
	raw := NewRawTable(
		[]string{"Transaction ID", "Date", "Details", "Turnover", "Balance", "Currency"},
		[]any{"1", "2018-09-01 10:00:00", "Incoming client payment", "100", "100", "EUR"},
		[]any{"2", "2018-09-02 10:00:00", "Investment principal increase Loan ID: 1234-01", "-10", "90", "EUR"},
		[]any{"3", "2018-09-03 10:00:00", "Interest income Loan ID: 1234-01", "0.1", "90.1", "EUR"},
		[]any{"4", "2018-09-04 10:00:00", "Investment principal rebuy Loan ID: 1234-01 Rebuy purpose", "10", "100.1", "EUR"},
	)

	prepared, mapping, err := spec.PrepareStatement(raw)
	require.NoError(t, err)
	table, unknown, err := Normalize(prepared, spec.Name, mustDateRange(t, "2018-09-01", "2018-09-30"), mapping)

	require.NoError(t, err)
	assert.Equal(t, "", unknown)
	require.Equal(t, 4, table.Len())
	assertAmount(t, "100", table.Rows[0].Get(CategoryIncomingTransfer))
	assertAmount(t, "0", table.Rows[0].Get(CategoryStartBalance))
	assertAmount(t, "-10", table.Rows[1].Get(CategoryInvestment))
	assertAmount(t, "0.1", table.Rows[2].Get(CategoryInterest))
	assertAmount(t, "10", table.Rows[3].Get(CategoryBuyback))
	assertAmount(t, "100.1", table.Rows[3].Get(CategoryEndBalance))
}

func TestPrepareStatement_Twino(t *testing.T) {
	spec := Twino.Spec()
	raw := NewRawTable(
		[]string{"Processing Date", "Type", "Description", "Amount, EUR"},
		[]any{"01.09.2018 10:00", "REPAYMENT", "INTEREST", "0.5"},
		[]any{"01.09.2018 11:00", "BUY_SHARES", "PRINCIPAL", "-25"},
		[]any{"02.09.2018 11:00", "FUNDING", "", "25"},
	)

	prepared, mapping, err := spec.PrepareStatement(raw)
	require.NoError(t, err)
	assert.Equal(t, "REPAYMENT INTEREST", prepared.Text(0, twinoCashFlowTypeColumn))
	table, unknown, err := Normalize(prepared, spec.Name, mustDateRange(t, "2018-09-01", "2018-09-30"), mapping)

	require.NoError(t, err)
	assert.Equal(t, "FUNDING", unknown)
	require.Equal(t, 1, table.Len())
	assertAmount(t, "0.5", table.Rows[0].Get(CategoryInterest))
	assertAmount(t, "-25", table.Rows[0].Get(CategoryInvestment))
}

func TestPrepareStatement_Estateguru(t *testing.T) {
	spec := Estateguru.Spec()
	raw := NewRawTable(
		[]string{"Confirmation Date", "Cash Flow Type", "Cash Flow Status", "Amount", "Available to invest"},
		[]any{"01/09/2018 10:00", "Deposit", "Approved", "100", "100"},
		[]any{"02/09/2018 10:00", "Interest", "Pending", "1", "101"},
		[]any{"03/09/2018 10:00", "Interest", "Approved", "2", "102"},
	)

	prepared, mapping, err := spec.PrepareStatement(raw)
	require.NoError(t, err)
	assert.Equal(t, 2, prepared.Len())
	table, _, err := Normalize(prepared, spec.Name, mustDateRange(t, "2018-09-01", "2018-09-30"), mapping)

	require.NoError(t, err)
	require.Equal(t, 2, table.Len())
	assertAmount(t, "2", table.Rows[1].Get(CategoryInterest))
	assertAmount(t, "100", table.Rows[1].Get(CategoryStartBalance))
}

func TestPrepareStatement_DoFinance(t *testing.T) {
	spec := DoFinance.Spec()
	raw := NewRawTable(
		[]string{"Processing Date", "Transaction Type", "Amount, €"},
		[]any{time.Date(2018, time.September, 1, 0, 0, 0, 0, time.UTC), "Funding Bank transfer", 500.0},
		[]any{time.Date(2018, time.September, 1, 0, 0, 0, 0, time.UTC), "Investment 7411", -100.0},
		[]any{time.Date(2018, time.September, 30, 0, 0, 0, 0, time.UTC), "Repayment 7411", 100.0},
		[]any{time.Date(2018, time.September, 30, 0, 0, 0, 0, time.UTC), "Profit", 1.25},
	)

	prepared, mapping, err := spec.PrepareStatement(raw)
	require.NoError(t, err)
	table, unknown, err := Normalize(prepared, spec.Name, mustDateRange(t, "2018-09-01", "2018-09-30"), mapping)

	require.NoError(t, err)
	assert.Equal(t, "", unknown)
	require.Equal(t, 2, table.Len())
	assertAmount(t, "500", table.Rows[0].Get(CategoryIncomingTransfer))
	assertAmount(t, "-100", table.Rows[0].Get(CategoryInvestment))
	assertAmount(t, "100", table.Rows[1].Get(CategoryRedemption))
	assertAmount(t, "1.25", table.Rows[1].Get(CategoryTotalIncome))
	assertAmount(t, NotApplicableText, table.Rows[1].Get(CategoryStartBalance))
}

func TestPrepareStatement_BondoraWrongAmount(t *testing.T) {
	raw := NewRawTable(
		[]string{"Period", "Principal received - total", "Principal planned - total"},
		[]any{"30.09.2018", "abc", 1.0},
	)

	_, _, err := Bondora.Spec().PrepareStatement(raw)

	var classificationErr *StatementClassificationError
	require.True(t, errors.As(err, &classificationErr))
	assert.Equal(t, "Bondora", classificationErr.Platform)
	assert.ErrorIs(t, err, ErrUnparseableAmount)
}

func TestPrepareStatement_Viainvest(t *testing.T) {
	spec := Viainvest.Spec()
	raw := NewRawTable(
		[]string{"Transaction ID", "Value date", "Transaction type", "Credit (€)", "Debit (€)"},
		[]any{"1", "09/01/2018", "Amount of funds deposited", 100.0, nil},
		[]any{"2", "09/01/2018", "Amount invested in loan", nil, 40.0},
		[]any{"3", "09/15/2018", "Amount of interest payment received", "0.5", ""},
		[]any{"4", "09/15/2018", "Amount of Withholding Tax deducted", nil, 0.1},
	)

	prepared, mapping, err := spec.PrepareStatement(raw)
	require.NoError(t, err)
	table, unknown, err := Normalize(prepared, spec.Name, mustDateRange(t, "2018-09-01", "2018-09-30"), mapping)

	require.NoError(t, err)
	assert.Equal(t, "", unknown)
	require.Equal(t, 2, table.Len())
	assertAmount(t, "100", table.Rows[0].Get(CategoryIncomingTransfer))
	assertAmount(t, "-40", table.Rows[0].Get(CategoryInvestment))
	assertAmount(t, "0.4", table.Rows[1].Get(CategoryInterest))
	assertAmount(t, "0.4", table.Rows[1].Get(CategoryTotalIncome))
}

func TestPrepareStatement_ViainvestWrongAmount(t *testing.T) {
	raw := NewRawTable(
		[]string{"Value date", "Transaction type", "Credit (€)", "Debit (€)"},
		[]any{"09/01/2018", "Amount of funds deposited", "abc", nil},
	)

	_, _, err := Viainvest.Spec().PrepareStatement(raw)

	assert.ErrorIs(t, err, ErrUnparseableAmount)
	checkErrorContainsSubstring(t, err, "Viainvest")
}
