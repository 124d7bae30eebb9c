package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryKinds(t *testing.T) {
	tests := []struct {
		category                    Category
		isBalance, isIncome, isFlow bool
	}{
		{CategoryStartBalance, true, false, false},
		{CategoryEndBalance, true, false, false},
		{CategoryInterest, false, true, true},
		{CategoryLateFee, false, true, true},
		{CategoryBuybackInterest, false, true, true},
		{CategoryDefault, false, true, true},
		{CategoryInvestment, false, false, true},
		{CategoryIncomingTransfer, false, false, true},
		{CategoryTotalIncome, false, false, false},
		{CategoryIgnored, false, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.isBalance, tt.category.IsBalance())
			assert.Equal(t, tt.isIncome, tt.category.IsIncome())
			assert.Equal(t, tt.isFlow, tt.category.IsFlow())
		})
	}
}

func TestParseCategory(t *testing.T) {
	category, err := ParseCategory(" Late-Fee ")
	require.NoError(t, err)
	assert.Equal(t, CategoryLateFee, category)

	_, err = ParseCategory("bonus")
	assert.Error(t, err)
}
