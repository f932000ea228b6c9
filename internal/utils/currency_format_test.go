package utils

import (
	"testing"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatWithCurrencyPrecision(t *testing.T) {
	usd := domain.Currency{Code: "USD", Symbol: "$", Decimals: 2}
	jpy := domain.Currency{Code: "JPY", Symbol: "¥", Decimals: 0}

	assert.Equal(t, "12.35", FormatWithCurrencyPrecision(decimal.RequireFromString("12.3456"), usd))
	assert.Equal(t, "12", FormatWithCurrencyPrecision(decimal.RequireFromString("12.3456"), jpy))
	assert.Equal(t, "100.00", FormatWithCurrencyPrecision(decimal.NewFromInt(100), usd))
	assert.Equal(t, "1614", FormatWithPrecision(decimal.RequireFromString("1614.1304347826"), 0))
}

func TestFormatMoney(t *testing.T) {
	usd := domain.Currency{Code: "USD", Symbol: "$", Decimals: 2}
	assert.Equal(t, "$12.35", FormatMoney(decimal.RequireFromString("12.345"), usd))
	assert.Equal(t, "-$3.10", FormatMoney(decimal.RequireFromString("-3.1"), usd))
}
