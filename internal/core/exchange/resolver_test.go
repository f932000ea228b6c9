package exchange_test

import (
	"testing"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/core/exchange"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// roundTripTolerance bounds the error of a conversion and its reverse when the
// reverse uses a stored reciprocal rounded to DivisionScale digits.
var roundTripTolerance = decimal.New(1, -20)

func tableWith(rates ...domain.ExchangeRate) *exchange.RateTable {
	t := exchange.NewRateTable()
	t.AddRates(rates)
	return t
}

func TestConvert_Identity(t *testing.T) {
	r := exchange.NewResolver(exchange.NewRateTable())
	for _, v := range []string{"0", "1", "123.456789012345678901234567", "-5"} {
		amount := decimal.RequireFromString(v)
		res, err := r.Convert(amount, "XYZ", "XYZ")
		require.NoError(t, err)
		assert.Equal(t, domain.MethodIdentity, res.Method)
		assert.Equal(t, amount.String(), res.Value.String())
	}
}

func TestConvert_DirectAndInverse(t *testing.T) {
	now := time.Now()
	r := exchange.NewResolver(tableWith(rate("USD", "CNY", "7.2", now, "test")))

	got, err := r.ConvertString("100", "USD", "CNY")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString(got).Equal(decimal.NewFromInt(720)))

	res, err := r.Convert(decimal.NewFromInt(720), "CNY", "USD")
	require.NoError(t, err)
	assert.Equal(t, domain.MethodInverse, res.Method)
	assert.Equal(t, "100", res.Value.String())
}

func TestConvert_InverseConsistency(t *testing.T) {
	now := time.Now()
	r := exchange.NewResolver(tableWith(rate("USD", "JPY", "148.5", now, "test")))

	for _, v := range []string{"1", "0.01", "99999.99", "3.333333"} {
		a := decimal.RequireFromString(v)
		there, err := r.Convert(a, "USD", "JPY")
		require.NoError(t, err)
		back, err := r.Convert(there.Value, "JPY", "USD")
		require.NoError(t, err)
		assert.True(t, back.Value.Equal(a), "round trip of %s gave %s", v, back.Value)
	}

	// With the seeded matrix the reverse leg uses a stored reciprocal.
	seeded := exchange.NewResolver(exchange.NewDefaultRateTable())
	a := decimal.RequireFromString("250.75")
	there, err := seeded.Convert(a, "USD", "CNY")
	require.NoError(t, err)
	back, err := seeded.Convert(there.Value, "CNY", "USD")
	require.NoError(t, err)
	assert.True(t, back.Value.Sub(a).Abs().LessThanOrEqual(roundTripTolerance))
}

func TestConvert_CrossThroughPivot(t *testing.T) {
	now := time.Now()
	r := exchange.NewResolver(tableWith(
		rate("USD", "EUR", "0.92", now, "test"),
		rate("USD", "JPY", "148.5", now, "test"),
	))

	res, err := r.Convert(decimal.NewFromInt(10), "EUR", "JPY")
	require.NoError(t, err)
	assert.Equal(t, domain.MethodCross, res.Method)
	assert.Equal(t, "USD", res.Pivot)
	assert.True(t, len(res.Value.String()) > 7)
	assert.Equal(t, "1614.13", res.Value.String()[:7])

	// Matches the seeded EUR->JPY cross rate within tolerance.
	seeded := exchange.NewResolver(exchange.NewDefaultRateTable())
	direct, err := seeded.Convert(decimal.NewFromInt(10), "EUR", "JPY")
	require.NoError(t, err)
	assert.Equal(t, domain.MethodDirect, direct.Method)
	assert.True(t, direct.Value.Sub(res.Value).Abs().LessThanOrEqual(roundTripTolerance))
}

func TestConvert_ConfigurablePivot(t *testing.T) {
	now := time.Now()
	table := tableWith(
		rate("EUR", "GBP", "0.86", now, "test"),
		rate("EUR", "CHF", "0.96", now, "test"),
	)

	_, err := exchange.NewResolver(table).Convert(decimal.NewFromInt(1), "GBP", "CHF")
	assert.ErrorIs(t, err, apperrors.ErrNoRateAvailable)

	r := exchange.NewResolver(table, exchange.WithPivots("USD", "EUR"))
	res, err := r.Convert(decimal.RequireFromString("0.86"), "GBP", "CHF")
	require.NoError(t, err)
	assert.Equal(t, "EUR", res.Pivot)
	assert.True(t, res.Value.Equal(decimal.RequireFromString("0.96")))
}

func TestConvert_FollowsLiveBasePivot(t *testing.T) {
	now := time.Now()
	table := tableWith(
		rate("CNY", "EUR", "0.128", now, "test"),
		rate("CNY", "USD", "0.14", now, "test"),
	)
	base := "USD"
	r := exchange.NewResolver(table, exchange.WithBasePivot(func() string { return base }))

	_, err := r.Convert(decimal.NewFromInt(1), "EUR", "USD")
	assert.ErrorIs(t, err, apperrors.ErrNoRateAvailable)
	assert.Equal(t, []string{"USD"}, r.Pivots())

	base = "CNY"
	res, err := r.Convert(decimal.RequireFromString("0.128"), "EUR", "USD")
	require.NoError(t, err)
	assert.Equal(t, domain.MethodCross, res.Method)
	assert.Equal(t, "CNY", res.Pivot)
	assert.True(t, res.Value.Equal(decimal.RequireFromString("0.14")), res.Value.String())
	assert.Equal(t, []string{"USD", "CNY"}, r.Pivots())
}

func TestConvert_NoRatePath(t *testing.T) {
	var methods []domain.ConversionMethod
	r := exchange.NewResolver(exchange.NewDefaultRateTable(), exchange.WithResolveHook(func(m domain.ConversionMethod) {
		methods = append(methods, m)
	}))

	res, err := r.Convert(decimal.NewFromInt(50), "XXX", "YYY")
	assert.ErrorIs(t, err, apperrors.ErrNoRateAvailable)
	assert.Equal(t, domain.MethodNone, res.Method)
	assert.False(t, res.Converted())
	assert.Equal(t, []domain.ConversionMethod{domain.MethodNone}, methods)

	assert.Equal(t, "50", r.ConvertOrPassthrough(decimal.NewFromInt(50), "XXX", "YYY").String())

	_, err = r.ConvertString("50", "XXX", "YYY")
	assert.ErrorIs(t, err, apperrors.ErrNoRateAvailable)
}

func TestConvertString_Malformed(t *testing.T) {
	r := exchange.NewResolver(exchange.NewDefaultRateTable())
	_, err := r.ConvertString("12abc", "USD", "EUR")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestEffectiveRate(t *testing.T) {
	r := exchange.NewResolver(tableWith(rate("USD", "EUR", "0.92", time.Now(), "test")))
	res, err := r.EffectiveRate("USD", "EUR")
	require.NoError(t, err)
	assert.True(t, res.Value.Equal(decimal.RequireFromString("0.92")))
}
