package exchange

import (
	"fmt"
	"slices"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DivisionScale is the number of fractional digits kept by every division.
const DivisionScale int32 = 28

// RateSource looks up the current rate of an exact pair.
type RateSource interface {
	Latest(from, to string) (domain.ExchangeRate, bool)
}

// Converter converts amounts between currencies.
type Converter interface {
	Convert(amount decimal.Decimal, from, to string) (domain.Conversion, error)
}

// Resolver converts amounts using identity, direct, inverse and pivot paths.
type Resolver struct {
	rates     RateSource
	pivots    []string
	basePivot func() string
	onResolve func(domain.ConversionMethod)
}

var _ Converter = (*Resolver)(nil)

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithPivots sets the pivot currencies tried in order for cross conversions.
func WithPivots(pivots ...string) ResolverOption {
	return func(r *Resolver) {
		if len(pivots) > 0 {
			r.pivots = pivots
		}
	}
}

// WithBasePivot makes the resolver consult the current base currency as a
// pivot after the configured ones. fn is called on every cross lookup.
func WithBasePivot(fn func() string) ResolverOption {
	return func(r *Resolver) {
		r.basePivot = fn
	}
}

// WithResolveHook registers a callback invoked with the method of every conversion.
func WithResolveHook(fn func(domain.ConversionMethod)) ResolverOption {
	return func(r *Resolver) {
		r.onResolve = fn
	}
}

// NewResolver creates a resolver over rates with USD as the default pivot.
func NewResolver(rates RateSource, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		rates:  rates,
		pivots: []string{DefaultPivot},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Pivots returns the pivot currencies in the order they are tried, including
// the current base currency when one is tracked.
func (r *Resolver) Pivots() []string {
	out := make([]string, len(r.pivots), len(r.pivots)+1)
	copy(out, r.pivots)
	if r.basePivot == nil {
		return out
	}
	if base := r.basePivot(); base != "" && !slices.Contains(out, base) {
		out = append(out, base)
	}
	return out
}

// Convert converts amount from one currency to another. When no path exists
// the result carries MethodNone and the error wraps apperrors.ErrNoRateAvailable.
// Results are never rounded to currency decimals.
func (r *Resolver) Convert(amount decimal.Decimal, from, to string) (domain.Conversion, error) {
	res := domain.Conversion{Amount: amount, From: from, To: to}

	if from == to {
		res.Value = amount
		res.Method = domain.MethodIdentity
		r.record(res.Method)
		return res, nil
	}

	if v, method, ok := r.hop(amount, from, to); ok {
		res.Value = v
		res.Method = method
		r.record(res.Method)
		return res, nil
	}

	for _, pivot := range r.Pivots() {
		if pivot == from || pivot == to {
			continue
		}
		mid, _, ok := r.hop(amount, from, pivot)
		if !ok {
			continue
		}
		v, _, ok := r.hop(mid, pivot, to)
		if !ok {
			continue
		}
		res.Value = v
		res.Method = domain.MethodCross
		res.Pivot = pivot
		r.record(res.Method)
		return res, nil
	}

	res.Value = amount
	res.Method = domain.MethodNone
	r.record(res.Method)
	return res, fmt.Errorf("convert %s->%s: %w", from, to, apperrors.ErrNoRateAvailable)
}

// ConvertOrPassthrough returns the converted value, or amount unchanged when
// no rate path exists. Only for display where an unconverted figure is acceptable.
func (r *Resolver) ConvertOrPassthrough(amount decimal.Decimal, from, to string) decimal.Decimal {
	res, err := r.Convert(amount, from, to)
	if err != nil {
		return amount
	}
	return res.Value
}

// ConvertString parses value as a decimal and converts it.
func (r *Resolver) ConvertString(value, from, to string) (string, error) {
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return "", fmt.Errorf("%w: invalid amount %q", apperrors.ErrValidation, value)
	}
	res, err := r.Convert(amount, from, to)
	if err != nil {
		return "", err
	}
	return res.Value.String(), nil
}

// EffectiveRate returns the value of one unit of from expressed in to.
func (r *Resolver) EffectiveRate(from, to string) (domain.Conversion, error) {
	return r.Convert(decimal.NewFromInt(1), from, to)
}

// hop applies a single direct or inverse rate.
func (r *Resolver) hop(amount decimal.Decimal, from, to string) (decimal.Decimal, domain.ConversionMethod, bool) {
	if rate, ok := r.rates.Latest(from, to); ok {
		return amount.Mul(rate.Rate), domain.MethodDirect, true
	}
	if rate, ok := r.rates.Latest(to, from); ok && !rate.Rate.IsZero() {
		return amount.DivRound(rate.Rate, DivisionScale), domain.MethodInverse, true
	}
	return decimal.Decimal{}, domain.MethodNone, false
}

func (r *Resolver) record(m domain.ConversionMethod) {
	if r.onResolve != nil {
		r.onResolve(m)
	}
}
