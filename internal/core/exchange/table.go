package exchange

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/apperrors"
	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RateTable holds the known currencies, the current rate snapshot and an
// append-only rate history. It is safe for concurrent use.
type RateTable struct {
	mu         sync.RWMutex
	currencies map[string]domain.Currency
	order      []string
	current    map[domain.Pair]domain.ExchangeRate
	history    []domain.ExchangeRate
	lastUpdate time.Time
	now        func() time.Time
}

// TableOption configures a RateTable.
type TableOption func(*RateTable)

// WithClock overrides the time source used for stamping rates.
func WithClock(now func() time.Time) TableOption {
	return func(t *RateTable) {
		t.now = now
	}
}

// NewRateTable returns an empty table.
func NewRateTable(opts ...TableOption) *RateTable {
	t := &RateTable{
		currencies: make(map[string]domain.Currency),
		current:    make(map[domain.Pair]domain.ExchangeRate),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// AddRates replaces the entire current snapshot with rates and records the
// update instant. Every supplied rate is also appended to the history log.
// When the input holds several rates for one pair, the newest wins.
func (t *RateTable) AddRates(rates []domain.ExchangeRate) {
	t.mu.Lock()
	defer t.mu.Unlock()

	snapshot := make(map[domain.Pair]domain.ExchangeRate, len(rates))
	for _, r := range rates {
		if prev, ok := snapshot[r.Pair()]; ok && prev.Timestamp.After(r.Timestamp) {
			continue
		}
		snapshot[r.Pair()] = r
	}
	t.current = snapshot
	t.history = append(t.history, rates...)
	t.lastUpdate = t.now()
}

// AddManualRate appends a rate stamped now and makes it the current rate for
// the pair. Older records for the pair remain in the history log.
func (t *RateTable) AddManualRate(from, to string, rate decimal.Decimal, source string) domain.ExchangeRate {
	if source == "" {
		source = domain.SourceManual
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	r := domain.ExchangeRate{
		From:      from,
		To:        to,
		Rate:      rate,
		Timestamp: t.now(),
		Source:    source,
	}
	t.current[r.Pair()] = r
	t.history = append(t.history, r)
	return r
}

// AddHistoricalRates appends rates to the history log only.
func (t *RateTable) AddHistoricalRates(rates []domain.ExchangeRate) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.history = append(t.history, rates...)
}

// RegisterCurrency adds or replaces a currency definition.
func (t *RateTable) RegisterCurrency(c domain.Currency) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.currencies[c.Code]; !ok {
		t.order = append(t.order, c.Code)
	}
	t.currencies[c.Code] = c
}

// DeactivateCurrency soft-deletes a currency. Rates referencing it are kept.
func (t *RateTable) DeactivateCurrency(code string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.currencies[code]
	if !ok {
		return fmt.Errorf("currency %s: %w", code, apperrors.ErrNotFound)
	}
	c.Active = false
	t.currencies[code] = c
	return nil
}

// Currency returns a known currency by code.
func (t *RateTable) Currency(code string) (domain.Currency, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	c, ok := t.currencies[code]
	return c, ok
}

// Currencies returns all known currencies in registration order.
func (t *RateTable) Currencies() []domain.Currency {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]domain.Currency, 0, len(t.order))
	for _, code := range t.order {
		out = append(out, t.currencies[code])
	}
	return out
}

// ActiveCurrencies returns the currencies that have not been deactivated.
func (t *RateTable) ActiveCurrencies() []domain.Currency {
	all := t.Currencies()
	out := all[:0]
	for _, c := range all {
		if c.Active {
			out = append(out, c)
		}
	}
	return out
}

// Rates returns the current snapshot sorted by pair.
func (t *RateTable) Rates() []domain.ExchangeRate {
	t.mu.RLock()
	out := make([]domain.ExchangeRate, 0, len(t.current))
	for _, r := range t.current {
		out = append(out, r)
	}
	t.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		return out[i].To < out[j].To
	})
	return out
}

// History returns a copy of the history log in insertion order.
func (t *RateTable) History() []domain.ExchangeRate {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]domain.ExchangeRate, len(t.history))
	copy(out, t.history)
	return out
}

// PairHistory returns every history record for the exact pair, oldest first.
func (t *RateTable) PairHistory(from, to string) []domain.ExchangeRate {
	t.mu.RLock()
	var out []domain.ExchangeRate
	for _, r := range t.history {
		if r.From == from && r.To == to {
			out = append(out, r)
		}
	}
	t.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

// LastUpdate returns the instant of the last AddRates call, zero if never.
func (t *RateTable) LastUpdate() time.Time {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.lastUpdate
}

// Latest returns the current rate for the exact pair.
func (t *RateTable) Latest(from, to string) (domain.ExchangeRate, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	r, ok := t.current[domain.Pair{From: from, To: to}]
	return r, ok
}

// HistoricalRate returns the latest history record for the pair timestamped
// at or before asOf.
func (t *RateTable) HistoricalRate(from, to string, asOf time.Time) (domain.ExchangeRate, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var (
		best  domain.ExchangeRate
		found bool
	)
	for _, r := range t.history {
		if r.From != from || r.To != to || r.Timestamp.After(asOf) {
			continue
		}
		if !found || !r.Timestamp.Before(best.Timestamp) {
			best = r
			found = true
		}
	}
	if !found {
		return domain.ExchangeRate{}, fmt.Errorf("rate %s->%s as of %s: %w", from, to, asOf.Format(time.RFC3339), apperrors.ErrNotFound)
	}
	return best, nil
}
