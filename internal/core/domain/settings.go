package domain

import "time"

// UpdateFrequency controls how long fetched rates stay fresh.
type UpdateFrequency string

const (
	FrequencyRealtime UpdateFrequency = "realtime"
	FrequencyDaily    UpdateFrequency = "daily"
	FrequencyWeekly   UpdateFrequency = "weekly"
	FrequencyMonthly  UpdateFrequency = "monthly"
)

// StaleAfter returns the age after which rates should be refetched.
func (f UpdateFrequency) StaleAfter() time.Duration {
	switch f {
	case FrequencyRealtime:
		return 5 * time.Minute
	case FrequencyWeekly:
		return 7 * 24 * time.Hour
	case FrequencyMonthly:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// Valid reports whether the frequency is known.
func (f UpdateFrequency) Valid() bool {
	switch f {
	case FrequencyRealtime, FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// RateProvider is an external exchange-rate source. Lower Priority is tried first.
type RateProvider struct {
	Name     string `json:"name" yaml:"name"`
	Priority int    `json:"priority" yaml:"priority"`
	BaseURL  string `json:"baseUrl" yaml:"baseUrl"`
	APIKey   string `json:"apiKey,omitempty" yaml:"apiKey"`
}

// CurrencySettings is the state that survives a restart. Rates are never part of it.
type CurrencySettings struct {
	BaseCurrency        string          `json:"baseCurrency"`
	AvailableCurrencies []Currency      `json:"availableCurrencies"`
	Providers           []RateProvider  `json:"providers"`
	UpdateFrequency     UpdateFrequency `json:"updateFrequency"`
	LastUpdatedAt       time.Time       `json:"lastUpdatedAt"`
	LastUpdatedBy       string          `json:"lastUpdatedBy"`
}

// RefreshResult reports the outcome of a rate refresh.
type RefreshResult struct {
	Refreshed  bool      `json:"refreshed"`
	Skipped    bool      `json:"skipped"` // Rates were fresh or another refresh was running
	Provider   string    `json:"provider,omitempty"`
	RateCount  int       `json:"rateCount"`
	LastUpdate time.Time `json:"lastUpdate"`
}
