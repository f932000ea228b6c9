package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PGSQL_URL", "postgres://localhost/ledger")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "USD", cfg.BaseCurrency)
	assert.Equal(t, []string{"USD"}, cfg.PivotCurrencies)
	assert.Equal(t, 10*time.Second, cfg.RateFetchTimeout)
	assert.Equal(t, 5*time.Minute, cfg.RateRefreshInterval)
	assert.Equal(t, "100-M", cfg.RateLimit)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("PIVOT_CURRENCIES", "usd, eur")
	t.Setenv("BASE_CURRENCY", "eur")
	t.Setenv("RATE_FETCH_TIMEOUT", "3s")
	t.Setenv("RATE_REFRESH_INTERVAL", "not-a-duration")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "EUR", cfg.BaseCurrency)
	assert.Equal(t, []string{"USD", "EUR"}, cfg.PivotCurrencies)
	assert.Equal(t, 3*time.Second, cfg.RateFetchTimeout)
	assert.Equal(t, 5*time.Minute, cfg.RateRefreshInterval)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
}
