package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL        string
	Port               string
	IsProduction       bool
	EnableDBCheck      bool
	LogLevel           string
	JWTSecret          string
	JWTIssuer          string
	CORSAllowedOrigins []string
	RateLimit          string // ulule limiter format, e.g. "100-M"
	MigrationsPath     string

	// Currency engine
	BaseCurrency        string
	PivotCurrencies     []string
	RateFetchTimeout    time.Duration
	RateRefreshInterval time.Duration
	RateProviderRPS     float64
	RateProvidersFile   string
	ReportCacheTTL      time.Duration

	// Events
	KafkaBrokers []string
	KafkaTopic   string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:       v.GetString("PGSQL_URL"),
		Port:              v.GetString("PORT"),
		IsProduction:      v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:     v.GetBool("ENABLE_DB_CHECK"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		JWTIssuer:         v.GetString("JWT_ISSUER"),
		RateLimit:         v.GetString("RATE_LIMIT"),
		MigrationsPath:    v.GetString("MIGRATIONS_PATH"),
		BaseCurrency:      strings.ToUpper(v.GetString("BASE_CURRENCY")),
		RateProviderRPS:   v.GetFloat64("RATE_PROVIDER_RPS"),
		RateProvidersFile: v.GetString("RATE_PROVIDERS_FILE"),
		KafkaTopic:        v.GetString("KAFKA_TOPIC"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.PivotCurrencies = splitList(strings.ToUpper(v.GetString("PIVOT_CURRENCIES")))
	cfg.KafkaBrokers = splitList(v.GetString("KAFKA_BROKERS"))

	cfg.RateFetchTimeout = parseDuration(v, "RATE_FETCH_TIMEOUT", 10*time.Second)
	cfg.RateRefreshInterval = parseDuration(v, "RATE_REFRESH_INTERVAL", 5*time.Minute)
	cfg.ReportCacheTTL = parseDuration(v, "REPORT_CACHE_TTL", 5*time.Minute)

	if cfg.RateProviderRPS <= 0 {
		log.Printf("Warning: Invalid value for RATE_PROVIDER_RPS (%v). Defaulting to 1.\n", cfg.RateProviderRPS)
		cfg.RateProviderRPS = 1
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("MIGRATIONS_PATH", "file://migrations")
	v.SetDefault("BASE_CURRENCY", "USD")
	v.SetDefault("PIVOT_CURRENCIES", "USD")
	v.SetDefault("RATE_FETCH_TIMEOUT", "10s")
	v.SetDefault("RATE_REFRESH_INTERVAL", "5m")
	v.SetDefault("RATE_PROVIDER_RPS", 1)
	v.SetDefault("RATE_PROVIDERS_FILE", "")
	v.SetDefault("REPORT_CACHE_TTL", "5m")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "ledger-events")
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
