package rateprovider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/multicurrency_ledger/internal/core/domain"
	"github.com/SscSPs/multicurrency_ledger/internal/core/ports/providers"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	defaultHTTPTimeout = 15 * time.Second
	maxBodyBytes       = 1 << 20
	dateLayout         = "2006-01-02"
)

// ratesResponse is the provider payload. Numbers stay as json.Number so no
// precision is lost on the way to decimal.
type ratesResponse struct {
	Rates map[string]json.Number `json:"rates"`
}

// Client fetches exchange rates over HTTP from any provider speaking the
// `{baseUrl}?base=B&symbols=A,B` protocol.
type Client struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
}

// ClientOption is a functional option for configuring the Client
type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithRequestsPerSecond throttles outbound calls across all providers.
func WithRequestsPerSecond(rps float64) ClientOption {
	return func(cl *Client) {
		if rps > 0 {
			cl.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}

// WithClock overrides the timestamp given to latest rates.
func WithClock(now func() time.Time) ClientOption {
	return func(cl *Client) {
		cl.now = now
	}
}

// NewClient creates a provider client. Without options calls are throttled to one per second.
func NewClient(options ...ClientOption) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		limiter:    rate.NewLimiter(rate.Limit(1), 1),
		now:        time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

var _ providers.RateFetcher = (*Client)(nil)

// FetchLatest returns the provider's current rates from base to every symbol.
func (c *Client) FetchLatest(ctx context.Context, provider domain.RateProvider, base string, symbols []string) ([]domain.ExchangeRate, error) {
	endpoint, err := buildURL(provider.BaseURL, "", base, symbols)
	if err != nil {
		return nil, err
	}
	return c.fetch(ctx, provider, endpoint, base, c.now().UTC())
}

// FetchHistorical returns the provider's rates from base to every symbol on date.
// Rates are stamped with midnight UTC of that date.
func (c *Client) FetchHistorical(ctx context.Context, provider domain.RateProvider, base string, symbols []string, date time.Time) ([]domain.ExchangeRate, error) {
	day := date.UTC().Format(dateLayout)
	endpoint, err := buildURL(provider.BaseURL, "/historical/"+day, base, symbols)
	if err != nil {
		return nil, err
	}
	stamp, _ := time.Parse(dateLayout, day)
	return c.fetch(ctx, provider, endpoint, base, stamp)
}

func (c *Client) fetch(ctx context.Context, provider domain.RateProvider, endpoint, base string, stamp time.Time) ([]domain.ExchangeRate, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("provider %s: rate limiter: %w", provider.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("provider %s: failed to build request: %w", provider.Name, err)
	}
	req.Header.Set("Accept", "application/json")
	if provider.APIKey != "" {
		req.Header.Set("apikey", provider.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("provider %s: request failed: %w", provider.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider %s: unexpected status %d", provider.Name, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("provider %s: failed to read response: %w", provider.Name, err)
	}

	var payload ratesResponse
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("provider %s: failed to decode response: %w", provider.Name, err)
	}
	if len(payload.Rates) == 0 {
		return nil, fmt.Errorf("provider %s: response contains no rates", provider.Name)
	}

	base = strings.ToUpper(base)
	rates := make([]domain.ExchangeRate, 0, len(payload.Rates))
	for code, raw := range payload.Rates {
		code = strings.ToUpper(code)
		if code == base {
			continue
		}
		value, err := decimal.NewFromString(raw.String())
		if err != nil || !value.IsPositive() {
			// Skip unusable quotes instead of failing the whole snapshot.
			continue
		}
		rates = append(rates, domain.ExchangeRate{
			From:      base,
			To:        code,
			Rate:      value,
			Timestamp: stamp,
			Source:    provider.Name,
		})
	}
	if len(rates) == 0 {
		return nil, fmt.Errorf("provider %s: response contains no usable rates", provider.Name)
	}
	sort.Slice(rates, func(i, j int) bool { return rates[i].To < rates[j].To })
	return rates, nil
}

func buildURL(baseURL, suffix, base string, symbols []string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/") + suffix)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid provider url %q", baseURL)
	}
	q := u.Query()
	q.Set("base", strings.ToUpper(base))
	q.Set("symbols", strings.Join(symbols, ","))
	u.RawQuery = q.Encode()
	return u.String(), nil
}
