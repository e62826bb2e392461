package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ExchangeRateService defines the interface for fetching FX rates.
type ExchangeRateService interface {
	// GetExchangeRate returns the rate to convert from source to target currency.
	GetExchangeRate(ctx context.Context, sourceCurrency, targetCurrency string) (decimal.Decimal, error)
}

// fallbackRatesUSD are per-USD rates used when the live provider is
// unreachable. Stale is better than down for display conversions.
var fallbackRatesUSD = map[string]float64{
	"USD": 1.0,
	"EUR": 0.92,
	"GBP": 0.79,
	"CAD": 1.36,
	"AUD": 1.52,
	"JPY": 148.0,
	"CHF": 0.88,
	"NGN": 1550.0,
	"INR": 83.0,
	"ZAR": 18.5,
}

// HTTPExchangeRateService fetches rates from a JSON provider and falls back
// to the static table on any failure.
type HTTPExchangeRateService struct {
	baseURL string
	client  *http.Client
}

func NewHTTPExchangeRateService(baseURL string) *HTTPExchangeRateService {
	return &HTTPExchangeRateService{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func (s *HTTPExchangeRateService) GetExchangeRate(ctx context.Context, source, target string) (decimal.Decimal, error) {
	if source == target {
		return decimal.NewFromInt(1), nil
	}

	rate, err := s.fetch(ctx, source, target)
	if err == nil {
		return rate, nil
	}
	zap.L().Warn("live exchange rate lookup failed, using fallback table",
		zap.String("source", source), zap.String("target", target), zap.Error(err))
	return fallbackRate(source, target)
}

func (s *HTTPExchangeRateService) fetch(ctx context.Context, source, target string) (decimal.Decimal, error) {
	endpoint := fmt.Sprintf("%s/latest?base=%s&symbols=%s", s.baseURL, url.QueryEscape(source), url.QueryEscape(target))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("rate provider returned %d", resp.StatusCode)
	}

	var payload struct {
		Rates map[string]json.Number `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return decimal.Zero, err
	}
	raw, ok := payload.Rates[target]
	if !ok {
		return decimal.Zero, fmt.Errorf("rate provider has no rate for %s", target)
	}
	rate, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, err
	}
	if !rate.IsPositive() {
		return decimal.Zero, fmt.Errorf("rate provider returned non-positive rate for %s", target)
	}
	return rate, nil
}

func fallbackRate(source, target string) (decimal.Decimal, error) {
	sourceRate, ok1 := fallbackRatesUSD[source]
	targetRate, ok2 := fallbackRatesUSD[target]
	if !ok1 || !ok2 {
		return decimal.Zero, fmt.Errorf("no rate available for %s -> %s", source, target)
	}
	return decimal.NewFromFloat(targetRate).Div(decimal.NewFromFloat(sourceRate)), nil
}

// MockExchangeRateService is a static implementation for testing.
type MockExchangeRateService struct{}

func NewMockExchangeRateService() *MockExchangeRateService {
	return &MockExchangeRateService{}
}

func (s *MockExchangeRateService) GetExchangeRate(ctx context.Context, source, target string) (decimal.Decimal, error) {
	if source == target {
		return decimal.NewFromInt(1), nil
	}
	return fallbackRate(source, target)
}
