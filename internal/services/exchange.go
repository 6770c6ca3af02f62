package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/BatmanBruc/bat-bot-multitool/types"
)

const DefaultExchangeURL = "https://v6.exchangerate-api.com/v6"

type ratesEntry struct {
	rates     map[string]decimal.Decimal
	fetchedAt time.Time
}

// ExchangeRates fetches latest rates per base currency and caches them for ttl.
type ExchangeRates struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	retry      RetryPolicy
	ttl        time.Duration
	now        func() time.Time

	mu    sync.RWMutex
	cache map[string]ratesEntry
}

func NewExchangeRates(apiKey, baseURL string, httpClient *http.Client, retry RetryPolicy, ttl time.Duration) *ExchangeRates {
	if baseURL == "" {
		baseURL = DefaultExchangeURL
	}
	return &ExchangeRates{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		retry:      retry,
		ttl:        ttl,
		now:        time.Now,
		cache:      make(map[string]ratesEntry),
	}
}

func (e *ExchangeRates) Rate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	from = strings.ToUpper(strings.TrimSpace(from))
	to = strings.ToUpper(strings.TrimSpace(to))
	if from == to {
		return decimal.NewFromInt(1), nil
	}

	rates, err := e.latest(ctx, from)
	if err != nil {
		return decimal.Zero, err
	}
	rate, ok := rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("exchange rate %s->%s: %w", from, to, types.ErrEmptyResult)
	}
	return rate, nil
}

func (e *ExchangeRates) latest(ctx context.Context, base string) (map[string]decimal.Decimal, error) {
	e.mu.RLock()
	entry, ok := e.cache[base]
	e.mu.RUnlock()
	if ok && e.ttl > 0 && e.now().Sub(entry.fetchedAt) < e.ttl {
		return entry.rates, nil
	}

	var rates map[string]decimal.Decimal
	err := RunWithRetry(ctx, e.retry, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL+"/"+e.apiKey+"/latest/"+base, nil)
		if err != nil {
			return err
		}
		res, err := doJSON(e.httpClient, req, "exchange rates")
		if err != nil {
			return err
		}
		if res.Get("result").String() != "success" {
			return rateAPIError(res.Get("error-type").String())
		}
		rates = make(map[string]decimal.Decimal)
		var parseErr error
		res.Get("conversion_rates").ForEach(func(code, value gjson.Result) bool {
			d, err := decimal.NewFromString(value.Raw)
			if err != nil {
				parseErr = fmt.Errorf("exchange rates: bad rate for %s: %w", code.String(), err)
				return false
			}
			rates[code.String()] = d
			return true
		})
		return parseErr
	})
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[base] = ratesEntry{rates: rates, fetchedAt: e.now()}
	e.mu.Unlock()
	return rates, nil
}

func rateAPIError(kind string) error {
	switch kind {
	case "quota-reached":
		return fmt.Errorf("exchange rates: %w", types.ErrRateLimited)
	case "unsupported-code", "malformed-request":
		return fmt.Errorf("exchange rates: %w: %s", types.ErrInvalidInput, kind)
	}
	return fmt.Errorf("exchange rates: api error %q", kind)
}
