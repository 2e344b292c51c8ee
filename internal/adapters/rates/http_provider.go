package rates

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/SscSPs/mma_fx/internal/apperrors"
	"github.com/SscSPs/mma_fx/internal/core/domain"
	portsrepo "github.com/SscSPs/mma_fx/internal/core/ports/repositories"
	"github.com/SscSPs/mma_fx/internal/middleware"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

const (
	defaultRequestTimeout = 5 * time.Second
	defaultBackoff        = 250 * time.Millisecond
	maxBodyBytes          = 1 << 20
)

// errMalformedPayload marks responses that are not retryable.
var errMalformedPayload = errors.New("malformed rate payload")

// HTTPProvider fetches rate tables from any provider exposing
// GET {baseURL}/latest/{base} -> {"rates": {"EUR": 0.9, ...}}.
type HTTPProvider struct {
	baseURL        string
	client         *http.Client
	requestTimeout time.Duration
	maxRetries     int
	backoff        time.Duration
	now            func() time.Time
}

// Option configures an HTTPProvider.
type Option func(*HTTPProvider)

// WithHTTPClient replaces http.DefaultClient.
func WithHTTPClient(client *http.Client) Option {
	return func(p *HTTPProvider) {
		p.client = client
	}
}

// WithRequestTimeout bounds every single HTTP attempt.
func WithRequestTimeout(d time.Duration) Option {
	return func(p *HTTPProvider) {
		if d > 0 {
			p.requestTimeout = d
		}
	}
}

// WithRetries sets how many extra attempts follow a retryable failure.
func WithRetries(n int, backoff time.Duration) Option {
	return func(p *HTTPProvider) {
		if n >= 0 {
			p.maxRetries = n
		}
		if backoff > 0 {
			p.backoff = backoff
		}
	}
}

// NewHTTPProvider creates a provider rooted at baseURL.
func NewHTTPProvider(baseURL string, options ...Option) *HTTPProvider {
	p := &HTTPProvider{
		baseURL:        strings.TrimRight(baseURL, "/"),
		client:         http.DefaultClient,
		requestTimeout: defaultRequestTimeout,
		backoff:        defaultBackoff,
		now:            time.Now,
	}
	for _, option := range options {
		option(p)
	}
	return p
}

var _ portsrepo.RateProvider = (*HTTPProvider)(nil)

// FetchLatest retrieves the latest table for base. Network errors, 429 and 5xx
// responses are retried with exponential backoff; other failures are returned
// immediately. All failures are *apperrors.RateFetchError.
func (p *HTTPProvider) FetchLatest(ctx context.Context, base domain.CurrencyCode) (domain.RateTable, error) {
	base = domain.NormalizeCode(base)
	logger := middleware.GetLoggerFromCtx(ctx).With(slog.String("base", base))

	backoff := p.backoff
	var lastErr *apperrors.RateFetchError
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return domain.RateTable{}, &apperrors.RateFetchError{Base: base, Err: ctx.Err()}
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		table, err := p.fetchOnce(ctx, base)
		if err == nil {
			return table, nil
		}
		lastErr = err
		if !retryable(err) || ctx.Err() != nil {
			break
		}
		logger.Warn("Rate fetch attempt failed, retrying",
			slog.Int("attempt", attempt+1),
			slog.String("error", err.Error()))
	}
	return domain.RateTable{}, lastErr
}

func (p *HTTPProvider) fetchOnce(ctx context.Context, base domain.CurrencyCode) (domain.RateTable, *apperrors.RateFetchError) {
	reqCtx, cancel := context.WithTimeout(ctx, p.requestTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/latest/%s", p.baseURL, base)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return domain.RateTable{}, &apperrors.RateFetchError{Base: base, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return domain.RateTable{}, &apperrors.RateFetchError{Base: base, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.RateTable{}, &apperrors.RateFetchError{Base: base, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return domain.RateTable{}, &apperrors.RateFetchError{
			Base:       base,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	rates, err := ParseRates(body, base)
	if err != nil {
		return domain.RateTable{}, &apperrors.RateFetchError{Base: base, Err: err}
	}
	return domain.RateTable{Base: base, Rates: rates, FetchedAt: p.now()}, nil
}

// ParseRates extracts the "rates" object of a provider payload. The base
// currency is dropped; every other value must be a non-negative number.
func ParseRates(body []byte, base domain.CurrencyCode) (map[domain.CurrencyCode]decimal.Decimal, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", errMalformedPayload)
	}
	ratesField := gjson.GetBytes(body, "rates")
	if !ratesField.IsObject() {
		return nil, fmt.Errorf("%w: missing rates object", errMalformedPayload)
	}

	rates := make(map[domain.CurrencyCode]decimal.Decimal)
	var parseErr error
	ratesField.ForEach(func(key, value gjson.Result) bool {
		code := domain.NormalizeCode(key.String())
		if value.Type != gjson.Number {
			parseErr = fmt.Errorf("%w: rate for %s is not a number", errMalformedPayload, code)
			return false
		}
		rate, err := decimal.NewFromString(value.Raw)
		if err != nil {
			parseErr = fmt.Errorf("%w: rate for %s: %v", errMalformedPayload, code, err)
			return false
		}
		if rate.IsNegative() {
			parseErr = fmt.Errorf("%w: negative rate for %s", errMalformedPayload, code)
			return false
		}
		if code != base {
			rates[code] = rate
		}
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return rates, nil
}

func retryable(err *apperrors.RateFetchError) bool {
	if errors.Is(err, errMalformedPayload) || errors.Is(err, context.Canceled) {
		return false
	}
	switch {
	case err.StatusCode == http.StatusTooManyRequests:
		return true
	case err.StatusCode >= 500:
		return true
	case err.StatusCode != 0:
		return false
	}
	return true
}
