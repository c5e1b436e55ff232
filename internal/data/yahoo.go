package data

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"robo-advisor/internal/model"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DefaultYahooBaseURL is the public Yahoo Finance chart host.
const DefaultYahooBaseURL = "https://query1.finance.yahoo.com"

// userAgent is required; the chart endpoint answers 429 to the default Go agent.
const userAgent = "Mozilla/5.0 (compatible; robo-advisor/1.0)"

// Fetcher supplies daily closes for one ticker over [start, end].
type Fetcher interface {
	FetchCloses(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error)
}

// YahooClient fetches daily closes from the Yahoo Finance chart API.
type YahooClient struct {
	BaseURL string
	Client  *http.Client
	limiter *rate.Limiter
	log     *zap.Logger
}

// YahooOptions tunes the client. Zero values select defaults.
type YahooOptions struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// NewYahooClient creates a new Yahoo chart client.
// If opts.BaseURL is empty, defaults to DefaultYahooBaseURL.
func NewYahooClient(opts YahooOptions, log *zap.Logger) *YahooClient {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultYahooBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 2
	}
	if opts.Burst <= 0 {
		opts.Burst = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &YahooClient{
		BaseURL: opts.BaseURL,
		Client:  &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		log:     log.Named("yahoo"),
	}
}

// FetchCloses fetches the daily closes of ticker between start and end (inclusive days).
func (c *YahooClient) FetchCloses(ctx context.Context, ticker string, start, end time.Time) (model.PriceSeries, error) {
	if ticker == "" {
		return model.PriceSeries{}, fmt.Errorf("ticker is required")
	}
	if start.IsZero() || end.IsZero() {
		return model.PriceSeries{}, fmt.Errorf("start and end are required")
	}
	if start.After(end) {
		return model.PriceSeries{}, fmt.Errorf("start must be before end")
	}

	// Build URL: /v8/finance/chart/{ticker}
	u, err := url.Parse(c.BaseURL + "/v8/finance/chart/" + url.PathEscape(ticker))
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("invalid base URL: %w", err)
	}
	q := u.Query()
	q.Set("period1", strconv.FormatInt(model.Day(start).Unix(), 10))
	// period2 is exclusive; move it to the end of the last requested day.
	q.Set("period2", strconv.FormatInt(model.Day(end).AddDate(0, 0, 1).Unix(), 10))
	q.Set("interval", "1d")
	q.Set("events", "div,splits")
	u.RawQuery = q.Encode()

	if err := c.limiter.Wait(ctx); err != nil {
		return model.PriceSeries{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.PriceSeries{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	log := c.log.With(zap.String("ticker", ticker),
		zap.String("start", start.Format(time.DateOnly)),
		zap.String("end", end.Format(time.DateOnly)))

	begin := time.Now()
	resp, err := c.Client.Do(req)
	duration := time.Since(begin)
	if err != nil {
		log.Warn("request failed", zap.Error(err), zap.Duration("duration", duration))
		return model.PriceSeries{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	log.Debug("response", zap.Int("status", resp.StatusCode), zap.Duration("duration", duration))

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return model.PriceSeries{}, &ProviderError{
			StatusCode: resp.StatusCode,
			Code:       CodeNotFound,
			Message:    fmt.Sprintf("no data for %s", ticker),
		}
	case http.StatusTooManyRequests:
		retryAfter := resp.Header.Get("Retry-After")
		return model.PriceSeries{}, &ProviderError{
			StatusCode: resp.StatusCode,
			Code:       CodeRateLimited,
			Message:    fmt.Sprintf("Rate limit exceeded. Retry after: %s", retryAfter),
			RetryAfter: retryAfter,
		}
	default:
		return model.PriceSeries{}, &ProviderError{
			StatusCode: resp.StatusCode,
			Code:       CodeAPIError,
			Message:    fmt.Sprintf("API returned status %d: %s", resp.StatusCode, resp.Status),
		}
	}

	var chart ChartResponse
	if err := json.NewDecoder(resp.Body).Decode(&chart); err != nil {
		return model.PriceSeries{}, fmt.Errorf("failed to decode response: %w", err)
	}
	series, err := chart.Series(ticker)
	if err != nil {
		return model.PriceSeries{}, err
	}
	log.Debug("received closes", zap.Int("points", series.Len()))
	return series, nil
}
