package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"fxalert-service/internal/application"
	"fxalert-service/internal/domain"
	"fxalert-service/internal/infrastructure/httpx"
)

const (
	alphaVantageQueryPath = "/query"
	lastRefreshedLayout   = "2006-01-02 15:04:05"

	fieldRealtime      = "Realtime Currency Exchange Rate"
	fieldExchangeRate  = "5. Exchange Rate"
	fieldLastRefreshed = "6. Last Refreshed"
)

// AlphaVantage fetches the realtime rate for one currency pair.
type AlphaVantage struct {
	BaseURL string
	APIKey  string
	From    string
	To      string
	Client  *httpx.Client
	// Now stamps FetchedAt; defaults to time.Now.
	Now func() time.Time
}

var _ application.QuoteFetcher = (*AlphaVantage)(nil)

type avRealtime struct {
	ExchangeRate  *string `json:"5. Exchange Rate"`
	LastRefreshed *string `json:"6. Last Refreshed"`
	TimeZone      string  `json:"7. Time Zone"`
}

type avResponse struct {
	Realtime     *avRealtime `json:"Realtime Currency Exchange Rate"`
	Note         string      `json:"Note"`
	Information  string      `json:"Information"`
	ErrorMessage string      `json:"Error Message"`
}

func (p *AlphaVantage) Fetch(ctx context.Context) (domain.QuoteRecord, error) {
	if p.BaseURL == "" || p.APIKey == "" {
		return domain.QuoteRecord{}, &domain.QuoteFetchError{Reason: "missing configuration"}
	}

	u, err := url.Parse(p.BaseURL)
	if err != nil {
		return domain.QuoteRecord{}, &domain.QuoteFetchError{Reason: "invalid base url", Err: err}
	}
	u.Path = strings.TrimRight(u.Path, "/") + alphaVantageQueryPath
	q := u.Query()
	q.Set("function", "CURRENCY_EXCHANGE_RATE")
	q.Set("from_currency", p.From)
	q.Set("to_currency", p.To)
	q.Set("apikey", p.APIKey)
	u.RawQuery = q.Encode()

	client := p.Client
	if client == nil {
		client = &httpx.Client{}
	}
	resp, err := client.Get(ctx, u.String())
	if err != nil {
		return domain.QuoteRecord{}, &domain.QuoteFetchError{StatusCode: resp.StatusCode, Reason: resp.Reason, Err: err}
	}
	if resp.StatusCode != 200 {
		return domain.QuoteRecord{}, &domain.QuoteFetchError{StatusCode: resp.StatusCode, Reason: resp.Reason}
	}

	fetchedAt := p.now()

	var body avResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return domain.QuoteRecord{}, &domain.QuoteFetchError{StatusCode: resp.StatusCode, Reason: "decode response", Err: err}
	}
	if body.Realtime == nil {
		return domain.QuoteRecord{}, &domain.QuoteFetchError{
			StatusCode: resp.StatusCode,
			Reason:     apiMessage(body),
			Field:      fieldRealtime,
		}
	}

	value, err := parseRate(body.Realtime.ExchangeRate)
	if err != nil {
		return domain.QuoteRecord{}, &domain.QuoteFetchError{StatusCode: resp.StatusCode, Reason: "malformed response", Field: fieldExchangeRate, Err: err}
	}
	refreshedAt, err := parseRefreshed(body.Realtime.LastRefreshed, body.Realtime.TimeZone)
	if err != nil {
		return domain.QuoteRecord{}, &domain.QuoteFetchError{StatusCode: resp.StatusCode, Reason: "malformed response", Field: fieldLastRefreshed, Err: err}
	}

	return domain.QuoteRecord{
		FetchedAt:   fetchedAt,
		RefreshedAt: refreshedAt,
		Value:       value,
	}, nil
}

func (p *AlphaVantage) now() time.Time {
	if p.Now != nil {
		return p.Now().UTC()
	}
	return time.Now().UTC()
}

// apiMessage surfaces the throttling/key errors Alpha Vantage sends with a 200.
func apiMessage(body avResponse) string {
	switch {
	case body.ErrorMessage != "":
		return body.ErrorMessage
	case body.Note != "":
		return body.Note
	case body.Information != "":
		return body.Information
	default:
		return "missing field"
	}
}

func parseRate(raw *string) (float64, error) {
	if raw == nil {
		return 0, errors.New("missing")
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(*raw), 64)
	if err != nil {
		return 0, err
	}
	if !domain.ValidRate(v) {
		return 0, fmt.Errorf("rate %v: %w", v, domain.ErrInvalidQuote)
	}
	return v, nil
}

// parseRefreshed reads the fixed layout in the zone the API reports, UTC if
// absent or unknown, and returns the instant in UTC.
func parseRefreshed(raw *string, zone string) (time.Time, error) {
	if raw == nil {
		return time.Time{}, errors.New("missing")
	}
	loc := time.UTC
	if zone != "" {
		if l, err := time.LoadLocation(zone); err == nil {
			loc = l
		}
	}
	t, err := time.ParseInLocation(lastRefreshedLayout, strings.TrimSpace(*raw), loc)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
