package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"PortfolioSentinel/internal/model"
)

const (
	eodhdBaseURL   = "https://eodhd.com/api"
	eodhdRateLimit = 10
)

// EODHDFetcher implements Fetcher using the EODHD REST API.
type EODHDFetcher struct {
	BaseURL  string
	APIKey   string
	Exchange string // suffix for plain tickers, e.g. "US"
	Client   *http.Client
	limiter  *rate.Limiter
}

// EODHDOption configures an EODHDFetcher.
type EODHDOption func(*EODHDFetcher)

// WithEODHDBaseURL overrides the API base URL.
func WithEODHDBaseURL(baseURL string) EODHDOption {
	return func(f *EODHDFetcher) {
		if baseURL != "" {
			f.BaseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithEODHDRateLimit sets requests per second.
func WithEODHDRateLimit(requestsPerSecond int) EODHDOption {
	return func(f *EODHDFetcher) {
		if requestsPerSecond > 0 {
			f.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
		}
	}
}

// NewEODHDFetcher creates a new fetcher with optional proxy support.
func NewEODHDFetcher(apiKey, proxyURL string, opts ...EODHDOption) *EODHDFetcher {
	f := &EODHDFetcher{
		BaseURL:  eodhdBaseURL,
		APIKey:   apiKey,
		Exchange: "US",
		Client:   newHTTPClient(proxyURL),
		limiter:  rate.NewLimiter(rate.Limit(eodhdRateLimit), eodhdRateLimit),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *EODHDFetcher) Name() string { return "eodhd" }

// APIError is a non-200 response from EODHD.
type APIError struct {
	StatusCode int
	Message    string
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("eodhd api error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
}

// Unwrap maps 404 to ErrDataUnavailable.
func (e *APIError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return model.ErrDataUnavailable
	}
	return nil
}

// ticker appends the exchange suffix; crypto pairs go to the CC exchange.
func (f *EODHDFetcher) ticker(symbol string) string {
	if strings.Contains(symbol, ".") {
		return symbol
	}
	if strings.HasSuffix(symbol, "-USD") {
		return symbol + ".CC"
	}
	return symbol + "." + f.Exchange
}

type eodBar struct {
	Date   string  `json:"date"`
	Open   float64 `json:"open"`
	High   float64 `json:"high"`
	Low    float64 `json:"low"`
	Close  float64 `json:"close"`
	Volume float64 `json:"volume"`
}

type eodFundamentals struct {
	General *struct {
		Sector string `json:"Sector"`
	} `json:"General"`
	Highlights *struct {
		PERatio                   *float64 `json:"PERatio"`
		WallStreetTargetPrice     *float64 `json:"WallStreetTargetPrice"`
		QuarterlyRevenueGrowthYOY *float64 `json:"QuarterlyRevenueGrowthYOY"`
	} `json:"Highlights"`
	Valuation *struct {
		PriceBookMRQ *float64 `json:"PriceBookMRQ"`
	} `json:"Valuation"`
	Technicals *struct {
		FiftyDayMA *float64 `json:"50DayMA"`
	} `json:"Technicals"`
}

func (f *EODHDFetcher) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("eodhd rate limit: %w", err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_token", f.APIKey)
	params.Set("fmt", "json")

	endpoint := fmt.Sprintf("%s%s?%s", f.BaseURL, path, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("eodhd fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Message: string(body), Endpoint: path}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("eodhd decode: %w", err)
	}
	return nil
}

func (f *EODHDFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	// Calendar days cover weekends and holidays.
	from := time.Now().AddDate(0, 0, -days*7/5-10)
	params := url.Values{}
	params.Set("period", "d")
	params.Set("order", "a")
	params.Set("from", from.Format("2006-01-02"))

	var raw []eodBar
	if err := f.get(ctx, "/eod/"+f.ticker(symbol), params, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("eodhd: no bars for %s: %w", symbol, model.ErrDataUnavailable)
	}
	bars := make([]model.PriceBar, 0, len(raw))
	for _, b := range raw {
		t, err := time.Parse("2006-01-02", b.Date)
		if err != nil {
			continue
		}
		bars = append(bars, model.PriceBar{
			Time:   t,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	// Ensure chronological order
	sortBars(bars)
	return trimBars(bars, days), nil
}

// nonZero treats EODHD's 0 placeholder as a missing metric.
func nonZero(v *float64) *float64 {
	if v == nil || *v == 0 {
		return nil
	}
	return v
}

func (f *EODHDFetcher) FetchFundamentals(ctx context.Context, symbol string) (*model.FundamentalSnapshot, error) {
	var raw eodFundamentals
	if err := f.get(ctx, "/fundamentals/"+f.ticker(symbol), nil, &raw); err != nil {
		return nil, err
	}
	snap := &model.FundamentalSnapshot{Symbol: symbol}
	if raw.General != nil {
		snap.Sector = raw.General.Sector
	}
	if h := raw.Highlights; h != nil {
		snap.PERatio = nonZero(h.PERatio)
		snap.AnalystTargetPrice = nonZero(h.WallStreetTargetPrice)
		snap.RevenueGrowth = h.QuarterlyRevenueGrowthYOY
	}
	if v := raw.Valuation; v != nil {
		snap.PBRatio = nonZero(v.PriceBookMRQ)
	}
	return snap, nil
}
