package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"PortfolioSentinel/internal/model"
)

const yahooBaseURL = "https://query1.finance.yahoo.com"

// YahooFetcher implements Fetcher using Yahoo Finance public API.
type YahooFetcher struct {
	BaseURL   string
	Client    *http.Client
	SymbolMap map[string]string // maps internal symbol to Yahoo ticker
	limiter   *rate.Limiter
}

// NewYahooFetcher creates a new Yahoo Finance fetcher. requestsPerSecond <= 0
// uses 2 req/s.
func NewYahooFetcher(proxyURL string, requestsPerSecond int) *YahooFetcher {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 2
	}
	return &YahooFetcher{
		BaseURL: yahooBaseURL,
		Client:  newHTTPClient(proxyURL),
		SymbolMap: map[string]string{
			"SPX500": "^GSPC",
			"SPX":    "^GSPC",
			"SP500":  "^GSPC",
			"VIX":    "^VIX",
			"TNX":    "^TNX",
		},
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond),
	}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol
}

// yahooChart is the response structure from Yahoo Finance chart API.
type yahooChart struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []interface{} `json:"open"`
					High   []interface{} `json:"high"`
					Low    []interface{} `json:"low"`
					Close  []interface{} `json:"close"`
					Volume []interface{} `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"chart"`
}

type yahooError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// yahooRaw is Yahoo's {"raw": 1.23, "fmt": "1.23"} number wrapper.
type yahooRaw struct {
	Raw *float64 `json:"raw"`
}

type yahooSummary struct {
	QuoteSummary struct {
		Result []struct {
			SummaryDetail struct {
				TrailingPE yahooRaw `json:"trailingPE"`
			} `json:"summaryDetail"`
			DefaultKeyStatistics struct {
				PriceToBook yahooRaw `json:"priceToBook"`
			} `json:"defaultKeyStatistics"`
			FinancialData struct {
				CurrentPrice    yahooRaw `json:"currentPrice"`
				TargetMeanPrice yahooRaw `json:"targetMeanPrice"`
				RevenueGrowth   yahooRaw `json:"revenueGrowth"`
			} `json:"financialData"`
			AssetProfile struct {
				Sector string `json:"sector"`
			} `json:"assetProfile"`
		} `json:"result"`
		Error *yahooError `json:"error"`
	} `json:"quoteSummary"`
}

func toFloat(v interface{}) float64 {
	if v == nil {
		return 0
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	default:
		return 0
	}
}

func (f *YahooFetcher) get(ctx context.Context, u string, out interface{}) error {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("yahoo rate limit: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("yahoo fetch: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("yahoo read body: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("yahoo: status 404: %w", model.ErrDataUnavailable)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("yahoo: status %d, body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("yahoo decode: %w", err)
	}
	return nil
}

func (f *YahooFetcher) fetchChart(ctx context.Context, symbol, interval, rng string) ([]model.PriceBar, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?interval=%s&range=%s",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)), interval, rng)

	var chart yahooChart
	if err := f.get(ctx, u, &chart); err != nil {
		return nil, err
	}
	if chart.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s: %w", chart.Chart.Error.Description, model.ErrDataUnavailable)
	}
	if len(chart.Chart.Result) == 0 || len(chart.Chart.Result[0].Timestamp) == 0 ||
		len(chart.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("yahoo: no data returned: %w", model.ErrDataUnavailable)
	}

	result := chart.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]model.PriceBar, 0, len(result.Timestamp))

	at := func(vals []interface{}, i int) float64 {
		if i < len(vals) {
			return toFloat(vals[i])
		}
		return 0
	}
	for i, ts := range result.Timestamp {
		o := at(quote.Open, i)
		h := at(quote.High, i)
		l := at(quote.Low, i)
		c := at(quote.Close, i)
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // skip null bars (holidays etc.)
		}
		bars = append(bars, model.PriceBar{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   o,
			High:   h,
			Low:    l,
			Close:  c,
			Volume: at(quote.Volume, i),
		})
	}
	sortBars(bars)
	return bars, nil
}

func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	// Yahoo range: max "2y" for daily interval
	rng := "2y"
	if days <= 30 {
		rng = "1mo"
	} else if days <= 90 {
		rng = "3mo"
	} else if days <= 180 {
		rng = "6mo"
	} else if days <= 365 {
		rng = "1y"
	}
	bars, err := f.fetchChart(ctx, symbol, "1d", rng)
	if err != nil {
		return nil, err
	}
	return trimBars(bars, days), nil
}

func (f *YahooFetcher) FetchFundamentals(ctx context.Context, symbol string) (*model.FundamentalSnapshot, error) {
	u := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=summaryDetail,defaultKeyStatistics,financialData,assetProfile",
		f.BaseURL, url.PathEscape(f.yahooSymbol(symbol)))

	var summary yahooSummary
	if err := f.get(ctx, u, &summary); err != nil {
		return nil, err
	}
	if summary.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("yahoo api error: %s: %w", summary.QuoteSummary.Error.Description, model.ErrDataUnavailable)
	}
	if len(summary.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("yahoo: no summary returned: %w", model.ErrDataUnavailable)
	}
	r := summary.QuoteSummary.Result[0]
	return &model.FundamentalSnapshot{
		Symbol:             symbol,
		Sector:             r.AssetProfile.Sector,
		PERatio:            r.SummaryDetail.TrailingPE.Raw,
		PBRatio:            r.DefaultKeyStatistics.PriceToBook.Raw,
		RevenueGrowth:      r.FinancialData.RevenueGrowth.Raw,
		AnalystTargetPrice: r.FinancialData.TargetMeanPrice.Raw,
		CurrentPrice:       r.FinancialData.CurrentPrice.Raw,
	}, nil
}
