package collector

import (
	"net/http"
	"net/url"
	"sort"
	"time"

	"PortfolioSentinel/internal/model"
)

const defaultTimeout = 30 * time.Second

// newHTTPClient builds a client with optional proxy support.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   defaultTimeout,
		Transport: transport,
	}
}

func sortBars(bars []model.PriceBar) {
	sort.Slice(bars, func(i, j int) bool { return bars[i].Time.Before(bars[j].Time) })
}

func trimBars(bars []model.PriceBar, days int) []model.PriceBar {
	if days > 0 && len(bars) > days {
		return bars[len(bars)-days:]
	}
	return bars
}
