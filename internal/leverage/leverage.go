// Package leverage maps leveraged and inverse ETFs to the instrument they track.
package leverage

import "strings"

// underlying is the fixed leveraged-to-underlying table. Lookups are not
// transitive: a value is never looked up again.
var underlying = map[string]string{
	"SOXL": "SOXX", "SOXS": "SOXX",
	"TQQQ": "QQQ", "SQQQ": "QQQ",
	"UPRO": "SPY", "SPXU": "SPY",
	"LABU": "XBI", "LABD": "XBI",
	"FAS": "XLF", "FAZ": "XLF",
	"TECL": "XLK", "TECS": "XLK",
	"MSTX": "MSTR", "MSTZ": "MSTR",
	"NVDL": "NVDA", "NVDD": "NVDA",
	"TSLL": "TSLA", "TSLS": "TSLA",
	"AAPU": "AAPL", "AAPD": "AAPL",
	"CONL": "COIN", "CONY": "COIN",
	"BITX": "BTC-USD", "BITU": "BTC-USD",
	"ETHU": "ETH-USD",
}

// Resolve returns the underlying for a leveraged symbol, or the input
// unchanged when it is not in the table.
func Resolve(symbol string) string {
	if u, ok := underlying[strings.ToUpper(strings.TrimSpace(symbol))]; ok {
		return u
	}
	return symbol
}

// IsLeveraged reports whether symbol has a table entry.
func IsLeveraged(symbol string) bool {
	_, ok := underlying[strings.ToUpper(strings.TrimSpace(symbol))]
	return ok
}

// Table returns a copy of the mapping.
func Table() map[string]string {
	out := make(map[string]string, len(underlying))
	for k, v := range underlying {
		out[k] = v
	}
	return out
}
