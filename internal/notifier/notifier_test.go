package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

func TestSendPostsToChat(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/botTOKEN/sendMessage", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIBase = srv.URL

	require.NoError(t, tn.Send(context.Background(), "hello"))
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestSendReportsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"ok":false}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIBase = srv.URL

	err := tn.Send(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"short"}, splitMessage("short", 10))

	parts := splitMessage("aaaa\nbbbb\ncccc\n", 10)
	assert.Equal(t, []string{"aaaa\nbbbb\n", "cccc\n"}, parts)

	parts = splitMessage(strings.Repeat("x", 25), 10)
	assert.Equal(t, []string{"xxxxxxxxxx", "xxxxxxxxxx", "xxxxx"}, parts)
}

func TestPollingDispatchesCommands(t *testing.T) {
	var (
		mu      sync.Mutex
		replies []string
		served  bool
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if served {
				w.Write([]byte(`{"ok":true,"result":[]}`))
				return
			}
			served = true
			w.Write([]byte(`{"ok":true,"result":[
				{"update_id":7,"message":{"text":" /latest ","chat":{"id":42}}},
				{"update_id":8,"message":{"text":"/run","chat":{"id":99}}}
			]}`))
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var p map[string]string
			json.NewDecoder(r.Body).Decode(&p)
			replies = append(replies, p["text"])
			w.Write([]byte(`{"ok":true}`))
		}
	}))
	defer srv.Close()

	tn := NewTelegramNotifier("TOKEN", "42", "")
	tn.APIBase = srv.URL

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var commands []string
	var cmdMu sync.Mutex
	go tn.StartPolling(ctx, func(_ context.Context, cmd string) string {
		cmdMu.Lock()
		commands = append(commands, cmd)
		cmdMu.Unlock()
		return "reply to " + cmd
	})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(replies) == 1
	}, 2*time.Second, 10*time.Millisecond)
	cancel()

	cmdMu.Lock()
	defer cmdMu.Unlock()
	assert.Equal(t, []string{"/latest"}, commands)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"reply to /latest"}, replies)
}

func TestFormatRunSummary(t *testing.T) {
	r := &model.RunReport{
		FinishedAt: time.Date(2025, 7, 1, 16, 30, 0, 0, time.UTC),
		Regime:     model.MarketRegime{Class: model.RegimeRiskOff, VIXLevel: model.Float(31.2), Sentiment: "EXTREME_FEAR"},
		Holdings: []model.HoldingAnalysis{
			{Symbol: "TQQQ", Underlying: "QQQ", Recommendation: model.Recommendation{
				Classification: model.Sell, Score: -1.5, Confidence: model.ConfidenceMedium, PositionSizePct: model.Float(0),
				TradePlan: &model.TradePlan{Action: model.ActionSell, EntryTranches: []float64{50, 51.5, 53}, StopLoss: 56.68, TakeProfit: 44.1},
			}},
			{Symbol: "NEWCO", Recommendation: model.Recommendation{Classification: model.Hold, InsufficientData: true}},
			{Symbol: "GONE", Error: "GONE: data unavailable", ErrorKind: "DATA_UNAVAILABLE"},
		},
	}

	out := FormatRunSummary(r)
	assert.Contains(t, out, "Market: <b>RISK_OFF</b> (VIX 31.2, EXTREME_FEAR)")
	assert.Contains(t, out, "<b>TQQQ</b>: SELL -1.50 (via QQQ) · MEDIUM · size 0%")
	assert.Contains(t, out, "SELL 50.00 / 51.50 / 53.00 | SL 56.68 | TP 44.10")
	assert.Contains(t, out, "NEWCO: HOLD (insufficient data)")
	assert.Contains(t, out, "GONE: DATA_UNAVAILABLE")
	assert.Contains(t, out, "3 holdings, 1 failed")
}
