package portfolio

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"PortfolioSentinel/internal/model"
)

func newTestJournal(t *testing.T) (*Journal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "trades.json")
	j, err := NewJournal(path)
	require.NoError(t, err)
	j.now = func() time.Time { return time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC) }
	return j, path
}

func TestJournal_AddPersists(t *testing.T) {
	j, path := newTestJournal(t)

	tr, err := j.Add("buy", " aapl ", 3, 101.1, "first lot")
	require.NoError(t, err)
	assert.Equal(t, 1, tr.ID)
	assert.Equal(t, model.SideBuy, tr.Side)
	assert.Equal(t, "AAPL", tr.Symbol)
	assert.Equal(t, 303.3, tr.Total)

	_, err = os.Stat(path)
	require.NoError(t, err)

	reloaded, err := NewJournal(path)
	require.NoError(t, err)
	got := reloaded.List("", 0)
	require.Len(t, got, 1)
	assert.Equal(t, tr, got[0])
}

func TestJournal_AddRejectsInvalid(t *testing.T) {
	j, _ := newTestJournal(t)

	_, err := j.Add("HOLD", "AAPL", 1, 10, "")
	assert.ErrorIs(t, err, model.ErrConfiguration)
	_, err = j.Add(model.SideBuy, "AAPL", 0, 10, "")
	assert.ErrorIs(t, err, model.ErrConfiguration)
	_, err = j.Add(model.SideBuy, "", 1, 10, "")
	assert.ErrorIs(t, err, model.ErrConfiguration)
	assert.Empty(t, j.List("", 0))
}

func TestJournal_SellCannotExceedPosition(t *testing.T) {
	j, _ := newTestJournal(t)

	_, err := j.Add(model.SideSell, "NVDA", 1, 100, "")
	assert.ErrorIs(t, err, ErrOversold)

	_, err = j.Add(model.SideBuy, "NVDA", 2, 100, "")
	require.NoError(t, err)
	_, err = j.Add(model.SideSell, "NVDA", 2.5, 110, "")
	assert.ErrorIs(t, err, ErrOversold)
	_, err = j.Add(model.SideSell, "NVDA", 2, 110, "")
	assert.NoError(t, err)
}

func TestJournal_PositionsAverageCost(t *testing.T) {
	j, _ := newTestJournal(t)
	steps := []struct {
		side       model.TradeSide
		symbol     string
		qty, price float64
	}{
		{model.SideBuy, "TQQQ", 10, 50},
		{model.SideBuy, "TQQQ", 10, 40},
		{model.SideSell, "TQQQ", 5, 60},
		{model.SideBuy, "AAPL", 1, 200},
		{model.SideBuy, "SOXL", 4, 25},
		{model.SideSell, "SOXL", 4, 20},
	}
	for _, s := range steps {
		_, err := j.Add(s.side, s.symbol, s.qty, s.price, "")
		require.NoError(t, err)
	}

	got := j.Positions()
	require.Len(t, got, 3)
	assert.Equal(t, []string{"AAPL", "SOXL", "TQQQ"}, []string{got[0].Symbol, got[1].Symbol, got[2].Symbol})

	// 20 shares at 45 average, 5 sold at 60.
	tqqq := got[2]
	assert.Equal(t, 15.0, tqqq.Quantity)
	assert.Equal(t, 45.0, tqqq.AvgPrice)
	assert.Equal(t, 675.0, tqqq.CostBasis)
	assert.Equal(t, 75.0, tqqq.RealizedPnL)
	assert.Equal(t, 3, tqqq.Trades)

	soxl := got[1]
	assert.Zero(t, soxl.Quantity)
	assert.Zero(t, soxl.AvgPrice)
	assert.Equal(t, -20.0, soxl.RealizedPnL)
}

func TestJournal_ListAndDelete(t *testing.T) {
	j, path := newTestJournal(t)
	for i, sym := range []string{"AAPL", "MSFT", "AAPL", "AAPL"} {
		_, err := j.Add(model.SideBuy, sym, 1, float64(100+i), "")
		require.NoError(t, err)
	}

	aapl := j.List("aapl", 2)
	require.Len(t, aapl, 2)
	assert.Equal(t, []int{3, 4}, []int{aapl[0].ID, aapl[1].ID})
	assert.Len(t, j.List("", 0), 4)

	require.NoError(t, j.Delete(2))
	assert.ErrorIs(t, j.Delete(2), ErrTradeNotFound)
	assert.Empty(t, j.List("MSFT", 0))

	// Ids keep increasing after a delete.
	tr, err := j.Add(model.SideBuy, "MSFT", 1, 300, "")
	require.NoError(t, err)
	assert.Equal(t, 5, tr.ID)

	reloaded, err := NewJournal(path)
	require.NoError(t, err)
	assert.Len(t, reloaded.List("", 0), 4)
}

func TestNewJournal_MalformedFile(t *testing.T) {
	_, err := NewJournal(writeFile(t, "trades.json", `{"trades": [`))
	assert.ErrorIs(t, err, model.ErrConfiguration)
}
