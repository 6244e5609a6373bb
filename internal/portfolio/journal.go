package portfolio

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"PortfolioSentinel/internal/model"
)

var (
	// ErrTradeNotFound is returned when deleting an unknown trade id.
	ErrTradeNotFound = errors.New("trade not found")
	// ErrOversold is returned when a sell exceeds the journaled quantity.
	ErrOversold = errors.New("sell exceeds position")
)

type journalDoc struct {
	Trades []model.Trade `json:"trades"`
}

// Journal is the manual trade log, kept as a JSON file.
type Journal struct {
	mu       sync.Mutex
	trades   []model.Trade
	filePath string
	now      func() time.Time
}

// NewJournal loads the journal file. A missing file starts empty.
func NewJournal(filePath string) (*Journal, error) {
	j := &Journal{filePath: filePath, now: time.Now}
	data, err := os.ReadFile(filePath)
	if errors.Is(err, os.ErrNotExist) {
		return j, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	var doc journalDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse journal %s: %w: %w", filePath, model.ErrConfiguration, err)
	}
	j.trades = doc.Trades
	return j, nil
}

// Add records a fill and saves the journal. Sells may not exceed the
// quantity bought so far.
func (j *Journal) Add(side model.TradeSide, symbol string, quantity, price float64, memo string) (model.Trade, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	t := model.Trade{
		ID:       j.nextID(),
		Time:     j.now().UTC().Truncate(time.Second),
		Side:     model.TradeSide(strings.ToUpper(string(side))),
		Symbol:   strings.ToUpper(strings.TrimSpace(symbol)),
		Quantity: quantity,
		Price:    price,
		Total:    decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(price)).Round(2).InexactFloat64(),
		Memo:     memo,
	}
	if err := validate.Struct(t); err != nil {
		return model.Trade{}, fmt.Errorf("%w: %w", model.ErrConfiguration, err)
	}
	if t.Side == model.SideSell {
		held := decimal.Zero
		if p, ok := positions(j.trades)[t.Symbol]; ok {
			held = p.qty
		}
		if decimal.NewFromFloat(quantity).GreaterThan(held) {
			return model.Trade{}, fmt.Errorf("%s: selling %g of %s: %w", t.Symbol, quantity, held, ErrOversold)
		}
	}

	next := append(append([]model.Trade(nil), j.trades...), t)
	if err := j.save(next); err != nil {
		return model.Trade{}, err
	}
	j.trades = next
	log.Info().Int("id", t.ID).Str("side", string(t.Side)).Str("symbol", t.Symbol).
		Float64("quantity", quantity).Float64("price", price).Msg("trade recorded")
	return t, nil
}

// List returns the last `limit` trades, oldest first, optionally for one symbol.
// limit <= 0 returns them all.
func (j *Journal) List(symbol string, limit int) []model.Trade {
	j.mu.Lock()
	defer j.mu.Unlock()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	var out []model.Trade
	for _, t := range j.trades {
		if symbol == "" || t.Symbol == symbol {
			out = append(out, t)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	return out
}

// Delete removes a trade by id and saves the journal.
func (j *Journal) Delete(id int) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	next := make([]model.Trade, 0, len(j.trades))
	for _, t := range j.trades {
		if t.ID != id {
			next = append(next, t)
		}
	}
	if len(next) == len(j.trades) {
		return fmt.Errorf("id %d: %w", id, ErrTradeNotFound)
	}
	if err := j.save(next); err != nil {
		return err
	}
	j.trades = next
	log.Info().Int("id", id).Msg("trade deleted")
	return nil
}

// Positions replays the journal with average-cost accounting and returns the
// open positions sorted by symbol. Closed positions are kept when they
// realized a gain or loss.
func (j *Journal) Positions() []model.Position {
	j.mu.Lock()
	defer j.mu.Unlock()

	var out []model.Position
	for sym, p := range positions(j.trades) {
		if p.qty.IsZero() && p.realized.IsZero() {
			continue
		}
		pos := model.Position{
			Symbol:      sym,
			Quantity:    p.qty.InexactFloat64(),
			CostBasis:   p.cost.Round(2).InexactFloat64(),
			RealizedPnL: p.realized.Round(2).InexactFloat64(),
			Trades:      p.trades,
		}
		if p.qty.IsPositive() {
			pos.AvgPrice = p.cost.Div(p.qty).Round(4).InexactFloat64()
		}
		out = append(out, pos)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Symbol < out[b].Symbol })
	return out
}

type book struct {
	qty, cost, realized decimal.Decimal
	trades              int
}

func positions(trades []model.Trade) map[string]*book {
	books := make(map[string]*book)
	for _, t := range trades {
		b, ok := books[t.Symbol]
		if !ok {
			b = &book{}
			books[t.Symbol] = b
		}
		b.trades++
		qty := decimal.NewFromFloat(t.Quantity)
		price := decimal.NewFromFloat(t.Price)
		switch t.Side {
		case model.SideBuy:
			b.qty = b.qty.Add(qty)
			b.cost = b.cost.Add(qty.Mul(price))
		case model.SideSell:
			if !b.qty.IsPositive() {
				continue
			}
			avg := b.cost.Div(b.qty)
			b.realized = b.realized.Add(price.Sub(avg).Mul(qty))
			b.cost = b.cost.Sub(avg.Mul(qty))
			b.qty = b.qty.Sub(qty)
		}
	}
	return books
}

func (j *Journal) nextID() int {
	last := 0
	for _, t := range j.trades {
		if t.ID > last {
			last = t.ID
		}
	}
	return last + 1
}

func (j *Journal) save(trades []model.Trade) error {
	data, err := json.MarshalIndent(journalDoc{Trades: trades}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode journal: %w", err)
	}
	if dir := filepath.Dir(j.filePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(j.filePath, data, 0644)
}
