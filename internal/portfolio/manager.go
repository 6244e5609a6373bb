package portfolio

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"PortfolioSentinel/internal/model"
)

// ErrNotFound is returned when removing a holding that does not exist.
var ErrNotFound = errors.New("holding not found")

// ErrExists is returned when adding a holding that is already present.
var ErrExists = errors.New("holding already exists")

// Manager edits the holdings file with concurrency safety.
type Manager struct {
	mu       sync.Mutex
	holdings []model.Holding
	filePath string
}

// NewManager loads the holdings file. A missing file starts empty.
func NewManager(filePath string) (*Manager, error) {
	m := &Manager{filePath: filePath}
	if _, err := os.Stat(filePath); errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	holdings, err := read(filePath)
	if err != nil {
		return nil, err
	}
	m.holdings = holdings
	return m, nil
}

// List returns a copy of the holdings.
func (m *Manager) List() []model.Holding {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Holding(nil), m.holdings...)
}

// Add appends a holding and saves the file.
func (m *Manager) Add(h model.Holding) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	h = normalize([]model.Holding{h}, DefaultMarket)[0]
	for _, existing := range m.holdings {
		if existing.Market == h.Market && existing.Symbol == h.Symbol {
			return fmt.Errorf("%s (%s): %w", h.Symbol, h.Market, ErrExists)
		}
	}
	next := append(append([]model.Holding(nil), m.holdings...), h)
	if err := Validate(next); err != nil {
		return err
	}
	if err := Save(m.filePath, next); err != nil {
		return fmt.Errorf("save holdings: %w", err)
	}
	m.holdings = next
	log.Info().Str("symbol", h.Symbol).Str("market", h.Market).Msg("holding added")
	return nil
}

// Remove deletes a holding from a market and saves the file.
func (m *Manager) Remove(symbol, market string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if market == "" {
		market = DefaultMarket
	}
	market = strings.ToLower(market)

	next := make([]model.Holding, 0, len(m.holdings))
	for _, h := range m.holdings {
		if h.Symbol == symbol && h.Market == market {
			continue
		}
		next = append(next, h)
	}
	if len(next) == len(m.holdings) {
		return fmt.Errorf("%s (%s): %w", symbol, market, ErrNotFound)
	}
	if err := Save(m.filePath, next); err != nil {
		return fmt.Errorf("save holdings: %w", err)
	}
	m.holdings = next
	log.Info().Str("symbol", symbol).Str("market", market).Msg("holding removed")
	return nil
}
