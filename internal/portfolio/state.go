// Package portfolio loads, validates and edits the holdings file.
package portfolio

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"PortfolioSentinel/internal/model"
)

// DefaultMarket is used for holdings listed without a market.
const DefaultMarket = "us"

// document is the on-disk shape: holdings grouped by market.
type document struct {
	Holdings  map[string][]model.Holding `json:"holdings" yaml:"holdings" toml:"holdings"`
	UpdatedAt time.Time                  `json:"updated_at" yaml:"updated_at" toml:"updated_at"`
}

var validate = validator.New()

// Load reads and validates holdings. The file may be JSON, YAML or TOML, and
// may hold a bare list, {"holdings": [...]}, or holdings grouped by market.
// A missing, empty or malformed file is a configuration error.
func Load(filePath string) ([]model.Holding, error) {
	holdings, err := read(filePath)
	if err != nil {
		return nil, err
	}
	if len(holdings) == 0 {
		return nil, fmt.Errorf("%s has no holdings: %w", filePath, model.ErrConfiguration)
	}
	if err := Validate(holdings); err != nil {
		return nil, fmt.Errorf("%s: %w", filePath, err)
	}
	return holdings, nil
}

// read parses the file without the non-empty check.
func read(filePath string) ([]model.Holding, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read holdings: %w: %w", model.ErrConfiguration, err)
	}
	data, err = toJSON(filePath, data)
	if err != nil {
		return nil, fmt.Errorf("parse holdings %s: %w: %w", filePath, model.ErrConfiguration, err)
	}
	holdings, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("parse holdings %s: %w: %w", filePath, model.ErrConfiguration, err)
	}
	return holdings, nil
}

// toJSON normalizes YAML and TOML into JSON so one decoder handles every shape.
func toJSON(filePath string, data []byte) ([]byte, error) {
	var generic interface{}
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return nil, err
		}
	case ".toml":
		var m map[string]interface{}
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		generic = m
	default:
		return data, nil
	}
	return json.Marshal(generic)
}

func decode(data []byte) ([]model.Holding, error) {
	var list []model.Holding
	if err := json.Unmarshal(data, &list); err == nil {
		return normalize(list, DefaultMarket), nil
	}

	var wrapper struct {
		Holdings json.RawMessage `json:"holdings"`
	}
	if err := json.Unmarshal(data, &wrapper); err != nil {
		return nil, err
	}
	if len(wrapper.Holdings) == 0 || string(wrapper.Holdings) == "null" {
		return nil, nil
	}
	if err := json.Unmarshal(wrapper.Holdings, &list); err == nil {
		return normalize(list, DefaultMarket), nil
	}

	var grouped map[string][]model.Holding
	if err := json.Unmarshal(wrapper.Holdings, &grouped); err != nil {
		return nil, errors.New("holdings must be a list or a map of market to list")
	}
	markets := make([]string, 0, len(grouped))
	for m := range grouped {
		markets = append(markets, m)
	}
	sort.Strings(markets)
	var out []model.Holding
	for _, m := range markets {
		out = append(out, normalize(grouped[m], m)...)
	}
	return out, nil
}

func normalize(list []model.Holding, market string) []model.Holding {
	out := make([]model.Holding, len(list))
	for i, h := range list {
		h.Symbol = strings.ToUpper(strings.TrimSpace(h.Symbol))
		if h.Market == "" {
			h.Market = market
		}
		h.Market = strings.ToLower(h.Market)
		out[i] = h
	}
	return out
}

// Validate checks every holding and rejects duplicate symbols within a market.
func Validate(holdings []model.Holding) error {
	var errs []error
	seen := make(map[string]bool)
	for i, h := range holdings {
		if err := validate.Struct(h); err != nil {
			errs = append(errs, fmt.Errorf("holding %d (%q): %w", i, h.Symbol, err))
			continue
		}
		key := h.Market + "/" + h.Symbol
		if seen[key] {
			errs = append(errs, fmt.Errorf("duplicate holding %s in market %s", h.Symbol, h.Market))
		}
		seen[key] = true
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("%w: %w", model.ErrConfiguration, err)
	}
	return nil
}

// Save writes holdings grouped by market in the format implied by the extension.
func Save(filePath string, holdings []model.Holding) error {
	doc := document{Holdings: make(map[string][]model.Holding), UpdatedAt: time.Now().UTC()}
	for _, h := range holdings {
		market := h.Market
		if market == "" {
			market = DefaultMarket
		}
		h.Market = ""
		doc.Holdings[market] = append(doc.Holdings[market], h)
	}

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(doc)
	case ".toml":
		data, err = toml.Marshal(doc)
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("encode holdings: %w", err)
	}
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0644)
}
