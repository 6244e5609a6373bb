package model

// Holding is one portfolio position.
type Holding struct {
	Symbol   string  `json:"symbol" yaml:"symbol" toml:"symbol" validate:"required"`
	Name     string  `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Quantity float64 `json:"quantity,omitempty" yaml:"quantity,omitempty" toml:"quantity,omitempty" validate:"gte=0"`
	Market   string  `json:"market,omitempty" yaml:"market,omitempty" toml:"market,omitempty"`
}
