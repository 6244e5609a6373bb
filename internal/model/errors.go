package model

import (
	"errors"
	"fmt"
)

var (
	// ErrDataUnavailable means the provider returned nothing usable for a symbol.
	ErrDataUnavailable = errors.New("data unavailable")
	// ErrInsufficientHistory means a series is shorter than an indicator window.
	ErrInsufficientHistory = errors.New("insufficient history")
	// ErrConfiguration is the only error class that aborts a whole run.
	ErrConfiguration = errors.New("configuration error")
)

// SymbolError records a failure isolated to one symbol.
type SymbolError struct {
	Symbol string
	Err    error
}

func (e *SymbolError) Error() string { return fmt.Sprintf("%s: %v", e.Symbol, e.Err) }

func (e *SymbolError) Unwrap() error { return e.Err }

// Kind returns a short label for reports.
func (e *SymbolError) Kind() string {
	switch {
	case errors.Is(e.Err, ErrDataUnavailable):
		return "DATA_UNAVAILABLE"
	case errors.Is(e.Err, ErrInsufficientHistory):
		return "INSUFFICIENT_HISTORY"
	case errors.Is(e.Err, ErrConfiguration):
		return "CONFIGURATION"
	default:
		return "UNKNOWN"
	}
}
