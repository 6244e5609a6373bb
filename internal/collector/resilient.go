package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"PortfolioSentinel/internal/model"
)

// Observer receives the outcome of every provider call.
type Observer func(provider, op string, elapsed time.Duration, err error)

// ResilientFetcher guards a provider with a circuit breaker so an outage
// fails remaining symbols fast instead of waiting on timeouts.
type ResilientFetcher struct {
	next     Fetcher
	cb       *gobreaker.CircuitBreaker
	observer Observer
}

// NewResilientFetcher trips after `failures` consecutive provider errors and
// lets a trial request through after `cooldown`.
func NewResilientFetcher(next Fetcher, failures uint32, cooldown time.Duration, observer Observer) *ResilientFetcher {
	st := gobreaker.Settings{Name: next.Name()}
	st.ReadyToTrip = func(counts gobreaker.Counts) bool { return counts.ConsecutiveFailures >= failures }
	st.Timeout = cooldown
	// A symbol the provider does not know is not an outage.
	st.IsSuccessful = func(err error) bool {
		return err == nil || errors.Is(err, model.ErrDataUnavailable) || errors.Is(err, context.Canceled)
	}
	return &ResilientFetcher{next: next, cb: gobreaker.NewCircuitBreaker(st), observer: observer}
}

func (f *ResilientFetcher) Name() string { return f.next.Name() }

// State reports the breaker state, for logs and health checks.
func (f *ResilientFetcher) State() string { return f.cb.State().String() }

func (f *ResilientFetcher) call(op string, fn func() (interface{}, error)) (interface{}, error) {
	start := time.Now()
	out, err := f.cb.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		err = fmt.Errorf("%s breaker %s: %w", f.next.Name(), f.cb.State(), model.ErrDataUnavailable)
	}
	if f.observer != nil {
		f.observer(f.next.Name(), op, time.Since(start), err)
	}
	return out, err
}

func (f *ResilientFetcher) FetchDailyBars(ctx context.Context, symbol string, days int) ([]model.PriceBar, error) {
	out, err := f.call("bars", func() (interface{}, error) {
		return f.next.FetchDailyBars(ctx, symbol, days)
	})
	if err != nil {
		return nil, err
	}
	return out.([]model.PriceBar), nil
}

func (f *ResilientFetcher) FetchFundamentals(ctx context.Context, symbol string) (*model.FundamentalSnapshot, error) {
	out, err := f.call("fundamentals", func() (interface{}, error) {
		return f.next.FetchFundamentals(ctx, symbol)
	})
	if err != nil {
		return nil, err
	}
	return out.(*model.FundamentalSnapshot), nil
}
