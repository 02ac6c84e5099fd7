package signals

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/amtrading0706/us-whisperer-pro/pkg/formulas"
)

// PriceSource returns recent daily closes for a symbol, oldest first.
type PriceSource interface {
	LastTwoCloses(ctx context.Context, symbol string) ([]float64, error)
}

// ErrNoPriceData marks a symbol with fewer than two usable closes. The
// confirmation is reported as missing, never as zero.
var ErrNoPriceData = errors.New("fewer than two closes available")

// Confirmator computes the short-horizon price-move confirmation attached
// to classified records. It is advisory only: a failed lookup leaves the
// record's signal untouched.
type Confirmator struct {
	prices  PriceSource
	workers int
	log     zerolog.Logger
}

// NewConfirmator creates a new price-move confirmator
func NewConfirmator(prices PriceSource, workers int, log zerolog.Logger) *Confirmator {
	if workers < 1 {
		workers = 1
	}
	return &Confirmator{
		prices:  prices,
		workers: workers,
		log:     log.With().Str("component", "confirmator").Logger(),
	}
}

// PriceMove returns the percent change between the two most recent closes,
// rounded to two decimal places.
func (c *Confirmator) PriceMove(ctx context.Context, symbol string) (float64, error) {
	closes, err := c.prices.LastTwoCloses(ctx, symbol)
	if err != nil {
		return 0, err
	}
	if len(closes) < 2 {
		return 0, ErrNoPriceData
	}

	prev := closes[len(closes)-2]
	last := closes[len(closes)-1]
	if prev == 0 {
		return 0, ErrNoPriceData
	}
	return formulas.Round(formulas.PercentChange(prev, last), 2), nil
}

// ConfirmAll looks up price moves for all symbols concurrently, bounded by
// the worker count. The result is index-aligned with symbols; a nil entry
// means the confirmation was unavailable. Each lookup is fault-isolated:
// an error or panic in one never affects its siblings.
func (c *Confirmator) ConfirmAll(ctx context.Context, symbols []string) []*float64 {
	out := make([]*float64, len(symbols))
	sem := make(chan struct{}, c.workers)
	var wg sync.WaitGroup

	for i, symbol := range symbols {
		wg.Add(1)
		go func(i int, symbol string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					c.log.Error().Interface("panic", r).Str("symbol", symbol).Msg("Price-move lookup panicked")
				}
			}()

			sem <- struct{}{}
			defer func() { <-sem }()

			move, err := c.PriceMove(ctx, symbol)
			if err != nil {
				c.log.Debug().Err(err).Str("symbol", symbol).Msg("Price-move confirmation unavailable")
				return
			}
			out[i] = &move
		}(i, symbol)
	}

	wg.Wait()
	return out
}
