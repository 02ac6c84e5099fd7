package signals

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakePriceSource serves canned closes per symbol and can be told to fail
// or panic for specific symbols.
type fakePriceSource struct {
	closes map[string][]float64
	fail   map[string]bool
	panics map[string]bool
}

func (f *fakePriceSource) LastTwoCloses(_ context.Context, symbol string) ([]float64, error) {
	if f.panics[symbol] {
		panic("lookup exploded")
	}
	if f.fail[symbol] {
		return nil, errors.New("network down")
	}
	return f.closes[symbol], nil
}

func TestPriceMove(t *testing.T) {
	tests := []struct {
		name    string
		closes  []float64
		want    float64
		wantErr error
	}{
		{"two closes", []float64{100.0, 105.0}, 5.0, nil},
		{"flat is a valid zero move", []float64{100.0, 100.0}, 0.0, nil},
		{"down move", []float64{200.0, 190.0}, -5.0, nil},
		{"rounded to two decimals", []float64{3.0, 3.1}, 3.33, nil},
		{"single close", []float64{100.0}, 0, ErrNoPriceData},
		{"no closes", nil, 0, ErrNoPriceData},
		{"zero previous close", []float64{0, 105.0}, 0, ErrNoPriceData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &fakePriceSource{closes: map[string][]float64{"AAPL": tt.closes}}
			c := NewConfirmator(src, 4, zerolog.Nop())

			got, err := c.PriceMove(context.Background(), "AAPL")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfirmAll_FaultIsolation(t *testing.T) {
	src := &fakePriceSource{
		closes: map[string][]float64{
			"AAPL": {100.0, 105.0},
			"MSFT": {400.0, 398.0},
		},
		fail:   map[string]bool{"JPM": true},
		panics: map[string]bool{"GS": true},
	}
	c := NewConfirmator(src, 2, zerolog.Nop())

	moves := c.ConfirmAll(context.Background(), []string{"AAPL", "JPM", "GS", "MSFT"})

	require.Len(t, moves, 4)
	require.NotNil(t, moves[0])
	assert.Equal(t, 5.0, *moves[0])
	assert.Nil(t, moves[1]) // failed lookup stays missing
	assert.Nil(t, moves[2]) // panicked lookup stays missing
	require.NotNil(t, moves[3])
	assert.Equal(t, -0.5, *moves[3])
}

func TestConfirmAll_Empty(t *testing.T) {
	c := NewConfirmator(&fakePriceSource{}, 2, zerolog.Nop())
	assert.Empty(t, c.ConfirmAll(context.Background(), nil))
}
