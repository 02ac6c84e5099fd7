package universe

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContains_ExactCaseSensitiveMatch(t *testing.T) {
	u := New()

	tests := []struct {
		name   string
		symbol string
		want   bool
	}{
		{"tracked ticker", "AAPL", true},
		{"tracked ticker with class suffix", "BRK.B", true},
		{"lowercase is not a member", "aapl", false},
		{"leading whitespace is not a member", " AAPL", false},
		{"untracked ticker", "GME", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, u.Contains(tt.symbol))
		})
	}
}

func TestNew_ExtraSymbols(t *testing.T) {
	u := New("SHOP", "", "UBER")

	assert.True(t, u.Contains("SHOP"))
	assert.True(t, u.Contains("UBER"))
	assert.False(t, u.Contains(""))
	assert.Equal(t, len(sp500)+2, u.Size())
}

func TestSymbols_SortedCopy(t *testing.T) {
	u := New()

	symbols := u.Symbols()
	assert.Len(t, symbols, u.Size())
	assert.True(t, sort.StringsAreSorted(symbols))

	// Mutating the returned slice must not affect the universe.
	symbols[0] = "ZZZZ"
	assert.False(t, u.Contains("ZZZZ"))
}
