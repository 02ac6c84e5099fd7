package signals

import (
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amtrading0706/us-whisperer-pro/internal/domain"
)

func TestSnapshotStore_SetAndGet(t *testing.T) {
	store := NewSnapshotStore(zerolog.Nop())

	_, ok := store.Get(domain.SourceEarnings)
	assert.False(t, ok)

	store.Set(ScanResult{ScanID: "a", Kind: domain.SourceEarnings, At: time.Now()})
	store.Set(ScanResult{ScanID: "b", Kind: domain.SourceEarnings, At: time.Now()})

	result, ok := store.Get(domain.SourceEarnings)
	require.True(t, ok)
	assert.Equal(t, "b", result.ScanID)

	_, ok = store.Get(domain.SourceFiling)
	assert.False(t, ok)
}

func TestSnapshotStore_ConcurrentAccess(t *testing.T) {
	store := NewSnapshotStore(zerolog.Nop())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			store.Set(ScanResult{ScanID: "x", Kind: domain.SourceInsider})
		}()
		go func() {
			defer wg.Done()
			store.Get(domain.SourceInsider)
		}()
	}
	wg.Wait()

	_, ok := store.Get(domain.SourceInsider)
	assert.True(t, ok)
}

func TestScanResult_Count(t *testing.T) {
	tests := []struct {
		name   string
		result ScanResult
		want   int
	}{
		{"earnings", ScanResult{Kind: domain.SourceEarnings, Earnings: make([]domain.EarningsRecord, 3)}, 3},
		{"filings", ScanResult{Kind: domain.SourceFiling, Filings: make([]domain.FilingRecord, 2)}, 2},
		{"insiders", ScanResult{Kind: domain.SourceInsider, Insiders: make([]domain.InsiderRecord, 1)}, 1},
		{"unknown kind", ScanResult{Kind: "other"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.Count())
		})
	}
}
