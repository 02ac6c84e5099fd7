package signals

import (
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/amtrading0706/us-whisperer-pro/internal/domain"
)

// ScanResult is the outcome of one pipeline invocation. Exactly one of the
// record slices is populated, matching Kind.
type ScanResult struct {
	ScanID   string                  `json:"scan_id"`
	Kind     domain.SourceKind       `json:"kind"`
	At       time.Time               `json:"at"`
	Earnings []domain.EarningsRecord `json:"earnings,omitempty"`
	Filings  []domain.FilingRecord   `json:"filings,omitempty"`
	Insiders []domain.InsiderRecord  `json:"insiders,omitempty"`
	Summary  *ScoreSummary           `json:"summary,omitempty"`
}

// Count returns the number of records in the result.
func (r ScanResult) Count() int {
	switch r.Kind {
	case domain.SourceEarnings:
		return len(r.Earnings)
	case domain.SourceFiling:
		return len(r.Filings)
	case domain.SourceInsider:
		return len(r.Insiders)
	}
	return 0
}

// SnapshotStore holds the latest scan result per source kind for display.
// Nothing is persisted; state lives for the process lifetime only.
type SnapshotStore struct {
	mu     sync.RWMutex
	latest map[domain.SourceKind]ScanResult
	log    zerolog.Logger
}

// NewSnapshotStore creates a new snapshot store
func NewSnapshotStore(log zerolog.Logger) *SnapshotStore {
	return &SnapshotStore{
		latest: make(map[domain.SourceKind]ScanResult),
		log:    log.With().Str("component", "snapshot_store").Logger(),
	}
}

// Set replaces the stored result for the result's kind.
func (s *SnapshotStore) Set(result ScanResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.latest[result.Kind] = result
	s.log.Debug().
		Str("kind", string(result.Kind)).
		Str("scan_id", result.ScanID).
		Int("records", result.Count()).
		Msg("Snapshot updated")
}

// Get returns the latest result for a kind, if any scan has completed.
func (s *SnapshotStore) Get(kind domain.SourceKind) (ScanResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.latest[kind]
	return result, ok
}
