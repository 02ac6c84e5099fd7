package signals

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/amtrading0706/us-whisperer-pro/internal/domain"
	"github.com/amtrading0706/us-whisperer-pro/internal/events"
)

// Service runs the three scan pipelines and keeps their latest snapshots.
// Scans are synchronous and independent; re-invocation while a prior run is
// in flight is not guarded against.
type Service struct {
	earnings *EarningsPipeline
	filings  *FilingsPipeline
	insiders *InsidersPipeline
	store    *SnapshotStore
	events   *events.Manager
	log      zerolog.Logger
}

// NewService creates a new signals service
func NewService(earnings *EarningsPipeline, filings *FilingsPipeline, insiders *InsidersPipeline, store *SnapshotStore, ev *events.Manager, log zerolog.Logger) *Service {
	return &Service{
		earnings: earnings,
		filings:  filings,
		insiders: insiders,
		store:    store,
		events:   ev,
		log:      log.With().Str("service", "signals").Logger(),
	}
}

// ScanEarnings runs the earnings pipeline and stores its snapshot.
func (s *Service) ScanEarnings(ctx context.Context) ScanResult {
	s.events.Emit(events.ScanStarted, "earnings", nil)

	records := s.earnings.Scan(ctx)
	scores := make([]float64, len(records))
	for i, rec := range records {
		scores[i] = rec.SurprisePct
	}

	result := ScanResult{
		ScanID:   uuid.NewString(),
		Kind:     domain.SourceEarnings,
		At:       time.Now().UTC(),
		Earnings: records,
		Summary:  Summarize(scores),
	}
	s.finish(result)
	return result
}

// ScanFilings runs the filings pipeline and stores its snapshot.
func (s *Service) ScanFilings(ctx context.Context) ScanResult {
	s.events.Emit(events.ScanStarted, "filings", nil)

	records := s.filings.Scan(ctx)
	scores := make([]float64, len(records))
	for i, rec := range records {
		scores[i] = rec.Score
	}

	result := ScanResult{
		ScanID:  uuid.NewString(),
		Kind:    domain.SourceFiling,
		At:      time.Now().UTC(),
		Filings: records,
		Summary: Summarize(scores),
	}
	s.finish(result)
	return result
}

// ScanInsiders runs the insiders pipeline and stores its snapshot.
func (s *Service) ScanInsiders(ctx context.Context) ScanResult {
	s.events.Emit(events.ScanStarted, "insiders", nil)

	result := ScanResult{
		ScanID:   uuid.NewString(),
		Kind:     domain.SourceInsider,
		At:       time.Now().UTC(),
		Insiders: s.insiders.Scan(ctx),
	}
	s.finish(result)
	return result
}

// Latest returns the most recent stored result for a kind.
func (s *Service) Latest(kind domain.SourceKind) (ScanResult, bool) {
	return s.store.Get(kind)
}

func (s *Service) finish(result ScanResult) {
	s.store.Set(result)
	s.events.Emit(events.ScanCompleted, string(result.Kind), map[string]interface{}{
		"scan_id": result.ScanID,
		"records": result.Count(),
	})
}
