package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/amtrading0706/us-whisperer-pro/internal/signals"
)

// RefreshJob re-runs all three signal scans so the latest snapshots stay
// warm without anyone clicking. Each run gets its own deadline; a slow or
// failing feed only costs that scan, the others still refresh.
type RefreshJob struct {
	service *signals.Service
	timeout time.Duration
	log     zerolog.Logger
}

// NewRefreshJob creates a new snapshot refresh job
func NewRefreshJob(service *signals.Service, timeout time.Duration, log zerolog.Logger) *RefreshJob {
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	return &RefreshJob{
		service: service,
		timeout: timeout,
		log:     log.With().Str("job", "signal_refresh").Logger(),
	}
}

// Name implements Job
func (j *RefreshJob) Name() string {
	return "signal_refresh"
}

// Run implements Job
func (j *RefreshJob) Run() error {
	started := time.Now()

	scans := []struct {
		name string
		run  func(context.Context) signals.ScanResult
	}{
		{"earnings", j.service.ScanEarnings},
		{"filings", j.service.ScanFilings},
		{"insiders", j.service.ScanInsiders},
	}

	for _, scan := range scans {
		ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
		result := scan.run(ctx)
		cancel()
		j.log.Debug().Str("scan", scan.name).Int("records", result.Count()).Msg("Snapshot refreshed")
	}

	j.log.Info().Dur("took", time.Since(started)).Msg("Signal refresh complete")
	return nil
}
