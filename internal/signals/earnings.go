package signals

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/amtrading0706/us-whisperer-pro/internal/clients/yahoo"
	"github.com/amtrading0706/us-whisperer-pro/internal/domain"
	"github.com/amtrading0706/us-whisperer-pro/internal/events"
	"github.com/amtrading0706/us-whisperer-pro/internal/universe"
	"github.com/amtrading0706/us-whisperer-pro/pkg/formulas"
)

// EarningsSource returns raw earnings-calendar rows for a trading day.
type EarningsSource interface {
	EarningsToday(ctx context.Context, day time.Time) ([]yahoo.EarningsRow, error)
}

// EarningsPipeline turns the earnings calendar into classified signal
// records: universe filter, surprise scoring, threshold classification,
// price-move enrichment.
type EarningsPipeline struct {
	source   EarningsSource
	universe *universe.Universe
	confirm  *Confirmator
	events   *events.Manager
	validate *validator.Validate
	log      zerolog.Logger
}

// NewEarningsPipeline creates a new earnings pipeline
func NewEarningsPipeline(source EarningsSource, u *universe.Universe, confirm *Confirmator, ev *events.Manager, log zerolog.Logger) *EarningsPipeline {
	return &EarningsPipeline{
		source:   source,
		universe: u,
		confirm:  confirm,
		events:   ev,
		validate: validator.New(),
		log:      log.With().Str("pipeline", "earnings").Logger(),
	}
}

// Scan runs the pipeline once for today's calendar. A retrieval failure
// yields an empty result set, never an error.
func (p *EarningsPipeline) Scan(ctx context.Context) []domain.EarningsRecord {
	rows, err := p.source.EarningsToday(ctx, time.Now())
	if err != nil {
		p.events.EmitFeedError("earnings", err, map[string]interface{}{"stage": "fetch"})
		return []domain.EarningsRecord{}
	}

	records := make([]domain.EarningsRecord, 0, len(rows))
	for _, row := range rows {
		if rec, ok := p.normalize(row); ok {
			records = append(records, rec)
		}
	}

	symbols := make([]string, len(records))
	for i, rec := range records {
		symbols[i] = rec.Symbol
	}
	moves := p.confirm.ConfirmAll(ctx, symbols)
	for i := range records {
		records[i].PriceMovePct = moves[i]
	}

	p.log.Info().Int("raw", len(rows)).Int("classified", len(records)).Msg("Earnings scan complete")
	return records
}

// normalize filters, scores and classifies one raw calendar row. Any
// failure only drops that row.
func (p *EarningsPipeline) normalize(row yahoo.EarningsRow) (rec domain.EarningsRecord, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Str("symbol", row.Symbol).Msg("Earnings record processing panicked")
			ok = false
		}
	}()

	if !p.universe.Contains(row.Symbol) {
		return rec, false
	}

	surprise, err := EarningsSurprisePct(row.EstimatedEPS, row.ReportedEPS)
	if err != nil {
		p.log.Debug().Str("symbol", row.Symbol).Msg("Skipping row with zero EPS estimate")
		return rec, false
	}

	rec = domain.EarningsRecord{
		Symbol:       row.Symbol,
		Company:      row.Company,
		EstimatedEPS: row.EstimatedEPS,
		ReportedEPS:  row.ReportedEPS,
		SurprisePct:  formulas.Round(surprise, 1),
		Signal:       ClassifyEarnings(surprise),
	}
	if err := p.validate.Struct(rec); err != nil {
		p.log.Warn().Err(err).Str("symbol", row.Symbol).Msg("Dropping incomplete earnings record")
		return rec, false
	}
	return rec, true
}
