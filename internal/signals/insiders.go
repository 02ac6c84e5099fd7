package signals

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/amtrading0706/us-whisperer-pro/internal/clients/openinsider"
	"github.com/amtrading0706/us-whisperer-pro/internal/domain"
	"github.com/amtrading0706/us-whisperer-pro/internal/events"
	"github.com/amtrading0706/us-whisperer-pro/internal/universe"
)

// InsiderSource returns raw open-market purchase disclosures, most recent
// first. The source guarantees the trade-type filter; no other transaction
// type may reach this pipeline.
type InsiderSource interface {
	RecentPurchases(ctx context.Context) ([]openinsider.Purchase, error)
}

// InsidersPipeline turns insider purchase disclosures into signal records.
// There is no continuous score here: every admitted purchase carries the
// fixed BUY_INSIDER label and is enriched with a price-move confirmation.
type InsidersPipeline struct {
	source   InsiderSource
	universe *universe.Universe
	confirm  *Confirmator
	events   *events.Manager
	validate *validator.Validate
	log      zerolog.Logger
}

// NewInsidersPipeline creates a new insiders pipeline
func NewInsidersPipeline(source InsiderSource, u *universe.Universe, confirm *Confirmator, ev *events.Manager, log zerolog.Logger) *InsidersPipeline {
	return &InsidersPipeline{
		source:   source,
		universe: u,
		confirm:  confirm,
		events:   ev,
		validate: validator.New(),
		log:      log.With().Str("pipeline", "insiders").Logger(),
	}
}

// Scan runs the pipeline once over the latest disclosures. A retrieval
// failure yields an empty result set, never an error.
func (p *InsidersPipeline) Scan(ctx context.Context) []domain.InsiderRecord {
	purchases, err := p.source.RecentPurchases(ctx)
	if err != nil {
		p.events.EmitFeedError("insiders", err, map[string]interface{}{"stage": "fetch"})
		return []domain.InsiderRecord{}
	}

	records := make([]domain.InsiderRecord, 0, len(purchases))
	for _, purchase := range purchases {
		if rec, ok := p.normalize(purchase); ok {
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

	p.log.Info().Int("raw", len(purchases)).Int("classified", len(records)).Msg("Insiders scan complete")
	return records
}

func (p *InsidersPipeline) normalize(purchase openinsider.Purchase) (rec domain.InsiderRecord, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Str("symbol", purchase.Symbol).Msg("Insider record processing panicked")
			ok = false
		}
	}()

	if !p.universe.Contains(purchase.Symbol) {
		return rec, false
	}

	rec = domain.InsiderRecord{
		Symbol:      purchase.Symbol,
		TradeDate:   purchase.TradeDate,
		InsiderName: purchase.InsiderName,
		Price:       purchase.Price,
		Quantity:    purchase.Quantity,
		Value:       purchase.Value,
		Signal:      ClassifyInsider(),
	}
	if err := p.validate.Struct(rec); err != nil {
		p.log.Warn().Err(err).Str("symbol", purchase.Symbol).Msg("Dropping incomplete insider record")
		return rec, false
	}
	return rec, true
}
