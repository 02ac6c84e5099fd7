package signals

import (
	"context"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/amtrading0706/us-whisperer-pro/internal/clients/edgar"
	"github.com/amtrading0706/us-whisperer-pro/internal/clients/sentiment"
	"github.com/amtrading0706/us-whisperer-pro/internal/domain"
	"github.com/amtrading0706/us-whisperer-pro/internal/events"
	"github.com/amtrading0706/us-whisperer-pro/internal/universe"
	"github.com/amtrading0706/us-whisperer-pro/pkg/formulas"
)

// FilingSource returns raw 8-K filing entries.
type FilingSource interface {
	RecentFilings(ctx context.Context) ([]edgar.Filing, error)
}

// SentimentAnalyzer infers a sentiment label and confidence for a short
// text. The implementation is expected to truncate over-long inputs and to
// hold its expensive session state across calls.
type SentimentAnalyzer interface {
	Analyze(ctx context.Context, text string) (sentiment.Result, error)
}

// FilingsPipeline turns the 8-K feed into classified signal records:
// bracketed-ticker extraction, universe filter, headline sentiment scoring,
// threshold classification, price-move enrichment. Results are sorted by
// descending score; ties keep retrieval order.
type FilingsPipeline struct {
	source   FilingSource
	analyzer SentimentAnalyzer
	universe *universe.Universe
	confirm  *Confirmator
	events   *events.Manager
	validate *validator.Validate
	log      zerolog.Logger
}

// NewFilingsPipeline creates a new filings pipeline
func NewFilingsPipeline(source FilingSource, analyzer SentimentAnalyzer, u *universe.Universe, confirm *Confirmator, ev *events.Manager, log zerolog.Logger) *FilingsPipeline {
	return &FilingsPipeline{
		source:   source,
		analyzer: analyzer,
		universe: u,
		confirm:  confirm,
		events:   ev,
		validate: validator.New(),
		log:      log.With().Str("pipeline", "filings").Logger(),
	}
}

// Scan runs the pipeline once over the current feed. A retrieval failure
// yields an empty result set, never an error.
func (p *FilingsPipeline) Scan(ctx context.Context) []domain.FilingRecord {
	filings, err := p.source.RecentFilings(ctx)
	if err != nil {
		p.events.EmitFeedError("filings", err, map[string]interface{}{"stage": "fetch"})
		return []domain.FilingRecord{}
	}

	records := make([]domain.FilingRecord, 0, len(filings))
	for _, filing := range filings {
		if rec, ok := p.normalize(ctx, filing); ok {
			records = append(records, rec)
		}
	}

	// SliceStable keeps retrieval order for equal scores, so output stays
	// deterministic.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Score > records[j].Score
	})

	symbols := make([]string, len(records))
	for i, rec := range records {
		symbols[i] = rec.Symbol
	}
	moves := p.confirm.ConfirmAll(ctx, symbols)
	for i := range records {
		records[i].PriceMovePct = moves[i]
	}

	p.log.Info().Int("raw", len(filings)).Int("classified", len(records)).Msg("Filings scan complete")
	return records
}

// normalize extracts the ticker, scores the headline and classifies one
// filing. Any failure, including a sentiment inference error, only drops
// that filing.
func (p *FilingsPipeline) normalize(ctx context.Context, filing edgar.Filing) (rec domain.FilingRecord, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error().Interface("panic", r).Str("title", filing.Title).Msg("Filing record processing panicked")
			ok = false
		}
	}()

	ticker, found := edgar.ExtractTicker(filing.Title)
	if !found {
		p.log.Debug().Str("title", filing.Title).Msg("No bracketed ticker in filing title")
		return rec, false
	}
	if !p.universe.Contains(ticker) {
		return rec, false
	}

	result, err := p.analyzer.Analyze(ctx, filing.Title)
	if err != nil {
		p.events.EmitError("filings", err, map[string]interface{}{"symbol": ticker})
		return rec, false
	}

	score := SignedSentimentScore(result.Label, result.Confidence)
	rec = domain.FilingRecord{
		Symbol: ticker,
		Title:  filing.Title,
		Link:   filing.Link,
		Score:  formulas.Round(score, 3),
		Signal: ClassifyFiling(score),
	}
	if err := p.validate.Struct(rec); err != nil {
		p.log.Warn().Err(err).Str("symbol", ticker).Msg("Dropping incomplete filing record")
		return rec, false
	}
	return rec, true
}
