package signals

import (
	"context"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amtrading0706/us-whisperer-pro/internal/clients/edgar"
	"github.com/amtrading0706/us-whisperer-pro/internal/clients/sentiment"
	"github.com/amtrading0706/us-whisperer-pro/internal/domain"
	"github.com/amtrading0706/us-whisperer-pro/internal/events"
	"github.com/amtrading0706/us-whisperer-pro/internal/universe"
)

type fakeFilingSource struct {
	filings []edgar.Filing
	err     error
}

func (f *fakeFilingSource) RecentFilings(context.Context) ([]edgar.Filing, error) {
	return f.filings, f.err
}

// fakeAnalyzer returns canned sentiment per title substring.
type fakeAnalyzer struct {
	results map[string]sentiment.Result
	errFor  map[string]bool
	calls   int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, text string) (sentiment.Result, error) {
	f.calls++
	for key, res := range f.results {
		if strings.Contains(text, key) {
			if f.errFor[key] {
				return sentiment.Result{}, errors.New("inference failed")
			}
			return res, nil
		}
	}
	return sentiment.Result{Label: "Neutral", Confidence: 0.5}, nil
}

func newFilingsPipeline(source FilingSource, analyzer SentimentAnalyzer, prices PriceSource) *FilingsPipeline {
	confirm := NewConfirmator(prices, 2, zerolog.Nop())
	return NewFilingsPipeline(source, analyzer, universe.New(), confirm, events.NewManager(zerolog.Nop()), zerolog.Nop())
}

func TestFilingsScan_EndToEnd(t *testing.T) {
	source := &fakeFilingSource{filings: []edgar.Filing{
		{Title: "8-K - Apple Inc. (AAPL) results webcast", Link: "https://sec.gov/a"},
		{Title: "8-K - JPMorgan (JPM) restates guidance", Link: "https://sec.gov/b"},
		{Title: "8-K - Microsoft (MSFT) routine disclosure", Link: "https://sec.gov/c"},
	}}
	analyzer := &fakeAnalyzer{results: map[string]sentiment.Result{
		"AAPL": {Label: "Positive", Confidence: 0.85},
		"JPM":  {Label: "Negative", Confidence: 0.3},
		"MSFT": {Label: "Neutral", Confidence: 0.9},
	}}
	prices := &fakePriceSource{closes: map[string][]float64{"AAPL": {100.0, 105.0}}}

	records := newFilingsPipeline(source, analyzer, prices).Scan(context.Background())

	require.Len(t, records, 3)

	// Sorted by descending score.
	assert.Equal(t, "AAPL", records[0].Symbol)
	assert.Equal(t, 0.85, records[0].Score)
	assert.Equal(t, domain.SignalStrongBuy, records[0].Signal)
	require.NotNil(t, records[0].PriceMovePct)
	assert.Equal(t, 5.0, *records[0].PriceMovePct)

	assert.Equal(t, "MSFT", records[1].Symbol)
	assert.Equal(t, 0.0, records[1].Score)
	assert.Equal(t, domain.SignalHold, records[1].Signal)

	assert.Equal(t, "JPM", records[2].Symbol)
	assert.Equal(t, -0.3, records[2].Score)
	assert.Equal(t, domain.SignalSell, records[2].Signal)
	assert.Nil(t, records[2].PriceMovePct)
}

func TestFilingsScan_DropsUnmatchedAndForeignTitles(t *testing.T) {
	source := &fakeFilingSource{filings: []edgar.Filing{
		{Title: "8-K - Obscure Holdings LLC", Link: "https://sec.gov/a"},
		{Title: "8-K - GameStop Corp. (GME) update", Link: "https://sec.gov/b"},
		{Title: "8-K - Apple Inc. (AAPL) update", Link: "https://sec.gov/c"},
	}}
	analyzer := &fakeAnalyzer{results: map[string]sentiment.Result{
		"AAPL": {Label: "Positive", Confidence: 0.6},
	}}

	records := newFilingsPipeline(source, analyzer, &fakePriceSource{}).Scan(context.Background())

	require.Len(t, records, 1)
	assert.Equal(t, "AAPL", records[0].Symbol)
	assert.Equal(t, domain.SignalBuy, records[0].Signal)

	// The unmatched and foreign titles never reach the analyzer.
	assert.Equal(t, 1, analyzer.calls)
}

func TestFilingsScan_InferenceFailureIsIsolated(t *testing.T) {
	source := &fakeFilingSource{filings: []edgar.Filing{
		{Title: "8-K - Apple Inc. (AAPL) update", Link: "https://sec.gov/a"},
		{Title: "8-K - Microsoft (MSFT) update", Link: "https://sec.gov/b"},
	}}
	analyzer := &fakeAnalyzer{
		results: map[string]sentiment.Result{
			"AAPL": {},
			"MSFT": {Label: "Positive", Confidence: 0.75},
		},
		errFor: map[string]bool{"AAPL": true},
	}

	records := newFilingsPipeline(source, analyzer, &fakePriceSource{}).Scan(context.Background())

	require.Len(t, records, 1)
	assert.Equal(t, "MSFT", records[0].Symbol)
	assert.Equal(t, domain.SignalStrongBuy, records[0].Signal)
}

func TestFilingsScan_StableSortKeepsRetrievalOrderOnTies(t *testing.T) {
	source := &fakeFilingSource{filings: []edgar.Filing{
		{Title: "8-K - Apple Inc. (AAPL) first", Link: "https://sec.gov/a"},
		{Title: "8-K - Microsoft (MSFT) second", Link: "https://sec.gov/b"},
		{Title: "8-K - JPMorgan (JPM) third", Link: "https://sec.gov/c"},
	}}
	// All neutral: every score ties at zero.
	analyzer := &fakeAnalyzer{}

	records := newFilingsPipeline(source, analyzer, &fakePriceSource{}).Scan(context.Background())

	require.Len(t, records, 3)
	assert.Equal(t, "AAPL", records[0].Symbol)
	assert.Equal(t, "MSFT", records[1].Symbol)
	assert.Equal(t, "JPM", records[2].Symbol)
}

func TestFilingsScan_FetchFailureYieldsEmptyResult(t *testing.T) {
	source := &fakeFilingSource{err: errors.New("feed unreachable")}

	records := newFilingsPipeline(source, &fakeAnalyzer{}, &fakePriceSource{}).Scan(context.Background())

	assert.NotNil(t, records)
	assert.Empty(t, records)
}
