package signals

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amtrading0706/us-whisperer-pro/internal/domain"
)

func TestEarningsSurprisePct(t *testing.T) {
	tests := []struct {
		name      string
		estimated float64
		reported  float64
		want      float64
		wantErr   bool
	}{
		{"beat", 1.00, 1.20, 20.0, false},
		{"miss", 2.00, 1.50, -25.0, false},
		{"negative estimate uses absolute value", -1.00, -0.50, 50.0, false},
		{"zero estimate is undefined", 0, 1.00, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EarningsSurprisePct(tt.estimated, tt.reported)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrZeroEstimate)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestClassifyEarnings_Ladder(t *testing.T) {
	tests := []struct {
		surprisePct float64
		want        domain.Signal
	}{
		{20.0, domain.SignalStrongBuy},
		{15.0001, domain.SignalStrongBuy},
		{15.0, domain.SignalBuy}, // boundary takes the lower tier
		{5.0001, domain.SignalBuy},
		{5.0, domain.SignalHold},
		{0.0, domain.SignalHold},
		{-3.0, domain.SignalHold},
		{-3.0001, domain.SignalSell},
		{-10.0, domain.SignalSell},
		{-10.0001, domain.SignalStrongSell},
		{-50.0, domain.SignalStrongSell},
		{math.NaN(), domain.SignalHold},
	}

	for _, tt := range tests {
		got := ClassifyEarnings(tt.surprisePct)
		assert.Equal(t, tt.want, got, "surprise %v", tt.surprisePct)
	}
}

func TestClassifyFiling_Ladder(t *testing.T) {
	tests := []struct {
		score float64
		want  domain.Signal
	}{
		{0.85, domain.SignalStrongBuy},
		{0.70001, domain.SignalStrongBuy},
		{0.7, domain.SignalBuy}, // boundary takes the lower tier
		{0.40001, domain.SignalBuy},
		{0.4, domain.SignalHold},
		{0.0, domain.SignalHold},
		{-0.2, domain.SignalHold},
		{-0.20001, domain.SignalSell},
		{-0.3, domain.SignalSell},
		{-0.5, domain.SignalSell},
		{-0.50001, domain.SignalStrongSell},
		{-1.0, domain.SignalStrongSell},
		{math.NaN(), domain.SignalHold},
	}

	for _, tt := range tests {
		got := ClassifyFiling(tt.score)
		assert.Equal(t, tt.want, got, "score %v", tt.score)
	}
}

func TestSignedSentimentScore(t *testing.T) {
	tests := []struct {
		name       string
		label      string
		confidence float64
		want       float64
	}{
		{"positive", "Positive", 0.85, 0.85},
		{"negative", "Negative", 0.3, -0.3},
		{"neutral", "Neutral", 0.9, 0},
		{"case insensitive", "POSITIVE", 0.6, 0.6},
		{"unknown label", "mixed", 0.8, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SignedSentimentScore(tt.label, tt.confidence))
		})
	}
}

func TestClassifyInsider_AlwaysBuyInsider(t *testing.T) {
	assert.Equal(t, domain.SignalBuyInsider, ClassifyInsider())
}

// The engine is a pure function of its inputs: the same record classified
// twice yields the same result.
func TestClassify_Idempotent(t *testing.T) {
	surprise, err := EarningsSurprisePct(1.00, 1.20)
	assert.NoError(t, err)
	assert.Equal(t, 20.0, surprise)

	first := ClassifyEarnings(surprise)
	second := ClassifyEarnings(surprise)
	assert.Equal(t, domain.SignalStrongBuy, first)
	assert.Equal(t, first, second)

	score := SignedSentimentScore("Positive", 0.85)
	assert.Equal(t, ClassifyFiling(score), ClassifyFiling(score))
}
