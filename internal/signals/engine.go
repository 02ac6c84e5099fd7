// Package signals contains the signal normalization and classification
// engine: feed pipelines that reduce three differently-shaped raw feeds to
// per-company records, the pure scoring/classification rules, and the
// price-move confirmation enrichment.
package signals

import (
	"math"
	"strings"

	"github.com/pkg/errors"

	"github.com/amtrading0706/us-whisperer-pro/internal/domain"
)

// ErrZeroEstimate marks an earnings row whose EPS estimate is zero. The
// surprise is undefined for such rows and the record is dropped, not
// classified.
var ErrZeroEstimate = errors.New("estimated EPS is zero")

// EarningsSurprisePct computes the relative deviation of reported vs.
// estimated EPS, in percent.
func EarningsSurprisePct(estimated, reported float64) (float64, error) {
	if estimated == 0 {
		return 0, ErrZeroEstimate
	}
	return (reported - estimated) / math.Abs(estimated) * 100, nil
}

// ClassifyEarnings maps an earnings surprise percentage onto the
// recommendation ladder. Branches are evaluated top-down and the first
// match wins; the upper cuts are strict, so a surprise of exactly 15 is a
// BUY, not a STRONG_BUY. NaN classifies as HOLD.
func ClassifyEarnings(surprisePct float64) domain.Signal {
	switch {
	case math.IsNaN(surprisePct):
		return domain.SignalHold
	case surprisePct > 15:
		return domain.SignalStrongBuy
	case surprisePct > 5:
		return domain.SignalBuy
	case surprisePct < -10:
		return domain.SignalStrongSell
	case surprisePct < -3:
		return domain.SignalSell
	default:
		return domain.SignalHold
	}
}

// SignedSentimentScore maps an inference result onto [-1, 1]: confidence
// for a positive label, negated confidence for a negative one, zero for
// neutral or unrecognized labels.
func SignedSentimentScore(label string, confidence float64) float64 {
	switch {
	case strings.EqualFold(label, "Positive"):
		return confidence
	case strings.EqualFold(label, "Negative"):
		return -confidence
	default:
		return 0
	}
}

// ClassifyFiling maps a signed sentiment score onto the recommendation
// ladder. Same first-match-wins discipline and strict upper cuts as the
// earnings ladder: a score of exactly 0.7 is a BUY. NaN classifies as HOLD.
func ClassifyFiling(score float64) domain.Signal {
	switch {
	case math.IsNaN(score):
		return domain.SignalHold
	case score > 0.7:
		return domain.SignalStrongBuy
	case score > 0.4:
		return domain.SignalBuy
	case score < -0.5:
		return domain.SignalStrongSell
	case score < -0.2:
		return domain.SignalSell
	default:
		return domain.SignalHold
	}
}

// ClassifyInsider labels an insider record. Only confirmed open-market
// purchases are admitted upstream, so there is no continuous score and the
// label is constant; this is a deliberate simplification, not a threshold.
func ClassifyInsider() domain.Signal {
	return domain.SignalBuyInsider
}
