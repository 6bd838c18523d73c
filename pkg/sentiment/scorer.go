// Package sentiment scores free text on a polarity scale from -1.0 (unfavorable)
// to 1.0 (favorable).
//
// The default Scorer wraps the VADER rule set: a valence lexicon with
// negation, intensifier, contrastive conjunction, capitalisation and
// punctuation heuristics. The compound score is used as the polarity.
package sentiment

import (
	"math"
	"strings"

	"github.com/jonreiter/govader"
)

const (
	MinPolarity = -1.0
	MaxPolarity = 1.0

	precision = 1e6
)

// Scorer maps text to a polarity in [MinPolarity, MaxPolarity].
type Scorer interface {
	Polarity(text string) float64
}

// VaderScorer is a Scorer backed by govader. Safe for concurrent use.
type VaderScorer struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderScorer() *VaderScorer {
	return &VaderScorer{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Polarity returns the VADER compound score, rounded to six decimals.
// Blank text scores 0.
func (s *VaderScorer) Polarity(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0
	}
	return Normalize(s.analyzer.PolarityScores(text).Compound)
}

// Normalize clamps p to the polarity range and rounds it to six decimals.
// NaN and values that round to zero, including negative zero, yield 0.
func Normalize(p float64) float64 {
	if math.IsNaN(p) {
		return 0
	}
	p = math.Max(MinPolarity, math.Min(MaxPolarity, p))
	p = math.Round(p*precision) / precision
	if p == 0 {
		return 0
	}
	return p
}
