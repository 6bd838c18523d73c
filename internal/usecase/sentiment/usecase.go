package sentiment

import (
	"context"

	"go.uber.org/zap"

	domain "stock-portal-api/internal/domain/sentiment"
	pkgerrors "stock-portal-api/pkg/errors"
	"stock-portal-api/pkg/logger"
	"stock-portal-api/pkg/sentiment"
)

const msgTextRequired = "Text is required"

// AnalyzeRequest represents the request payload for sentiment analysis.
type AnalyzeRequest struct {
	Text string
}

// AnalyzeResponse carries the bucketed label and the raw polarity.
type AnalyzeResponse struct {
	Sentiment domain.Label
	Polarity  float64
}

// Service defines the sentiment operations exposed to transports.
type Service interface {
	Analyze(ctx context.Context, in AnalyzeRequest) (*AnalyzeResponse, error)
}

// Usecase classifies free text. It holds no per-request state.
type Usecase struct {
	scorer sentiment.Scorer
	log    *zap.Logger
}

// New creates a sentiment usecase backed by the given scorer.
func New(scorer sentiment.Scorer, log *zap.Logger) *Usecase {
	return &Usecase{scorer: scorer, log: log}
}

// Analyze scores the text and buckets the polarity into positive, negative or neutral.
func (uc *Usecase) Analyze(ctx context.Context, in AnalyzeRequest) (*AnalyzeResponse, error) {
	if in.Text == "" {
		logger.WithContext(ctx, uc.log).Warn("analyze rejected", zap.String("reason", "empty text"))
		return nil, pkgerrors.NewValidationError("text", msgTextRequired)
	}

	result := domain.NewResult(uc.scorer.Polarity(in.Text))

	logger.WithContext(ctx, uc.log).Debug("text analyzed",
		zap.Int("length", len(in.Text)),
		zap.String("sentiment", string(result.Label)),
		zap.Float64("polarity", result.Polarity),
	)

	return &AnalyzeResponse{Sentiment: result.Label, Polarity: result.Polarity}, nil
}
