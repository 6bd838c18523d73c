package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stock-portal-api/internal/usecase/sentiment"
)

// SentimentHandler handles text classification requests
type SentimentHandler struct {
	svc sentiment.Service
	log *zap.Logger
}

// NewSentimentHandler creates a new SentimentHandler instance
func NewSentimentHandler(svc sentiment.Service, log *zap.Logger) *SentimentHandler {
	return &SentimentHandler{svc: svc, log: log}
}

// AnalyzeRequest represents the HTTP request body for sentiment analysis
type AnalyzeRequest struct {
	Text string `json:"text"`
}

// AnalyzeResponse represents the HTTP response for sentiment analysis
type AnalyzeResponse struct {
	Sentiment string  `json:"sentiment"`
	Polarity  float64 `json:"polarity"`
}

// Analyze handles POST /analyze-sentiment
func (h *SentimentHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	resp, err := h.svc.Analyze(c.Request.Context(), sentiment.AnalyzeRequest{Text: req.Text})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, AnalyzeResponse{
		Sentiment: string(resp.Sentiment),
		Polarity:  resp.Polarity,
	})
}
