package handler

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	pkgerrors "stock-portal-api/pkg/errors"
	"stock-portal-api/pkg/logger"
)

const msgInvalidBody = "Invalid request body"

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse represents a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message"`
}

// flexString accepts either a JSON string or a bare JSON scalar and keeps its text.
// Clients send age and mobile_number both quoted and bare.
type flexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*f = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	default:
		*f = flexString(data)
		return nil
	}
}

// bindJSON decodes the body and answers 400 on malformed input.
// It returns false when the request has already been answered.
func bindJSON(c *gin.Context, log *zap.Logger, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		logger.WithContext(c.Request.Context(), log).Warn("Malformed request body",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: msgInvalidBody})
		return false
	}
	return true
}

// handleError converts usecase errors to HTTP responses.
// Server-side failures are logged with full detail and answered with a generic message.
func handleError(c *gin.Context, log *zap.Logger, err error) {
	status := pkgerrors.StatusCode(err)
	l := logger.WithContext(c.Request.Context(), log)
	if status >= http.StatusInternalServerError {
		l.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	} else {
		l.Info("Request rejected", zap.String("path", c.FullPath()), zap.Int("status", status), zap.Error(err))
	}
	c.JSON(status, ErrorResponse{Error: pkgerrors.PublicMessage(err)})
}
