package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"stock-portal-api/internal/usecase/user"
	"stock-portal-api/pkg/logger"
)

// UserHandler handles HTTP requests for registration and login
type UserHandler struct {
	svc user.Service
	log *zap.Logger
}

// NewUserHandler creates a new UserHandler instance
func NewUserHandler(svc user.Service, log *zap.Logger) *UserHandler {
	return &UserHandler{
		svc: svc,
		log: log,
	}
}

// RegisterRequest represents the HTTP request body for registering a user
type RegisterRequest struct {
	Name            string     `json:"name"`
	MobileNumber    flexString `json:"mobile_number"`
	Age             flexString `json:"age"`
	Email           string     `json:"email"`
	Password        string     `json:"password"`
	ConfirmPassword string     `json:"confirm_password"`
}

// LoginRequest represents the HTTP request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	logger.WithContext(c.Request.Context(), h.log).Info("Register request", zap.String("email", req.Email))

	resp, err := h.svc.Register(c.Request.Context(), user.RegisterRequest{
		Name:            req.Name,
		MobileNumber:    string(req.MobileNumber),
		Age:             string(req.Age),
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, MessageResponse{Message: resp.Message})
}

// Login handles POST /login
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, h.log, &req) {
		return
	}

	logger.WithContext(c.Request.Context(), h.log).Info("Login request", zap.String("email", req.Email))

	resp, err := h.svc.Login(c.Request.Context(), user.LoginRequest{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		handleError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: resp.Message})
}
