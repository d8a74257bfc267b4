package handlers

import (
	"net/http"

	"delivery-system/internal/auth"
	"delivery-system/internal/session"
	"delivery-system/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHTTPHandler struct {
	sessions  *session.Registry
	directory *auth.Directory
	tokens    *utils.JWTManager
	logger    *zap.Logger
}

func NewAuthHTTPHandler(sessions *session.Registry, directory *auth.Directory, tokens *utils.JWTManager, logger *zap.Logger) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		sessions:  sessions,
		directory: directory,
		tokens:    tokens,
		logger:    logger,
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type sessionPayload struct {
	Token       string            `json:"token"`
	ExpiresAt   int64             `json:"expires_at"`
	User        auth.Principal    `json:"user"`
	Permissions []auth.Permission `json:"permissions"`
}

func (h *AuthHTTPHandler) openSession(c *gin.Context, email, password string) (sessionPayload, error) {
	s, err := h.sessions.Login(c.Request.Context(), email, password)
	if err != nil {
		return sessionPayload{}, err
	}
	p, _ := s.Principal()
	token, exp, err := h.tokens.GenerateToken(p.ID, p.Role.String(), s.ID)
	if err != nil {
		h.logger.Error("sign token", zap.String("principal_id", p.ID), zap.Error(err))
		return sessionPayload{}, err
	}
	return sessionPayload{
		Token:       token,
		ExpiresAt:   exp.Unix(),
		User:        p,
		Permissions: p.Role.Permissions(),
	}, nil
}

func (h *AuthHTTPHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	payload, err := h.openSession(c, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Login successful", payload))
}

func (h *AuthHTTPHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request format")
		return
	}

	p, err := h.directory.Register(c.Request.Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	h.logger.Info("client registered", zap.String("principal_id", p.ID))

	payload, err := h.openSession(c, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, successResponse("Account created", payload))
}

func (h *AuthHTTPHandler) Logout(c *gin.Context) {
	s, ok := currentSession(c)
	if !ok {
		return
	}
	if err := h.sessions.Logout(c.Request.Context(), s.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, successResponse("Logged out", nil))
}

func (h *AuthHTTPHandler) Me(c *gin.Context) {
	p := principal(c)
	c.JSON(http.StatusOK, successResponse("Current account", gin.H{
		"user":        p,
		"permissions": p.Role.Permissions(),
	}))
}
