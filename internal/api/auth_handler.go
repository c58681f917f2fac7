package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/smart-form-builder-api/internal/models"
	"github.com/smart-form-builder-api/internal/service"
)

// AuthHandler handles login, registration and the current user
type AuthHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(services *service.Services, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		services: services,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.services.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.log, err, "Login failed")
		return
	}

	c.JSON(http.StatusOK, result)
}

// Register handles POST /api/auth/register (admin only)
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if _, err := h.services.Auth.Register(c.Request.Context(), &req); err != nil {
		respondError(c, h.log, err, "Registration failed")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully"})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.services.Auth.Me(c.Request.Context(), identityFrom(c))
	if err != nil {
		respondError(c, h.log, err, "Failed to fetch user")
		return
	}

	c.JSON(http.StatusOK, user.ToResponse())
}
