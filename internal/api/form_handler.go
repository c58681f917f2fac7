package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/smart-form-builder-api/internal/models"
	"github.com/smart-form-builder-api/internal/service"
)

// FormHandler handles form definition endpoints
type FormHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewFormHandler creates a new FormHandler
func NewFormHandler(services *service.Services, log zerolog.Logger) *FormHandler {
	return &FormHandler{
		services: services,
		log:      log.With().Str("handler", "form").Logger(),
	}
}

// ListForms handles GET /api/forms
func (h *FormHandler) ListForms(c *gin.Context) {
	forms, err := h.services.Form.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "Failed to fetch forms")
		return
	}
	c.JSON(http.StatusOK, forms)
}

// GetForm handles GET /api/forms/:id
func (h *FormHandler) GetForm(c *gin.Context) {
	form, err := h.services.Form.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, h.log, err, "Failed to fetch form")
		return
	}
	c.JSON(http.StatusOK, form)
}

// CreateForm handles POST /api/forms (admin only)
func (h *FormHandler) CreateForm(c *gin.Context) {
	var draft models.FormDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, err)
		return
	}

	form, err := h.services.Form.Create(c.Request.Context(), &draft)
	if err != nil {
		respondError(c, h.log, err, "Failed to create form")
		return
	}
	c.JSON(http.StatusCreated, form)
}
