package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/smart-form-builder-api/internal/models"
	"github.com/smart-form-builder-api/internal/service"
)

// SubmissionHandler handles submission and export endpoints
type SubmissionHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewSubmissionHandler creates a new SubmissionHandler
func NewSubmissionHandler(services *service.Services, log zerolog.Logger) *SubmissionHandler {
	return &SubmissionHandler{
		services: services,
		log:      log.With().Str("handler", "submission").Logger(),
	}
}

// Submit handles POST /api/forms/:id/submit
func (h *SubmissionHandler) Submit(c *gin.Context) {
	var data models.SubmissionData
	if err := c.ShouldBindJSON(&data); err != nil {
		badRequest(c, err)
		return
	}

	if _, err := h.services.Submission.Submit(c.Request.Context(), c.Param("id"), data); err != nil {
		respondError(c, h.log, err, "Failed to submit form")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ListSubmissions handles GET /api/forms/:id/submissions?email=
func (h *SubmissionHandler) ListSubmissions(c *gin.Context) {
	filter := models.SubmissionFilter{Email: c.Query("email")}

	subs, err := h.services.Submission.ListByForm(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		respondError(c, h.log, err, "Failed to fetch submissions")
		return
	}
	c.JSON(http.StatusOK, subs)
}

// ExportCSV handles GET /api/forms/:id/submissions/csv
func (h *SubmissionHandler) ExportCSV(c *gin.Context) {
	formID := c.Param("id")
	out := &attachmentWriter{ResponseWriter: c.Writer, contentType: "text/csv", filename: "submissions.csv"}

	h.stream(c, formID, func() error {
		return h.services.Submission.ExportCSV(c.Request.Context(), out, formID)
	})
}

// Export handles GET /api/forms/:id/submissions/export?format=csv|ndjson|json
func (h *SubmissionHandler) Export(c *gin.Context) {
	format := models.ExportFormat(c.DefaultQuery("format", string(models.ExportNDJSON)))
	if !models.ValidExportFormats[format] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: csv, ndjson, json"})
		return
	}

	formID := c.Param("id")
	h.stream(c, formID, func() error {
		return h.services.Submission.Export(c.Request.Context(), c.Writer, formID, format)
	})
}

// stream runs an export and answers its error as JSON unless bytes already went out
func (h *SubmissionHandler) stream(c *gin.Context, formID string, run func() error) {
	err := run()
	if err == nil {
		return
	}
	if c.Writer.Written() {
		// Can't return error JSON after streaming has started
		h.log.Error().Err(err).Str("form_id", formID).Msg("Export failed")
		return
	}
	c.Writer.Header().Del("Content-Type")
	c.Writer.Header().Del("Content-Disposition")
	respondError(c, h.log, err, "Failed to export submissions")
}

// attachmentWriter sets the download headers right before the first write
type attachmentWriter struct {
	http.ResponseWriter
	contentType string
	filename    string
	started     bool
}

func (w *attachmentWriter) Write(p []byte) (int, error) {
	if !w.started {
		w.started = true
		w.Header().Set("Content-Type", w.contentType)
		w.Header().Set("Content-Disposition", "attachment; filename="+w.filename)
	}
	return w.ResponseWriter.Write(p)
}
