package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/smart-form-builder-api/internal/config"
	"github.com/smart-form-builder-api/internal/models"
	"github.com/smart-form-builder-api/internal/service"
	"github.com/smart-form-builder-api/pkg/logger"
)

const healthCheckTimeout = 2 * time.Second

// NewRouter creates and configures the Gin router wrapped in the CORS handler
func NewRouter(services *service.Services, cfg *config.Config, log zerolog.Logger) http.Handler {
	// Set Gin mode
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(requestIDMiddleware())
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))

	// Handlers
	authHandler := NewAuthHandler(services, log)
	formHandler := NewFormHandler(services, log)
	submissionHandler := NewSubmissionHandler(services, log)

	authed := authenticate(services.Auth, log, false)
	authedOrQuery := authenticate(services.Auth, log, true)
	admin := requireRole(models.RoleAdmin, log)

	// Health check
	router.GET("/health", healthCheck(services))

	apiRoutes := router.Group("/api")
	{
		apiRoutes.GET("/metrics", authed, admin, metricsHandler(services, log))

		// Form endpoints
		forms := apiRoutes.Group("/forms")
		{
			forms.GET("", formHandler.ListForms)
			forms.GET("/:id", formHandler.GetForm)
			forms.POST("/:id/submit", submissionHandler.Submit)
			forms.POST("", authed, admin, formHandler.CreateForm)

			forms.GET("/:id/submissions", authed, admin, submissionHandler.ListSubmissions)
			forms.GET("/:id/submissions/csv", authedOrQuery, admin, submissionHandler.ExportCSV)
			forms.GET("/:id/submissions/export", authedOrQuery, admin, submissionHandler.Export)
		}

		// Auth endpoints
		authRoutes := apiRoutes.Group("/auth")
		{
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/register", authed, admin, authHandler.Register)
			authRoutes.GET("/me", authed, authHandler.Me)
		}
	}

	return newCORS(cfg.Server).Handler(router)
}

// healthCheck returns the health status
func healthCheck(services *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if services.Health != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
			defer cancel()
			if err := services.Health.HealthCheck(ctx); err != nil {
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   logger.ServiceName,
		})
	}
}

// metricsHandler returns collection counts
func metricsHandler(services *service.Services, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		users, err := services.Auth.CountUsers(ctx)
		if err != nil {
			respondError(c, log, err, "Failed to count users")
			return
		}
		forms, err := services.Form.Count(ctx)
		if err != nil {
			respondError(c, log, err, "Failed to count forms")
			return
		}
		submissions, err := services.Submission.Count(ctx)
		if err != nil {
			respondError(c, log, err, "Failed to count submissions")
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"database": gin.H{
				"users":       users,
				"forms":       forms,
				"submissions": submissions,
			},
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
