package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/cors"
	"github.com/rs/zerolog"
	"github.com/smart-form-builder-api/internal/auth"
	"github.com/smart-form-builder-api/internal/config"
	"github.com/smart-form-builder-api/internal/models"
	"github.com/smart-form-builder-api/internal/service"
)

const (
	requestIDHeader = "X-Request-ID"
	identityKey     = "identity"
)

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("error", err).
					Str("request_id", c.GetString(requestIDHeader)).
					Msg("Panic recovered")
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
			}
		}()
		c.Next()
	}
}

// requestIDMiddleware propagates or assigns a request id
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString(requestIDHeader)).
			Msg("Request completed")
	}
}

// newCORS allows the configured origins to call the API with a bearer token
func newCORS(cfg config.ServerConfig) *cors.Cors {
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		ExposedHeaders: []string{"Content-Disposition", requestIDHeader},
	})
}

// authenticate resolves the bearer token into an identity. When allowQuery is
// set the token may also come from ?token=, for links opened as downloads.
func authenticate(authSvc service.AuthService, log zerolog.Logger, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" && allowQuery {
			token = c.Query("token")
		}

		identity, err := authSvc.Authenticate(token)
		if err != nil {
			respondError(c, log, err, "failed to authenticate")
			c.Abort()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// requireRole rejects identities without the given role
func requireRole(role models.Role, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.Authorize(identityFrom(c), role); err != nil {
			respondError(c, log, err, "failed to authorize")
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// identityFrom returns the identity stored by authenticate, if any
func identityFrom(c *gin.Context) *auth.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*auth.Identity)
	return identity
}
