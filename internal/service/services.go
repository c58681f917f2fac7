package service

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/smart-form-builder-api/internal/auth"
	"github.com/smart-form-builder-api/internal/config"
	"github.com/smart-form-builder-api/internal/models"
	"github.com/smart-form-builder-api/internal/repository"
)

// LoginResult is returned by a successful login
type LoginResult struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

// AuthService defines the interface for account and token operations
type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*LoginResult, error)
	Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Authenticate(token string) (*auth.Identity, error)
	Me(ctx context.Context, identity *auth.Identity) (*models.User, error)
	EnsureAdmin(ctx context.Context) (bool, error)
	CountUsers(ctx context.Context) (int, error)
}

// FormService defines the interface for form definitions
type FormService interface {
	Create(ctx context.Context, draft *models.FormDraft) (*models.Form, error)
	List(ctx context.Context) ([]*models.Form, error)
	Get(ctx context.Context, id string) (*models.Form, error)
	Count(ctx context.Context) (int, error)
}

// SubmissionService defines the interface for collecting and exporting responses
type SubmissionService interface {
	Submit(ctx context.Context, formID string, data models.SubmissionData) (*models.Submission, error)
	ListByForm(ctx context.Context, formID string, filter models.SubmissionFilter) ([]*models.Submission, error)
	ExportCSV(ctx context.Context, w io.Writer, formID string) error
	Export(ctx context.Context, w http.ResponseWriter, formID string, format models.ExportFormat) error
	Count(ctx context.Context) (int, error)
}

// Services holds all service interfaces
type Services struct {
	Auth       AuthService
	Form       FormService
	Submission SubmissionService
	Health     repository.HealthChecker
}

// NewServices creates all services
func NewServices(repos *repository.Repositories, cfg *config.Config, log zerolog.Logger) *Services {
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	return &Services{
		Auth:       newAuthService(repos.User, tokens, &cfg.Auth, log),
		Form:       newFormService(repos.Form, log),
		Submission: newSubmissionService(repos.Submission, log),
		Health:     repos.Health,
	}
}
