package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/smart-form-builder-api/internal/auth"
	"github.com/smart-form-builder-api/internal/config"
	"github.com/smart-form-builder-api/internal/models"
	"github.com/smart-form-builder-api/internal/repository"
)

// authService is the concrete implementation of AuthService
type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
	cfg    *config.AuthConfig
	log    zerolog.Logger
}

// newAuthService creates a new AuthService
func newAuthService(users repository.UserRepository, tokens *auth.TokenManager, cfg *config.AuthConfig, log zerolog.Logger) *authService {
	return &authService{
		users:  users,
		tokens: tokens,
		cfg:    cfg,
		log:    log.With().Str("service", "auth").Logger(),
	}
}

// Login checks the credentials and issues a bearer token
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*LoginResult, error) {
	if req.Email == "" || req.Password == "" {
		return nil, newValidationError("", "email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	// Unknown email and wrong password are indistinguishable to the caller
	if user == nil || !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(auth.Identity{ID: user.ID, Email: user.Email, Role: user.Role})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Msg("User logged in")
	return &LoginResult{Token: token, User: user.ToResponse()}, nil
}

// Register creates a new account; callers are expected to be admins
func (s *authService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if req.Email == "" || req.Password == "" {
		return nil, newValidationError("", "email and password are required")
	}
	role := req.Role
	if role == "" {
		role = models.RoleUser
	}
	if !models.ValidRoles[role] {
		return nil, newValidationError("role", "must be one of: admin, user")
	}

	exists, err := s.users.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrDuplicateEmail
	}

	user, err := s.createUser(ctx, req.Email, req.Password, role)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("User registered")
	return user, nil
}

func (s *authService) createUser(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	hash, err := auth.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{Email: email, PasswordHash: hash, Role: role}
	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent registration can win the race past EmailExists
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Authenticate resolves a bearer token to an identity
func (s *authService) Authenticate(token string) (*auth.Identity, error) {
	return s.tokens.Verify(strings.TrimSpace(token))
}

// Me returns the account behind an identity
func (s *authService) Me(ctx context.Context, identity *auth.Identity) (*models.User, error) {
	user, err := s.users.GetByID(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin when no admin account exists.
// It reports whether an account was created.
func (s *authService) EnsureAdmin(ctx context.Context) (bool, error) {
	exists, err := s.users.RoleExists(ctx, models.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to check for admin: %w", err)
	}
	if exists {
		return false, nil
	}

	user, err := s.createUser(ctx, s.cfg.AdminEmail, s.cfg.AdminPassword, models.RoleAdmin)
	if err != nil {
		return false, fmt.Errorf("failed to create default admin: %w", err)
	}

	s.log.Warn().
		Str("email", user.Email).
		Msg("Default admin user created; change its password")
	return true, nil
}

// CountUsers returns the number of accounts
func (s *authService) CountUsers(ctx context.Context) (int, error) {
	return s.users.Count(ctx)
}
