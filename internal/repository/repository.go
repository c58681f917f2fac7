package repository

import (
	"context"
	"errors"

	"github.com/smart-form-builder-api/internal/database"
	"github.com/smart-form-builder-api/internal/models"
)

// ErrDuplicateKey is returned when a write violates a unique index
var ErrDuplicateKey = errors.New("duplicate key")

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	RoleExists(ctx context.Context, role models.Role) (bool, error)
	Count(ctx context.Context) (int, error)
}

// FormRepository defines the interface for form data operations
type FormRepository interface {
	Create(ctx context.Context, form *models.Form) error
	GetByID(ctx context.Context, id string) (*models.Form, error)
	List(ctx context.Context) ([]*models.Form, error)
	Count(ctx context.Context) (int, error)
}

// SubmissionRepository defines the interface for submission data operations
type SubmissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	StreamByForm(ctx context.Context, formID string, filter models.SubmissionFilter, callback func(*models.Submission) error) error
	Count(ctx context.Context) (int, error)
}

// HealthChecker reports whether the backing store is reachable
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	User       UserRepository
	Form       FormRepository
	Submission SubmissionRepository
	Health     HealthChecker
}

// NewSQL creates all repositories backed by a postgres or sqlite connection
func NewSQL(db *database.DB) *Repositories {
	return &Repositories{
		User:       NewSQLUserRepo(db),
		Form:       NewSQLFormRepo(db),
		Submission: NewSQLSubmissionRepo(db),
		Health:     db,
	}
}

// NewMongo creates all repositories backed by MongoDB collections
func NewMongo(m *database.Mongo) *Repositories {
	return &Repositories{
		User:       NewMongoUserRepo(m.DB),
		Form:       NewMongoFormRepo(m.DB),
		Submission: NewMongoSubmissionRepo(m.DB),
		Health:     m,
	}
}
