package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/smart-form-builder-api/internal/database"
	"github.com/smart-form-builder-api/internal/models"
)

// sqlUserRepo is the SQL implementation of UserRepository
type sqlUserRepo struct {
	db *database.DB
}

// NewSQLUserRepo creates a new user repository
func NewSQLUserRepo(db *database.DB) UserRepository {
	return &sqlUserRepo{db: db}
}

// Create inserts a new user and assigns its ID
func (r *sqlUserRepo) Create(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	query := r.db.Rebind(`
		INSERT INTO users (id, email, password_hash, role, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Email, user.PasswordHash, string(user.Role), user.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	return err
}

// GetByID retrieves a user by ID
func (r *sqlUserRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `SELECT id, email, password_hash, role, created_at FROM users WHERE id = ?`, id)
}

// GetByEmail retrieves a user by email
func (r *sqlUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `SELECT id, email, password_hash, role, created_at FROM users WHERE email = ?`, email)
}

func (r *sqlUserRepo) getOne(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var (
		user models.User
		role string
	)
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), arg).Scan(
		&user.ID, &user.Email, &user.PasswordHash, &role, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	user.Role = models.Role(role)
	return &user, nil
}

// EmailExists checks if a user with the given email exists
func (r *sqlUserRepo) EmailExists(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		r.db.Rebind("SELECT EXISTS(SELECT 1 FROM users WHERE email = ?)"), email,
	).Scan(&exists)
	return exists, err
}

// RoleExists checks if any user holds the given role
func (r *sqlUserRepo) RoleExists(ctx context.Context, role models.Role) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		r.db.Rebind("SELECT EXISTS(SELECT 1 FROM users WHERE role = ?)"), string(role),
	).Scan(&exists)
	return exists, err
}

// Count returns the total number of users
func (r *sqlUserRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}
