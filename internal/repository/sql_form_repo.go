package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/smart-form-builder-api/internal/database"
	"github.com/smart-form-builder-api/internal/models"
)

// sqlFormRepo is the SQL implementation of FormRepository
type sqlFormRepo struct {
	db *database.DB
}

// NewSQLFormRepo creates a new form repository
func NewSQLFormRepo(db *database.DB) FormRepository {
	return &sqlFormRepo{db: db}
}

// Create inserts a new form and assigns its ID
func (r *sqlFormRepo) Create(ctx context.Context, form *models.Form) error {
	if form.ID == "" {
		form.ID = uuid.New().String()
	}
	if form.CreatedAt.IsZero() {
		form.CreatedAt = time.Now().UTC()
	}
	fields := form.Fields
	if fields == nil {
		fields = []models.Field{}
	}
	fieldsJSON, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode fields: %w", err)
	}

	query := r.db.Rebind(`
		INSERT INTO forms (id, name, description, fields, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	_, err = r.db.ExecContext(ctx, query,
		form.ID, form.Name, form.Description, string(fieldsJSON), form.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateKey
	}
	return err
}

// GetByID retrieves a form by ID
func (r *sqlFormRepo) GetByID(ctx context.Context, id string) (*models.Form, error) {
	query := r.db.Rebind(`SELECT id, name, description, fields, created_at FROM forms WHERE id = ?`)
	form, err := scanForm(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return form, err
}

// List returns all forms in insertion order
func (r *sqlFormRepo) List(ctx context.Context) ([]*models.Form, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description, fields, created_at FROM forms ORDER BY seq`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	forms := make([]*models.Form, 0)
	for rows.Next() {
		form, err := scanForm(rows)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}
	return forms, rows.Err()
}

// Count returns the total number of forms
func (r *sqlFormRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM forms").Scan(&count)
	return count, err
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanForm(row rowScanner) (*models.Form, error) {
	var (
		form       models.Form
		fieldsJSON []byte
	)
	if err := row.Scan(&form.ID, &form.Name, &form.Description, &fieldsJSON, &form.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(fieldsJSON, &form.Fields); err != nil {
		return nil, fmt.Errorf("failed to decode fields of form %s: %w", form.ID, err)
	}
	return &form, nil
}
