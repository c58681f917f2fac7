package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/smart-form-builder-api/internal/database"
	"github.com/smart-form-builder-api/internal/models"
)

// sqlSubmissionRepo is the SQL implementation of SubmissionRepository
type sqlSubmissionRepo struct {
	db *database.DB
}

// NewSQLSubmissionRepo creates a new submission repository
func NewSQLSubmissionRepo(db *database.DB) SubmissionRepository {
	return &sqlSubmissionRepo{db: db}
}

// Create appends a submission
func (r *sqlSubmissionRepo) Create(ctx context.Context, sub *models.Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = time.Now().UTC()
	}
	data, err := json.Marshal(sub.Data)
	if err != nil {
		return fmt.Errorf("failed to encode submission data: %w", err)
	}

	query := r.db.Rebind(`
		INSERT INTO submissions (id, form_id, data, submitted_at)
		VALUES (?, ?, ?, ?)
	`)
	_, err = r.db.ExecContext(ctx, query, sub.ID, sub.FormID, string(data), sub.SubmittedAt)
	return err
}

// StreamByForm streams the submissions of a form in insertion order
func (r *sqlSubmissionRepo) StreamByForm(ctx context.Context, formID string, filter models.SubmissionFilter, callback func(*models.Submission) error) error {
	var (
		query strings.Builder
		args  = []interface{}{formID}
	)
	query.WriteString(`SELECT id, form_id, data, submitted_at FROM submissions WHERE form_id = ?`)
	if filter.Email != "" {
		query.WriteString(" AND " + r.emailExpr() + " = ?")
		args = append(args, filter.Email)
	}
	query.WriteString(" ORDER BY seq")

	rows, err := r.db.QueryContext(ctx, r.db.Rebind(query.String()), args...)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			sub  models.Submission
			data []byte
		)
		if err := rows.Scan(&sub.ID, &sub.FormID, &data, &sub.SubmittedAt); err != nil {
			return err
		}
		if err := json.Unmarshal(data, &sub.Data); err != nil {
			return fmt.Errorf("failed to decode submission %s: %w", sub.ID, err)
		}

		if err := callback(&sub); err != nil {
			return err
		}
	}

	return rows.Err()
}

// Count returns the total number of submissions
func (r *sqlSubmissionRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM submissions").Scan(&count)
	return count, err
}

func (r *sqlSubmissionRepo) emailExpr() string {
	if r.db.Driver() == database.SQLDriverPostgres {
		return "data->>'email'"
	}
	return "json_extract(data, '$.email')"
}
