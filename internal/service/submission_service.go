package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/smart-form-builder-api/internal/models"
	"github.com/smart-form-builder-api/internal/repository"
)

// flushEvery is the number of streamed records between explicit flushes
const flushEvery = 100

// submissionService is the concrete implementation of SubmissionService
type submissionService struct {
	submissions repository.SubmissionRepository
	log         zerolog.Logger
}

// newSubmissionService creates a new SubmissionService
func newSubmissionService(submissions repository.SubmissionRepository, log zerolog.Logger) *submissionService {
	return &submissionService{
		submissions: submissions,
		log:         log.With().Str("service", "submission").Logger(),
	}
}

// Submit appends a response. The form is not looked up and values are not checked.
func (s *submissionService) Submit(ctx context.Context, formID string, data models.SubmissionData) (*models.Submission, error) {
	sub := &models.Submission{
		FormID:      formID,
		Data:        data,
		SubmittedAt: time.Now().UTC(),
	}
	if err := s.submissions.Create(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to store submission: %w", err)
	}

	s.log.Debug().
		Str("form_id", formID).
		Str("submission_id", sub.ID).
		Int("keys", data.Len()).
		Msg("Submission received")
	return sub, nil
}

// ListByForm returns the submissions of a form in insertion order
func (s *submissionService) ListByForm(ctx context.Context, formID string, filter models.SubmissionFilter) ([]*models.Submission, error) {
	subs := make([]*models.Submission, 0)
	err := s.submissions.StreamByForm(ctx, formID, filter, func(sub *models.Submission) error {
		subs = append(subs, sub)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return subs, nil
}

// ExportCSV writes the submissions of a form as CSV. Columns are the data
// keys of the first submission; nothing is written when there are none.
func (s *submissionService) ExportCSV(ctx context.Context, w io.Writer, formID string) error {
	return s.writeCSV(ctx, w, formID, nil)
}

// Export streams the submissions of a form in the requested format
func (s *submissionService) Export(ctx context.Context, w http.ResponseWriter, formID string, format models.ExportFormat) error {
	s.log.Info().
		Str("form_id", formID).
		Str("format", string(format)).
		Msg("Starting submissions export")

	switch format {
	case models.ExportCSV:
		return s.writeCSV(ctx, w, formID, func() {
			w.Header().Set("Content-Type", "text/csv")
			w.Header().Set("Content-Disposition", "attachment; filename=submissions.csv")
		})
	case models.ExportNDJSON:
		return s.streamNDJSON(ctx, w, formID)
	case models.ExportJSON:
		return s.streamJSON(ctx, w, formID)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// writeCSV calls start once, right before the first byte is written
func (s *submissionService) writeCSV(ctx context.Context, w io.Writer, formID string, start func()) error {
	var (
		writer  *csv.Writer
		columns []string
		row     []string
		count   int
	)

	err := s.submissions.StreamByForm(ctx, formID, models.SubmissionFilter{}, func(sub *models.Submission) error {
		if writer == nil {
			if start != nil {
				start()
			}
			writer = csv.NewWriter(w)
			columns = sub.Data.Keys()
			row = make([]string, len(columns))
			if err := writer.Write(columns); err != nil {
				return err
			}
		}

		for i, col := range columns {
			v, _ := sub.Data.Get(col)
			row[i] = FormatCell(v)
		}
		count++
		if count%flushEvery == 0 {
			writer.Flush()
		}
		return writer.Write(row)
	})

	if writer != nil {
		writer.Flush()
		if err == nil {
			err = writer.Error()
		}
	}
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrNoSubmissions
	}

	s.log.Info().
		Str("form_id", formID).
		Int("count", count).
		Int("columns", len(columns)).
		Msg("CSV export completed")
	return nil
}

func (s *submissionService) streamNDJSON(ctx context.Context, w http.ResponseWriter, formID string) error {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.Header().Set("Content-Disposition", "attachment; filename=submissions.ndjson")

	flusher, _ := w.(http.Flusher)
	count := 0

	err := s.submissions.StreamByForm(ctx, formID, models.SubmissionFilter{}, func(sub *models.Submission) error {
		data, err := json.Marshal(sub)
		if err != nil {
			return err
		}
		w.Write(data)
		w.Write([]byte("\n"))
		count++

		if count%flushEvery == 0 && flusher != nil {
			flusher.Flush()
		}
		return nil
	})

	s.log.Info().Str("form_id", formID).Int("count", count).Msg("NDJSON export completed")
	return err
}

func (s *submissionService) streamJSON(ctx context.Context, w http.ResponseWriter, formID string) error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=submissions.json")

	w.Write([]byte("["))
	first := true

	err := s.submissions.StreamByForm(ctx, formID, models.SubmissionFilter{}, func(sub *models.Submission) error {
		if !first {
			w.Write([]byte(","))
		}
		first = false

		data, err := json.Marshal(sub)
		if err != nil {
			return err
		}
		w.Write(data)
		return nil
	})

	w.Write([]byte("]"))
	return err
}

func (s *submissionService) Count(ctx context.Context) (int, error) {
	return s.submissions.Count(ctx)
}
