package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/smart-form-builder-api/internal/models"
	"github.com/smart-form-builder-api/internal/repository"
)

// formService is the concrete implementation of FormService
type formService struct {
	forms repository.FormRepository
	log   zerolog.Logger
}

// newFormService creates a new FormService
func newFormService(forms repository.FormRepository, log zerolog.Logger) *formService {
	return &formService{
		forms: forms,
		log:   log.With().Str("service", "form").Logger(),
	}
}

// Create stores a form definition as given. Only field types are checked.
func (s *formService) Create(ctx context.Context, draft *models.FormDraft) (*models.Form, error) {
	for i, f := range draft.Fields {
		if !f.Type.Valid() {
			return nil, newValidationError(fmt.Sprintf("fields[%d].type", i), "unknown field type %q", f.Type)
		}
	}

	fields := draft.Fields
	if fields == nil {
		fields = []models.Field{}
	}
	form := &models.Form{
		Name:        draft.Name,
		Description: draft.Description,
		Fields:      fields,
	}
	if err := s.forms.Create(ctx, form); err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	s.log.Info().
		Str("form_id", form.ID).
		Int("fields", len(form.Fields)).
		Msg("Form created")
	return form, nil
}

// List returns every form in insertion order
func (s *formService) List(ctx context.Context) ([]*models.Form, error) {
	forms, err := s.forms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list forms: %w", err)
	}
	if forms == nil {
		forms = []*models.Form{}
	}
	return forms, nil
}

// Get returns a form or ErrFormNotFound
func (s *formService) Get(ctx context.Context, id string) (*models.Form, error) {
	form, err := s.forms.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	if form == nil {
		return nil, ErrFormNotFound
	}
	return form, nil
}

func (s *formService) Count(ctx context.Context) (int, error) {
	return s.forms.Count(ctx)
}
