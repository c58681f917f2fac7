package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/smart-form-builder-api/internal/mocks"
	"github.com/smart-form-builder-api/internal/models"
	"github.com/smart-form-builder-api/internal/service"
)

func TestFormService_CreateAndGet(t *testing.T) {
	services, _ := setupServices()
	ctx := context.Background()

	fields := []models.Field{
		{Label: "Name", Type: models.FieldText, Required: true},
		{Label: "Age", Type: models.FieldNumber},
		{Label: "Color", Type: models.FieldRadio, Options: []models.Option{{Label: "Red", Value: "red"}}},
		{Label: "Bio", Type: models.FieldTextarea, Placeholder: "About you"},
	}
	form, err := services.Form.Create(ctx, &models.FormDraft{Name: "Profile", Fields: fields})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if form.ID == "" {
		t.Fatal("Expected an id")
	}

	got, err := services.Form.Get(ctx, form.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if len(got.Fields) != len(fields) {
		t.Fatalf("Expected %d fields, got %d", len(fields), len(got.Fields))
	}
	for i := range fields {
		if got.Fields[i].Label != fields[i].Label || got.Fields[i].Type != fields[i].Type {
			t.Errorf("Field %d = %+v, want %+v", i, got.Fields[i], fields[i])
		}
	}
}

func TestFormService_Create_NoValidationOfNameOrFields(t *testing.T) {
	services, _ := setupServices()

	form, err := services.Form.Create(context.Background(), &models.FormDraft{})
	if err != nil {
		t.Fatalf("Expected empty draft to be accepted, got %v", err)
	}
	if form.Fields == nil {
		t.Error("Expected fields to be an empty list")
	}
}

func TestFormService_Create_UnknownFieldType(t *testing.T) {
	services, repos := setupServices()

	_, err := services.Form.Create(context.Background(), &models.FormDraft{
		Name:   "Bad",
		Fields: []models.Field{{Label: "A", Type: models.FieldText}, {Label: "B"}},
	})
	var verr *service.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if verr.Field != "fields[1].type" {
		t.Errorf("Expected field fields[1].type, got %s", verr.Field)
	}
	if n, _ := repos.Form.Count(context.Background()); n != 0 {
		t.Error("Form must not be stored")
	}
}

func TestFormService_GetNotFound(t *testing.T) {
	services, _ := setupServices()

	_, err := services.Form.Get(context.Background(), "missing")
	if !errors.Is(err, service.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestFormService_List(t *testing.T) {
	services, repos := setupServices()
	ctx := context.Background()

	forms, err := services.Form.List(ctx)
	if err != nil || forms == nil || len(forms) != 0 {
		t.Fatalf("List on empty store = %v, %v", forms, err)
	}

	for _, name := range []string{"A", "B", "C"} {
		if _, err := services.Form.Create(ctx, &models.FormDraft{Name: name}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}
	forms, _ = services.Form.List(ctx)
	if len(forms) != 3 || forms[0].Name != "A" || forms[2].Name != "C" {
		t.Errorf("Expected forms in insertion order, got %+v", forms)
	}

	repos.Form.(*mocks.MockFormRepository).ListError = errors.New("connection reset")
	if _, err := services.Form.List(ctx); err == nil {
		t.Error("Expected store error to propagate")
	}
}
