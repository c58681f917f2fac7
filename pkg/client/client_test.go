package client_test

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/smart-form-builder-api/internal/api"
	"github.com/smart-form-builder-api/internal/config"
	"github.com/smart-form-builder-api/internal/mocks"
	"github.com/smart-form-builder-api/internal/models"
	"github.com/smart-form-builder-api/internal/service"
	"github.com/smart-form-builder-api/pkg/client"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Server: config.ServerConfig{CORSOrigins: []string{"*"}},
		Auth: config.AuthConfig{
			JWTSecret:     "client-test-secret",
			TokenTTL:      time.Hour,
			AdminEmail:    "admin@example.com",
			AdminPassword: "admin123",
			BcryptCost:    4,
		},
	}
	services := service.NewServices(mocks.NewRepositories(), cfg, zerolog.Nop())
	if _, err := services.Auth.EnsureAdmin(context.Background()); err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}

	server := httptest.NewServer(api.NewRouter(services, cfg, zerolog.Nop()))
	t.Cleanup(server.Close)
	return server
}

func answers(pairs ...interface{}) models.SubmissionData {
	var d models.SubmissionData
	for i := 0; i+1 < len(pairs); i += 2 {
		d.Set(pairs[i].(string), pairs[i+1])
	}
	return d
}

func TestClient_SessionLifecycle(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "session.json")

	session, err := client.LoadSession(path)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if session.LoggedIn() {
		t.Fatal("Expected a fresh session to be signed out")
	}

	c := client.New(server.URL+"/api", session)
	user, err := c.Login(ctx, "admin@example.com", "admin123")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("Expected admin, got %s", user.Role)
	}

	// A new process picks the session up from disk
	reloaded, err := client.LoadSession(path)
	if err != nil {
		t.Fatalf("LoadSession failed: %v", err)
	}
	if !reloaded.IsAdmin() || reloaded.Token() != session.Token() {
		t.Error("Expected the saved session to be restored")
	}
	me, err := client.New(server.URL+"/api", reloaded).Me(ctx)
	if err != nil || me.Email != "admin@example.com" {
		t.Errorf("Me = %+v, %v", me, err)
	}

	if err := c.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	if session.LoggedIn() {
		t.Error("Expected session to be cleared")
	}
	cleared, _ := client.LoadSession(path)
	if cleared.LoggedIn() {
		t.Error("Expected the session file to be removed")
	}

	if _, err := c.Me(ctx); !errors.Is(err, client.ErrNotLoggedIn) {
		t.Errorf("Expected ErrNotLoggedIn, got %v", err)
	}
}

func TestClient_LoginFailure(t *testing.T) {
	server := setupServer(t)
	c := client.New(server.URL+"/api", nil)

	_, err := c.Login(context.Background(), "admin@example.com", "wrong")
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Message != "Invalid email or password" {
		t.Errorf("Unexpected error %+v", apiErr)
	}
	if c.Session().LoggedIn() {
		t.Error("Failed login must not store a token")
	}
}

func TestClient_FormsAndSubmissions(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()
	admin := client.New(server.URL+"/api", nil)
	if _, err := admin.Login(ctx, "admin@example.com", "admin123"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	form, err := admin.CreateForm(ctx, &models.FormDraft{
		Name: "Contact",
		Fields: []models.Field{
			{Label: "Name", Type: models.FieldText, Required: true},
			{Label: "Age", Type: models.FieldNumber},
		},
	})
	if err != nil {
		t.Fatalf("CreateForm failed: %v", err)
	}

	public := client.New(server.URL+"/api", nil)
	forms, err := public.ListForms(ctx)
	if err != nil || len(forms) != 1 {
		t.Fatalf("ListForms = %v, %v", forms, err)
	}
	fetched, err := public.GetForm(ctx, form.ID)
	if err != nil || len(fetched.Fields) != 2 {
		t.Fatalf("GetForm = %+v, %v", fetched, err)
	}

	// Rejected locally, nothing reaches the server
	err = public.Submit(ctx, fetched, "not-an-email", answers("Age", "old"))
	var invalid *client.InvalidSubmissionError
	if !errors.As(err, &invalid) || len(invalid.Errors) != 3 {
		t.Fatalf("Expected 3 validation errors, got %v", err)
	}

	if err := public.Submit(ctx, fetched, "a@x.com", answers("Name", "Alice", "Age", 30.0)); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if err := public.Submit(ctx, fetched, "b@x.com", answers("Name", "Bob")); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	subs, err := admin.Submissions(ctx, form.ID, "a@x.com")
	if err != nil {
		t.Fatalf("Submissions failed: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("Expected 1 submission for a@x.com, got %d", len(subs))
	}
	if keys := subs[0].Data.Keys(); strings.Join(keys, ",") != "Name,Age,email" {
		t.Errorf("Expected email appended last, got %v", keys)
	}

	var buf bytes.Buffer
	if err := admin.Export(ctx, form.ID, models.ExportCSV, &buf); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	want := "Name,Age,email\nAlice,30,a@x.com\nBob,,b@x.com\n"
	if buf.String() != want {
		t.Errorf("CSV = %q, want %q", buf.String(), want)
	}

	if _, err := public.Submissions(ctx, form.ID, ""); !errors.Is(err, client.ErrNotLoggedIn) {
		t.Errorf("Expected ErrNotLoggedIn, got %v", err)
	}
}

func TestClient_RegisterRequiresAdmin(t *testing.T) {
	server := setupServer(t)
	ctx := context.Background()

	admin := client.New(server.URL+"/api", nil)
	admin.Login(ctx, "admin@example.com", "admin123")
	if err := admin.Register(ctx, "user@x.com", "pw", models.RoleUser); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user := client.New(server.URL+"/api", nil)
	if _, err := user.Login(ctx, "user@x.com", "pw"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	err := user.Register(ctx, "other@x.com", "pw", models.RoleUser)
	var apiErr *client.APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected 403, got %v", err)
	}
}

func TestExportURL(t *testing.T) {
	session := client.NewMemorySession()
	session.Save(models.UserResponse{ID: "1", Role: models.RoleAdmin}, "tok")
	c := client.New("http://localhost:5000/api/", session)

	if got := c.ExportURL("f1", models.ExportCSV); got != "http://localhost:5000/api/forms/f1/submissions/csv?token=tok" {
		t.Errorf("Unexpected CSV url %s", got)
	}
	if got := c.ExportURL("f1", models.ExportNDJSON); got != "http://localhost:5000/api/forms/f1/submissions/export?format=ndjson&token=tok" {
		t.Errorf("Unexpected export url %s", got)
	}
}
