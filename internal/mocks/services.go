package mocks

import (
	"context"
	"io"
	"net/http"

	"github.com/smart-form-builder-api/internal/auth"
	"github.com/smart-form-builder-api/internal/models"
	"github.com/smart-form-builder-api/internal/service"
)

// Tokens accepted by MockAuthService
const (
	AdminToken   = "admin-token"
	UserToken    = "user-token"
	ExpiredToken = "expired-token"
)

// MockAuthService is a mock implementation of AuthService
type MockAuthService struct {
	Identities   map[string]*auth.Identity
	LoginFunc    func(ctx context.Context, req *models.LoginRequest) (*service.LoginResult, error)
	RegisterFunc func(ctx context.Context, req *models.RegisterRequest) (*models.User, error)
	Registered   []*models.RegisterRequest
	UserCount    int
}

// Verify interface compliance
var _ service.AuthService = (*MockAuthService)(nil)

func NewMockAuthService() *MockAuthService {
	return &MockAuthService{
		Identities: map[string]*auth.Identity{
			AdminToken: {ID: "admin-1", Email: "admin@example.com", Role: models.RoleAdmin},
			UserToken:  {ID: "user-1", Email: "user@example.com", Role: models.RoleUser},
		},
		Registered: make([]*models.RegisterRequest, 0),
	}
}

func (m *MockAuthService) Login(ctx context.Context, req *models.LoginRequest) (*service.LoginResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return nil, service.ErrInvalidCredentials
}

func (m *MockAuthService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	m.Registered = append(m.Registered, req)
	return &models.User{ID: "new-user", Email: req.Email, Role: req.Role}, nil
}

func (m *MockAuthService) Authenticate(token string) (*auth.Identity, error) {
	switch token {
	case "":
		return nil, &auth.Error{Kind: auth.KindMissing}
	case ExpiredToken:
		return nil, &auth.Error{Kind: auth.KindExpired}
	}
	if id, ok := m.Identities[token]; ok {
		return id, nil
	}
	return nil, &auth.Error{Kind: auth.KindInvalid}
}

func (m *MockAuthService) Me(ctx context.Context, identity *auth.Identity) (*models.User, error) {
	return &models.User{ID: identity.ID, Email: identity.Email, Role: identity.Role}, nil
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context) (bool, error) {
	return false, nil
}

func (m *MockAuthService) CountUsers(ctx context.Context) (int, error) {
	return m.UserCount, nil
}

// MockFormService is a mock implementation of FormService
type MockFormService struct {
	Forms       map[string]*models.Form
	Created     []*models.FormDraft
	CreateError error
	ListError   error
}

// Verify interface compliance
var _ service.FormService = (*MockFormService)(nil)

func NewMockFormService() *MockFormService {
	return &MockFormService{
		Forms:   make(map[string]*models.Form),
		Created: make([]*models.FormDraft, 0),
	}
}

func (m *MockFormService) Create(ctx context.Context, draft *models.FormDraft) (*models.Form, error) {
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	m.Created = append(m.Created, draft)
	form := &models.Form{
		ID:          "created-form",
		Name:        draft.Name,
		Description: draft.Description,
		Fields:      draft.Fields,
	}
	m.Forms[form.ID] = form
	return form, nil
}

func (m *MockFormService) List(ctx context.Context) ([]*models.Form, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	forms := make([]*models.Form, 0, len(m.Forms))
	for _, f := range m.Forms {
		forms = append(forms, f)
	}
	return forms, nil
}

func (m *MockFormService) Get(ctx context.Context, id string) (*models.Form, error) {
	if f, ok := m.Forms[id]; ok {
		return f, nil
	}
	return nil, service.ErrFormNotFound
}

func (m *MockFormService) Count(ctx context.Context) (int, error) {
	return len(m.Forms), nil
}

// MockSubmissionService is a mock implementation of SubmissionService
type MockSubmissionService struct {
	Submissions   []*models.Submission
	SubmitError   error
	ExportFunc    func(ctx context.Context, w http.ResponseWriter, formID string, format models.ExportFormat) error
	ExportCSVFunc func(ctx context.Context, w io.Writer, formID string) error
	LastFilter    models.SubmissionFilter
}

// Verify interface compliance
var _ service.SubmissionService = (*MockSubmissionService)(nil)

func NewMockSubmissionService() *MockSubmissionService {
	return &MockSubmissionService{Submissions: make([]*models.Submission, 0)}
}

func (m *MockSubmissionService) Submit(ctx context.Context, formID string, data models.SubmissionData) (*models.Submission, error) {
	if m.SubmitError != nil {
		return nil, m.SubmitError
	}
	sub := &models.Submission{ID: "sub", FormID: formID, Data: data}
	m.Submissions = append(m.Submissions, sub)
	return sub, nil
}

func (m *MockSubmissionService) ListByForm(ctx context.Context, formID string, filter models.SubmissionFilter) ([]*models.Submission, error) {
	m.LastFilter = filter
	out := make([]*models.Submission, 0)
	for _, s := range m.Submissions {
		if s.FormID == formID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *MockSubmissionService) ExportCSV(ctx context.Context, w io.Writer, formID string) error {
	if m.ExportCSVFunc != nil {
		return m.ExportCSVFunc(ctx, w, formID)
	}
	return service.ErrNoSubmissions
}

func (m *MockSubmissionService) Export(ctx context.Context, w http.ResponseWriter, formID string, format models.ExportFormat) error {
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, w, formID, format)
	}
	return service.ErrNoSubmissions
}

func (m *MockSubmissionService) Count(ctx context.Context) (int, error) {
	return len(m.Submissions), nil
}
