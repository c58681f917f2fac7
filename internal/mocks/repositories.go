package mocks

import (
	"context"
	"fmt"

	"github.com/smart-form-builder-api/internal/models"
	"github.com/smart-form-builder-api/internal/repository"
)

// Verify interface compliance
var (
	_ repository.UserRepository       = (*MockUserRepository)(nil)
	_ repository.FormRepository       = (*MockFormRepository)(nil)
	_ repository.SubmissionRepository = (*MockSubmissionRepository)(nil)
	_ repository.HealthChecker        = (*MockHealthChecker)(nil)
)

// NewRepositories returns a Repositories set backed by fresh in-memory mocks
func NewRepositories() *repository.Repositories {
	return &repository.Repositories{
		User:       NewMockUserRepository(),
		Form:       NewMockFormRepository(),
		Submission: NewMockSubmissionRepository(),
		Health:     &MockHealthChecker{},
	}
}

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	Users       map[string]*models.User
	EmailToUser map[string]*models.User
	InsertError error
	GetError    error
	nextID      int
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users:       make(map[string]*models.User),
		EmailToUser: make(map[string]*models.User),
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	if _, exists := m.EmailToUser[user.Email]; exists {
		return repository.ErrDuplicateKey
	}
	if user.ID == "" {
		m.nextID++
		user.ID = fmt.Sprintf("user-%d", m.nextID)
	}
	m.Users[user.ID] = user
	m.EmailToUser[user.Email] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.Users[id], nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	return m.EmailToUser[email], nil
}

func (m *MockUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	_, exists := m.EmailToUser[email]
	return exists, nil
}

func (m *MockUserRepository) RoleExists(ctx context.Context, role models.Role) (bool, error) {
	for _, u := range m.Users {
		if u.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (m *MockUserRepository) Count(ctx context.Context) (int, error) {
	return len(m.Users), nil
}

// MockFormRepository is a mock implementation of FormRepository
type MockFormRepository struct {
	Forms       []*models.Form
	InsertError error
	ListError   error
}

func NewMockFormRepository() *MockFormRepository {
	return &MockFormRepository{Forms: make([]*models.Form, 0)}
}

func (m *MockFormRepository) Create(ctx context.Context, form *models.Form) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	if form.ID == "" {
		form.ID = fmt.Sprintf("form-%d", len(m.Forms)+1)
	}
	if form.Fields == nil {
		form.Fields = []models.Field{}
	}
	m.Forms = append(m.Forms, form)
	return nil
}

func (m *MockFormRepository) GetByID(ctx context.Context, id string) (*models.Form, error) {
	for _, f := range m.Forms {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, nil
}

func (m *MockFormRepository) List(ctx context.Context) ([]*models.Form, error) {
	if m.ListError != nil {
		return nil, m.ListError
	}
	out := make([]*models.Form, len(m.Forms))
	copy(out, m.Forms)
	return out, nil
}

func (m *MockFormRepository) Count(ctx context.Context) (int, error) {
	return len(m.Forms), nil
}

// MockSubmissionRepository is a mock implementation of SubmissionRepository
type MockSubmissionRepository struct {
	Submissions []*models.Submission
	InsertError error
	StreamError error
}

func NewMockSubmissionRepository() *MockSubmissionRepository {
	return &MockSubmissionRepository{Submissions: make([]*models.Submission, 0)}
}

func (m *MockSubmissionRepository) Create(ctx context.Context, sub *models.Submission) error {
	if m.InsertError != nil {
		return m.InsertError
	}
	if sub.ID == "" {
		sub.ID = fmt.Sprintf("sub-%d", len(m.Submissions)+1)
	}
	m.Submissions = append(m.Submissions, sub)
	return nil
}

func (m *MockSubmissionRepository) StreamByForm(ctx context.Context, formID string, filter models.SubmissionFilter, callback func(*models.Submission) error) error {
	if m.StreamError != nil {
		return m.StreamError
	}
	for _, s := range m.Submissions {
		if s.FormID != formID {
			continue
		}
		if filter.Email != "" && s.Data.Email() != filter.Email {
			continue
		}
		if err := callback(s); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockSubmissionRepository) Count(ctx context.Context) (int, error) {
	return len(m.Submissions), nil
}

// MockHealthChecker reports Err from every health check
type MockHealthChecker struct {
	Err error
}

func (m *MockHealthChecker) HealthCheck(ctx context.Context) error {
	return m.Err
}
