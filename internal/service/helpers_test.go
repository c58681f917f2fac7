package service_test

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/smart-form-builder-api/internal/config"
	"github.com/smart-form-builder-api/internal/mocks"
	"github.com/smart-form-builder-api/internal/models"
	"github.com/smart-form-builder-api/internal/repository"
	"github.com/smart-form-builder-api/internal/service"
	"golang.org/x/crypto/bcrypt"
)

func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "test-secret",
			TokenTTL:      time.Hour,
			AdminEmail:    "admin@example.com",
			AdminPassword: "admin123",
			BcryptCost:    bcrypt.MinCost,
		},
	}
}

func setupServices() (*service.Services, *repository.Repositories) {
	repos := mocks.NewRepositories()
	return service.NewServices(repos, testConfig(), zerolog.Nop()), repos
}

func data(pairs ...interface{}) models.SubmissionData {
	var d models.SubmissionData
	for i := 0; i+1 < len(pairs); i += 2 {
		d.Set(pairs[i].(string), pairs[i+1])
	}
	return d
}
