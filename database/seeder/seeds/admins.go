package seeds

import (
	"context"
	"fmt"

	"github.com/inkwell/database"
	"github.com/inkwell/database/repository"
)

type AdminsSeed struct {
	repo repository.Admins
}

func NewAdminsSeed(db *database.Connection) *AdminsSeed {
	return &AdminsSeed{
		repo: repository.Admins{DB: db},
	}
}

// Create goes through the repository so seeded accounts get the same
// bcrypt hashing and username normalisation as real sign-ups.
func (s AdminsSeed) Create(attrs database.AdminAttrs) (*database.Admin, error) {
	admin, err := s.repo.Create(context.Background(), attrs)
	if err != nil {
		return nil, fmt.Errorf("seed admin %s: %w", attrs.Username, err)
	}

	return admin, nil
}
