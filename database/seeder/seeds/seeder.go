package seeds

import (
	"fmt"

	"github.com/inkwell/database"
	"github.com/inkwell/metal/env"
)

type Seeder struct {
	db     *database.Connection
	env    *env.Environment
	admins *AdminsSeed
	posts  *PostsSeed
}

func MakeSeeder(db *database.Connection, e *env.Environment) *Seeder {
	return &Seeder{
		db:     db,
		env:    e,
		admins: NewAdminsSeed(db),
		posts:  NewPostsSeed(db),
	}
}

// TruncateDB wipes every schema table so the seeder always starts from a
// clean slate. sqlite has no TRUNCATE, so tests fall back to DELETE.
func (s Seeder) TruncateDB() error {
	session := s.db.Sql()
	tables := database.GetSchemaTables()

	// Walk the schema in reverse so child tables go before the ones
	// they reference.
	for i := len(tables) - 1; i >= 0; i-- {
		table := tables[i]
		var stmt string

		if session.Name() == "postgres" {
			stmt = fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", table)
		} else {
			stmt = fmt.Sprintf("DELETE FROM %s", table)
		}

		if result := session.Exec(stmt); result.Error != nil {
			return fmt.Errorf("truncate %s: %w", table, result.Error)
		}
	}

	return nil
}

func (s Seeder) SeedAdmins() (*database.Admin, *database.Admin, error) {
	super, err := s.admins.Create(database.AdminAttrs{
		Username: "gus",
		Email:    "gus@inkwell.test",
		Password: "password",
		Role:     database.RoleSuperAdmin,
		IsActive: true,
	})

	if err != nil {
		return nil, nil, err
	}

	editor, err := s.admins.Create(database.AdminAttrs{
		Username: "lena",
		Email:    "lena@inkwell.test",
		Password: "password",
		Role:     database.RoleAdmin,
		IsActive: true,
	})

	if err != nil {
		return nil, nil, err
	}

	return super, editor, nil
}

func (s Seeder) SeedPosts(super, editor *database.Admin) ([]*database.Post, error) {
	return s.posts.CreatePosts(super, editor)
}
