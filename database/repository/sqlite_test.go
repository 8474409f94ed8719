package repository_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/inkwell/database"
	"github.com/inkwell/database/repository"
)

func newSQLiteConnection(t *testing.T) (*database.Connection, *gorm.DB) {
	t.Helper()

	// A named in-memory db keeps tests isolated from each other while still
	// sharing the handle across the pooled connections of one test.
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}

	if _, err := sqlDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("enable foreign keys: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return database.NewConnectionFromGorm(db), db
}

func migrateSchema(t *testing.T, db *gorm.DB) {
	t.Helper()

	if err := db.AutoMigrate(
		&database.Admin{},
		&database.Post{},
		&database.PostImage{},
	); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
}

func seedAdmin(t *testing.T, conn *database.Connection, username, role string) database.Admin {
	t.Helper()

	admin := database.Admin{
		UUID:         uuid.NewString(),
		Username:     username,
		Email:        username + "@example.test",
		PasswordHash: "hash",
		Role:         role,
		IsActive:     true,
	}

	if err := conn.Sql().Create(&admin).Error; err != nil {
		t.Fatalf("create admin: %v", err)
	}

	return admin
}

func seedPost(t *testing.T, postsRepo repository.Posts, author database.Admin, title, status string) database.Post {
	t.Helper()

	post, err := postsRepo.Create(context.Background(), database.PostAttrs{
		AuthorID: author.ID,
		Title:    title,
		Body:     []string{title + " opening paragraph", title + " closing paragraph"},
		Tags:     []string{"go", "testing"},
		Status:   status,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	return *post
}
