package handler_test

import (
	"bytes"
	"context"
	"mime/multipart"
	baseHttp "net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/inkwell/database"
	"github.com/inkwell/database/repository"
	"github.com/inkwell/metal/env"
	"github.com/inkwell/pkg/media"
	"github.com/inkwell/pkg/portal"
)

var pngUpload = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

type handlerEnv struct {
	Conn   *database.Connection
	Posts  *repository.Posts
	Admins *repository.Admins
	Media  *media.LocalStore
}

func newHandlerEnv(t *testing.T) handlerEnv {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := db.AutoMigrate(&database.Admin{}, &database.Post{}, &database.PostImage{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap sql db: %v", err)
	}

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	conn := database.NewConnectionFromGorm(db)

	store, err := media.MakeLocalStore(env.UploadsEnvironment{
		Dir:         t.TempDir(),
		PublicPath:  "/uploads",
		MaxFileSize: 1 << 20,
	})
	if err != nil {
		t.Fatalf("make media store: %v", err)
	}

	return handlerEnv{
		Conn:   conn,
		Posts:  &repository.Posts{DB: conn},
		Admins: &repository.Admins{DB: conn},
		Media:  store,
	}
}

func seedHandlerAdmin(t *testing.T, e handlerEnv, username, password, role string) database.Admin {
	t.Helper()

	admin, err := e.Admins.Create(context.Background(), database.AdminAttrs{
		Username: username,
		Email:    username + "@example.test",
		Password: password,
		Role:     role,
	})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	return *admin
}

func seedHandlerPost(t *testing.T, e handlerEnv, author database.Admin, title, status string) database.Post {
	t.Helper()

	post, err := e.Posts.Create(context.Background(), database.PostAttrs{
		AuthorID: author.ID,
		Title:    title,
		Body:     []string{title + " first paragraph", title + " second paragraph"},
		Tags:     []string{"go"},
		Status:   status,
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	return *post
}

// asActor attaches the admin to the request context the way the auth
// middleware would.
func asActor(r *baseHttp.Request, admin *database.Admin) *baseHttp.Request {
	ctx := context.WithValue(r.Context(), portal.ActorKey, admin)

	return r.WithContext(ctx)
}

type multipartBody struct {
	buf    bytes.Buffer
	writer *multipart.Writer
}

func newMultipartBody(t *testing.T) *multipartBody {
	t.Helper()

	m := &multipartBody{}
	m.writer = multipart.NewWriter(&m.buf)

	return m
}

func (m *multipartBody) field(t *testing.T, key, value string) *multipartBody {
	t.Helper()

	if err := m.writer.WriteField(key, value); err != nil {
		t.Fatalf("write field %s: %v", key, err)
	}

	return m
}

func (m *multipartBody) file(t *testing.T, key, name string, data []byte) *multipartBody {
	t.Helper()

	part, err := m.writer.CreateFormFile(key, name)
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}

	if _, err := part.Write(data); err != nil {
		t.Fatalf("write form file: %v", err)
	}

	return m
}

func (m *multipartBody) request(t *testing.T, method, target string) *baseHttp.Request {
	t.Helper()

	if err := m.writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, target, &m.buf)
	req.Header.Set("Content-Type", m.writer.FormDataContentType())

	return req
}

func storedFileCount(t *testing.T, store *media.LocalStore) int {
	t.Helper()

	entries, err := os.ReadDir(store.Dir())
	if err != nil {
		t.Fatalf("read uploads dir: %v", err)
	}

	return len(entries)
}
