package handler_test

import (
	"encoding/json"
	baseHttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/inkwell/database"
	"github.com/inkwell/handler"
	"github.com/inkwell/handler/payload"
	"github.com/inkwell/pkg/auth"
	"github.com/inkwell/pkg/endpoint"
	"github.com/inkwell/pkg/limiter"
)

func newAuthHandler(t *testing.T, e handlerEnv) handler.AuthHandler {
	t.Helper()

	jwtHandler, err := auth.MakeJWTHandler([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	if err != nil {
		t.Fatalf("make jwt handler: %v", err)
	}

	return handler.MakeAuthHandler(e.Admins, jwtHandler, limiter.NewMemoryLimiter(time.Minute, 5))
}

func TestLoginIssuesToken(t *testing.T) {
	e := newHandlerEnv(t)
	seedHandlerAdmin(t, e, "alice", "open-sesame", database.RoleAdmin)

	h := newAuthHandler(t, e)

	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"username":"alice","password":"open-sesame"}`))
	rec := httptest.NewRecorder()

	if apiErr := h.Login(rec, req); apiErr != nil {
		t.Fatalf("unexpected error: %v", apiErr)
	}

	var resp payload.LoginResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if resp.Token == "" {
		t.Fatalf("expected a token")
	}

	if resp.Admin.Username != "alice" || resp.Admin.ID == "" {
		t.Fatalf("unexpected admin payload %+v", resp.Admin)
	}
}

func TestLoginRejections(t *testing.T) {
	e := newHandlerEnv(t)
	seedHandlerAdmin(t, e, "bob", "correct-horse", database.RoleAdmin)

	disabled := seedHandlerAdmin(t, e, "carol", "pw-carol", database.RoleAdmin)
	if err := e.Conn.Sql().Model(&database.Admin{}).Where("id = ?", disabled.ID).Update("is_active", false).Error; err != nil {
		t.Fatalf("disable admin: %v", err)
	}

	h := newAuthHandler(t, e)

	cases := []struct {
		name   string
		body   string
		status int
	}{
		{"wrong password", `{"username":"bob","password":"nope"}`, baseHttp.StatusUnauthorized},
		{"unknown user", `{"username":"ghost","password":"nope"}`, baseHttp.StatusUnauthorized},
		{"disabled account", `{"username":"carol","password":"pw-carol"}`, baseHttp.StatusUnauthorized},
		{"missing fields", `{"username":"x"}`, baseHttp.StatusUnprocessableEntity},
		{"broken json", `{"username":`, baseHttp.StatusBadRequest},
	}

	for _, c := range cases {
		req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(c.body))

		apiErr := h.Login(httptest.NewRecorder(), req)
		if apiErr == nil || apiErr.Status != c.status {
			t.Fatalf("%s: expected %d, got %v", c.name, c.status, apiErr)
		}
	}
}

func TestLoginLocksOutAfterRepeatedFailures(t *testing.T) {
	e := newHandlerEnv(t)
	seedHandlerAdmin(t, e, "dave", "right-password", database.RoleAdmin)

	h := newAuthHandler(t, e)

	badLogin := func() *endpoint.ApiError {
		req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"username":"dave","password":"wrong"}`))
		req.RemoteAddr = "10.0.0.9:51000"

		return h.Login(httptest.NewRecorder(), req)
	}

	for i := 0; i < 5; i++ {
		if apiErr := badLogin(); apiErr == nil || apiErr.Status != baseHttp.StatusUnauthorized {
			t.Fatalf("attempt %d: expected 401, got %v", i, apiErr)
		}
	}

	if apiErr := badLogin(); apiErr == nil || apiErr.Status != baseHttp.StatusTooManyRequests {
		t.Fatalf("expected lockout 429, got %v", apiErr)
	}

	// The right password from the locked address is refused too.
	req := httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"username":"dave","password":"right-password"}`))
	req.RemoteAddr = "10.0.0.9:51000"

	if apiErr := h.Login(httptest.NewRecorder(), req); apiErr == nil || apiErr.Status != baseHttp.StatusTooManyRequests {
		t.Fatalf("expected locked client to stay locked, got %v", apiErr)
	}

	// A different client address is unaffected.
	req = httptest.NewRequest("POST", "/api/auth/login", strings.NewReader(`{"username":"dave","password":"right-password"}`))
	req.RemoteAddr = "10.0.0.10:51000"

	if apiErr := h.Login(httptest.NewRecorder(), req); apiErr != nil {
		t.Fatalf("expected fresh client to log in, got %v", apiErr)
	}
}
