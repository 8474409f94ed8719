package handler

import (
	"fmt"
	"log/slog"
	"net"
	baseHttp "net/http"
	"strings"

	"github.com/inkwell/database/repository"
	"github.com/inkwell/handler/payload"
	"github.com/inkwell/pkg/auth"
	"github.com/inkwell/pkg/endpoint"
	"github.com/inkwell/pkg/limiter"
	"github.com/inkwell/pkg/portal"
)

// AuthHandler issues JWT bearer tokens for administrators.
type AuthHandler struct {
	Admins    *repository.Admins
	JWT       auth.JWTHandler
	Limiter   *limiter.MemoryLimiter
	Validator *portal.Validator
}

func MakeAuthHandler(admins *repository.Admins, jwt auth.JWTHandler, lim *limiter.MemoryLimiter) AuthHandler {
	return AuthHandler{
		Admins:    admins,
		JWT:       jwt,
		Limiter:   lim,
		Validator: portal.GetDefaultValidator(),
	}
}

// Login validates credentials and returns a signed JWT. Unknown accounts,
// wrong passwords and disabled accounts all yield the same message so the
// endpoint does not leak which usernames exist.
func (h AuthHandler) Login(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
	req, closer, err := endpoint.ParseRequestBody[payload.LoginRequest](r)
	defer closer()

	if err != nil {
		return endpoint.LogBadRequestError("invalid request body", err)
	}

	if rejects, fields := h.Validator.Rejects(req); rejects {
		return endpoint.UnprocessableEntity("invalid credentials payload", fields)
	}

	attemptKey := loginAttemptKey(r, req.Username)

	if h.Limiter != nil && h.Limiter.TooMany(attemptKey) {
		return endpoint.TooManyRequestsError("too many failed login attempts, try again later")
	}

	admin := h.Admins.FindBy(r.Context(), req.Username)
	if admin == nil || !admin.IsActive {
		return h.rejectCredentials(attemptKey)
	}

	if !auth.PasswordFromHash(admin.PasswordHash).Is(req.Password) {
		return h.rejectCredentials(attemptKey)
	}

	if h.Limiter != nil {
		h.Limiter.Reset(attemptKey)
	}

	token, err := h.JWT.Generate(admin.UUID)
	if err != nil {
		slog.Error("failed to generate token", "error", err)

		return endpoint.InternalError("could not generate token")
	}

	resp := payload.LoginResponse{
		Token: token,
		Admin: payload.AdminResponse{
			ID:       admin.UUID,
			Username: admin.Username,
		},
	}

	response := endpoint.NewNoCacheResponse(w, r)

	if err := response.RespondOk(resp); err != nil {
		return endpoint.LogInternalError("could not encode login response", err)
	}

	return nil
}

func (h AuthHandler) rejectCredentials(attemptKey string) *endpoint.ApiError {
	if h.Limiter != nil {
		h.Limiter.Fail(attemptKey)
	}

	return endpoint.UnauthorisedError("invalid username or password")
}

// loginAttemptKey buckets failures by client address and target account so
// a noisy neighbour cannot lock out other usernames.
func loginAttemptKey(r *baseHttp.Request, username string) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	return fmt.Sprintf("%s|%s", host, strings.ToLower(strings.TrimSpace(username)))
}
