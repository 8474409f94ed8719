package middleware

import (
	"context"
	"errors"
	baseHttp "net/http"
	"strings"

	"github.com/inkwell/database"
	"github.com/inkwell/database/repository"
	"github.com/inkwell/pkg/auth"
	"github.com/inkwell/pkg/endpoint"
	"github.com/inkwell/pkg/portal"
)

const bearerPrefix = "Bearer "

// AuthMiddleware authenticates admin requests with a bearer token. A valid
// token resolves to a persisted, active administrator which is stored on the
// request context for handlers and the ownership gate.
type AuthMiddleware struct {
	JWT    auth.JWTHandler
	Admins *repository.Admins
}

func MakeAuthMiddleware(jwt auth.JWTHandler, admins *repository.Admins) AuthMiddleware {
	return AuthMiddleware{
		JWT:    jwt,
		Admins: admins,
	}
}

func (a AuthMiddleware) Handle(next endpoint.ApiHandler) endpoint.ApiHandler {
	return func(w baseHttp.ResponseWriter, r *baseHttp.Request) *endpoint.ApiError {
		header := strings.TrimSpace(r.Header.Get(portal.AuthorizationHeader))

		if header == "" {
			return endpoint.UnauthorisedError("missing authorization header")
		}

		if !strings.HasPrefix(header, bearerPrefix) {
			return endpoint.UnauthorisedError("authorization header must use the Bearer scheme")
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if token == "" {
			return endpoint.UnauthorisedError("missing bearer token")
		}

		claims, err := a.JWT.Validate(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				return endpoint.LogUnauthorisedError("token expired", err)
			}

			return endpoint.LogUnauthorisedError("invalid token", err)
		}

		admin := a.Admins.FindByUUID(r.Context(), claims.AdminUUID)
		if admin == nil {
			return endpoint.UnauthorisedError("unknown administrator")
		}

		if !admin.IsActive {
			return endpoint.UnauthorisedError("administrator account is disabled")
		}

		ctx := context.WithValue(r.Context(), portal.ActorKey, admin)

		return next(w, r.WithContext(ctx))
	}
}

// GetActor returns the administrator the auth middleware attached to the
// request context, or nil when the request was not authenticated.
func GetActor(ctx context.Context) *database.Admin {
	if admin, ok := ctx.Value(portal.ActorKey).(*database.Admin); ok {
		return admin
	}

	return nil
}
