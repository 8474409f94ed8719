package middleware

import (
	"github.com/inkwell/database/repository"
	"github.com/inkwell/metal/env"
	"github.com/inkwell/pkg/auth"
	"github.com/inkwell/pkg/endpoint"
)

type Pipeline struct {
	Env    *env.Environment
	Admins *repository.Admins
	JWT    auth.JWTHandler
}

func (m Pipeline) Chain(h endpoint.ApiHandler, handlers ...endpoint.Middleware) endpoint.ApiHandler {
	for i := len(handlers) - 1; i >= 0; i-- {
		h = handlers[i](h)
	}

	return h
}

func (m Pipeline) Auth() endpoint.Middleware {
	guard := MakeAuthMiddleware(m.JWT, m.Admins)

	return guard.Handle
}
