package kernel

import (
	baseHttp "net/http"
	"time"

	"github.com/inkwell/database"
	"github.com/inkwell/database/repository"
	"github.com/inkwell/handler"
	"github.com/inkwell/metal/env"
	"github.com/inkwell/pkg/auth"
	"github.com/inkwell/pkg/endpoint"
	"github.com/inkwell/pkg/limiter"
	"github.com/inkwell/pkg/media"
	"github.com/inkwell/pkg/middleware"
	"github.com/inkwell/pkg/portal"
)

type Router struct {
	Env      *env.Environment
	Mux      *baseHttp.ServeMux
	Pipeline middleware.Pipeline
	Db       *database.Connection
	Media    *media.LocalStore
	JWT      auth.JWTHandler
}

// PublicPipelineFor exposes a handler without authentication.
func (r *Router) PublicPipelineFor(apiHandler endpoint.ApiHandler) baseHttp.HandlerFunc {
	return endpoint.NewApiHandler(
		r.Pipeline.Chain(apiHandler),
	)
}

// PipelineFor guards a handler with the bearer-token middleware.
func (r *Router) PipelineFor(apiHandler endpoint.ApiHandler) baseHttp.HandlerFunc {
	return endpoint.NewApiHandler(
		r.Pipeline.Chain(
			apiHandler,
			r.Pipeline.Auth(),
		),
	)
}

func (r *Router) Auth() {
	// Five failed attempts per client and account lock the pair out for
	// fifteen minutes.
	loginLimiter := limiter.NewMemoryLimiter(15*time.Minute, 5)

	abstract := handler.MakeAuthHandler(r.Pipeline.Admins, r.JWT, loginLimiter)

	login := r.PublicPipelineFor(abstract.Login)

	r.Mux.HandleFunc("POST /api/auth/login", login)
}

func (r *Router) Posts() {
	repo := repository.Posts{DB: r.Db}
	abstract := handler.MakePostsHandler(&repo)

	index := r.PublicPipelineFor(abstract.Index)
	show := r.PublicPipelineFor(abstract.Show)
	showBySlug := r.PublicPipelineFor(abstract.ShowBySlug)

	r.Mux.HandleFunc("GET /api/posts", index)
	r.Mux.HandleFunc("GET /api/posts/{uuid}", show)
	r.Mux.HandleFunc("GET /api/posts/slug/{slug}", showBySlug)
}

func (r *Router) AdminPosts() {
	repo := repository.Posts{DB: r.Db}
	abstract := handler.MakeAdminPostsHandler(&repo, r.Media)

	index := r.PipelineFor(abstract.Index)
	show := r.PipelineFor(abstract.Show)
	store := r.PipelineFor(abstract.Store)
	update := r.PipelineFor(abstract.Update)
	remove := r.PipelineFor(abstract.Delete)

	r.Mux.HandleFunc("GET /api/admin/posts", index)
	r.Mux.HandleFunc("GET /api/admin/posts/{uuid}", show)
	r.Mux.HandleFunc("POST /api/admin/posts", store)
	r.Mux.HandleFunc("PUT /api/admin/posts/{uuid}", update)
	r.Mux.HandleFunc("DELETE /api/admin/posts/{uuid}", remove)
}

// Uploads serves stored assets straight from the uploads directory.
func (r *Router) Uploads() {
	prefix := r.Env.Uploads.PublicPath + "/"

	fileServer := baseHttp.StripPrefix(
		prefix,
		baseHttp.FileServer(baseHttp.Dir(r.Media.Dir())),
	)

	r.Mux.Handle("GET "+prefix, fileServer)
}

func (r *Router) Metrics() {
	r.Mux.Handle("GET /metrics", handler.NewMetricsHandler())
}

// Handler assembles the outer HTTP handler around the mux.
func (r *Router) Handler(sentry *portal.Sentry, isProduction bool) baseHttp.Handler {
	return endpoint.NewServerHandler(endpoint.ServerHandlerConfig{
		Mux:          r.Mux,
		IsProduction: isProduction,
		Wrap:         sentry.Wrap,
	})
}
