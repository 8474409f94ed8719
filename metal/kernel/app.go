package kernel

import (
	"context"
	"fmt"
	baseHttp "net/http"
	"time"

	"github.com/inkwell/database"
	"github.com/inkwell/database/repository"
	"github.com/inkwell/metal/env"
	"github.com/inkwell/pkg/auth"
	"github.com/inkwell/pkg/llogs"
	"github.com/inkwell/pkg/media"
	"github.com/inkwell/pkg/middleware"
	"github.com/inkwell/pkg/portal"
	"github.com/inkwell/pkg/scheduler"
)

type App struct {
	router    *Router
	sentry    *portal.Sentry
	logs      llogs.Driver
	validator *portal.Validator
	env       *env.Environment
	db        *database.Connection
	media     *media.LocalStore
	sweeper   *scheduler.Scheduler
}

func MakeApp(env *env.Environment, validator *portal.Validator) (*App, error) {
	jwtHandler, err := auth.MakeJWTHandler(
		[]byte(env.App.MasterKey),
		time.Duration(env.App.TokenTTL)*time.Minute,
	)
	if err != nil {
		return nil, fmt.Errorf("bootstrapping error > could not create jwt handler: %w", err)
	}

	db := MakeDbConnection(env)
	store := MakeMediaStore(env)

	admins := &repository.Admins{DB: db}

	app := App{
		env:       env,
		validator: validator,
		logs:      MakeLogs(env),
		sentry:    MakeSentry(env),
		db:        db,
		media:     store,
		sweeper:   MakeUploadsSweeper(store, repository.Images{DB: db}),
	}

	router := Router{
		Env:   env,
		Db:    db,
		Media: store,
		Mux:   baseHttp.NewServeMux(),
		JWT:   jwtHandler,
		Pipeline: middleware.Pipeline{
			Env:    env,
			Admins: admins,
			JWT:    jwtHandler,
		},
	}

	app.SetRouter(router)

	return &app, nil
}

func (a *App) Boot() {
	if a == nil || a.router == nil {
		panic("bootstrapping error > Invalid setup")
	}

	router := *a.router

	router.Auth()
	router.Posts()
	router.AdminPosts()
	router.Uploads()
	router.Metrics()

	if err := a.sweeper.Start(context.Background()); err != nil {
		panic("bootstrapping error > could not start uploads sweeper: " + err.Error())
	}
}

// Handler wraps the mux with CORS for non-production environments and Sentry
// instrumentation when configured.
func (a *App) Handler() baseHttp.Handler {
	return a.router.Handler(a.sentry, a.env.App.IsProduction())
}
