package main

import (
	"log/slog"
	baseHttp "net/http"
	"time"

	_ "github.com/lib/pq"

	"github.com/inkwell/metal/kernel"
	"github.com/inkwell/pkg/endpoint"
	"github.com/inkwell/pkg/portal"
)

func main() {
	validate := portal.GetDefaultValidator()

	secrets, err := kernel.Ignite("./.env", validate)
	if err != nil {
		panic("bootstrapping error > " + err.Error())
	}

	app, err := kernel.MakeApp(secrets, validate)
	if err != nil {
		panic("bootstrapping error > " + err.Error())
	}

	defer app.CloseDB()
	defer app.CloseLogs()

	app.Boot()

	if err := app.GetDB().Ping(); err != nil {
		slog.Error("database is not reachable", "error", err)
	}

	addr := app.GetEnv().Network.GetHostURL()

	server := &baseHttp.Server{
		Addr:              addr,
		Handler:           app.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	if err := endpoint.RunServer(addr, server); err != nil {
		slog.Error("server stopped with error", "error", err)
		panic("Error running server: " + err.Error())
	}
}
