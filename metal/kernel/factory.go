package kernel

import (
	"context"
	"log"
	"log/slog"
	"strconv"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/inkwell/database"
	"github.com/inkwell/database/repository"
	"github.com/inkwell/metal/env"
	"github.com/inkwell/pkg/llogs"
	"github.com/inkwell/pkg/media"
	"github.com/inkwell/pkg/portal"
	"github.com/inkwell/pkg/scheduler"
)

// MakeSentry initialises error reporting. An empty DSN leaves reporting
// disabled, which is the local development default.
func MakeSentry(env *env.Environment) *portal.Sentry {
	if env.Sentry.DSN == "" {
		return nil
	}

	cOptions := sentry.ClientOptions{
		Dsn:         env.Sentry.DSN,
		Environment: env.App.Type,
	}

	if err := sentry.Init(cOptions); err != nil {
		log.Fatalf("sentry.Init: %s", err)
	}

	options := sentryhttp.Options{}
	handler := sentryhttp.New(options)

	return &portal.Sentry{
		Handler: handler,
		Options: &options,
		Env:     env,
	}
}

func MakeDbConnection(env *env.Environment) *database.Connection {
	dbConn, err := database.MakeConnection(env)

	if err != nil {
		panic("Sql: error connecting to PostgresSQL: " + err.Error())
	}

	return dbConn
}

func MakeLogs(env *env.Environment) llogs.Driver {
	lDriver, err := llogs.MakeFilesLogs(env)

	if err != nil {
		panic("logs: error opening logs file: " + err.Error())
	}

	return lDriver
}

func MakeMediaStore(env *env.Environment) *media.LocalStore {
	store, err := media.MakeLocalStore(env.Uploads)

	if err != nil {
		panic("media: error preparing the uploads dir: " + err.Error())
	}

	return store
}

// MakeUploadsSweeper builds the nightly job that deletes files from the
// uploads dir no post references any more. Uploads younger than an hour are
// spared in case their post write is still in flight.
func MakeUploadsSweeper(store *media.LocalStore, images repository.Images) *scheduler.Scheduler {
	job := func(ctx context.Context) error {
		inUse, err := images.StorageNames(ctx)
		if err != nil {
			return err
		}

		removed, err := store.Sweep(inUse, time.Hour)
		if err != nil {
			return err
		}

		if removed > 0 {
			slog.Info("removed orphaned uploads", "count", removed)
		}

		return nil
	}

	sweeper, err := scheduler.New("@daily", job, scheduler.WithJobTimeout(5*time.Minute))
	if err != nil {
		panic("scheduler: error preparing the uploads sweeper: " + err.Error())
	}

	return sweeper
}

func MakeEnv(validate *portal.Validator) *env.Environment {
	errorSuffix := "Environment: "

	port, err := strconv.Atoi(env.GetEnvVar("ENV_DB_PORT"))
	if err != nil {
		panic(errorSuffix + "invalid value for ENV_DB_PORT: " + err.Error())
	}

	tokenTTL, err := strconv.Atoi(env.GetEnvVar("ENV_APP_TOKEN_TTL"))
	if err != nil {
		panic(errorSuffix + "invalid value for ENV_APP_TOKEN_TTL: " + err.Error())
	}

	maxFileSize, err := strconv.ParseInt(env.GetEnvVar("ENV_UPLOADS_MAX_FILE_SIZE"), 10, 64)
	if err != nil {
		panic(errorSuffix + "invalid value for ENV_UPLOADS_MAX_FILE_SIZE: " + err.Error())
	}

	app := env.AppEnvironment{
		Name:      env.GetEnvVar("ENV_APP_NAME"),
		Type:      env.GetEnvVar("ENV_APP_ENV_TYPE"),
		MasterKey: env.GetSecretOrEnv("app_master_key", "ENV_APP_MASTER_KEY"),
		TokenTTL:  tokenTTL,
	}

	db := env.DBEnvironment{
		UserName:     env.GetSecretOrEnv("pg_username", "ENV_DB_USER_NAME"),
		UserPassword: env.GetSecretOrEnv("pg_password", "ENV_DB_USER_PASSWORD"),
		DatabaseName: env.GetSecretOrEnv("pg_dbname", "ENV_DB_DATABASE_NAME"),
		Port:         port,
		Host:         env.GetEnvVar("ENV_DB_HOST"),
		DriverName:   database.DriverName,
		SSLMode:      env.GetEnvVar("ENV_DB_SSL_MODE"),
		TimeZone:     env.GetEnvVar("ENV_DB_TIMEZONE"),
	}

	logsEnv := env.LogsEnvironment{
		Level:      env.GetEnvVar("ENV_APP_LOG_LEVEL"),
		Dir:        env.GetEnvVar("ENV_APP_LOGS_DIR"),
		DateFormat: env.GetEnvVar("ENV_APP_LOGS_DATE_FORMAT"),
	}

	netEnv := env.NetEnvironment{
		HttpHost: env.GetEnvVar("ENV_HTTP_HOST"),
		HttpPort: env.GetEnvVar("ENV_HTTP_PORT"),
	}

	uploadsEnv := env.UploadsEnvironment{
		Dir:         env.GetEnvVar("ENV_UPLOADS_DIR"),
		PublicPath:  env.GetEnvVar("ENV_UPLOADS_PUBLIC_PATH"),
		MaxFileSize: maxFileSize,
	}

	sentryEnv := env.SentryEnvironment{
		DSN: env.GetEnvVar("ENV_SENTRY_DSN"),
	}

	if rejects, fields := validate.Rejects(app); rejects {
		panic(errorSuffix + "invalid [APP] model: " + portal.FieldErrorsAsJson(fields))
	}

	if rejects, fields := validate.Rejects(db); rejects {
		panic(errorSuffix + "invalid [Sql] model: " + portal.FieldErrorsAsJson(fields))
	}

	if rejects, fields := validate.Rejects(logsEnv); rejects {
		panic(errorSuffix + "invalid [logs] model: " + portal.FieldErrorsAsJson(fields))
	}

	if rejects, fields := validate.Rejects(netEnv); rejects {
		panic(errorSuffix + "invalid [NETWORK] model: " + portal.FieldErrorsAsJson(fields))
	}

	if rejects, fields := validate.Rejects(uploadsEnv); rejects {
		panic(errorSuffix + "invalid [UPLOADS] model: " + portal.FieldErrorsAsJson(fields))
	}

	environment := &env.Environment{
		App:     app,
		DB:      db,
		Logs:    logsEnv,
		Network: netEnv,
		Uploads: uploadsEnv,
		Sentry:  sentryEnv,
	}

	if rejects, fields := validate.Rejects(environment); rejects {
		panic(errorSuffix + "invalid [environment] model: " + portal.FieldErrorsAsJson(fields))
	}

	return environment
}
