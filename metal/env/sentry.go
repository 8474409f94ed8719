package env

// SentryEnvironment is optional: an empty DSN disables error reporting, which
// is the default for local development.
type SentryEnvironment struct {
	DSN string
}
