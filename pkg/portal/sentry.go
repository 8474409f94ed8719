package portal

import (
	baseHttp "net/http"

	sentryhttp "github.com/getsentry/sentry-go/http"

	"github.com/inkwell/metal/env"
)

// Sentry bundles the HTTP instrumentation handler with its options. A nil
// *Sentry means error reporting is disabled.
type Sentry struct {
	Handler *sentryhttp.Handler
	Options *sentryhttp.Options
	Env     *env.Environment
}

// Wrap instruments the given handler, or returns it untouched when reporting
// is disabled.
func (s *Sentry) Wrap(next baseHttp.Handler) baseHttp.Handler {
	if s == nil || s.Handler == nil {
		return next
	}

	return s.Handler.Handle(next)
}
