package portal

const DatesLayout = "2006-01-02 15:04:05"

// ---- HTTP

const AuthorizationHeader = "Authorization"

// ---- Middleware / Context

type contextKey string

// ActorKey holds the authenticated administrator resolved by the auth
// middleware for the lifetime of a request.
const ActorKey contextKey = "auth.actor"
