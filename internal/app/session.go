package app

import (
	"context"
	"log/slog"
	"net/http"
)

type contextKey string

const (
	identityContextKey = contextKey("identity")
	loggerContextKey   = contextKey("logger")
)

type sessionKey string

const (
	SessionKeyUserId = sessionKey("userID")
	SessionKeyRole   = sessionKey("role")
)

func (s sessionKey) String() string {
	return string(s)
}

const roleAdmin = "admin"

// identity is the authenticated caller of a request, taken either from the
// server side session or from a bearer token.
type identity struct {
	UserID string
	Role   string
}

func (i identity) isAdmin() bool {
	return i.Role == roleAdmin
}

func contextSetIdentity(r *http.Request, id identity) *http.Request {
	ctx := context.WithValue(r.Context(), identityContextKey, id)
	return r.WithContext(ctx)
}

func contextGetIdentity(r *http.Request) (identity, bool) {
	id, ok := r.Context().Value(identityContextKey).(identity)
	return id, ok && id.UserID != ""
}

// contextMustGetIdentity is only used behind requireIdentity.
func (app *application) contextMustGetIdentity(r *http.Request) identity {
	id, ok := contextGetIdentity(r)
	if !ok {
		panic("missing identity from context")
	}

	return id
}

func (app *application) contextGetLogger(r *http.Request) *slog.Logger {
	logger, ok := r.Context().Value(loggerContextKey).(*slog.Logger)
	if !ok {
		return app.logger
	}

	return logger
}
