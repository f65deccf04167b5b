package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/metinatakli/cinema-booking/api"
)

var errInvalidToken = errors.New("invalid or expired authentication token")

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")

				app.serverErrorResponse(w, r, fmt.Errorf("%s", err))
			}
		}()

		next.ServeHTTP(w, r)
	})
}

// logRequest stores a request scoped logger in the context and logs every
// completed request with its status and latency.
func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := app.logger.With(
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)

		ctx := context.WithValue(r.Context(), loggerContextKey, logger)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))

		logger.Info("request completed",
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start))
	})
}

// authenticate resolves the caller from a bearer token or, failing that, from
// the session. It never rejects anonymous requests; requireIdentity does.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		if header := r.Header.Get("Authorization"); header != "" {
			id, err := app.parseBearerToken(header)
			if err != nil {
				app.contextGetLogger(r).Warn("rejected bearer token", "error", err)
				app.errorResponse(w, r, http.StatusUnauthorized, errInvalidToken.Error())
				return
			}

			next.ServeHTTP(w, contextSetIdentity(r, id))
			return
		}

		userId := app.sessionManager.GetString(r.Context(), SessionKeyUserId.String())
		if userId != "" {
			r = contextSetIdentity(r, identity{
				UserID: userId,
				Role:   app.sessionManager.GetString(r.Context(), SessionKeyRole.String()),
			})
		}

		next.ServeHTTP(w, r)
	})
}

func (app *application) parseBearerToken(header string) (identity, error) {
	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return identity{}, errInvalidToken
	}

	if app.config.jwt.secret == "" {
		return identity{}, errors.New("bearer authentication is disabled")
	}

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		return []byte(app.config.jwt.secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return identity{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return identity{}, errInvalidToken
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return identity{}, errInvalidToken
	}

	role, _ := claims["role"].(string)

	return identity{UserID: sub, Role: role}, nil
}

// requireIdentity is attached to the generated routes. Operations declaring a
// security requirement carry its scopes in the context.
func (app *application) requireIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secured := r.Context().Value(api.CookieAuthScopes) != nil || r.Context().Value(api.BearerAuthScopes) != nil
		if !secured {
			next.ServeHTTP(w, r)
			return
		}

		if _, ok := contextGetIdentity(r); !ok {
			app.unauthorizedAccessResponse(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// validateParams checks path and query parameters against the OpenAPI
// document. Bodies are decoded and validated by the handlers.
func (app *application) validateParams(router routers.Router) func(http.Handler) http.Handler {
	options := &openapi3filter.Options{
		ExcludeRequestBody: true,
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				// unknown routes are answered by the mux
				next.ServeHTTP(w, r)
				return
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}

			err = openapi3filter.ValidateRequest(r.Context(), input)
			if err != nil {
				var reqErr *openapi3filter.RequestError
				if errors.As(err, &reqErr) && reqErr.Parameter != nil {
					app.badRequestResponse(w, r, fmt.Errorf("invalid %s parameter %q", reqErr.Parameter.In, reqErr.Parameter.Name))
					return
				}

				app.badRequestResponse(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
