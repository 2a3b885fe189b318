package auth

import (
	"context"
	"net/http"
	"strings"

	"coursemarket/internal/qerrors"

	"github.com/go-chi/render"
	"github.com/golang/glog"
)

type contextKey string

const claimsContextKey contextKey = "currentUser"

// RequireAuth is a middleware that rejects requests without a valid bearer token or session cookie. The
// Claims of the request are added to the request context, and can be accessed via GetClaimsFromRequest.
func RequireAuth(provider Provider, sessionCookieName string) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := verifyRequest(r, provider, sessionCookieName)
			if err != nil {
				glog.Warningf("rejected unauthenticated request to %v: %v\n", r.URL.Path, err)
				rejectUnauthorizedRequest(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// WithClaims returns a copy of ctx carrying claims.
func WithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// GetClaimsFromRequest returns the Claims within the request context. Only works with routes that implement
// the RequireAuth middleware.
func GetClaimsFromRequest(r *http.Request) (*Claims, error) {
	claims, ok := r.Context().Value(claimsContextKey).(*Claims)
	if !ok || claims == nil {
		return nil, qerrors.UnauthenticatedError
	}
	return claims, nil
}

// Helpers

func verifyRequest(r *http.Request, provider Provider, sessionCookieName string) (*Claims, error) {
	if header := r.Header.Get("Authorization"); header != "" {
		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" || token == header {
			return nil, qerrors.UnauthenticatedError
		}
		return provider.VerifyIDToken(r.Context(), token)
	}

	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return nil, qerrors.UnauthenticatedError
	}
	return provider.VerifySessionCookie(r.Context(), cookie.Value)
}

func rejectUnauthorizedRequest(w http.ResponseWriter, r *http.Request) {
	reject(w, r, http.StatusUnauthorized, qerrors.UnauthenticatedError)
}

func rejectForbiddenRequest(w http.ResponseWriter, r *http.Request) {
	reject(w, r, http.StatusForbidden, qerrors.NotEducatorError)
}

func reject(w http.ResponseWriter, r *http.Request, status int, err error) {
	render.Status(r, status)
	render.JSON(w, r, map[string]interface{}{
		"success": false,
		"message": err.Error(),
	})
}
