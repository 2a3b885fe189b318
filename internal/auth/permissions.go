package auth

import (
	"net/http"
)

// RequireEducator rejects requests whose claims do not carry the educator role. It must run after RequireAuth.
func RequireEducator() func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := GetClaimsFromRequest(r)
			if err != nil {
				rejectUnauthorizedRequest(w, r)
				return
			}

			if !claims.IsEducator() {
				rejectForbiddenRequest(w, r)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
