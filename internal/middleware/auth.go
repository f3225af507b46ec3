// Package middleware provides HTTP middlewares for authentication and
// logging used by the stub backend.
package middleware

import (
	"net/http"
	"strings"
)

// BearerAuth enforces a bearer token on every request. The expected token is
// fixed at construction; a missing or mismatched Authorization header yields
// a 401 with the standard error envelope.
func BearerAuth(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if got == "" || got != token {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"message":"invalid or missing token"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
