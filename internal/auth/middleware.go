// Package auth resolves bearer credentials to user identities for both REST
// requests and websocket admission.
package auth

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"linkup/infrastructure"
	"linkup/internal/api"
	"linkup/internal/user"
	"linkup/pkg/jwt"
)

const tokenCookie = "user_token"

type Middleware struct {
	tokens *jwt.JWT
	users  user.Repository
	log    *slog.Logger
}

func NewMiddleware(tokens *jwt.JWT, users user.Repository, log *slog.Logger) *Middleware {
	return &Middleware{tokens: tokens, users: users, log: log}
}

// Handler guards REST routes. A valid token attaches the user ID to the
// request context and refreshes the user's presence timestamp; anything else
// gets a structured 401.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := m.AuthenticateRequest(r)
		if err != nil {
			writeAuthFailure(w, err)
			return
		}
		// Any authenticated call counts as activity.
		if err := m.users.Touch(r.Context(), userID, time.Now()); err != nil {
			m.log.Warn("failed to record user activity", "user", userID, "error", err)
		}
		next.ServeHTTP(w, r.WithContext(api.WithUserID(r.Context(), userID)))
	})
}

// AuthenticateRequest resolves the request's credential to a user ID. Tokens
// are accepted from the user_token cookie, the Authorization header, or (for
// websocket dials, where browsers cannot set headers) a token query
// parameter.
func (m *Middleware) AuthenticateRequest(r *http.Request) (string, error) {
	token := extractToken(r)
	if token == "" {
		return "", infrastructure.ErrMissingToken
	}

	claims, err := m.tokens.ValidateToken(token)
	if err != nil {
		return "", err
	}

	// The token may outlive the account.
	if _, err := m.users.GetByID(r.Context(), claims.UserID); err != nil {
		if infrastructure.IsNotFound(err) {
			return "", infrastructure.ErrInvalidToken
		}
		return "", err
	}
	return claims.UserID, nil
}

func extractToken(r *http.Request) string {
	if cookie, err := r.Cookie(tokenCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return r.URL.Query().Get("token")
}

func writeAuthFailure(w http.ResponseWriter, err error) {
	reason := "Invalid token"
	switch {
	case errors.Is(err, infrastructure.ErrMissingToken):
		reason = "No token provided"
	case errors.Is(err, infrastructure.ErrTokenExpired):
		reason = "Token has expired"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"message": "Authentication failed",
		"error":   reason,
	})
}
