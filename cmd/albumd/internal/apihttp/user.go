package apihttp

import (
	"context"
	"net/http"
	"strings"
)

const (
	AnonymousUserID = "anonymous-user"
	UserIDHeader    = "x-user-id"
)

type contextKey string

const userIDKey contextKey = "userID"

/*
NewUserMiddleware puts the caller's user ID, taken from the x-user-id
header, on the request context.
*/
func NewUserMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID := strings.TrimSpace(r.Header.Get(UserIDHeader))

			if userID == "" {
				userID = AnonymousUserID
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUserIDFromContext(r *http.Request) string {
	if userID, ok := r.Context().Value(userIDKey).(string); ok && userID != "" {
		return userID
	}

	return AnonymousUserID
}
