package auth

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github-integration-service/internal/api"
)

const SessionCookie = "session_id"

type contextKey int

const userIDKey contextKey = iota

// RequireUser rejects requests without a valid session and injects the
// caller's user id into the request context, so handlers receive an explicit
// identity instead of reading ambient session state.
func RequireUser(sessions Sessions, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookie)
			if err != nil {
				api.WriteApiError(w, logger, "authentication required", api.CodeAuthentication, http.StatusUnauthorized)
				return
			}

			userID, ok := sessions.Lookup(cookie.Value)
			if !ok {
				api.WriteApiError(w, logger, "session expired or invalid", api.CodeAuthentication, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID extracts the authenticated user id set by RequireUser.
func UserID(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok
}
