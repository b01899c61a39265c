package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/Roja8626/tech-mock/internal/common"
	"github.com/Roja8626/tech-mock/internal/common/security"
	"github.com/Roja8626/tech-mock/internal/domain/model"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const (
	UserCtxKey      contextKey = "user"
	SessionIDCtxKey contextKey = "sessionID"
)

// SessionLookup resolves a session id to the user logged in with it.
// *service.AuthService satisfies it.
type SessionLookup interface {
	CurrentUser(ctx context.Context, sessionID string) (*model.User, error)
}

// NewAuthenticator requires a verified token whose session is still open.
// A logged-out session rejects its token even before the token expires.
func NewAuthenticator(sessions SessionLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				if errors.Is(err, jwtauth.ErrNoTokenFound) || token == nil {
					common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
				} else {
					common.RespondWithError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
				}
				return
			}
			if token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
				return
			}

			userID, err := security.GetUserIDFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
				return
			}
			role, err := security.GetUserRoleFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
				return
			}
			sessionID, err := security.GetSessionIDFromClaims(claims)
			if err != nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
				return
			}

			user, err := sessions.CurrentUser(r.Context(), sessionID)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					common.RespondWithError(w, http.StatusUnauthorized, "Session has ended, please log in again")
					return
				}
				common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
				return
			}
			if user.ID != userID || string(user.Role) != role {
				common.RespondWithError(w, http.StatusUnauthorized, "Token does not match session")
				return
			}

			ctx := context.WithValue(r.Context(), UserCtxKey, user)
			ctx = context.WithValue(ctx, SessionIDCtxKey, sessionID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func AdminOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUserFromContext(r.Context())
		if !ok || !user.IsAdmin() {
			common.RespondWithError(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func GetUserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(*model.User)
	return user, ok && user != nil
}

func GetUserIDFromContext(ctx context.Context) (string, bool) {
	user, ok := GetUserFromContext(ctx)
	if !ok {
		return "", false
	}
	return user.ID, true
}

func GetSessionIDFromContext(ctx context.Context) (string, bool) {
	sessionID, ok := ctx.Value(SessionIDCtxKey).(string)
	return sessionID, ok && strings.TrimSpace(sessionID) != ""
}
