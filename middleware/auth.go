package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"ecommerce-api/models"
	"ecommerce-api/repository"
	"ecommerce-api/utils"
)

// Key type for context values.
type contextKey string

// UserContextKey locates the authenticated user on the request context.
const UserContextKey = contextKey("user")

// CookieName is the session cookie set at login.
const CookieName = "user_token"

// Auth verifies the bearer token (header or session cookie), checks that
// the referenced user still exists, and attaches it to the request
// context. Protected routes compose this at the router.
func Auth(users repository.UserStore) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, errMsg := extractToken(r)
			if errMsg != "" {
				utils.WriteError(w, http.StatusUnauthorized, errMsg)
				return
			}

			claims, err := utils.ParseJWT(tokenStr)
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, "Access denied. Invalid token.")
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.UserID)
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, "Access denied. Invalid token.")
				return
			}

			ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
			defer cancel()
			user, err := users.FindByID(ctx, userID)
			if err != nil {
				utils.WriteError(w, http.StatusUnauthorized, "Access denied. User not found.")
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), UserContextKey, user)))
		})
	}
}

// RequireRole gates a route behind a minimum role. It runs after Auth.
func RequireRole(minRole string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := CurrentUser(r)
			if !ok {
				utils.WriteError(w, http.StatusUnauthorized, "Access denied. No token provided.")
				return
			}
			if !models.RoleAtLeast(user.Role, minRole) {
				utils.WriteError(w, http.StatusForbidden, "Access denied: You are not authorized to perform this action.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// CurrentUser returns the authenticated user attached by Auth.
func CurrentUser(r *http.Request) (*models.User, bool) {
	user, ok := r.Context().Value(UserContextKey).(*models.User)
	return user, ok
}

// extractToken reads the credential from the Authorization header or,
// failing that, the session cookie. A non-empty second return is the
// rejection message.
func extractToken(r *http.Request) (string, string) {
	if authHeader := r.Header.Get("Authorization"); authHeader != "" {
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			return "", "Access denied. Invalid token format."
		}
		return parts[1], ""
	}
	if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
		return cookie.Value, ""
	}
	return "", "Access denied. No token provided."
}
