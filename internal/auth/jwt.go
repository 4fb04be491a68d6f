package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/notewise/notewise-be/internal/apperrors"
	"github.com/notewise/notewise-be/internal/models"
	"github.com/notewise/notewise-be/internal/services"
)

// Claims defines the JWT claims structure.
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type contextKey string

// currentUserKey is the context key for the resolved caller identity.
const currentUserKey = contextKey("currentUser")

// TokenManager issues and verifies signed session tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager creates a TokenManager with the given signing secret and
// token lifetime.
func NewTokenManager(secret string, ttl time.Duration) *TokenManager {
	return &TokenManager{secret: []byte(secret), ttl: ttl}
}

// Generate creates a new signed token bound to the user's ID.
func (m *TokenManager) Generate(user models.User) (string, error) {
	expirationTime := time.Now().Add(m.ttl)
	claims := &Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses and validates a token string, returning the bound user ID.
// It fails on a bad signature, a malformed token, or expiry.
func (m *TokenManager) Verify(tokenStr string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return "", apperrors.Unauthenticated("token invalid or expired")
	}
	if !token.Valid {
		return "", apperrors.Unauthenticated("token invalid or expired")
	}
	return claims.UserID, nil
}

// Middleware guards routes that need an authenticated caller. It extracts
// the bearer token, verifies it, resolves the subject to a user and makes
// the identity available to downstream handlers. The password hash never
// enters the context.
func (m *TokenManager) Middleware(users services.UserServiceProvider) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var tokenStr string

			authHeader := r.Header.Get("Authorization")
			if strings.HasPrefix(authHeader, "Bearer ") {
				tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
			}

			if tokenStr == "" {
				unauthorized(w, "no token provided")
				return
			}

			userID, err := m.Verify(tokenStr)
			if err != nil {
				unauthorized(w, "token invalid or expired")
				return
			}

			// The token may outlive its subject
			user, err := users.GetUserByID(userID)
			if err != nil {
				unauthorized(w, "user not found")
				return
			}

			ctx := context.WithValue(r.Context(), currentUserKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserFromContext returns the identity the middleware resolved for this
// request.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(currentUserKey).(models.User)
	return user, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
