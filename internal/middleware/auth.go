package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

type contextKey string

const (
	SubjectKey     contextKey = "subject"
	BearerTokenKey contextKey = "bearer_token"
)

// AuthMiddleware validates bearer tokens issued by the platform's auth
// service. The raw token is kept in the request context so handlers can pass
// it on explicitly to downstream services.
func AuthMiddleware(jwtSecret string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Extract token from Authorization header
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				logger.Debug("Missing authorization header")
				respondWithError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			// Check for Bearer token format
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Debug("Invalid authorization header format")
				respondWithError(w, http.StatusUnauthorized, "invalid authorization header format")
				return
			}

			tokenString := parts[1]

			// Parse and validate token
			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				// Validate signing method
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})

			if err != nil {
				logger.Debug("Token validation failed", zap.Error(err))
				if err == jwt.ErrTokenExpired {
					respondWithError(w, http.StatusUnauthorized, "token expired")
				} else {
					respondWithError(w, http.StatusUnauthorized, "invalid token")
				}
				return
			}

			if !token.Valid {
				logger.Debug("Invalid token")
				respondWithError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			subject := ""
			if claims, ok := token.Claims.(jwt.MapClaims); ok {
				subject, _ = claims["sub"].(string)
			}

			ctx := context.WithValue(r.Context(), SubjectKey, subject)
			ctx = context.WithValue(ctx, BearerTokenKey, tokenString)

			logger.Debug("Request authenticated", zap.String("subject", subject))

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubject extracts the token subject from the request context
func GetSubject(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(SubjectKey).(string)
	return subject, ok
}

// GetBearerToken extracts the raw bearer token from the request context
func GetBearerToken(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(BearerTokenKey).(string)
	return token, ok
}
