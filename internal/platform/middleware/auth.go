package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	id "wagebridge/pkg/domain"
	"wagebridge/pkg/requestcontext"
)

type contextKeyEmployerID struct{}

// GetEmployerID retrieves the authenticated employer ID from the context.
func GetEmployerID(ctx context.Context) id.EmployerID {
	employerID, ok := ctx.Value(contextKeyEmployerID{}).(id.EmployerID)
	if !ok {
		return ""
	}
	return employerID
}

// WithEmployerID injects an employer ID into a context. Used by tests that
// bypass the HTTP middleware chain.
func WithEmployerID(ctx context.Context, employerID id.EmployerID) context.Context {
	return context.WithValue(ctx, contextKeyEmployerID{}, employerID)
}

// EmployerClaims are the JWT claims issued to employer payroll integrations.
type EmployerClaims struct {
	EmployerID string `json:"employer_id"`
	jwt.RegisteredClaims
}

// RequireEmployerAuth validates the Bearer token and stores the employer ID in
// the request context. Tokens are HS256-signed with the shared gateway key;
// key custody for attestation signing is a separate concern and never flows
// through here.
func RequireEmployerAuth(signingKey string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			requestID := requestcontext.RequestID(ctx)

			authHeader := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(authHeader, "Bearer ")
			if !ok || token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestID,
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			claims := &EmployerClaims{}
			parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(signingKey), nil
			})
			if err != nil || !parsed.Valid || claims.EmployerID == "" {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestID,
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx = context.WithValue(ctx, contextKeyEmployerID{}, id.EmployerID(claims.EmployerID))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
