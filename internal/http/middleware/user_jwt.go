package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type userCtxKey struct{}

// User identifies the signed-in member attached to a request.
type User struct {
	ID   string
	Name string
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(User)
	return u, ok
}

// WithUser stores a user in the context. Exposed for handler tests.
func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

type userClaims struct {
	Name string `json:"name"`
	jwt.RegisteredClaims
}

// UserJWT validates a Bearer token signed with HS256 and attaches the member
// identity to the request context. Requests without a valid token are
// rejected; mount this only on routes that require sign-in.
func UserJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, err := userFromRequest(r, secret)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "authentication required"})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// OptionalUserJWT attaches the member identity when a valid token is present
// and passes the request through untouched otherwise.
func OptionalUserJWT(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, err := userFromRequest(r, secret); err == nil {
				r = r.WithContext(WithUser(r.Context(), user))
			}
			next.ServeHTTP(w, r)
		})
	}
}

func userFromRequest(r *http.Request, secret string) (User, error) {
	// An unset secret means sign-in is not configured; never verify against
	// the empty key.
	if secret == "" {
		return User{}, fmt.Errorf("middleware: user jwt secret not configured")
	}
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return User{}, fmt.Errorf("middleware: missing bearer token")
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	claims := &userClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("middleware: unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return User{}, fmt.Errorf("middleware: parse token: %w", err)
	}
	if !token.Valid || claims.Subject == "" {
		return User{}, fmt.Errorf("middleware: invalid token")
	}
	return User{ID: claims.Subject, Name: claims.Name}, nil
}

// SignUserToken mints a token for the member. Used by the sign-in flow and
// by tests.
func SignUserToken(secret, userID, name string) (string, error) {
	claims := userClaims{
		Name: name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: userID,
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("middleware: sign token: %w", err)
	}
	return signed, nil
}
