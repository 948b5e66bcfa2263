package middleware

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/librarium/catalog-api/internal/core/domain"
	"github.com/librarium/catalog-api/internal/core/ports"
)

type principalKey struct{}

// Principal resolves the request's bearer credential into a User and injects
// it into the request context. Authentication here is optional: a missing,
// malformed, or invalid token leaves the principal absent (anonymous) rather
// than failing the request. Operations that require authentication reject
// anonymous principals themselves.
func Principal(jwtSecret string, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return next(c)
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return next(c)
			}

			username, _ := claims["username"].(string)
			if username == "" {
				return next(c)
			}

			user, err := users.FindByUsername(c.Request().Context(), username)
			if err != nil {
				return next(c)
			}

			ctx := WithPrincipal(c.Request().Context(), user)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// WithPrincipal returns a context carrying the authenticated user.
func WithPrincipal(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, principalKey{}, user)
}

// PrincipalFromContext returns the authenticated user, or nil for anonymous
// requests.
func PrincipalFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(principalKey{}).(*domain.User)
	return user
}
