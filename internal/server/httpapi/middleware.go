package httpapi

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/tasknest/internal/common"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type ctxKey string

const identityCtxKey ctxKey = "identity"

// identityKey is the echo context key holding the caller's email.
const identityKey = "identity"

// IdentityFromContext returns the email stored by the auth middleware.
func IdentityFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(identityCtxKey).(string)
	return email, ok && email != ""
}

func identity(c echo.Context) string {
	email, _ := c.Get(identityKey).(string)
	return email
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header value.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, common.AuthorizationHeaderScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// requireAuth rejects requests without a valid session token and makes the
// token's email available to handlers.
func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
		if !ok {
			return unauthorized(c)
		}

		claims, err := s.tokens.Verify(token)
		if err != nil || claims.Email == "" {
			return unauthorized(c)
		}

		c.Set(identityKey, claims.Email)
		req := c.Request()
		c.SetRequest(req.WithContext(context.WithValue(req.Context(), identityCtxKey, claims.Email)))

		return next(c)
	}
}

func (s *Server) requestLogger() echo.MiddlewareFunc {
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURIPath:  true,
		LogStatus:   true,
		LogLatency:  true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			ctx := c.Request().Context()
			args := []any{"method", v.Method, "path", v.URIPath, "status", v.Status, "latency", v.Latency}
			if v.Error != nil {
				s.logger.Error(ctx, "request failed", append(args, "error", v.Error)...)
				return nil
			}
			s.logger.Debug(ctx, "request", args...)
			return nil
		},
	})
}
