package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/marketsquare/marketplace-api/internal/api/metrics"
	"github.com/marketsquare/marketplace-api/internal/core/ports"
)

// Context keys populated by Identity for downstream handlers.
const (
	ContextKeyUserID   = "user_id"
	ContextKeyUsername = "username"
	ContextKeyRole     = "role"
)

// publicPrefix covers registration and login, which never carry a token.
const publicPrefix = "/auth/"

// Identity attempts to establish an authenticated identity from the bearer
// token and attaches it to the request context. It never rejects: absent,
// malformed, forged, or expired tokens — and tokens for since-deleted users —
// all result in the request continuing with no identity attached. Enforcement
// happens per-operation in the service layer.
func Identity(tokens ports.TokenService, users ports.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if strings.HasPrefix(c.Request().URL.Path, publicPrefix) {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return next(c)
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return next(c)
			}
			token := parts[1]

			subject, err := tokens.ExtractSubject(token)
			if err != nil || !tokens.Verify(token, subject) {
				metrics.TokenVerificationsTotal.WithLabelValues("invalid").Inc()
				return next(c)
			}

			user, err := users.FindByUsername(c.Request().Context(), subject)
			if err != nil {
				// Token outlived its user. Treated as absence of identity.
				metrics.TokenVerificationsTotal.WithLabelValues("unknown_user").Inc()
				return next(c)
			}

			metrics.TokenVerificationsTotal.WithLabelValues("ok").Inc()
			c.Set(ContextKeyUserID, user.ID)
			c.Set(ContextKeyUsername, user.Username)
			c.Set(ContextKeyRole, user.Role)

			return next(c)
		}
	}
}
