package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/marketsquare/marketplace-api/internal/api/middleware"
	"github.com/marketsquare/marketplace-api/internal/core/domain"
)

// identityFromContext reads the principal attached by the Identity middleware.
// Returns nil when the request carried no usable authentication — the service
// layer decides whether that matters for the operation at hand.
func identityFromContext(c echo.Context) *domain.Identity {
	username, _ := c.Get(middleware.ContextKeyUsername).(string)
	if username == "" {
		return nil
	}
	userID, _ := c.Get(middleware.ContextKeyUserID).(string)
	role, _ := c.Get(middleware.ContextKeyRole).(string)
	return &domain.Identity{
		UserID:   userID,
		Username: username,
		Role:     role,
	}
}
