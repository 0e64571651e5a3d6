package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/marketsquare/marketplace-api/internal/api/metrics"
	"github.com/marketsquare/marketplace-api/internal/core/domain"
	"github.com/marketsquare/marketplace-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new user account.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return registrationFailed(c, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return registrationFailed(c, err.Error())
	}

	if _, err := h.authService.Register(c.Request().Context(), req.Username, req.Password, req.Role); err != nil {
		return registrationFailed(c, err.Error())
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "User registered successfully"})
}

// registrationFailed renders the registration error envelope. The underlying
// detail is interpolated verbatim; none of it is security-sensitive.
func registrationFailed(c echo.Context, detail string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: "Registration failed: " + detail})
}

// Login authenticates a user and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("denied").Inc()
		if errors.Is(err, domain.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, errorResponse{Error: "Invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}

	metrics.LoginsTotal.WithLabelValues("allowed").Inc()
	return c.JSON(http.StatusOK, loginResponse{Token: token})
}
