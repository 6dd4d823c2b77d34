package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/api/dto"
	"github.com/spec-kit/employee-service/internal/service"
	apperrors "github.com/spec-kit/employee-service/pkg/util"
)

// AuthHandler exposes the token endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// ObtainTokenPair handles POST /api/token/.
func (h *AuthHandler) ObtainTokenPair(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewMissingFields("Username and password required")
	}

	pair, err := h.auth.IssueTokenPair(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Login successful", dto.TokenPairResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
	})
}

// RefreshToken handles POST /api/token/refresh/.
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	var req dto.RefreshRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewMissingFields("Refresh token required")
	}

	access, err := h.auth.RefreshAccessToken(c.UserContext(), req.Refresh)
	if err != nil {
		return err
	}

	return respond(c, http.StatusOK, "Access token refreshed", dto.AccessTokenResponse{Access: access})
}
