package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/worldhost-group/support-dashboard/internal/api/dto"
	"github.com/worldhost-group/support-dashboard/internal/auth"
	"github.com/worldhost-group/support-dashboard/internal/config"
	"github.com/worldhost-group/support-dashboard/internal/service"
	apperrors "github.com/worldhost-group/support-dashboard/pkg/util"
)

// UsersHandler manages auth and profile endpoints.
type UsersHandler struct {
	service *service.AuthService
	cfg     config.SessionConfig
	secure  bool
}

// NewUsersHandler constructs handler. secure controls the session cookie's
// Secure flag and should be true outside development.
func NewUsersHandler(authService *service.AuthService, cfg config.SessionConfig, secure bool) *UsersHandler {
	return &UsersHandler{service: authService, cfg: cfg, secure: secure}
}

// Signup POST /api/auth/signup.
func (h *UsersHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, token, expiresAt, err := h.service.Signup(c.UserContext(), service.SignupInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}
	auth.AttachSessionCookie(c, h.cfg.CookieName, token, expiresAt, h.secure)
	return c.Status(http.StatusCreated).JSON(fiber.Map{"success": true, "user": dto.NewUserResponse(user)})
}

// Login POST /api/auth/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, token, expiresAt, err := h.service.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	auth.AttachSessionCookie(c, h.cfg.CookieName, token, expiresAt, h.secure)
	return c.JSON(fiber.Map{"success": true, "user": dto.NewUserResponse(user)})
}

// Logout POST /api/auth/logout.
func (h *UsersHandler) Logout(c *fiber.Ctx) error {
	if err := h.service.Logout(c.UserContext(), c.Cookies(h.cfg.CookieName)); err != nil {
		return err
	}
	auth.ClearSessionCookie(c, h.cfg.CookieName, h.secure)
	return c.JSON(fiber.Map{"success": true})
}

// ExtensionLogin POST /api/extension/login.
func (h *UsersHandler) ExtensionLogin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, token, expiresAt, err := h.service.ExtensionLogin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.ExtensionLoginResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: expiresAt.Format(time.RFC3339),
		User:      dto.NewUserResponse(user),
	})
}

// Profile GET /api/profile.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	return c.JSON(fiber.Map{"user": dto.NewUserResponse(principal.User)})
}

// UpdateProfile PATCH /api/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("session required")
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	user, err := h.service.UpdateProfile(c.UserContext(), principal.User, service.ProfileUpdateInput{
		Name:       req.Name,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Phone:      req.Phone,
		Bio:        req.Bio,
		Location:   req.Location,
		Facebook:   req.Facebook,
		Twitter:    req.Twitter,
		LinkedIn:   req.LinkedIn,
		Instagram:  req.Instagram,
		Country:    req.Country,
		CityState:  req.CityState,
		PostalCode: req.PostalCode,
		TaxID:      req.TaxID,
		AvatarURL:  req.AvatarURL,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "user": dto.NewUserResponse(user)})
}
