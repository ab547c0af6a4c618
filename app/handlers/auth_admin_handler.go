package handlers

import (
	"errors"
	"time"

	"github.com/amirphl/desa-ngasem/app/dto"
	"github.com/amirphl/desa-ngasem/app/middleware"
	businessflow "github.com/amirphl/desa-ngasem/business_flow"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

// AdminAuthHandlerInterface defines the contract for admin auth handlers
type AdminAuthHandlerInterface interface {
	Login(c fiber.Ctx) error
	Logout(c fiber.Ctx) error
	Session(c fiber.Ctx) error
}

// AdminAuthHandler drives the Session Guard attached by the session middleware
type AdminAuthHandler struct {
	baseHandler
	validator *validator.Validate
}

func NewAdminAuthHandler(requestTimeout time.Duration, logger *zap.Logger) AdminAuthHandlerInterface {
	return &AdminAuthHandler{
		baseHandler: newBaseHandler(logger, requestTimeout),
		validator:   businessflow.NewValidator(),
	}
}

// Login checks the admin credential pair
// @Summary Admin login
// @Description Log the current session in with the admin username and password
// @Tags Admin Authentication
// @Accept json
// @Produce json
// @Param request body dto.AdminLoginRequest true "Admin credentials"
// @Success 200 {object} dto.APIResponse{data=dto.AdminSessionResponse}
// @Failure 400 {object} dto.APIResponse "Invalid request"
// @Failure 401 {object} dto.APIResponse "Invalid credentials"
// @Router /api/v1/admin/auth/login [post]
func (h *AdminAuthHandler) Login(c fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}
	if err := h.validator.Struct(&req); err != nil {
		missing := make([]string, 0, 2)
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				missing = append(missing, fe.Field())
			}
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Username and password are required", "VALIDATION_ERROR", missing)
	}

	guard, ok := middleware.SessionGuardFrom(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Session not available", "SESSION_MISSING", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/auth/login")
	defer cancel()

	if !guard.Login(ctx, req.Username, req.Password) {
		h.logger.Info("Admin login rejected", zap.String("ip", c.IP()), zap.String("session_id", middleware.SessionIDFrom(c)))
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Invalid username or password", "INVALID_CREDENTIALS", nil)
	}

	h.logger.Info("Admin logged in", zap.String("ip", c.IP()), zap.String("session_id", middleware.SessionIDFrom(c)))
	return h.SuccessResponse(c, fiber.StatusOK, "Login successful", sessionResponse(guard))
}

// Logout ends the admin session; calling it when logged out is fine
// @Summary Admin logout
// @Tags Admin Authentication
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdminSessionResponse}
// @Router /api/v1/admin/auth/logout [post]
func (h *AdminAuthHandler) Logout(c fiber.Ctx) error {
	guard, ok := middleware.SessionGuardFrom(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Session not available", "SESSION_MISSING", nil)
	}

	ctx, cancel := h.createRequestContext(c, "/api/v1/admin/auth/logout")
	defer cancel()

	guard.Logout(ctx)
	return h.SuccessResponse(c, fiber.StatusOK, "Logged out", sessionResponse(guard))
}

// Session reports whether the current session is logged in
// @Summary Admin session
// @Tags Admin Authentication
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.AdminSessionResponse}
// @Router /api/v1/admin/auth/session [get]
func (h *AdminAuthHandler) Session(c fiber.Ctx) error {
	guard, ok := middleware.SessionGuardFrom(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Session not available", "SESSION_MISSING", nil)
	}
	return h.SuccessResponse(c, fiber.StatusOK, "Session retrieved", sessionResponse(guard))
}

func sessionResponse(guard *businessflow.SessionGuard) dto.AdminSessionResponse {
	resp := dto.AdminSessionResponse{
		Authenticated: guard.CheckAuth(),
		State:         string(guard.State()),
	}
	if loginAt, ok := guard.LoginTime(); ok {
		resp.LoginAt = &loginAt
	}
	if expiresAt, ok := guard.ExpiresAt(); ok {
		resp.ExpiresAt = &expiresAt
	}
	return resp
}
