package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Identity_APP_BackEnd/internal/service"
	"github.com/njprem/Identity_APP_BackEnd/internal/util"
)

type PasswordResetHandler struct {
	resets *service.PasswordResetService
}

func RegisterPasswordReset(e *echo.Echo, resets *service.PasswordResetService) {
	handler := &PasswordResetHandler{resets: resets}

	group := e.Group("/api/v1/auth/password-reset")
	group.POST("/request", handler.request)
	group.GET("/validate", handler.validate)
	group.POST("/confirm", handler.confirm)
}

// request handles POST /api/v1/auth/password-reset/request. It answers the
// same way whether or not the email has an account.
func (h *PasswordResetHandler) request(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	if err := h.resets.Request(c.Request().Context(), req.Email); err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to process request"))
	}
	return c.JSON(http.StatusOK, util.Data("message", "if the email is registered, a reset link has been sent"))
}

// validate handles GET /api/v1/auth/password-reset/validate?token=...
func (h *PasswordResetHandler) validate(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, util.Error("token is required"))
	}

	if _, err := h.resets.Validate(c.Request().Context(), token); err != nil {
		if errors.Is(err, service.ErrInvalidResetToken) {
			return c.JSON(http.StatusBadRequest, util.Error("invalid or expired reset token"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to validate token"))
	}
	return c.JSON(http.StatusOK, util.Data("valid", true))
}

// confirm handles POST /api/v1/auth/password-reset/confirm
func (h *PasswordResetHandler) confirm(c echo.Context) error {
	var req ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	if req.Token == "" {
		return c.JSON(http.StatusBadRequest, util.Error("token is required"))
	}

	err := h.resets.Reset(c.Request().Context(), req.Token, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetToken):
			return c.JSON(http.StatusBadRequest, util.Error("invalid or expired reset token"))
		case errors.Is(err, service.ErrPasswordTooWeak):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		case errors.Is(err, service.ErrAccountNotFound):
			return c.JSON(http.StatusNotFound, util.Error("account not found"))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to reset password"))
		}
	}
	return c.JSON(http.StatusOK, util.Data("reset", true))
}
