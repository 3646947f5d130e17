package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/njprem/Identity_APP_BackEnd/internal/service"
	"github.com/njprem/Identity_APP_BackEnd/internal/util"
)

type AuthHandler struct {
	identity *service.IdentityService
}

func RegisterAuth(e *echo.Echo, identity *service.IdentityService) {
	handler := &AuthHandler{identity: identity}

	public := e.Group("/api/v1/auth")
	public.POST("/register", handler.register)
	public.POST("/guest", handler.registerGuest)
	public.POST("/login", handler.login)
	public.POST("/google", handler.loginGoogle)
	public.POST("/apikey", handler.loginAPIKey)

	protected := e.Group("/api/v1/auth", RequireAuth(identity))
	protected.GET("/me", handler.me)
	protected.POST("/password", handler.changePassword)
	protected.POST("/email", handler.changeEmail)
	protected.POST("/api-key", handler.generateAPIKey)
	protected.DELETE("", handler.deleteAccount)
}

// register handles POST /api/v1/auth/register
func (h *AuthHandler) register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	input := service.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ProfileImageURL: req.ProfileImageURL,
		Phone:           req.Phone,
		UserType:        req.UserType,
		OrganizationID:  req.OrganizationID,
	}
	if req.DateOfBirth != "" {
		// Bad dates are dropped rather than rejected; the field is optional.
		if dob, err := time.Parse("2006-01-02", req.DateOfBirth); err == nil {
			input.DateOfBirth = &dob
		}
	}

	result, err := h.identity.RegisterWithEmail(c.Request().Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailAlreadyUsed):
			return c.JSON(http.StatusConflict, util.Error("email already registered"))
		case errors.Is(err, service.ErrPasswordTooWeak):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to create account"))
		}
	}
	return c.JSON(http.StatusCreated, newAuthResponse(result))
}

// registerGuest handles POST /api/v1/auth/guest
func (h *AuthHandler) registerGuest(c echo.Context) error {
	var req GuestRegisterRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	result, err := h.identity.RegisterGuest(c.Request().Context(), req.Name, req.Email)
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyUsed) {
			return c.JSON(http.StatusConflict, util.Error("email already registered"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to create guest account"))
	}
	return c.JSON(http.StatusCreated, newAuthResponse(result))
}

// login handles POST /api/v1/auth/login
func (h *AuthHandler) login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	result, err := h.identity.LoginWithEmail(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, util.Error("invalid email or password"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to sign in"))
	}
	return c.JSON(http.StatusOK, newAuthResponse(result))
}

// loginGoogle handles POST /api/v1/auth/google
func (h *AuthHandler) loginGoogle(c echo.Context) error {
	var req GoogleLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	result, err := h.identity.LoginWithGoogle(c.Request().Context(), req.IDToken)
	if err != nil {
		if errors.Is(err, service.ErrInvalidGoogleToken) {
			return c.JSON(http.StatusUnauthorized, util.Error("invalid google token"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to sign in"))
	}
	return c.JSON(http.StatusOK, newAuthResponse(result))
}

// loginAPIKey handles POST /api/v1/auth/apikey
func (h *AuthHandler) loginAPIKey(c echo.Context) error {
	var req APIKeyLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	result, err := h.identity.LoginWithAPIKey(c.Request().Context(), req.APIKey)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, util.Error("invalid api key"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to sign in"))
	}
	return c.JSON(http.StatusOK, newAuthResponse(result))
}

// me handles GET /api/v1/auth/me
func (h *AuthHandler) me(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	return c.JSON(http.StatusOK, util.Data("user", user))
}

// changePassword handles POST /api/v1/auth/password
func (h *AuthHandler) changePassword(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	err := h.identity.ChangePassword(c.Request().Context(), user.ID, req.Password, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			return c.JSON(http.StatusUnauthorized, util.Error("current password is incorrect"))
		case errors.Is(err, service.ErrPasswordTooWeak):
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		default:
			return c.JSON(http.StatusInternalServerError, util.Error("unable to change password"))
		}
	}
	return c.JSON(http.StatusOK, util.Data("updated", true))
}

// changeEmail handles POST /api/v1/auth/email
func (h *AuthHandler) changeEmail(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	var req ChangeEmailRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	if err := h.identity.ChangeEmail(c.Request().Context(), user.ID, req.Email); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return c.JSON(http.StatusNotFound, util.Error("account not found"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to change email"))
	}
	return c.JSON(http.StatusOK, util.Data("updated", true))
}

// generateAPIKey handles POST /api/v1/auth/api-key
func (h *AuthHandler) generateAPIKey(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	key, err := h.identity.GenerateAPIKey(c.Request().Context(), user.ID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to generate api key"))
	}
	return c.JSON(http.StatusOK, util.Data("api_key", key))
}

// deleteAccount handles DELETE /api/v1/auth
func (h *AuthHandler) deleteAccount(c echo.Context) error {
	user, ok := CurrentUser(c)
	if !ok || user == nil {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}

	if err := h.identity.DeleteAccount(c.Request().Context(), user.ID); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return c.JSON(http.StatusNotFound, util.Error("account not found"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to delete account"))
	}
	return c.JSON(http.StatusOK, util.Data("deleted", true))
}
