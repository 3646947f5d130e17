package http

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/Identity_APP_BackEnd/internal/service"
	"github.com/njprem/Identity_APP_BackEnd/internal/util"
)

type AdminHandler struct {
	identity *service.IdentityService
	resets   *service.PasswordResetService
	guests   *service.GuestCleanupService
}

func RegisterAdmin(e *echo.Echo, identity *service.IdentityService, resets *service.PasswordResetService, guests *service.GuestCleanupService) {
	handler := &AdminHandler{identity: identity, resets: resets, guests: guests}

	admin := e.Group("/api/v1/admin", RequireAuth(identity), RequireAdmin())
	admin.POST("/sweeps/tokens", handler.sweepTokens)
	admin.POST("/sweeps/guests", handler.sweepGuests)
	admin.DELETE("/users/:id", handler.deleteUser)
}

// sweepTokens handles POST /api/v1/admin/sweeps/tokens. The sweep is
// idempotent, so it is also wired to a background ticker; this endpoint just
// lets operators force a pass.
func (h *AdminHandler) sweepTokens(c echo.Context) error {
	count, err := h.resets.Sweep(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("token sweep failed"))
	}
	return c.JSON(http.StatusOK, util.Data("deleted", count))
}

// sweepGuests handles POST /api/v1/admin/sweeps/guests
func (h *AdminHandler) sweepGuests(c echo.Context) error {
	count, err := h.guests.Run(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("guest sweep failed"))
	}
	return c.JSON(http.StatusOK, util.Data("deleted", count))
}

// deleteUser handles DELETE /api/v1/admin/users/:id
func (h *AdminHandler) deleteUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid user id"))
	}
	if err := h.identity.DeleteAccount(c.Request().Context(), id); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return c.JSON(http.StatusNotFound, util.Error("account not found"))
		}
		return c.JSON(http.StatusInternalServerError, util.Error("unable to delete account"))
	}
	return c.JSON(http.StatusOK, util.Data("deleted", true))
}
