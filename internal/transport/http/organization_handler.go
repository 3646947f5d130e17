package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/njprem/Identity_APP_BackEnd/internal/domain"
	"github.com/njprem/Identity_APP_BackEnd/internal/repository/ports"
	"github.com/njprem/Identity_APP_BackEnd/internal/service"
	"github.com/njprem/Identity_APP_BackEnd/internal/util"
)

type OrganizationHandler struct {
	orgs *service.OrganizationService
}

type OrganizationCreateRequest struct {
	OrgName       string   `json:"org_name"`
	OrgCode       string   `json:"org_code"`
	DarkLogo      *string  `json:"dark_logo,omitempty"`
	LightLogo     *string  `json:"light_logo,omitempty"`
	Plans         []string `json:"plans,omitempty"`
	Users         []string `json:"users,omitempty"`
	Status        *string  `json:"status,omitempty"`
	SignupEnabled *bool    `json:"signup_enabled,omitempty"`
}

type OrganizationUpdateRequest struct {
	OrgName       *string  `json:"org_name,omitempty"`
	OrgCode       *string  `json:"org_code,omitempty"`
	DarkLogo      *string  `json:"dark_logo,omitempty"`
	LightLogo     *string  `json:"light_logo,omitempty"`
	Plans         []string `json:"plans,omitempty"`
	Users         []string `json:"users,omitempty"`
	Status        *string  `json:"status,omitempty"`
	SignupEnabled *bool    `json:"signup_enabled,omitempty"`
}

type MemberIDsRequest struct {
	UserIDs []string `json:"user_ids"`
}

type PlanIDsRequest struct {
	PlanIDs []string `json:"plan_ids"`
}

func RegisterOrganizations(e *echo.Echo, identity *service.IdentityService, orgs *service.OrganizationService) {
	handler := &OrganizationHandler{orgs: orgs}

	// org_code lookup backs the signup page, so it stays public.
	e.GET("/api/v1/organizations/code/:code", handler.getByCode)

	admin := e.Group("/api/v1/organizations", RequireAuth(identity), RequireAdmin())
	admin.POST("", handler.create)
	admin.GET("", handler.list)
	admin.GET("/:id", handler.get)
	admin.PUT("/:id", handler.update)
	admin.DELETE("/:id", handler.delete)
	admin.POST("/:id/users", handler.addUsers)
	admin.DELETE("/:id/users", handler.removeUsers)
	admin.POST("/:id/plans", handler.addPlans)
	admin.DELETE("/:id/plans", handler.removePlans)
	admin.POST("/:id/logo/:variant", handler.uploadLogo)
}

func (h *OrganizationHandler) create(c echo.Context) error {
	var req OrganizationCreateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	org, err := h.orgs.Create(c.Request().Context(), service.OrganizationCreateInput{
		OrgName:       req.OrgName,
		OrgCode:       req.OrgCode,
		DarkLogo:      req.DarkLogo,
		LightLogo:     req.LightLogo,
		Plans:         req.Plans,
		Users:         req.Users,
		Status:        req.Status,
		SignupEnabled: req.SignupEnabled,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrgCodeConflict):
			return c.JSON(http.StatusConflict, util.Error("organization code already exists"))
		case errors.Is(err, service.ErrInvalidOrgStatus):
			return c.JSON(http.StatusBadRequest, util.Error("invalid organization status"))
		default:
			return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
		}
	}
	return c.JSON(http.StatusCreated, util.Data("organization", org))
}

func (h *OrganizationHandler) list(c echo.Context) error {
	orgs, err := h.orgs.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to list organizations"))
	}
	return c.JSON(http.StatusOK, util.Data("organizations", orgs))
}

func (h *OrganizationHandler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid organization id"))
	}
	org, err := h.orgs.Get(c.Request().Context(), id)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("organization", org))
}

func (h *OrganizationHandler) getByCode(c echo.Context) error {
	org, err := h.orgs.GetByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		return h.mapError(c, err)
	}
	// Only what the signup page needs; membership stays private.
	return c.JSON(http.StatusOK, util.Envelope{
		"id":             org.ID,
		"org_name":       org.OrgName,
		"org_code":       org.OrgCode,
		"dark_logo":      org.DarkLogo,
		"light_logo":     org.LightLogo,
		"status":         org.Status,
		"signup_enabled": org.SignupEnabled,
	})
}

func (h *OrganizationHandler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid organization id"))
	}
	var req OrganizationUpdateRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}

	update := ports.OrganizationUpdate{
		OrgName:       req.OrgName,
		OrgCode:       req.OrgCode,
		DarkLogo:      req.DarkLogo,
		LightLogo:     req.LightLogo,
		Status:        req.Status,
		SignupEnabled: req.SignupEnabled,
	}
	if req.Plans != nil {
		plans := domain.StringList(req.Plans)
		update.Plans = &plans
	}
	if req.Users != nil {
		users := domain.StringList(req.Users)
		update.Users = &users
	}

	org, err := h.orgs.Update(c.Request().Context(), id, update)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("organization", org))
}

func (h *OrganizationHandler) delete(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid organization id"))
	}
	if err := h.orgs.Delete(c.Request().Context(), id); err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("deleted", true))
}

func (h *OrganizationHandler) addUsers(c echo.Context) error {
	return h.mutateMembers(c, h.orgs.AddUsers)
}

func (h *OrganizationHandler) removeUsers(c echo.Context) error {
	return h.mutateMembers(c, h.orgs.RemoveUsers)
}

func (h *OrganizationHandler) addPlans(c echo.Context) error {
	return h.mutatePlans(c, h.orgs.AddPlans)
}

func (h *OrganizationHandler) removePlans(c echo.Context) error {
	return h.mutatePlans(c, h.orgs.RemovePlans)
}

func (h *OrganizationHandler) mutateMembers(c echo.Context, op func(context.Context, uuid.UUID, []string) (*domain.Organization, error)) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid organization id"))
	}
	var req MemberIDsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	org, err := op(c.Request().Context(), id, req.UserIDs)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("organization", org))
}

func (h *OrganizationHandler) mutatePlans(c echo.Context, op func(context.Context, uuid.UUID, []string) (*domain.Organization, error)) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid organization id"))
	}
	var req PlanIDsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	org, err := op(c.Request().Context(), id, req.PlanIDs)
	if err != nil {
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("organization", org))
}

func (h *OrganizationHandler) uploadLogo(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid organization id"))
	}
	variant := c.Param("variant")

	fileHeader, err := c.FormFile("logo")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("logo file is required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("unable to read logo file"))
	}
	defer file.Close()

	org, err := h.orgs.UploadLogo(c.Request().Context(), id, variant, service.LogoUpload{
		Reader:      file,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidLogo) {
			return c.JSON(http.StatusBadRequest, util.Error("unsupported logo upload"))
		}
		return h.mapError(c, err)
	}
	return c.JSON(http.StatusOK, util.Data("organization", org))
}

func (h *OrganizationHandler) mapError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrOrganizationNotFound):
		return c.JSON(http.StatusNotFound, util.Error("organization not found"))
	case errors.Is(err, service.ErrOrgCodeConflict):
		return c.JSON(http.StatusConflict, util.Error("organization code already exists"))
	case errors.Is(err, service.ErrInvalidOrgStatus):
		return c.JSON(http.StatusBadRequest, util.Error("invalid organization status"))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("organization operation failed"))
	}
}
