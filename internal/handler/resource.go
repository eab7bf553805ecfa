package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gearguard/gearguard/internal/model"
	"github.com/gearguard/gearguard/internal/repository"
)

// ResourceHandler serves the master-data tables that populate dropdowns.
// Reads are open to any authenticated user; writes are admin-only via the
// router.
type ResourceHandler struct {
	Resources *repository.ResourceRepo
	Log       zerolog.Logger
}

func NewResourceHandler(r *repository.ResourceRepo, log zerolog.Logger) *ResourceHandler {
	return &ResourceHandler{Resources: r, Log: log}
}

// List dispatches on the :type path segment.
func (h *ResourceHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	var (
		data any
		err  error
	)
	switch c.Param("type") {
	case "companies":
		data, err = h.Resources.ListCompanies(ctx)
	case "departments":
		data, err = h.Resources.ListDepartments(ctx)
	case "work-centers":
		data, err = h.Resources.ListWorkCenters(ctx)
	case "categories":
		data, err = h.Resources.ListCategories(ctx)
	default:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid resource type"})
	}
	if err != nil {
		h.Log.Error().Err(err).Str("type", c.Param("type")).Msg("list resources failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusOK, data)
}

type namedReq struct {
	Name string `json:"name"`
}

func (h *ResourceHandler) CreateCompany(c echo.Context) error {
	var req namedReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Resources.CreateCompany(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		h.Log.Error().Err(err).Msg("create company failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": req.Name})
}

func (h *ResourceHandler) CreateDepartment(c echo.Context) error {
	var req namedReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Resources.CreateDepartment(ctx, strings.TrimSpace(req.Name))
	if err != nil {
		h.Log.Error().Err(err).Msg("create department failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": req.Name})
}

type workCenterReq struct {
	Name      string `json:"name"`
	Location  string `json:"location"`
	CompanyID uint64 `json:"company_id"`
}

func (h *ResourceHandler) CreateWorkCenter(c echo.Context) error {
	var req workCenterReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Resources.CreateWorkCenter(ctx, model.WorkCenter{
		Name:      strings.TrimSpace(req.Name),
		Location:  req.Location,
		CompanyID: req.CompanyID,
	})
	if err != nil {
		h.Log.Error().Err(err).Msg("create work center failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": req.Name})
}

type categoryReq struct {
	Name                    string `json:"name"`
	MaintenanceIntervalDays int    `json:"maintenance_interval_days"`
}

func (h *ResourceHandler) CreateCategory(c echo.Context) error {
	var req categoryReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Resources.CreateCategory(ctx, model.EquipmentCategory{
		Name:                    strings.TrimSpace(req.Name),
		MaintenanceIntervalDays: req.MaintenanceIntervalDays,
	})
	if err != nil {
		h.Log.Error().Err(err).Msg("create category failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id, "name": req.Name})
}
