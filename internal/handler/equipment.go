package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gearguard/gearguard/internal/model"
	"github.com/gearguard/gearguard/internal/repository"
)

// EquipmentHandler implements the machine registry endpoints.
type EquipmentHandler struct {
	Equipment *repository.EquipmentRepo
	Requests  *repository.RequestRepo
	Log       zerolog.Logger
}

func NewEquipmentHandler(e *repository.EquipmentRepo, r *repository.RequestRepo, log zerolog.Logger) *EquipmentHandler {
	return &EquipmentHandler{Equipment: e, Requests: r, Log: log}
}

type equipmentReq struct {
	Name               string `json:"name"`
	SerialNumber       string `json:"serial_number"`
	CategoryID         uint64 `json:"category_id"`
	WorkCenterID       uint64 `json:"work_center_id"`
	DepartmentID       uint64 `json:"department_id"`
	Location           string `json:"location"`
	PurchaseDate       string `json:"purchase_date"`
	WarrantyExpiration string `json:"warranty_expiration"`
}

// Create adds a machine; admin only (enforced by the router).
func (h *EquipmentHandler) Create(c echo.Context) error {
	var req equipmentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if strings.TrimSpace(req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	e := model.Equipment{
		Name:         strings.TrimSpace(req.Name),
		SerialNumber: strings.TrimSpace(req.SerialNumber),
		CategoryID:   req.CategoryID,
		WorkCenterID: req.WorkCenterID,
		DepartmentID: req.DepartmentID,
		Location:     req.Location,
		Status:       model.EquipmentActive,
	}
	if d, ok := parseDate(req.PurchaseDate); ok {
		e.PurchaseDate = &d
	}
	if d, ok := parseDate(req.WarrantyExpiration); ok {
		e.WarrantyExpiration = &d
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Equipment.Create(ctx, e)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "serial number already registered"})
		}
		h.Log.Error().Err(err).Msg("create equipment failed")
		return internalError(c, "server error")
	}
	e.ID = id
	return c.JSON(http.StatusCreated, echo.Map{"message": "equipment added", "id": id})
}

// List returns machines, optionally filtered by status, category or work
// center query parameters.
func (h *EquipmentHandler) List(c echo.Context) error {
	var f repository.EquipmentFilter
	if s := c.QueryParam("status"); s != "" {
		st := model.EquipmentStatus(s)
		if !st.Valid() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown status filter"})
		}
		f.Status = st
	}
	if v := c.QueryParam("category_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "category_id must be numeric"})
		}
		f.CategoryID = n
	}
	if v := c.QueryParam("work_center_id"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "work_center_id must be numeric"})
		}
		f.WorkCenterID = n
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Equipment.List(ctx, f)
	if err != nil {
		h.Log.Error().Err(err).Msg("list equipment failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns one machine with its recent maintenance history.
func (h *EquipmentHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	e, err := h.Equipment.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "equipment not found"})
		}
		h.Log.Error().Err(err).Msg("get equipment failed")
		return internalError(c, "server error")
	}
	history, err := h.Requests.ListForEquipment(ctx, id, 5)
	if err != nil {
		h.Log.Error().Err(err).Msg("equipment history failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"equipment": e, "recent_requests": history})
}

// UpdateStatus is the quick action for technicians and admins: mark a
// machine under maintenance, retired or broken.
func (h *EquipmentHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	status := model.EquipmentStatus(req.Status)
	if !status.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "status must be active, maintenance, retired or broken"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Equipment.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "equipment not found"})
		}
		h.Log.Error().Err(err).Msg("update equipment status failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "status updated", "status": string(status)})
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
