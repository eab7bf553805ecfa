package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gearguard/gearguard/internal/model"
	"github.com/gearguard/gearguard/internal/queue"
	"github.com/gearguard/gearguard/internal/repository"
	queue_publisher "github.com/gearguard/gearguard/internal/service"
)

// RequestHandler implements the maintenance-request ticketing endpoints.
// What a caller may see and change depends on the role the access guard
// attached; the guard itself makes no data-visibility decisions.
type RequestHandler struct {
	Requests *repository.RequestRepo
	Log      zerolog.Logger
}

func NewRequestHandler(r *repository.RequestRepo, log zerolog.Logger) *RequestHandler {
	return &RequestHandler{Requests: r, Log: log}
}

type createRequestReq struct {
	Subject       string  `json:"subject"`
	Title         string  `json:"title"` // frontend alias for subject
	Description   string  `json:"description"`
	Scope         string  `json:"maintenance_scope"`
	SelectedID    uint64  `json:"selected_id"`
	CategoryID    uint64  `json:"category_id"`
	Type          string  `json:"maintenance_type"`
	TeamID        uint64  `json:"team_id"`
	TechnicianID  uint64  `json:"technician_id"`
	ScheduledDate string  `json:"scheduled_date"`
	DurationHours float64 `json:"duration_hours"`
	Priority      string  `json:"priority"`
}

// Create opens a ticket with the caller as creator and publishes a
// request.created event. Publish failures are logged, never fatal.
func (h *RequestHandler) Create(c echo.Context) error {
	uid, _, ok := identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req createRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = strings.TrimSpace(req.Title)
	}
	if subject == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "subject is required"})
	}

	scope := model.Scope(req.Scope)
	if req.Scope == "" {
		scope = model.ScopeEquipment
	}
	if !scope.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "maintenance_scope must be Equipment or Work Center"})
	}

	priority := model.PriorityLow
	if req.Priority != "" {
		p, ok := model.ParsePriority(req.Priority)
		if !ok {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "priority must be low, medium, high or critical"})
		}
		priority = p
	}

	mtype := strings.TrimSpace(req.Type)
	if mtype == "" {
		mtype = "Corrective"
	}

	m := model.MaintenanceRequest{
		Subject:       subject,
		Description:   req.Description,
		Scope:         scope,
		CategoryID:    req.CategoryID,
		Type:          mtype,
		CreatedByID:   uid,
		TeamID:        req.TeamID,
		TechnicianID:  req.TechnicianID,
		Priority:      priority,
		Stage:         model.StageNew,
		RequestDate:   time.Now().UTC(),
		DurationHours: req.DurationHours,
	}
	if scope == model.ScopeEquipment {
		m.EquipmentID = req.SelectedID
	} else {
		m.WorkCenterID = req.SelectedID
	}
	if d, ok := parseDate(req.ScheduledDate); ok {
		m.ScheduledDate = &d
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Requests.Create(ctx, m)
	if err != nil {
		h.Log.Error().Err(err).Msg("create request failed")
		return internalError(c, "server error")
	}
	m.ID = id

	if err := queue_publisher.PublishRequestCreated(c.Request().Context(), queue.RequestCreatedEvent{
		RequestID:   id,
		Subject:     m.Subject,
		Scope:       string(m.Scope),
		TargetID:    req.SelectedID,
		CreatedByID: uid,
		Priority:    string(m.Priority),
		Stage:       string(m.Stage),
		RequestedAt: m.RequestDate.Format(time.RFC3339),
	}); err != nil {
		h.Log.Warn().Err(err).Uint64("request_id", id).Msg("request.created publish failed")
	}

	return c.JSON(http.StatusCreated, echo.Map{"message": "request created successfully", "id": id})
}

// List returns tickets the caller may see: technicians get their
// assignments, users their own tickets, admins everything.
func (h *RequestHandler) List(c echo.Context) error {
	uid, role, ok := identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var f repository.RequestFilter
	switch role {
	case model.RoleTechnician:
		f.TechnicianID = uid
	case model.RoleUser:
		f.CreatedByID = uid
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	list, err := h.Requests.List(ctx, f)
	if err != nil {
		h.Log.Error().Err(err).Msg("list requests failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusOK, list)
}

// Get returns one ticket.
func (h *RequestHandler) Get(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		h.Log.Error().Err(err).Msg("get request failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusOK, m)
}

type updateRequestReq struct {
	Subject       string   `json:"subject"`
	Title         string   `json:"title"`
	Description   *string  `json:"description"`
	Status        string   `json:"status"`
	Stage         string   `json:"stage"`
	TechnicianID  uint64   `json:"technician_id"`
	TeamID        uint64   `json:"team_id"`
	ScheduledDate string   `json:"scheduled_date"`
	DurationHours *float64 `json:"duration_hours"`
	Priority      string   `json:"priority"`
}

// Update edits a ticket. Users may only touch subject and description;
// admins and technicians may also move the stage (a terminal stage stamps
// the close date), assign people, and reschedule.
func (h *RequestHandler) Update(c echo.Context) error {
	_, role, ok := identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req updateRequestReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	m, err := h.Requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		h.Log.Error().Err(err).Msg("load request failed")
		return internalError(c, "server error")
	}

	subject := strings.TrimSpace(req.Subject)
	if subject == "" {
		subject = strings.TrimSpace(req.Title)
	}
	if subject != "" {
		m.Subject = subject
	}
	if req.Description != nil {
		m.Description = *req.Description
	}

	if role != model.RoleUser {
		stageIn := req.Status
		if stageIn == "" {
			stageIn = req.Stage
		}
		if stageIn != "" {
			stage, ok := model.ParseStage(stageIn)
			if !ok {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown stage"})
			}
			m.Stage = stage
			if stage.Terminal() {
				now := time.Now().UTC()
				m.CloseDate = &now
			}
		}
		if req.TechnicianID != 0 {
			m.TechnicianID = req.TechnicianID
		}
		if req.TeamID != 0 {
			m.TeamID = req.TeamID
		}
		if d, ok := parseDate(req.ScheduledDate); ok {
			m.ScheduledDate = &d
		}
		if req.DurationHours != nil {
			m.DurationHours = *req.DurationHours
		}
		if req.Priority != "" {
			p, ok := model.ParsePriority(req.Priority)
			if !ok {
				return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown priority"})
			}
			m.Priority = p
		}
	}

	if err := h.Requests.Update(ctx, m); err != nil {
		h.Log.Error().Err(err).Msg("update request failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "request updated", "request": m})
}

// Delete removes a ticket; admin only (enforced by the router).
func (h *RequestHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Requests.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "request not found"})
		}
		h.Log.Error().Err(err).Msg("delete request failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "request deleted successfully"})
}
