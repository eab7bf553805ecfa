package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/gearguard/gearguard/internal/model"
)

type RequestRepo struct{ DB *sql.DB }

func NewRequestRepo(db *sql.DB) *RequestRepo { return &RequestRepo{DB: db} }

// RequestFilter narrows List results to what the caller's role may see.
// Zero values mean no filtering (admin view).
type RequestFilter struct {
	TechnicianID uint64 // technician: only requests assigned to them
	CreatedByID  uint64 // user: only requests they created
}

const requestSelect = `SELECT r.id, r.subject, r.description, r.scope,
       COALESCE(r.equipment_id,0), COALESCE(r.work_center_id,0), COALESCE(r.category_id,0),
       r.mtype, r.created_by_id, COALESCE(r.team_id,0), COALESCE(r.technician_id,0),
       r.priority, r.stage, r.request_date, r.scheduled_date, r.duration_hours, r.close_date,
       COALESCE(cu.full_name,''), COALESCE(tu.full_name,''), COALESCE(t.name,''),
       COALESCE(e.name,''), COALESCE(w.name,'')
FROM maintenance_requests r
LEFT JOIN users cu ON cu.id = r.created_by_id
LEFT JOIN users tu ON tu.id = r.technician_id
LEFT JOIN teams t ON t.id = r.team_id
LEFT JOIN equipment e ON e.id = r.equipment_id
LEFT JOIN work_centers w ON w.id = r.work_center_id`

// Create inserts a request and returns its ID.
func (r *RequestRepo) Create(ctx context.Context, m model.MaintenanceRequest) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO maintenance_requests
		 (subject, description, scope, equipment_id, work_center_id, category_id, mtype,
		  created_by_id, team_id, technician_id, priority, stage, request_date, scheduled_date, duration_hours)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		m.Subject, m.Description, string(m.Scope),
		nullableID(m.EquipmentID), nullableID(m.WorkCenterID), nullableID(m.CategoryID), m.Type,
		m.CreatedByID, nullableID(m.TeamID), nullableID(m.TechnicianID),
		string(m.Priority), string(m.Stage), m.RequestDate, m.ScheduledDate, m.DurationHours)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// List returns requests visible under the filter, newest first.
func (r *RequestRepo) List(ctx context.Context, f RequestFilter) ([]model.MaintenanceRequest, error) {
	q := requestSelect
	var conds []string
	var args []any
	if f.TechnicianID != 0 {
		conds = append(conds, "r.technician_id=?")
		args = append(args, f.TechnicianID)
	}
	if f.CreatedByID != 0 {
		conds = append(conds, "r.created_by_id=?")
		args = append(args, f.CreatedByID)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY r.request_date DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

// ListForEquipment returns the most recent requests for one machine.
func (r *RequestRepo) ListForEquipment(ctx context.Context, equipmentID uint64, limit int) ([]model.MaintenanceRequest, error) {
	rows, err := r.DB.QueryContext(ctx,
		requestSelect+" WHERE r.equipment_id=? ORDER BY r.request_date DESC LIMIT ?",
		equipmentID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanRequests(rows)
}

// GetByID fetches a single request.
func (r *RequestRepo) GetByID(ctx context.Context, id uint64) (model.MaintenanceRequest, error) {
	rows, err := r.DB.QueryContext(ctx, requestSelect+" WHERE r.id=? LIMIT 1", id)
	if err != nil {
		return model.MaintenanceRequest{}, err
	}
	defer rows.Close()
	out, err := scanRequests(rows)
	if err != nil {
		return model.MaintenanceRequest{}, err
	}
	if len(out) == 0 {
		return model.MaintenanceRequest{}, ErrNotFound
	}
	return out[0], nil
}

// Update persists the mutable fields of an already-loaded request. The
// handler applies role rules before calling this.
func (r *RequestRepo) Update(ctx context.Context, m model.MaintenanceRequest) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE maintenance_requests
		 SET subject=?, description=?, team_id=?, technician_id=?, priority=?, stage=?,
		     scheduled_date=?, duration_hours=?, close_date=?
		 WHERE id=?`,
		m.Subject, m.Description, nullableID(m.TeamID), nullableID(m.TechnicianID),
		string(m.Priority), string(m.Stage), m.ScheduledDate, m.DurationHours, m.CloseDate, m.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, m.ID); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a request permanently.
func (r *RequestRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM maintenance_requests WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountOpen counts requests still in a non-terminal stage.
func (r *RequestRepo) CountOpen(ctx context.Context) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM maintenance_requests WHERE stage IN (?,?)",
		string(model.StageNew), string(model.StageInProgress)).Scan(&n)
	return n, err
}

func scanRequests(rows *sql.Rows) ([]model.MaintenanceRequest, error) {
	var out []model.MaintenanceRequest
	for rows.Next() {
		var m model.MaintenanceRequest
		var scope, priority, stage string
		if err := rows.Scan(&m.ID, &m.Subject, &m.Description, &scope,
			&m.EquipmentID, &m.WorkCenterID, &m.CategoryID,
			&m.Type, &m.CreatedByID, &m.TeamID, &m.TechnicianID,
			&priority, &stage, &m.RequestDate, &m.ScheduledDate, &m.DurationHours, &m.CloseDate,
			&m.CreatorName, &m.TechnicianName, &m.TeamName,
			&m.EquipmentName, &m.WorkCenterName); err != nil {
			return nil, err
		}
		m.Scope = model.Scope(scope)
		m.Priority = model.Priority(priority)
		m.Stage = model.Stage(stage)
		out = append(out, m)
	}
	return out, rows.Err()
}
