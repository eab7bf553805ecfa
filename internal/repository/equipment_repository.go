package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/gearguard/gearguard/internal/model"
)

type EquipmentRepo struct{ DB *sql.DB }

func NewEquipmentRepo(db *sql.DB) *EquipmentRepo { return &EquipmentRepo{DB: db} }

// EquipmentFilter narrows List results. Zero values mean no filtering.
type EquipmentFilter struct {
	Status       model.EquipmentStatus
	CategoryID   uint64
	WorkCenterID uint64
}

// Create inserts a machine and returns its ID. A duplicate serial number
// maps to ErrConflict.
func (r *EquipmentRepo) Create(ctx context.Context, e model.Equipment) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO equipment
		 (name, serial_number, category_id, work_center_id, department_id, location, status, purchase_date, warranty_expiration)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		e.Name, e.SerialNumber, nullableID(e.CategoryID), nullableID(e.WorkCenterID), nullableID(e.DepartmentID),
		e.Location, string(e.Status), e.PurchaseDate, e.WarrantyExpiration)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return 0, ErrConflict
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// List returns machines matching the filter, joined with category and
// work center names for display.
func (r *EquipmentRepo) List(ctx context.Context, f EquipmentFilter) ([]model.Equipment, error) {
	q := `SELECT e.id, e.name, e.serial_number,
	             COALESCE(e.category_id,0), COALESCE(e.work_center_id,0), COALESCE(e.department_id,0),
	             e.location, e.status, e.purchase_date, e.warranty_expiration, e.created_at,
	             COALESCE(c.name,''), COALESCE(w.name,'')
	      FROM equipment e
	      LEFT JOIN equipment_categories c ON c.id = e.category_id
	      LEFT JOIN work_centers w ON w.id = e.work_center_id`
	var conds []string
	var args []any
	if f.Status != "" {
		conds = append(conds, "e.status=?")
		args = append(args, string(f.Status))
	}
	if f.CategoryID != 0 {
		conds = append(conds, "e.category_id=?")
		args = append(args, f.CategoryID)
	}
	if f.WorkCenterID != 0 {
		conds = append(conds, "e.work_center_id=?")
		args = append(args, f.WorkCenterID)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY e.created_at DESC"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Equipment
	for rows.Next() {
		var e model.Equipment
		var status string
		if err := rows.Scan(&e.ID, &e.Name, &e.SerialNumber, &e.CategoryID, &e.WorkCenterID, &e.DepartmentID,
			&e.Location, &status, &e.PurchaseDate, &e.WarrantyExpiration, &e.CreatedAt,
			&e.CategoryName, &e.WorkCenterName); err != nil {
			return nil, err
		}
		e.Status = model.EquipmentStatus(status)
		out = append(out, e)
	}
	return out, rows.Err()
}

// GetByID fetches a single machine.
func (r *EquipmentRepo) GetByID(ctx context.Context, id uint64) (model.Equipment, error) {
	var e model.Equipment
	var status string
	err := r.DB.QueryRowContext(ctx,
		`SELECT e.id, e.name, e.serial_number,
		        COALESCE(e.category_id,0), COALESCE(e.work_center_id,0), COALESCE(e.department_id,0),
		        e.location, e.status, e.purchase_date, e.warranty_expiration, e.created_at,
		        COALESCE(c.name,''), COALESCE(w.name,'')
		 FROM equipment e
		 LEFT JOIN equipment_categories c ON c.id = e.category_id
		 LEFT JOIN work_centers w ON w.id = e.work_center_id
		 WHERE e.id=? LIMIT 1`, id).
		Scan(&e.ID, &e.Name, &e.SerialNumber, &e.CategoryID, &e.WorkCenterID, &e.DepartmentID,
			&e.Location, &status, &e.PurchaseDate, &e.WarrantyExpiration, &e.CreatedAt,
			&e.CategoryName, &e.WorkCenterName)
	if err == sql.ErrNoRows {
		return model.Equipment{}, ErrNotFound
	}
	if err != nil {
		return model.Equipment{}, err
	}
	e.Status = model.EquipmentStatus(status)
	return e, nil
}

// UpdateStatus sets the machine state.
func (r *EquipmentRepo) UpdateStatus(ctx context.Context, id uint64, status model.EquipmentStatus) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE equipment SET status=? WHERE id=?", string(status), id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// nullableID turns a zero id into SQL NULL so optional foreign keys stay
// honest.
func nullableID(id uint64) any {
	if id == 0 {
		return nil
	}
	return id
}
