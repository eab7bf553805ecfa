package repository

import (
	"context"
	"database/sql"

	"github.com/gearguard/gearguard/internal/model"
)

// ResourceRepo handles the small master-data tables used to populate
// dropdowns: companies, departments, work centers, equipment categories.
type ResourceRepo struct{ DB *sql.DB }

func NewResourceRepo(db *sql.DB) *ResourceRepo { return &ResourceRepo{DB: db} }

func (r *ResourceRepo) CreateCompany(ctx context.Context, name string) (uint64, error) {
	return r.insert(ctx, "INSERT INTO companies (name) VALUES (?)", name)
}

func (r *ResourceRepo) CreateDepartment(ctx context.Context, name string) (uint64, error) {
	return r.insert(ctx, "INSERT INTO departments (name) VALUES (?)", name)
}

func (r *ResourceRepo) CreateWorkCenter(ctx context.Context, w model.WorkCenter) (uint64, error) {
	return r.insert(ctx,
		"INSERT INTO work_centers (name, location, company_id) VALUES (?,?,?)",
		w.Name, w.Location, nullableID(w.CompanyID))
}

func (r *ResourceRepo) CreateCategory(ctx context.Context, c model.EquipmentCategory) (uint64, error) {
	return r.insert(ctx,
		"INSERT INTO equipment_categories (name, maintenance_interval_days) VALUES (?,?)",
		c.Name, c.MaintenanceIntervalDays)
}

func (r *ResourceRepo) ListCompanies(ctx context.Context) ([]model.Company, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name FROM companies ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Company
	for rows.Next() {
		var c model.Company
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ResourceRepo) ListDepartments(ctx context.Context) ([]model.Department, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT id, name FROM departments ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.Department
	for rows.Next() {
		var d model.Department
		if err := rows.Scan(&d.ID, &d.Name); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *ResourceRepo) ListWorkCenters(ctx context.Context) ([]model.WorkCenter, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, location, COALESCE(company_id,0) FROM work_centers ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.WorkCenter
	for rows.Next() {
		var w model.WorkCenter
		if err := rows.Scan(&w.ID, &w.Name, &w.Location, &w.CompanyID); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (r *ResourceRepo) ListCategories(ctx context.Context) ([]model.EquipmentCategory, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, maintenance_interval_days FROM equipment_categories ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.EquipmentCategory
	for rows.Next() {
		var c model.EquipmentCategory
		if err := rows.Scan(&c.ID, &c.Name, &c.MaintenanceIntervalDays); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *ResourceRepo) insert(ctx context.Context, q string, args ...any) (uint64, error) {
	res, err := r.DB.ExecContext(ctx, q, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
