package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/gearguard/gearguard/internal/model"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,email,password_hash,full_name,avatar_url,role,account_status,created_at"

// Create inserts a user and returns its ID. The caller provides an
// already-hashed password; this layer never sees plaintext. A duplicate
// email maps to ErrEmailExists (MySQL error 1062), which also covers the
// concurrent-signup race decided by the unique constraint.
func (r *UserRepo) Create(ctx context.Context, u model.User) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, password_hash, full_name, avatar_url, role, account_status) VALUES (?,?,?,?,?,?)",
		strings.ToLower(strings.TrimSpace(u.Email)), u.PasswordHash, u.FullName, u.AvatarURL, string(u.Role), string(u.Status))
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns all users, newest first. Password hashes are included in
// the struct; handlers are responsible for sanitizing responses.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// ListByStatus returns users with the given account status, oldest first,
// which is the order the approval queue wants.
func (r *UserRepo) ListByStatus(ctx context.Context, status model.AccountStatus) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE account_status=? ORDER BY created_at ASC", string(status))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanUsers(rows)
}

// CountByStatus counts users with the given account status.
func (r *UserRepo) CountByStatus(ctx context.Context, status model.AccountStatus) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE account_status=?", string(status)).Scan(&n)
	return n, err
}

// CountByRole counts users holding the given role.
func (r *UserRepo) CountByRole(ctx context.Context, role model.Role) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM users WHERE role=?", string(role)).Scan(&n)
	return n, err
}

// Update applies role and/or status changes. Empty values leave the
// column untouched.
func (r *UserRepo) Update(ctx context.Context, id uint64, role model.Role, status model.AccountStatus) error {
	sets := []string{}
	args := []any{}
	if role != "" {
		sets = append(sets, "role=?")
		args = append(args, string(role))
	}
	if status != "" {
		sets = append(sets, "account_status=?")
		args = append(args, string(status))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Could also mean a no-op update; verify the row exists.
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes the user permanently. Refresh tokens cascade via the
// foreign key.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var u model.User
	var role, status string
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.AvatarURL, &role, &status, &u.CreatedAt)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	u.Role, u.Status = model.Role(role), model.AccountStatus(status)
	return u, nil
}

func scanUsers(rows *sql.Rows) ([]model.User, error) {
	var out []model.User
	for rows.Next() {
		var u model.User
		var role, status string
		if err := rows.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FullName, &u.AvatarURL, &role, &status, &u.CreatedAt); err != nil {
			return nil, err
		}
		u.Role, u.Status = model.Role(role), model.AccountStatus(status)
		out = append(out, u)
	}
	return out, rows.Err()
}
