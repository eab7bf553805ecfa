package repository

import (
	"context"
	"database/sql"

	"github.com/gearguard/gearguard/internal/model"
)

type TeamRepo struct{ DB *sql.DB }

func NewTeamRepo(db *sql.DB) *TeamRepo { return &TeamRepo{DB: db} }

// Create inserts a team and returns its ID.
func (r *TeamRepo) Create(ctx context.Context, name, specialization string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO teams (name, specialization) VALUES (?,?)", name, specialization)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// List returns all teams with their members attached.
func (r *TeamRepo) List(ctx context.Context) ([]model.Team, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, specialization FROM teams ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []model.Team
	index := map[uint64]int{}
	for rows.Next() {
		var t model.Team
		if err := rows.Scan(&t.ID, &t.Name, &t.Specialization); err != nil {
			return nil, err
		}
		index[t.ID] = len(teams)
		teams = append(teams, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(teams) == 0 {
		return teams, nil
	}

	mrows, err := r.DB.QueryContext(ctx,
		`SELECT m.id, m.team_id, m.user_id, m.role, u.full_name, u.email
		 FROM team_members m JOIN users u ON u.id = m.user_id
		 ORDER BY m.team_id, m.id`)
	if err != nil {
		return nil, err
	}
	defer mrows.Close()
	for mrows.Next() {
		var m model.TeamMember
		if err := mrows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.Role, &m.FullName, &m.Email); err != nil {
			return nil, err
		}
		if i, ok := index[m.TeamID]; ok {
			teams[i].Members = append(teams[i].Members, m)
		}
	}
	return teams, mrows.Err()
}

// GetByID fetches a single team without members.
func (r *TeamRepo) GetByID(ctx context.Context, id uint64) (model.Team, error) {
	var t model.Team
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, specialization FROM teams WHERE id=? LIMIT 1", id).
		Scan(&t.ID, &t.Name, &t.Specialization)
	if err == sql.ErrNoRows {
		return model.Team{}, ErrNotFound
	}
	return t, err
}

// Update changes name and/or specialization; empty strings skip the column.
func (r *TeamRepo) Update(ctx context.Context, id uint64, name, specialization string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	if name != "" {
		if _, err := r.DB.ExecContext(ctx, "UPDATE teams SET name=? WHERE id=?", name, id); err != nil {
			return err
		}
	}
	if specialization != "" {
		if _, err := r.DB.ExecContext(ctx, "UPDATE teams SET specialization=? WHERE id=?", specialization, id); err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a team and its membership rows.
func (r *TeamRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM teams WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// AddMember links a user to a team.
func (r *TeamRepo) AddMember(ctx context.Context, teamID, userID uint64, role string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO team_members (team_id, user_id, role) VALUES (?,?,?)",
		teamID, userID, role)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
