package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/gearguard/gearguard/internal/model"
)

// TokenRepo persists refresh tokens, keyed by token value.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Store inserts a refresh token row. Every login creates its own row;
// concurrent sessions for one user are allowed.
func (r *TokenRepo) Store(ctx context.Context, userID uint64, token string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token, expires_at) VALUES (?,?,?)",
		userID, token, exp)
	return err
}

// Find returns the stored token record by value, or ErrNotFound.
func (r *TokenRepo) Find(ctx context.Context, token string) (model.RefreshToken, error) {
	var t model.RefreshToken
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, user_id, token, expires_at FROM refresh_tokens WHERE token=? LIMIT 1",
		token).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt)
	if err == sql.ErrNoRows {
		return model.RefreshToken{}, ErrNotFound
	}
	if err != nil {
		return model.RefreshToken{}, err
	}
	return t, nil
}

// Delete removes a token by value. Deleting a token that no longer exists
// is not an error; logout must stay idempotent and racing a concurrent
// refresh is acceptable.
func (r *TokenRepo) Delete(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE token=?", token)
	return err
}
