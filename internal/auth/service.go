// Package auth implements the account lifecycle and session issuance: signup
// with role-gated initial status, login with access/refresh token issuance,
// non-rotating refresh, idempotent logout, Google federated login, and
// profile lookup. Stores and the identity verifier are injected interfaces
// so the whole package tests against in-memory fakes.
package auth

import (
	"context"
	"errors"
	"time"

	"github.com/gearguard/gearguard/internal/model"
	"github.com/gearguard/gearguard/internal/repository"
	"github.com/gearguard/gearguard/internal/utils"
)

// UserStore is the part of the credential store the service needs.
type UserStore interface {
	Create(ctx context.Context, u model.User) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TokenStore persists refresh tokens by value.
type TokenStore interface {
	Store(ctx context.Context, userID uint64, token string, exp time.Time) error
	Find(ctx context.Context, token string) (model.RefreshToken, error)
	Delete(ctx context.Context, token string) error
}

// IdentityVerifier validates a third-party identity token and extracts the
// verified email and display name. Implementations live outside this
// package; Google is the one wired in production.
type IdentityVerifier interface {
	Verify(ctx context.Context, identityToken string) (email, name string, err error)
}

// Config carries the token secrets and lifetimes. It is built once from
// the environment at process start and injected; the service never reads
// ambient state.
type Config struct {
	AccessSecret   string
	RefreshSecret  string
	AccessTTLMin   int
	RefreshTTLDays int
	BcryptCost     int
}

// Service orchestrates the credential store, token store, token issuing
// and the external identity verifier.
type Service struct {
	cfg      Config
	users    UserStore
	tokens   TokenStore
	verifier IdentityVerifier
}

func NewService(cfg Config, users UserStore, tokens TokenStore, verifier IdentityVerifier) *Service {
	return &Service{cfg: cfg, users: users, tokens: tokens, verifier: verifier}
}

// Session is what a successful login or federated login returns. User is
// the sanitized projection; the password hash never leaves the service.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         model.User
}

// Signup registers a new account and returns the initial status so the
// handler can tell pending applicants to wait for approval. No tokens are
// issued; login is a separate step.
func (s *Service) Signup(ctx context.Context, fullName, email, password string, role model.Role) (model.AccountStatus, error) {
	if role == "" {
		role = model.RoleUser
	}
	status := model.InitialStatus(role)

	// Hashing is the explicit pre-persistence step; the store only ever
	// sees the digest.
	hash, err := utils.HashPassword(password, s.cfg.BcryptCost)
	if err != nil {
		return "", err
	}
	_, err = s.users.Create(ctx, model.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
		Role:         role,
		Status:       status,
	})
	if err != nil {
		// The unique constraint is the final arbiter for concurrent
		// signups with the same email.
		if errors.Is(err, repository.ErrEmailExists) {
			return "", ErrEmailTaken
		}
		return "", err
	}
	return status, nil
}

// Login verifies credentials, gates on account status, and issues one
// access token plus one persisted refresh token. Unknown email and wrong
// password are indistinguishable to the caller; status errors surface only
// after the password proved out.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return Session{}, ErrInvalidCredentials
	}
	switch u.Status {
	case model.StatusPending:
		return Session{}, ErrAccountPending
	case model.StatusRejected:
		return Session{}, ErrAccountRejected
	}
	return s.issueSession(ctx, u)
}

// Refresh exchanges a persisted refresh token for a new access token. The
// stored expiry is authoritative: an expired record is deleted and the
// caller must re-authenticate. The refresh token itself is not rotated.
func (s *Service) Refresh(ctx context.Context, requestToken string) (utils.AccessToken, error) {
	if requestToken == "" {
		return utils.AccessToken{}, ErrMissingToken
	}
	rec, err := s.tokens.Find(ctx, requestToken)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.AccessToken{}, ErrTokenNotFound
		}
		return utils.AccessToken{}, err
	}
	if time.Now().UTC().After(rec.ExpiresAt) {
		// Delete-on-expiry: a consumed token is never silently renewed.
		if err := s.tokens.Delete(ctx, rec.Token); err != nil {
			return utils.AccessToken{}, err
		}
		return utils.AccessToken{}, ErrTokenExpired
	}
	u, err := s.users.GetByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return utils.AccessToken{}, ErrTokenNotFound
		}
		return utils.AccessToken{}, err
	}
	return utils.NewAccessToken(s.cfg.AccessSecret, u.ID, u.Role, s.cfg.AccessTTLMin)
}

// Logout deletes the refresh token by value. It succeeds even when no
// record matched, so repeated calls and races with refresh are harmless.
func (s *Service) Logout(ctx context.Context, requestToken string) error {
	if requestToken == "" {
		return nil
	}
	return s.tokens.Delete(ctx, requestToken)
}

// FederatedLogin authenticates via a third-party identity token. A first
// login creates an active user-role account with a random hashed password;
// a matched existing account must be active.
func (s *Service) FederatedLogin(ctx context.Context, identityToken string) (Session, error) {
	email, name, err := s.verifier.Verify(ctx, identityToken)
	if err != nil {
		return Session{}, ErrIdentityVerification
	}

	u, err := s.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		pw, rerr := utils.RandomPassword()
		if rerr != nil {
			return Session{}, rerr
		}
		hash, herr := utils.HashPassword(pw, s.cfg.BcryptCost)
		if herr != nil {
			return Session{}, herr
		}
		id, cerr := s.users.Create(ctx, model.User{
			Email:        email,
			PasswordHash: hash,
			FullName:     name,
			Role:         model.RoleUser,
			Status:       model.StatusActive,
		})
		if cerr != nil {
			return Session{}, cerr
		}
		u, err = s.users.GetByID(ctx, id)
		if err != nil {
			return Session{}, err
		}
	case err != nil:
		return Session{}, err
	}

	if u.Status != model.StatusActive {
		return Session{}, ErrAccountNotActive
	}
	return s.issueSession(ctx, u)
}

// Profile returns the user for an authenticated id. The handler strips
// the hash before responding.
func (s *Service) Profile(ctx context.Context, userID uint64) (model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}
	return u, nil
}

// issueSession mints the token pair and persists the refresh token with an
// explicit expiry. Each login gets its own record; concurrent sessions do
// not interfere.
func (s *Service) issueSession(ctx context.Context, u model.User) (Session, error) {
	access, err := utils.NewAccessToken(s.cfg.AccessSecret, u.ID, u.Role, s.cfg.AccessTTLMin)
	if err != nil {
		return Session{}, err
	}
	refresh, err := utils.NewRefreshToken(s.cfg.RefreshSecret, u.ID, s.cfg.RefreshTTLDays)
	if err != nil {
		return Session{}, err
	}
	exp := time.Now().UTC().Add(time.Duration(s.cfg.RefreshTTLDays) * 24 * time.Hour)
	if err := s.tokens.Store(ctx, u.ID, refresh, exp); err != nil {
		return Session{}, err
	}
	return Session{AccessToken: access.Token, RefreshToken: refresh, User: u}, nil
}
