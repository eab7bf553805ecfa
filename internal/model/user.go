package model

import "time"

// Role is the closed set of roles a user can hold. Every gate in the
// system matches against these constants rather than raw strings.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleTechnician Role = "technician"
	RoleUser       Role = "user"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTechnician, RoleUser:
		return true
	}
	return false
}

// AccountStatus gates whether a user may log in, independent of role.
// Accounts requesting elevated roles start pending until an admin
// approves them; plain user accounts and Google-created accounts start
// active.
type AccountStatus string

const (
	StatusPending  AccountStatus = "pending"
	StatusActive   AccountStatus = "active"
	StatusRejected AccountStatus = "rejected"
)

// Valid reports whether s is one of the known account statuses.
func (s AccountStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusRejected:
		return true
	}
	return false
}

// InitialStatus returns the account status a freshly signed-up user gets
// for the given role: admin and technician requests wait for approval,
// plain users are active immediately.
func InitialStatus(r Role) AccountStatus {
	if r == RoleAdmin || r == RoleTechnician {
		return StatusPending
	}
	return StatusActive
}

// User mirrors the 'users' table. PasswordHash is the bcrypt digest of the
// password; the plaintext is never persisted, logged, or echoed back.
type User struct {
	ID           uint64
	Email        string
	PasswordHash string
	FullName     string
	AvatarURL    string
	Role         Role
	Status       AccountStatus
	CreatedAt    time.Time
}

// RefreshToken mirrors the 'refresh_tokens' table. Tokens are stored by
// value; ExpiresAt is the authoritative expiry checked on refresh, the
// signature-level expiry inside the token is only a secondary defense.
type RefreshToken struct {
	ID        uint64
	UserID    uint64
	Token     string
	ExpiresAt time.Time
}
