package auth

import "errors"

// Sentinel errors returned by the Service. Handlers translate these into
// the HTTP taxonomy; anything not listed here is an internal error and is
// logged server-side while the client gets an opaque message.
var (
	// ErrEmailTaken signals a duplicate signup email. Surfaced openly,
	// unlike login failures; see DESIGN.md for the decision.
	ErrEmailTaken = errors.New("user already exists")

	// ErrInvalidCredentials covers both unknown email and wrong password
	// so login stays non-enumerable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrAccountPending and ErrAccountRejected are only returned after the
	// password verified, so account status cannot be probed without
	// credentials.
	ErrAccountPending  = errors.New("account is pending approval")
	ErrAccountRejected = errors.New("account has been rejected")

	// ErrAccountNotActive rejects federated logins for matched accounts
	// that are pending or rejected.
	ErrAccountNotActive = errors.New("account not active")

	// ErrMissingToken signals a refresh call without a token.
	ErrMissingToken = errors.New("refresh token is required")

	// ErrTokenNotFound signals a refresh token with no persisted record.
	// Racing a logout can legitimately produce this.
	ErrTokenNotFound = errors.New("refresh token is not recognized")

	// ErrTokenExpired signals a stored refresh token past its expiry. The
	// record is deleted before this is returned; the caller must log in
	// again.
	ErrTokenExpired = errors.New("refresh token has expired")

	// ErrIdentityVerification signals that the third-party identity token
	// failed verification.
	ErrIdentityVerification = errors.New("identity verification failed")

	// ErrUserNotFound signals that an id no longer resolves to a user.
	ErrUserNotFound = errors.New("user not found")
)
