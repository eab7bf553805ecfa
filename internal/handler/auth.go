package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gearguard/gearguard/internal/auth"
	"github.com/gearguard/gearguard/internal/model"
)

// AuthHandler exposes the auth service over HTTP and maps its sentinel
// errors onto the status-code taxonomy. Store and signing failures are
// logged here and returned as opaque 500s.
type AuthHandler struct {
	Svc *auth.Service
	Log zerolog.Logger
}

func NewAuthHandler(svc *auth.Service, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Log: log}
}

// ----- DTOs -----

type signupReq struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type refreshReq struct {
	RequestToken string `json:"requestToken"`
}
type googleReq struct {
	Token string `json:"token"`
}

// userPart is the sanitized projection; there is no field the hash could
// even leak through.
type userPart struct {
	ID       uint64 `json:"id"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Avatar   string `json:"avatar,omitempty"`
}

func toUserPart(u model.User) userPart {
	return userPart{ID: u.ID, FullName: u.FullName, Email: u.Email, Role: string(u.Role), Avatar: u.AvatarURL}
}

type sessionResp struct {
	AccessToken  string   `json:"accessToken"`
	RefreshToken string   `json:"refreshToken"`
	User         userPart `json:"user"`
}

// Signup registers an account. No tokens are issued; pending applicants
// are told to wait for admin approval.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.FullName = strings.TrimSpace(req.FullName)
	switch {
	case req.FullName == "":
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "full_name is required"})
	case !validEmail(req.Email):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "a valid email is required"})
	case len(req.Password) < 6:
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password must be at least 6 characters"})
	}
	role := model.Role(strings.TrimSpace(req.Role))
	if role != "" && !role.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "role must be admin, technician or user"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	status, err := h.Svc.Signup(ctx, req.FullName, req.Email, req.Password, role)
	if err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user already exists"})
		}
		h.Log.Error().Err(err).Msg("signup failed")
		return internalError(c, "server error during signup")
	}
	if status == model.StatusPending {
		return c.JSON(http.StatusCreated, echo.Map{"message": "registration successful, please wait for admin approval to log in"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "user registered successfully"})
}

// Login verifies credentials and returns the token pair with the
// sanitized user. Unknown email and wrong password answer identically.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sess, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid credentials"})
		case errors.Is(err, auth.ErrAccountPending):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "your account is pending approval, please contact admin"})
		case errors.Is(err, auth.ErrAccountRejected):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "your account has been rejected"})
		}
		h.Log.Error().Err(err).Msg("login failed")
		return internalError(c, "server error during login")
	}
	return c.JSON(http.StatusOK, sessionResp{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		User:         toUserPart(sess.User),
	})
}

// Refresh exchanges a stored refresh token for a new access token. The
// same refresh token is returned; it is not rotated.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	token := strings.TrimSpace(req.RequestToken)

	ctx, cancel := reqCtx(c)
	defer cancel()

	access, err := h.Svc.Refresh(ctx, token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrMissingToken):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "refresh token is required"})
		case errors.Is(err, auth.ErrTokenNotFound):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "refresh token is not recognized"})
		case errors.Is(err, auth.ErrTokenExpired):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "refresh token has expired, please sign in again"})
		}
		h.Log.Error().Err(err).Msg("refresh failed")
		return internalError(c, "server error during refresh")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"accessToken":  access.Token,
		"refreshToken": token,
	})
}

// Logout revokes the refresh token. Always 200, even when the token was
// already gone.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Svc.Logout(ctx, strings.TrimSpace(req.RequestToken)); err != nil {
		h.Log.Error().Err(err).Msg("logout failed")
		return internalError(c, "server error during logout")
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out successfully"})
}

// GoogleLogin authenticates with a Google ID token, creating an active
// user-role account on first sight.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req googleReq
	if err := c.Bind(&req); err != nil || strings.TrimSpace(req.Token) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "identity token is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	sess, err := h.Svc.FederatedLogin(ctx, strings.TrimSpace(req.Token))
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrIdentityVerification):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "google sign-in failed"})
		case errors.Is(err, auth.ErrAccountNotActive):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "account not active"})
		}
		h.Log.Error().Err(err).Msg("google login failed")
		return internalError(c, "server error during google sign-in")
	}
	return c.JSON(http.StatusOK, sessionResp{
		AccessToken:  sess.AccessToken,
		RefreshToken: sess.RefreshToken,
		User:         toUserPart(sess.User),
	})
}

// Profile returns the authenticated user's record without the hash.
func (h *AuthHandler) Profile(c echo.Context) error {
	uid, _, ok := identity(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Svc.Profile(ctx, uid)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		h.Log.Error().Err(err).Msg("profile lookup failed")
		return internalError(c, "server error")
	}
	return c.JSON(http.StatusOK, echo.Map{
		"id":             u.ID,
		"full_name":      u.FullName,
		"email":          u.Email,
		"role":           string(u.Role),
		"account_status": string(u.Status),
		"avatar":         u.AvatarURL,
		"created_at":     u.CreatedAt,
	})
}
