package utils // token creation and verification helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/gearguard/gearguard/internal/model"
)

// ErrInvalidToken covers malformed input, a wrong signature and
// signature-level expiry. Callers get no finer detail on purpose.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken is a signed short-lived assertion of {id, role}. It is
// verified statelessly on every request and never persisted.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// Identity is the payload carried by an access token.
type Identity struct {
	UserID uint64
	Role   model.Role
}

// NewAccessToken builds and signs an HS256 JWT for a user. The payload is
// exactly the id and role claims plus the standard exp/iat pair.
func NewAccessToken(secret string, userID uint64, role model.Role, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"id":   userID,
		"role": string(role),
		"exp":  exp.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewRefreshToken signs an HS256 JWT carrying only the user id, with a
// secret distinct from the access secret. The auth service persists the
// value together with an explicit expiry; the persisted expiry is the one
// checked on refresh, the embedded exp is a secondary defense.
func NewRefreshToken(secret string, userID uint64, ttlDays int) (string, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlDays) * 24 * time.Hour)
	claims := jwt.MapClaims{
		"id":  userID,
		"exp": exp.Unix(),
		"iat": time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// VerifyAccessToken parses and validates an access token and returns the
// identity it asserts. Any failure maps to ErrInvalidToken.
func VerifyAccessToken(secret, raw string) (Identity, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return Identity{}, ErrInvalidToken
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	idVal, ok := claims["id"].(float64)
	if !ok || idVal < 0 {
		return Identity{}, ErrInvalidToken
	}
	roleVal, ok := claims["role"].(string)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	role := model.Role(roleVal)
	if !role.Valid() {
		return Identity{}, ErrInvalidToken
	}
	return Identity{UserID: uint64(idVal), Role: role}, nil
}
