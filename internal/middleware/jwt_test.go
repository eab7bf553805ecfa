package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gearguard/gearguard/internal/model"
	"github.com/gearguard/gearguard/internal/utils"
)

const testSecret = "test-secret"

func runAuthenticate(t *testing.T, authorization string) (*httptest.ResponseRecorder, bool, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/profile", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := Authenticate(testSecret)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, called, c
}

func TestAuthenticateMissingHeader(t *testing.T) {
	rec, called, _ := runAuthenticate(t, "")
	if called {
		t.Fatal("next handler ran without a token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no token") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	for _, h := range []string{"Token abc", "Bearer", "Bearer "} {
		rec, called, _ := runAuthenticate(t, h)
		if called {
			t.Fatalf("header %q: next handler ran", h)
		}
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: status = %d, want 401", h, rec.Code)
		}
	}
}

func TestAuthenticateBadSignature(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", 1, model.RoleUser, 15)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec, called, _ := runAuthenticate(t, "Bearer "+tok.Token)
	if called {
		t.Fatal("next handler ran with a wrongly signed token")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestAuthenticateSetsIdentity(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 42, model.RoleAdmin, 15)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	rec, called, c := runAuthenticate(t, "Bearer "+tok.Token)
	if !called {
		t.Fatal("next handler did not run")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if id, ok := c.Get(CtxUserID).(uint64); !ok || id != 42 {
		t.Fatalf("context user id = %v, want 42", c.Get(CtxUserID))
	}
	if role, ok := c.Get(CtxRole).(model.Role); !ok || role != model.RoleAdmin {
		t.Fatalf("context role = %v, want admin", c.Get(CtxRole))
	}
}
