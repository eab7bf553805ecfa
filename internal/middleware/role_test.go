package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/gearguard/gearguard/internal/model"
)

func runRequireRole(t *testing.T, ctxRole any, allowed ...model.Role) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if ctxRole != nil {
		c.Set(CtxRole, ctxRole)
	}

	called := false
	h := RequireRole(allowed...)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	if err := h(c); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	return rec, called
}

func TestRequireRoleAllows(t *testing.T) {
	rec, called := runRequireRole(t, model.RoleAdmin, model.RoleAdmin, model.RoleTechnician)
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("admin blocked: called=%v status=%d", called, rec.Code)
	}
}

func TestRequireRoleForbids(t *testing.T) {
	rec, called := runRequireRole(t, model.RoleUser, model.RoleAdmin)
	if called {
		t.Fatal("next handler ran for a disallowed role")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireRoleMissingContext(t *testing.T) {
	rec, called := runRequireRole(t, nil, model.RoleAdmin)
	if called {
		t.Fatal("next handler ran without an authenticated role")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestRequireRoleIgnoresRawString(t *testing.T) {
	// Authenticate stores a typed role; a bare string must not pass the gate.
	rec, called := runRequireRole(t, "admin", model.RoleAdmin)
	if called {
		t.Fatal("next handler ran for an untyped role value")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
