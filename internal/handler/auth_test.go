package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/gearguard/gearguard/internal/auth"
	"github.com/gearguard/gearguard/internal/model"
	"github.com/gearguard/gearguard/internal/repository"
)

func newAuthHandler() *AuthHandler {
	svc := auth.NewService(auth.Config{
		AccessSecret:   "access-secret",
		RefreshSecret:  "refresh-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4,
	}, newMemUsers(), newMemTokens(), rejectAllVerifier{})
	return NewAuthHandler(svc, zerolog.Nop())
}

func postJSON(t *testing.T, h echo.HandlerFunc, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	if err := h(e.NewContext(req, rec)); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad response body %q: %v", rec.Body.String(), err)
	}
	return rec, out
}

func TestSignupValidation(t *testing.T) {
	h := newAuthHandler()
	cases := []struct {
		name string
		body string
	}{
		{"missing name", `{"email":"a@x.com","password":"secret123"}`},
		{"bad email", `{"full_name":"Pat","email":"not-an-email","password":"secret123"}`},
		{"short password", `{"full_name":"Pat","email":"a@x.com","password":"abc"}`},
		{"bad role", `{"full_name":"Pat","email":"a@x.com","password":"secret123","role":"owner"}`},
	}
	for _, tc := range cases {
		rec, _ := postJSON(t, h.Signup, "/api/auth/signup", tc.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", tc.name, rec.Code)
		}
	}
}

func TestSignupMessages(t *testing.T) {
	h := newAuthHandler()

	rec, body := postJSON(t, h.Signup, "/api/auth/signup", `{"full_name":"Pat","email":"u@x.com","password":"secret123","role":"user"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("user signup status = %d, want 201", rec.Code)
	}
	if msg, _ := body["message"].(string); !strings.Contains(msg, "registered successfully") {
		t.Fatalf("user signup message = %q", msg)
	}

	rec, body = postJSON(t, h.Signup, "/api/auth/signup", `{"full_name":"Taylor","email":"t@x.com","password":"secret123","role":"technician"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("technician signup status = %d, want 201", rec.Code)
	}
	if msg, _ := body["message"].(string); !strings.Contains(msg, "wait for admin approval") {
		t.Fatalf("technician signup message = %q", msg)
	}
}

func TestSignupDuplicate(t *testing.T) {
	h := newAuthHandler()
	body := `{"full_name":"Pat","email":"a@x.com","password":"secret123"}`
	if rec, _ := postJSON(t, h.Signup, "/api/auth/signup", body); rec.Code != http.StatusCreated {
		t.Fatalf("first signup status = %d", rec.Code)
	}
	rec, out := postJSON(t, h.Signup, "/api/auth/signup", body)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup status = %d, want 400", rec.Code)
	}
	if msg, _ := out["error"].(string); msg != "user already exists" {
		t.Fatalf("duplicate signup error = %q", msg)
	}
}

func TestLoginFlow(t *testing.T) {
	h := newAuthHandler()
	postJSON(t, h.Signup, "/api/auth/signup", `{"full_name":"Pat","email":"a@x.com","password":"secret123"}`)

	rec, out := postJSON(t, h.Login, "/api/auth/login", `{"email":"a@x.com","password":"wrong"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad password status = %d, want 400", rec.Code)
	}
	if msg, _ := out["error"].(string); msg != "invalid credentials" {
		t.Fatalf("bad password error = %q", msg)
	}

	rec, out = postJSON(t, h.Login, "/api/auth/login", `{"email":"a@x.com","password":"secret123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d, want 200", rec.Code)
	}
	if tok, _ := out["accessToken"].(string); tok == "" {
		t.Fatal("login response missing accessToken")
	}
	if tok, _ := out["refreshToken"].(string); tok == "" {
		t.Fatal("login response missing refreshToken")
	}
	user, _ := out["user"].(map[string]any)
	if user == nil {
		t.Fatal("login response missing user")
	}
	if _, leaked := user["password_hash"]; leaked {
		t.Fatal("password hash leaked in login response")
	}
	if email, _ := user["email"].(string); email != "a@x.com" {
		t.Fatalf("user email = %q", email)
	}
}

func TestLoginPendingAccount(t *testing.T) {
	h := newAuthHandler()
	postJSON(t, h.Signup, "/api/auth/signup", `{"full_name":"Taylor","email":"t@x.com","password":"secret123","role":"admin"}`)

	rec, out := postJSON(t, h.Login, "/api/auth/login", `{"email":"t@x.com","password":"secret123"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("pending login status = %d, want 403", rec.Code)
	}
	if msg, _ := out["error"].(string); !strings.Contains(msg, "pending approval") {
		t.Fatalf("pending login error = %q", msg)
	}
}

func TestRefreshAndLogout(t *testing.T) {
	h := newAuthHandler()
	postJSON(t, h.Signup, "/api/auth/signup", `{"full_name":"Pat","email":"a@x.com","password":"secret123"}`)
	_, login := postJSON(t, h.Login, "/api/auth/login", `{"email":"a@x.com","password":"secret123"}`)
	refresh, _ := login["refreshToken"].(string)

	rec, out := postJSON(t, h.Refresh, "/api/auth/refresh", `{"requestToken":"`+refresh+`"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh status = %d, want 200: %v", rec.Code, out)
	}
	if tok, _ := out["accessToken"].(string); tok == "" {
		t.Fatal("refresh response missing accessToken")
	}
	if tok, _ := out["refreshToken"].(string); tok != refresh {
		t.Fatal("refresh rotated the refresh token")
	}

	rec, _ = postJSON(t, h.Refresh, "/api/auth/refresh", `{}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("missing-token refresh status = %d, want 403", rec.Code)
	}
	rec, _ = postJSON(t, h.Refresh, "/api/auth/refresh", `{"requestToken":"bogus"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unknown-token refresh status = %d, want 403", rec.Code)
	}

	for i := 0; i < 2; i++ {
		rec, _ = postJSON(t, h.Logout, "/api/auth/logout", `{"requestToken":"`+refresh+`"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("logout #%d status = %d, want 200", i+1, rec.Code)
		}
	}
	rec, _ = postJSON(t, h.Refresh, "/api/auth/refresh", `{"requestToken":"`+refresh+`"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("refresh after logout status = %d, want 403", rec.Code)
	}
}

// ----- in-memory stores -----

type memUsers struct {
	byEmail map[string]model.User
	nextID  uint64
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]model.User{}, nextID: 1}
}

func (m *memUsers) Create(_ context.Context, u model.User) (uint64, error) {
	if _, ok := m.byEmail[u.Email]; ok {
		return 0, repository.ErrEmailExists
	}
	u.ID = m.nextID
	u.CreatedAt = time.Now().UTC()
	m.nextID++
	m.byEmail[u.Email] = u
	return u.ID, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := m.byEmail[email]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByID(_ context.Context, id uint64) (model.User, error) {
	for _, u := range m.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

type memTokens struct {
	byToken map[string]model.RefreshToken
}

func newMemTokens() *memTokens {
	return &memTokens{byToken: map[string]model.RefreshToken{}}
}

func (m *memTokens) Store(_ context.Context, userID uint64, token string, exp time.Time) error {
	m.byToken[token] = model.RefreshToken{UserID: userID, Token: token, ExpiresAt: exp}
	return nil
}

func (m *memTokens) Find(_ context.Context, token string) (model.RefreshToken, error) {
	t, ok := m.byToken[token]
	if !ok {
		return model.RefreshToken{}, repository.ErrNotFound
	}
	return t, nil
}

func (m *memTokens) Delete(_ context.Context, token string) error {
	delete(m.byToken, token)
	return nil
}

type rejectAllVerifier struct{}

func (rejectAllVerifier) Verify(context.Context, string) (string, string, error) {
	return "", "", echo.ErrUnauthorized
}
