package auth

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/gearguard/gearguard/internal/model"
	"github.com/gearguard/gearguard/internal/repository"
	"github.com/gearguard/gearguard/internal/utils"
)

func testConfig() Config {
	return Config{
		AccessSecret:   "access-secret",
		RefreshSecret:  "refresh-secret",
		AccessTTLMin:   15,
		RefreshTTLDays: 7,
		BcryptCost:     4, // minimum cost keeps the suite fast
	}
}

func newTestService() (*Service, *fakeUserStore, *fakeTokenStore, *fakeVerifier) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	ver := &fakeVerifier{}
	return NewService(testConfig(), users, tokens, ver), users, tokens, ver
}

func TestSignupStatusByRole(t *testing.T) {
	cases := []struct {
		role model.Role
		want model.AccountStatus
	}{
		{model.RoleUser, model.StatusActive},
		{"", model.StatusActive}, // defaults to user
		{model.RoleTechnician, model.StatusPending},
		{model.RoleAdmin, model.StatusPending},
	}
	for _, tc := range cases {
		svc, users, _, _ := newTestService()
		status, err := svc.Signup(context.Background(), "Pat Example", "pat@example.com", "secret123", tc.role)
		if err != nil {
			t.Fatalf("signup(%q): unexpected error: %v", tc.role, err)
		}
		if status != tc.want {
			t.Fatalf("signup(%q): status = %s, want %s", tc.role, status, tc.want)
		}
		u, err := users.GetByEmail(context.Background(), "pat@example.com")
		if err != nil {
			t.Fatalf("signup(%q): user not persisted: %v", tc.role, err)
		}
		if u.Status != tc.want {
			t.Fatalf("signup(%q): stored status = %s, want %s", tc.role, u.Status, tc.want)
		}
	}
}

func TestSignupHashesPassword(t *testing.T) {
	svc, users, _, _ := newTestService()
	const plain = "hunter2secret"
	if _, err := svc.Signup(context.Background(), "Pat", "pat@example.com", plain, model.RoleUser); err != nil {
		t.Fatalf("signup: %v", err)
	}
	u, _ := users.GetByEmail(context.Background(), "pat@example.com")
	if u.PasswordHash == plain {
		t.Fatal("stored password equals plaintext")
	}
	if !utils.VerifyPassword(u.PasswordHash, plain) {
		t.Fatal("stored hash does not verify against plaintext")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Signup(ctx, "Pat", "pat@example.com", "secret123", model.RoleUser); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(ctx, "Pat Again", "pat@example.com", "other456", model.RoleUser); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestLoginIssuesTokens(t *testing.T) {
	svc, _, tokens, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Signup(ctx, "Pat", "a@x.com", "secret123", model.RoleUser); err != nil {
		t.Fatalf("signup: %v", err)
	}

	sess, err := svc.Login(ctx, "a@x.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.AccessToken == "" || sess.RefreshToken == "" {
		t.Fatal("login: empty token in session")
	}
	if sess.User.Email != "a@x.com" || sess.User.Role != model.RoleUser {
		t.Fatalf("login: wrong user projection: %+v", sess.User)
	}
	if got := tokens.count(); got != 1 {
		t.Fatalf("login: %d refresh records, want 1", got)
	}

	id, err := utils.VerifyAccessToken("access-secret", sess.AccessToken)
	if err != nil {
		t.Fatalf("verify access: %v", err)
	}
	if id.UserID != sess.User.ID || id.Role != model.RoleUser {
		t.Fatalf("access token identity = %+v, want {%d user}", id, sess.User.ID)
	}
}

func TestLoginNonEnumerable(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Signup(ctx, "Pat", "known@x.com", "secret123", model.RoleUser); err != nil {
		t.Fatalf("signup: %v", err)
	}

	_, errUnknown := svc.Login(ctx, "nobody@x.com", "whatever")
	_, errWrongPw := svc.Login(ctx, "known@x.com", "wrongpass")
	if !errors.Is(errUnknown, ErrInvalidCredentials) {
		t.Fatalf("unknown email: got %v", errUnknown)
	}
	if !errors.Is(errWrongPw, ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Fatalf("distinguishable errors: %q vs %q", errUnknown, errWrongPw)
	}
}

func TestLoginStatusGate(t *testing.T) {
	svc, users, tokens, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Signup(ctx, "Taylor", "b@x.com", "secret123", model.RoleAdmin); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := svc.Login(ctx, "b@x.com", "secret123"); !errors.Is(err, ErrAccountPending) {
		t.Fatalf("pending: got %v", err)
	}
	users.setStatus("b@x.com", model.StatusRejected)
	if _, err := svc.Login(ctx, "b@x.com", "secret123"); !errors.Is(err, ErrAccountRejected) {
		t.Fatalf("rejected: got %v", err)
	}
	if tokens.count() != 0 {
		t.Fatal("tokens were issued for a gated account")
	}

	// Approval unblocks login; mirrors an admin activating the account.
	users.setStatus("b@x.com", model.StatusActive)
	if _, err := svc.Login(ctx, "b@x.com", "secret123"); err != nil {
		t.Fatalf("login after approval: %v", err)
	}
}

func TestRefreshMissingToken(t *testing.T) {
	svc, _, _, _ := newTestService()
	if _, err := svc.Refresh(context.Background(), ""); !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestRefreshUnknownToken(t *testing.T) {
	svc, _, _, _ := newTestService()
	if _, err := svc.Refresh(context.Background(), "never-issued"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestRefreshExpiredTokenIsDeleted(t *testing.T) {
	svc, _, tokens, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Signup(ctx, "Pat", "a@x.com", "secret123", model.RoleUser); err != nil {
		t.Fatalf("signup: %v", err)
	}
	sess, err := svc.Login(ctx, "a@x.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	tokens.expire(sess.RefreshToken)
	if _, err := svc.Refresh(ctx, sess.RefreshToken); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
	if _, err := tokens.Find(ctx, sess.RefreshToken); !errors.Is(err, repository.ErrNotFound) {
		t.Fatal("expired token record still exists after refresh")
	}
	// A second attempt sees no record at all.
	if _, err := svc.Refresh(ctx, sess.RefreshToken); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound after purge, got %v", err)
	}
}

func TestRefreshReturnsFreshAccessToken(t *testing.T) {
	svc, _, _, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Signup(ctx, "Pat", "a@x.com", "secret123", model.RoleUser); err != nil {
		t.Fatalf("signup: %v", err)
	}
	sess, err := svc.Login(ctx, "a@x.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	// iat has second granularity; wait so the new token's claims differ.
	time.Sleep(1100 * time.Millisecond)

	access, err := svc.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if access.Token == sess.AccessToken {
		t.Fatal("refresh returned the original access token")
	}
	id, err := utils.VerifyAccessToken("access-secret", access.Token)
	if err != nil {
		t.Fatalf("verify refreshed access: %v", err)
	}
	if id.UserID != sess.User.ID || id.Role != sess.User.Role {
		t.Fatalf("refreshed token identity = %+v, want {%d %s}", id, sess.User.ID, sess.User.Role)
	}
}

func TestLogoutIdempotent(t *testing.T) {
	svc, _, tokens, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Signup(ctx, "Pat", "a@x.com", "secret123", model.RoleUser); err != nil {
		t.Fatalf("signup: %v", err)
	}
	sess, err := svc.Login(ctx, "a@x.com", "secret123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, sess.RefreshToken); err != nil {
		t.Fatalf("first logout: %v", err)
	}
	if tokens.count() != 0 {
		t.Fatal("token record survived logout")
	}
	if err := svc.Logout(ctx, sess.RefreshToken); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if _, err := svc.Refresh(ctx, sess.RefreshToken); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("refresh after logout: got %v", err)
	}
}

func TestFederatedLoginCreatesActiveUser(t *testing.T) {
	svc, users, _, ver := newTestService()
	ver.email, ver.name = "new@x.com", "New Person"

	sess, err := svc.FederatedLogin(context.Background(), "google-token")
	if err != nil {
		t.Fatalf("federated login: %v", err)
	}
	u, err := users.GetByEmail(context.Background(), "new@x.com")
	if err != nil {
		t.Fatalf("user not created: %v", err)
	}
	if u.Role != model.RoleUser || u.Status != model.StatusActive {
		t.Fatalf("created user = role %s status %s, want user/active", u.Role, u.Status)
	}
	if u.PasswordHash == "" || !strings.HasPrefix(u.PasswordHash, "$2") {
		t.Fatalf("expected a bcrypt hash for the random password, got %q", u.PasswordHash)
	}
	if sess.AccessToken == "" || sess.RefreshToken == "" {
		t.Fatal("federated login issued empty tokens")
	}
}

func TestFederatedLoginRejectsInactive(t *testing.T) {
	svc, _, _, ver := newTestService()
	ctx := context.Background()
	if _, err := svc.Signup(ctx, "Taylor", "pending@x.com", "secret123", model.RoleTechnician); err != nil {
		t.Fatalf("signup: %v", err)
	}
	ver.email, ver.name = "pending@x.com", "Taylor"

	if _, err := svc.FederatedLogin(ctx, "google-token"); !errors.Is(err, ErrAccountNotActive) {
		t.Fatalf("expected ErrAccountNotActive, got %v", err)
	}
}

func TestFederatedLoginVerifierFailure(t *testing.T) {
	svc, users, _, ver := newTestService()
	ver.err = errors.New("bad audience")

	if _, err := svc.FederatedLogin(context.Background(), "tampered"); !errors.Is(err, ErrIdentityVerification) {
		t.Fatalf("expected ErrIdentityVerification, got %v", err)
	}
	if len(users.byEmail) != 0 {
		t.Fatal("verifier failure still created a user")
	}
}

func TestProfile(t *testing.T) {
	svc, users, _, _ := newTestService()
	ctx := context.Background()
	if _, err := svc.Signup(ctx, "Pat", "a@x.com", "secret123", model.RoleUser); err != nil {
		t.Fatalf("signup: %v", err)
	}
	u, _ := users.GetByEmail(ctx, "a@x.com")

	got, err := svc.Profile(ctx, u.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if got.Email != "a@x.com" {
		t.Fatalf("profile email = %q", got.Email)
	}
	if _, err := svc.Profile(ctx, 9999); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// ----- fakes -----

type fakeUserStore struct {
	byEmail map[string]model.User
	byID    map[uint64]model.User
	nextID  uint64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{
		byEmail: map[string]model.User{},
		byID:    map[uint64]model.User{},
		nextID:  1,
	}
}

func (f *fakeUserStore) Create(_ context.Context, u model.User) (uint64, error) {
	key := strings.ToLower(u.Email)
	if _, exists := f.byEmail[key]; exists {
		return 0, repository.ErrEmailExists
	}
	u.ID = f.nextID
	u.CreatedAt = time.Now().UTC()
	f.nextID++
	f.byEmail[key] = u
	f.byID[u.ID] = u
	return u.ID, nil
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (model.User, error) {
	u, ok := f.byEmail[strings.ToLower(email)]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uint64) (model.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) setStatus(email string, status model.AccountStatus) {
	u := f.byEmail[strings.ToLower(email)]
	u.Status = status
	f.byEmail[strings.ToLower(email)] = u
	f.byID[u.ID] = u
}

type fakeTokenStore struct {
	byToken map[string]model.RefreshToken
	nextID  uint64
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{byToken: map[string]model.RefreshToken{}, nextID: 1}
}

func (f *fakeTokenStore) Store(_ context.Context, userID uint64, token string, exp time.Time) error {
	f.byToken[token] = model.RefreshToken{ID: f.nextID, UserID: userID, Token: token, ExpiresAt: exp}
	f.nextID++
	return nil
}

func (f *fakeTokenStore) Find(_ context.Context, token string) (model.RefreshToken, error) {
	t, ok := f.byToken[token]
	if !ok {
		return model.RefreshToken{}, repository.ErrNotFound
	}
	return t, nil
}

func (f *fakeTokenStore) Delete(_ context.Context, token string) error {
	delete(f.byToken, token)
	return nil
}

func (f *fakeTokenStore) count() int { return len(f.byToken) }

func (f *fakeTokenStore) expire(token string) {
	t := f.byToken[token]
	t.ExpiresAt = time.Now().UTC().Add(-time.Hour)
	f.byToken[token] = t
}

type fakeVerifier struct {
	email string
	name  string
	err   error
}

func (f *fakeVerifier) Verify(context.Context, string) (string, string, error) {
	if f.err != nil {
		return "", "", f.err
	}
	return f.email, f.name, nil
}
