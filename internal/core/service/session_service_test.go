package service

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/campushq/campus-admin-api/internal/core/domain"
	"github.com/campushq/campus-admin-api/internal/core/ports"
	"github.com/campushq/campus-admin-api/internal/infrastructure/db/memstore"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestService() (*SessionService, *memstore.Store, *fakeClock) {
	store := memstore.New()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	svc := NewSessionService(store, clock, zerolog.Nop(), SessionOptions{})
	return svc, store, clock
}

func mustGet(t *testing.T, store *memstore.Store, key string) string {
	t.Helper()
	value, ok, err := store.Get(context.Background(), key)
	if err != nil {
		t.Fatalf("store get %s: %v", key, err)
	}
	if !ok {
		t.Fatalf("expected key %s to be present", key)
	}
	return value
}

func TestLogin_SelectsFirstDeclaredRole(t *testing.T) {
	svc, store, _ := newTestService()

	result, err := svc.Login(context.Background(), "multirole@example.com", "anything")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.User.CurrentRole != domain.RoleAdmin {
		t.Fatalf("expected active role admin, got %s", result.User.CurrentRole)
	}
	if result.Session.AccessToken == "" || result.Session.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", result.Session)
	}

	if store.Len() != len(ports.SessionKeys) {
		t.Fatalf("expected %d persisted keys, got %d", len(ports.SessionKeys), store.Len())
	}
	if got := mustGet(t, store, ports.KeyAccessToken); got != result.Session.AccessToken {
		t.Fatalf("persisted access token mismatch: %s", got)
	}

	var persisted domain.User
	if err := json.Unmarshal([]byte(mustGet(t, store, ports.KeyCurrentUser)), &persisted); err != nil {
		t.Fatalf("persisted user is not valid json: %v", err)
	}
	if persisted.CurrentRole != domain.RoleAdmin {
		t.Fatalf("persisted user active role: %s", persisted.CurrentRole)
	}
}

func TestLogin_EmailMatchIsCaseInsensitive(t *testing.T) {
	svc, _, _ := newTestService()

	result, err := svc.Login(context.Background(), "ADMIN@EXAMPLE.COM", "x")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.User.Email != "admin@example.com" {
		t.Fatalf("unexpected user: %+v", result.User)
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	svc, _, _ := newTestService()

	if _, err := svc.Login(context.Background(), "nobody@nowhere.com", "x"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "admin@example.com", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for empty password, got %v", err)
	}
}

func TestRefresh_RequiresExactUnexpiredToken(t *testing.T) {
	svc, store, clock := newTestService()
	ctx := context.Background()

	result, err := svc.Login(ctx, "student@example.com", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	if _, err := svc.Refresh(ctx, "not-the-token"); err != domain.ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken for wrong token, got %v", err)
	}

	// Force the persisted refresh expiry into the past.
	past := clock.Now().Add(-time.Minute).UnixMilli()
	if err := store.Set(ctx, ports.KeyRefreshExpiry, strconv.FormatInt(past, 10)); err != nil {
		t.Fatalf("store set: %v", err)
	}
	if _, err := svc.Refresh(ctx, result.Session.RefreshToken); err != domain.ErrInvalidRefreshToken {
		t.Fatalf("expected ErrInvalidRefreshToken for expired token, got %v", err)
	}

	// Restore a valid expiry and refresh for real.
	future := clock.Now().Add(time.Hour).UnixMilli()
	if err := store.Set(ctx, ports.KeyRefreshExpiry, strconv.FormatInt(future, 10)); err != nil {
		t.Fatalf("store set: %v", err)
	}
	clock.Advance(time.Minute)

	sess, err := svc.Refresh(ctx, result.Session.RefreshToken)
	if err != nil {
		t.Fatalf("refresh failed: %v", err)
	}
	if sess.AccessToken == result.Session.AccessToken {
		t.Fatalf("expected a new access token after refresh")
	}
	if got := mustGet(t, store, ports.KeyAccessToken); got != sess.AccessToken {
		t.Fatalf("persisted access token not rotated")
	}
}

func TestRefresh_MissingUserRecord(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Login(ctx, "student@example.com", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := store.Delete(ctx, ports.KeyCurrentUser); err != nil {
		t.Fatalf("store delete: %v", err)
	}

	if _, err := svc.Refresh(ctx, result.Session.RefreshToken); err != domain.ErrUserNotFound {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestChangeRole_GatedByRoleSet(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Login(ctx, "multirole@example.com", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	sess, err := svc.ChangeRole(ctx, result.Session.AccessToken, domain.RoleTeacher)
	if err != nil {
		t.Fatalf("change role failed: %v", err)
	}

	user, err := svc.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("current user failed: %v", err)
	}
	if user == nil || user.CurrentRole != domain.RoleTeacher {
		t.Fatalf("expected active role teacher, got %+v", user)
	}

	if _, err := svc.ChangeRole(ctx, sess.AccessToken, domain.RoleStudent); err != domain.ErrRoleNotAssigned {
		t.Fatalf("expected ErrRoleNotAssigned, got %v", err)
	}
}

func TestChangeRole_RejectsStaleAccessToken(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Login(ctx, "admin@example.com", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if _, err := svc.ChangeRole(ctx, "stale-token", domain.RoleAdmin); err != domain.ErrInvalidAccessToken {
		t.Fatalf("expected ErrInvalidAccessToken, got %v", err)
	}
}

func TestLogout_ClearsEverything(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Login(ctx, "admin@example.com", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected no persisted keys, got %d", store.Len())
	}

	user, err := svc.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("current user failed: %v", err)
	}
	if user != nil {
		t.Fatalf("expected no user, got %+v", user)
	}

	// Idempotent: a second logout is a no-op.
	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("repeated logout failed: %v", err)
	}
}

func TestCurrentUser_RestoresByRefreshingExpiredAccess(t *testing.T) {
	svc, store, clock := newTestService()
	ctx := context.Background()

	result, err := svc.Login(ctx, "teacher@example.com", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	// Fresh process: same store, new in-memory state, access window elapsed.
	clock.Advance(domain.AccessTokenTTL + time.Minute)
	restored := NewSessionService(store, clock, zerolog.Nop(), SessionOptions{})

	user, err := restored.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("current user failed: %v", err)
	}
	if user == nil || user.Email != "teacher@example.com" {
		t.Fatalf("expected restored teacher, got %+v", user)
	}
	if user.CurrentRole != domain.RoleTeacher {
		t.Fatalf("expected active role teacher, got %s", user.CurrentRole)
	}

	if got := mustGet(t, store, ports.KeyAccessToken); got == result.Session.AccessToken {
		t.Fatalf("expected a fresh access token after restoration refresh")
	}
}

func TestCurrentUser_AdoptsValidPersistedTokens(t *testing.T) {
	svc, store, clock := newTestService()
	ctx := context.Background()

	result, err := svc.Login(ctx, "teacher@example.com", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	clock.Advance(time.Minute)
	restored := NewSessionService(store, clock, zerolog.Nop(), SessionOptions{})

	user, err := restored.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("current user failed: %v", err)
	}
	if user == nil {
		t.Fatalf("expected restored user")
	}
	// Still-valid tokens are adopted, not re-minted.
	if got := mustGet(t, store, ports.KeyAccessToken); got != result.Session.AccessToken {
		t.Fatalf("access token should be unchanged, got %s", got)
	}
}

func TestCurrentUser_NoSessionWhenRefreshExpired(t *testing.T) {
	svc, store, clock := newTestService()
	ctx := context.Background()

	if _, err := svc.Login(ctx, "teacher@example.com", "pw"); err != nil {
		t.Fatalf("login failed: %v", err)
	}

	clock.Advance(domain.RefreshTokenTTL + time.Hour)
	restored := NewSessionService(store, clock, zerolog.Nop(), SessionOptions{})

	user, err := restored.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("current user failed: %v", err)
	}
	if user != nil {
		t.Fatalf("expected no session, got %+v", user)
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, "X", "admin@example.com", "pw"); err != domain.ErrEmailExists {
		t.Fatalf("expected ErrEmailExists for seeded email, got %v", err)
	}
	if _, err := svc.Register(ctx, "X", "new@example.com", ""); err != domain.ErrEmailExists {
		t.Fatalf("expected ErrEmailExists for empty password, got %v", err)
	}
}

func TestRegister_CreatesStudentAndLogsIn(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Register(ctx, "Nina Rivers", "nina@example.com", "pw")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if result.User.ID != "6" {
		t.Fatalf("expected id 6 (five seeded users), got %s", result.User.ID)
	}
	if len(result.User.Roles) != 1 || result.User.Roles[0] != domain.RoleStudent {
		t.Fatalf("expected single student role, got %v", result.User.Roles)
	}
	if result.User.Avatar != "https://ui-avatars.com/api/?name=Nina+Rivers" {
		t.Fatalf("unexpected avatar url: %s", result.User.Avatar)
	}
	if store.Len() != len(ports.SessionKeys) {
		t.Fatalf("expected a fully persisted session, got %d keys", store.Len())
	}

	// The new account is immediately loginable within this process.
	if _, err := svc.Login(ctx, "NINA@example.com", "pw"); err != nil {
		t.Fatalf("login as registered user failed: %v", err)
	}
}

func TestSessionLifecycle_EndToEnd(t *testing.T) {
	svc, store, _ := newTestService()
	ctx := context.Background()

	result, err := svc.Login(ctx, "teacher@example.com", "pw")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if result.User.CurrentRole != domain.RoleTeacher {
		t.Fatalf("expected active role teacher, got %s", result.User.CurrentRole)
	}

	persistedBefore := mustGet(t, store, ports.KeyCurrentUser)
	if _, err := svc.ChangeRole(ctx, result.Session.AccessToken, domain.RoleAdmin); err != domain.ErrRoleNotAssigned {
		t.Fatalf("expected ErrRoleNotAssigned, got %v", err)
	}
	if got := mustGet(t, store, ports.KeyCurrentUser); got != persistedBefore {
		t.Fatalf("persisted user changed by a failed role switch")
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	user, err := svc.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("current user failed: %v", err)
	}
	if user != nil {
		t.Fatalf("expected no user after logout, got %+v", user)
	}
}
