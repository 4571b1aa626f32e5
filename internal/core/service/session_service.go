package service

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/campushq/campus-admin-api/internal/core/domain"
	"github.com/campushq/campus-admin-api/internal/core/ports"
)

// SessionOptions tunes the session manager. Zero values fall back to the
// domain token lifetimes and no simulated latency.
type SessionOptions struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// SimulatedLatency is applied at the start of every operation. It exists
	// to mimic network latency during frontend development and must stay 0
	// in production configs.
	SimulatedLatency time.Duration
}

// SessionService is the session manager. It owns the in-memory session and
// user-of-record and mirrors them into the injected store so a fresh process
// can restore the session. Operations are serialized with a mutex; the store
// has no locking of its own.
type SessionService struct {
	store  ports.SessionStore
	clock  ports.Clock
	logger zerolog.Logger

	accessTTL  time.Duration
	refreshTTL time.Duration
	latency    time.Duration

	mu      sync.Mutex
	users   []domain.User
	session *domain.Session
	user    *domain.User
}

func NewSessionService(store ports.SessionStore, clock ports.Clock, logger zerolog.Logger, opts SessionOptions) *SessionService {
	if opts.AccessTTL <= 0 {
		opts.AccessTTL = domain.AccessTokenTTL
	}
	if opts.RefreshTTL <= 0 {
		opts.RefreshTTL = domain.RefreshTokenTTL
	}
	return &SessionService{
		store:      store,
		clock:      clock,
		logger:     logger,
		accessTTL:  opts.AccessTTL,
		refreshTTL: opts.RefreshTTL,
		latency:    opts.SimulatedLatency,
		users:      seedUsers(),
	}
}

// seedUsers returns the fixed directory the dashboard ships with.
// Registration appends to this list for the lifetime of the process.
func seedUsers() []domain.User {
	return []domain.User{
		{ID: "1", Name: "Admin User", Email: "admin@example.com", Roles: []domain.Role{domain.RoleAdmin}, Avatar: avatarURL("Admin User")},
		{ID: "2", Name: "Teacher User", Email: "teacher@example.com", Roles: []domain.Role{domain.RoleTeacher}, Avatar: avatarURL("Teacher User")},
		{ID: "3", Name: "Student User", Email: "student@example.com", Roles: []domain.Role{domain.RoleStudent}, Avatar: avatarURL("Student User")},
		{ID: "4", Name: "Medical Staff", Email: "medical@example.com", Roles: []domain.Role{domain.RoleMedical}, Avatar: avatarURL("Medical Staff")},
		{ID: "5", Name: "Multi-Role User", Email: "multirole@example.com", Roles: []domain.Role{domain.RoleAdmin, domain.RoleTeacher}, Avatar: avatarURL("Multi-Role User")},
	}
}

func avatarURL(name string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(name)
}

// Login authenticates against the seeded directory. The email match is
// case-insensitive; the password only has to be non-empty (mock contract).
// The user's first declared role becomes the active role.
func (s *SessionService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if err := s.pause(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	found := s.findByEmail(email)
	if found == nil {
		return nil, domain.ErrInvalidCredentials
	}

	user := cloneUser(found)
	user.CurrentRole = user.Roles[0]

	sess, err := s.establish(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Str("role", string(user.CurrentRole)).Msg("session established")
	return &ports.AuthResult{User: cloneUser(user), Session: sess}, nil
}

// Register creates a student account and logs it in. The new record lives in
// memory only; the mirrored session is the sole durable trace of it.
func (s *SessionService) Register(ctx context.Context, name, email, password string) (*ports.AuthResult, error) {
	if err := s.pause(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if password == "" || s.findByEmail(email) != nil {
		return nil, domain.ErrEmailExists
	}

	user := &domain.User{
		ID:          strconv.Itoa(len(s.users) + 1),
		Name:        name,
		Email:       email,
		Roles:       []domain.Role{domain.RoleStudent},
		Avatar:      avatarURL(name),
		CurrentRole: domain.RoleStudent,
	}
	s.users = append(s.users, *cloneUser(user))

	sess, err := s.establish(ctx, user)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("user_id", user.ID).Str("email", email).Msg("user registered")
	return &ports.AuthResult{User: cloneUser(user), Session: sess}, nil
}

// Refresh exchanges a valid, unexpired refresh token for a fresh token pair.
// The persisted user record is read but not rewritten.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (domain.Session, error) {
	if err := s.pause(ctx); err != nil {
		return domain.Session{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refreshLocked(ctx, refreshToken)
}

func (s *SessionService) refreshLocked(ctx context.Context, refreshToken string) (domain.Session, error) {
	stored, ok, err := s.store.Get(ctx, ports.KeyRefreshToken)
	if err != nil {
		return domain.Session{}, err
	}
	if !ok || stored != refreshToken || !s.expiryValid(ctx, ports.KeyRefreshExpiry) {
		return domain.Session{}, domain.ErrInvalidRefreshToken
	}

	user, err := s.storedUser(ctx)
	if err != nil {
		return domain.Session{}, err
	}

	role := user.CurrentRole
	if role == "" {
		role = user.Roles[0]
	}

	sess, err := s.mintAndPersist(ctx, user.ID, role)
	if err != nil {
		return domain.Session{}, err
	}
	s.session = &sess
	return sess, nil
}

// ChangeRole switches the active role. The supplied access token must equal
// the persisted one and the target role must be among the user's roles. The
// user record is rewritten with the new active role.
func (s *SessionService) ChangeRole(ctx context.Context, accessToken string, role domain.Role) (domain.Session, error) {
	if err := s.pause(ctx); err != nil {
		return domain.Session{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok, err := s.store.Get(ctx, ports.KeyAccessToken)
	if err != nil {
		return domain.Session{}, err
	}
	if !ok || stored != accessToken {
		return domain.Session{}, domain.ErrInvalidAccessToken
	}

	user, err := s.storedUser(ctx)
	if err != nil {
		return domain.Session{}, err
	}
	if !user.HasRole(role) {
		return domain.Session{}, domain.ErrRoleNotAssigned
	}

	sess, err := s.mintAndPersist(ctx, user.ID, role)
	if err != nil {
		return domain.Session{}, err
	}

	user.CurrentRole = role
	if err := s.persistUser(ctx, user); err != nil {
		return domain.Session{}, err
	}

	s.session = &sess
	s.user = user
	s.logger.Info().Str("user_id", user.ID).Str("role", string(role)).Msg("active role changed")
	return sess, nil
}

// Logout clears the in-memory session and deletes every persisted key.
// Idempotent: logging out while logged out is a no-op.
func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.pause(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Delete(ctx, ports.SessionKeys...); err != nil {
		return err
	}
	s.session = nil
	s.user = nil
	return nil
}

// CurrentUser answers "who is logged in", never failing for auth reasons.
// With no in-memory session it attempts restoration from the store: a
// missing or expired access token triggers a transparent refresh, whose
// failure downgrades to "no session".
func (s *SessionService) CurrentUser(ctx context.Context) (*domain.User, error) {
	if err := s.pause(ctx); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.session != nil && s.user != nil {
		return cloneUser(s.user), nil
	}

	refreshToken, ok := s.read(ctx, ports.KeyRefreshToken)
	if !ok {
		return nil, nil
	}
	rawUser, ok := s.read(ctx, ports.KeyCurrentUser)
	if !ok {
		return nil, nil
	}
	if !s.expiryValid(ctx, ports.KeyRefreshExpiry) {
		return nil, nil
	}

	var user domain.User
	if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
		s.logger.Warn().Err(err).Msg("persisted user record is corrupt")
		return nil, nil
	}

	accessToken, hasAccess := s.read(ctx, ports.KeyAccessToken)
	if hasAccess && s.expiryValid(ctx, ports.KeyAccessExpiry) {
		// The persisted pair is still good; adopt it without minting.
		s.session = &domain.Session{AccessToken: accessToken, RefreshToken: refreshToken}
		s.user = &user
		return cloneUser(&user), nil
	}

	if _, err := s.refreshLocked(ctx, refreshToken); err != nil {
		s.logger.Warn().Err(err).Msg("session restoration refresh failed")
		return nil, nil
	}
	s.user = &user
	return cloneUser(&user), nil
}

// establish mints a token pair for the user and persists all five keys.
// Callers must hold the mutex.
func (s *SessionService) establish(ctx context.Context, user *domain.User) (domain.Session, error) {
	sess, err := s.mintAndPersist(ctx, user.ID, user.CurrentRole)
	if err != nil {
		return domain.Session{}, err
	}
	if err := s.persistUser(ctx, user); err != nil {
		return domain.Session{}, err
	}
	s.session = &sess
	s.user = cloneUser(user)
	return sess, nil
}

// mintAndPersist generates a fresh token pair and overwrites the four
// persisted token keys. The user record is left untouched.
func (s *SessionService) mintAndPersist(ctx context.Context, userID string, role domain.Role) (domain.Session, error) {
	now := s.clock.Now()
	sess := domain.Session{
		AccessToken:  mintToken("access", userID, role, now),
		RefreshToken: mintToken("refresh", userID, role, now),
	}
	accessExpiry := now.Add(s.accessTTL).UnixMilli()
	refreshExpiry := now.Add(s.refreshTTL).UnixMilli()

	pairs := [][2]string{
		{ports.KeyAccessToken, sess.AccessToken},
		{ports.KeyRefreshToken, sess.RefreshToken},
		{ports.KeyAccessExpiry, strconv.FormatInt(accessExpiry, 10)},
		{ports.KeyRefreshExpiry, strconv.FormatInt(refreshExpiry, 10)},
	}
	for _, kv := range pairs {
		if err := s.store.Set(ctx, kv[0], kv[1]); err != nil {
			return domain.Session{}, fmt.Errorf("persist %s: %w", kv[0], err)
		}
	}
	return sess, nil
}

func (s *SessionService) persistUser(ctx context.Context, user *domain.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("serialize user: %w", err)
	}
	return s.store.Set(ctx, ports.KeyCurrentUser, string(raw))
}

// storedUser loads the persisted user record, mapping absence to
// ErrUserNotFound.
func (s *SessionService) storedUser(ctx context.Context) (*domain.User, error) {
	raw, ok, err := s.store.Get(ctx, ports.KeyCurrentUser)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	var user domain.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("deserialize user: %w", err)
	}
	return &user, nil
}

// expiryValid reports whether the epoch-millis timestamp under key is in the
// future. Missing or malformed values count as expired.
func (s *SessionService) expiryValid(ctx context.Context, key string) bool {
	raw, ok := s.read(ctx, key)
	if !ok {
		return false
	}
	millis, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return false
	}
	return millis > s.clock.Now().UnixMilli()
}

// read is a store Get that downgrades infrastructure errors to absence,
// for the paths that must answer "no session" instead of failing.
func (s *SessionService) read(ctx context.Context, key string) (string, bool) {
	value, ok, err := s.store.Get(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("session store read failed")
		return "", false
	}
	return value, ok
}

func (s *SessionService) findByEmail(email string) *domain.User {
	for i := range s.users {
		if strings.EqualFold(s.users[i].Email, email) {
			return &s.users[i]
		}
	}
	return nil
}

func (s *SessionService) pause(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(s.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = append([]domain.Role(nil), u.Roles...)
	return &clone
}

// mintToken builds an opaque token from the user id, role, and issuance
// time, plus a random suffix. The format only guarantees uniqueness; nothing
// ever parses or verifies it.
func mintToken(kind, userID string, role domain.Role, issuedAt time.Time) string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		// fallback: nanosecond clock still keeps tokens distinct in practice
		return fmt.Sprintf("%s.%s.%s.%d", kind, userID, role, issuedAt.UnixNano())
	}
	return fmt.Sprintf("%s.%s.%s.%d.%08X", kind, userID, role, issuedAt.UnixMilli(), b)
}
