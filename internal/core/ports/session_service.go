package ports

import (
	"context"

	"github.com/campushq/campus-admin-api/internal/core/domain"
)

// AuthResult is returned by the operations that establish a session.
type AuthResult struct {
	User    *domain.User
	Session domain.Session
}

// SessionService is the session manager consumed by the HTTP layer.
//
// CurrentUser is the only operation that never fails for auth reasons: it
// answers (nil, nil) when no valid session can be established, restoring one
// from the persisted store when the in-memory state is empty.
type SessionService interface {
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (domain.Session, error)
	ChangeRole(ctx context.Context, accessToken string, role domain.Role) (domain.Session, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*domain.User, error)
}
