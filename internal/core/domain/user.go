package domain

import "errors"

// Role identifies one of the dashboard's administrative domains.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
	RoleMedical Role = "medical"
	RoleHostel  Role = "hostel"
	RoleLibrary Role = "library"
	RoleCanteen Role = "canteen"
)

// AllRoles is the closed set of roles the dashboard knows about.
var AllRoles = []Role{
	RoleAdmin, RoleTeacher, RoleStudent,
	RoleMedical, RoleHostel, RoleLibrary, RoleCanteen,
}

var ErrInvalidCredentials = errors.New("invalid email or password")
var ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
var ErrInvalidAccessToken = errors.New("invalid access token")
var ErrUserNotFound = errors.New("user not found")
var ErrRoleNotAssigned = errors.New("role not assigned to user")
var ErrEmailExists = errors.New("email already registered")

// IsValidRole reports whether r belongs to the closed role set.
func IsValidRole(r Role) bool {
	for _, known := range AllRoles {
		if known == r {
			return true
		}
	}
	return false
}

// User models an actor of the administration dashboard.
// CurrentRole is the single role selected for role-based behaviour and,
// when set, must be an element of Roles.
type User struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	Roles       []Role `json:"roles"`
	Avatar      string `json:"avatar"`
	CurrentRole Role   `json:"current_role,omitempty"`
}

// HasRole reports whether the user holds the given role.
func (u *User) HasRole(r Role) bool {
	for _, held := range u.Roles {
		if held == r {
			return true
		}
	}
	return false
}
