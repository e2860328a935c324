package model

// UserStatus gates participation in login and assignment lookups.
type UserStatus string

// User statuses as stored on the user sheet.
const (
	UserActive   UserStatus = "Ativo"
	UserInactive UserStatus = "Inativo"
)

// Role controls dashboard scoping and goal administration.
type Role string

// User roles.
const (
	RoleAdmin Role = "Admin"
	RoleUser  Role = "Usuario"
)

// User is a desk operator from the user sheet. PasswordSecret is opaque and
// never rendered.
type User struct {
	ID             int
	Username       string
	DisplayName    string
	Email          string
	PasswordSecret string
	Status         UserStatus
	Role           Role
}

// IsActive reports whether the user may log in or receive assignments.
func (u User) IsActive() bool {
	return u.Status == UserActive
}

// IsAdmin reports whether the user sees the unscoped dashboard.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
