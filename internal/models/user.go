package models

import "time"

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleMember UserRole = "member"
)

// User is the directory record behind a caller-supplied identity. The
// service performs no authentication; users exist so the fan-out engine can
// resolve display names and roles.
type User struct {
	ID        string     `gorm:"primarykey;type:varchar(64)" json:"id"`
	Name      string     `gorm:"type:varchar(255);not null" json:"name"`
	Role      UserRole   `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Identity is the externally-supplied caller identity. It arrives on every
// request; the core trusts it as-is.
type Identity struct {
	ID   string   `json:"id"`
	Name string   `json:"name"`
	Role UserRole `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
