package domain

import "time"

// Role names seeded at startup.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is an identity record. Accounts are deactivated (soft) rather than
// deleted; IsActive gates login and token refresh.
type User struct {
	Model
	Username     string     `gorm:"uniqueIndex;not null" json:"username"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"not null" json:"-"`
	IsActive     bool       `gorm:"default:true" json:"isActive"`
	LastLoginAt  *time.Time `json:"lastLoginAt,omitempty"`

	Roles []Role `gorm:"many2many:user_roles;constraint:OnDelete:CASCADE" json:"roles,omitempty"`
}

// RoleNames returns the names of the user's assigned roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}

func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// Role is a named membership target (admin, user).
type Role struct {
	Model
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

// UserRole is the join entity between users and roles. The pair is unique;
// deleting either parent cascades to its join rows.
type UserRole struct {
	Model
	UserID uint `gorm:"uniqueIndex:ux_user_role;not null" json:"userId"`
	RoleID uint `gorm:"uniqueIndex:ux_user_role;not null" json:"roleId"`
}
