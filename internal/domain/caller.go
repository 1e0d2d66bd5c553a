package domain

// Caller is the authenticated identity threaded explicitly into service
// calls. The API middleware builds it from validated token claims; services
// never reach into ambient request state.
type Caller struct {
	UserID   uint
	Username string
	Roles    []string
}

// Anonymous reports whether no authenticated identity is attached.
func (c Caller) Anonymous() bool { return c.UserID == 0 }

func (c Caller) HasRole(name string) bool {
	for _, r := range c.Roles {
		if r == name {
			return true
		}
	}
	return false
}

func (c Caller) IsAdmin() bool { return c.HasRole(RoleAdmin) }
