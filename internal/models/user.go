package models

type UserRole string

const (
	RoleAdmin     UserRole = "admin"
	RoleSales     UserRole = "sales"
	RoleInventory UserRole = "inventory"
	RoleFinance   UserRole = "finance"
)

// User.Password holds a bcrypt hash.
type User struct {
	ID       int      `json:"id"`
	Username string   `json:"username"`
	Password string   `json:"password"`
	Role     UserRole `json:"role"`
	Name     string   `json:"name"`
}

// SessionUser is the acting user recorded in the snapshot and in audit events.
type SessionUser struct {
	ID       int      `json:"id"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
}

// AuditName renders the user the way audit events show it.
func (u *SessionUser) AuditName() string {
	if u == nil {
		return GuestUser
	}
	return u.Name + " (" + u.Username + ")"
}
