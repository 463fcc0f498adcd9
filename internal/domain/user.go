package domain

import "time"

// Roles known to the dashboard.
const (
	RoleAdmin    = "admin"
	RolePartner  = "partner"
	RoleCustomer = "customer"
)

// User is an account as returned by the users endpoints.
type User struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	PartnerID ID        `json:"partner_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// IsAdmin reports whether the user may impersonate other accounts.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }
