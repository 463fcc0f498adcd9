package session

// User is the identity persisted in the user and impersonated_user
// credentials.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	PartnerID string `json:"partner_id,omitempty"`
}

// DisplayName returns the best human-readable label for u.
func (u User) DisplayName() string {
	switch {
	case u.Name != "":
		return u.Name
	case u.Email != "":
		return u.Email
	default:
		return u.ID
	}
}

// State is the coarse session state.
type State int

const (
	Anonymous State = iota
	Authenticated
	Impersonating
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case Impersonating:
		return "impersonating"
	default:
		return "anonymous"
	}
}

// Session is the identity currently acting, derived from stored credentials
// on every read.
type Session struct {
	ActiveUser           *User
	ActiveToken          string
	IsImpersonating      bool
	UnderlyingAdminToken string
}
