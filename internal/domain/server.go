package domain

import "time"

// Server lifecycle states reported by the dashboard API.
const (
	ServerStatusProvisioning = "provisioning"
	ServerStatusRunning      = "running"
	ServerStatusStarting     = "starting"
	ServerStatusStopping     = "stopping"
	ServerStatusStopped      = "stopped"
	ServerStatusRebooting    = "rebooting"
	ServerStatusError        = "error"
)

// Server is a VPS or dedicated machine managed through the dashboard.
type Server struct {
	ID        ID        `json:"id"`
	Name      string    `json:"name"`
	Hostname  string    `json:"hostname,omitempty"`
	Status    string    `json:"status"`
	Type      string    `json:"type"` // "vps" or "dedicated"
	Plan      string    `json:"plan,omitempty"`
	Location  string    `json:"location,omitempty"`
	Image     string    `json:"image,omitempty"`
	IPv4      string    `json:"ip_address,omitempty"`
	IPv6      string    `json:"ipv6_address,omitempty"`
	PartnerID ID        `json:"partner_id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitzero"`
}

// Terminal reports whether the status will not change without a new action.
func (s *Server) Terminal() bool {
	switch s.Status {
	case ServerStatusRunning, ServerStatusStopped, ServerStatusError:
		return true
	}
	return false
}
