package server

import (
	"fmt"
	"io"

	"nathanbeddoewebdev/panelctl/internal/domain"
	"nathanbeddoewebdev/panelctl/internal/output"
)

// printServerDetail prints a vertical key-value table of all server fields.
func printServerDetail(w io.Writer, server *domain.Server) {
	fmt.Fprintf(w, "  ID:\t%s\n", server.ID)
	fmt.Fprintf(w, "  Name:\t%s\n", server.Name)
	fmt.Fprintf(w, "  Status:\t%s\n", server.Status)
	fmt.Fprintf(w, "  Type:\t%s\n", output.Dash(server.Type))

	if server.Hostname != "" {
		fmt.Fprintf(w, "  Hostname:\t%s\n", server.Hostname)
	}
	if server.Plan != "" {
		fmt.Fprintf(w, "  Plan:\t%s\n", server.Plan)
	}
	if server.Image != "" {
		fmt.Fprintf(w, "  Image:\t%s\n", server.Image)
	}
	if server.Location != "" {
		fmt.Fprintf(w, "  Location:\t%s\n", server.Location)
	}
	if server.IPv4 != "" {
		fmt.Fprintf(w, "  IPv4:\t%s\n", server.IPv4)
	}
	if server.IPv6 != "" {
		fmt.Fprintf(w, "  IPv6:\t%s\n", server.IPv6)
	}
	if server.PartnerID != "" {
		fmt.Fprintf(w, "  Partner:\t%s\n", server.PartnerID)
	}
	if !server.CreatedAt.IsZero() {
		fmt.Fprintf(w, "  Created:\t%s (%s)\n", server.CreatedAt.UTC().Format("2006-01-02 15:04:05 UTC"), output.Ago(server.CreatedAt))
	}
}
