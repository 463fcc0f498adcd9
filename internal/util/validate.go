package util

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
)

// validNameChars matches only alphanumeric characters, hyphens, and periods.
var validNameChars = regexp.MustCompile(`^[a-zA-Z0-9.\-]+$`)

// ValidateServerName checks that a server name is usable as an RFC 1123
// hostname, which the dashboard requires for provisioning:
//   - At least 2 characters
//   - Only alphanumeric characters (a-z, A-Z, 0-9), hyphens (-), and periods (.)
//   - First character must be alphanumeric
//   - Last character must not be a hyphen or period
func ValidateServerName(name string) error {
	if len(name) < 2 {
		return fmt.Errorf("server name must be at least 2 characters, got %d", len(name))
	}

	if !validNameChars.MatchString(name) {
		return fmt.Errorf("server name %q contains invalid characters (only a-z, A-Z, 0-9, hyphens, and periods are allowed)", name)
	}

	first := name[0]
	if !isAlphanumeric(first) {
		return fmt.Errorf("server name must start with an alphanumeric character, got %q", string(first))
	}

	last := name[len(name)-1]
	if last == '-' || last == '.' {
		return fmt.Errorf("server name must not end with a hyphen or period, got %q", string(last))
	}

	return nil
}

func isAlphanumeric(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// ValidateEmail checks that s is a bare email address ("user@host"),
// without a display name.
func ValidateEmail(s string) error {
	if s == "" {
		return fmt.Errorf("email is required")
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return fmt.Errorf("%q is not a valid email address", s)
	}
	return nil
}

// ValidateID checks that an identifier given on the command line is usable
// as a single path segment.
func ValidateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("id must not be empty")
	}
	if strings.ContainsAny(id, "/?#") {
		return fmt.Errorf("id %q contains invalid characters", id)
	}
	return nil
}
