package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is a resource identifier. The API sends numeric IDs for some resources
// and string IDs for others; both decode into an ID.
type ID string

func (id ID) String() string { return string(id) }

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("domain: invalid id %s", data)
		}
		*id = ID(n.String())
		return nil
	}
}
