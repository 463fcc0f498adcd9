package output

import (
	"fmt"
	"io"

	"nathanbeddoewebdev/panelctl/internal/api"
)

// PrintError writes err to w. API errors list their field messages under
// the summary line.
func PrintError(w io.Writer, err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	if apiErr, ok := api.AsError(err); ok {
		for _, line := range apiErr.FieldMessages() {
			fmt.Fprintf(w, "  - %s\n", line)
		}
	}
}
