package output

import (
	"time"

	"github.com/dustin/go-humanize"
)

// TimeLayout is used wherever an absolute timestamp is shown.
const TimeLayout = "2006-01-02 15:04:05"

// Ago renders t relative to now ("3 hours ago"), or "-" for the zero time.
func Ago(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

// AgoPtr is Ago for optional timestamps.
func AgoPtr(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return Ago(*t)
}

// Bytes renders a byte count as "82 kB".
func Bytes(n int) string {
	return humanize.Bytes(uint64(n))
}
