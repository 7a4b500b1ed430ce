package cliopts

import (
	"strings"

	"github.com/dustin/go-humanize"
)

// ParseByteCap parses the -b flag's value: a bare byte count, or a count
// suffixed with a unit (k, m, g, t and their kb/kib-style variants,
// case-insensitively), per spec.md §6. An empty string means no cap.
func ParseByteCap(s string) (uint64, error) {
	if s == "" {
		return 0, nil
	}

	n, err := humanize.ParseBytes(strings.ToLower(s))
	if err != nil {
		return 0, newErr(BadOption, "invalid -b byte cap", err)
	}
	return n, nil
}
