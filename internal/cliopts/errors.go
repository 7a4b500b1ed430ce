// Package cliopts holds the thin, non-core glue the randquik binary needs:
// decoding the -s seed, parsing the -b byte cap, and classifying the
// failures in spec.md §7 so main can pick an exit code.
package cliopts

import "fmt"

// Kind identifies one of the error kinds from spec.md §7.
type Kind int

const (
	// SeedFormat: non-hex characters in the -s argument.
	SeedFormat Kind = iota
	// SeedEntropy: unable to read from the OS entropy source.
	SeedEntropy
	// OpenOutput: cannot open the destination file.
	OpenOutput
	// WriteIO: short write or OS-level write error.
	WriteIO
	// RefuseTTY: stdout is a terminal and no output file was given.
	RefuseTTY
	// BadOption: unknown flag, missing argument, or out-of-range value.
	BadOption
)

func (k Kind) String() string {
	switch k {
	case SeedFormat:
		return "SeedFormat"
	case SeedEntropy:
		return "SeedEntropy"
	case OpenOutput:
		return "OpenOutput"
	case WriteIO:
		return "WriteIO"
	case RefuseTTY:
		return "RefuseTTY"
	case BadOption:
		return "BadOption"
	default:
		return "Unknown"
	}
}

// ExitError is a classified, user-facing failure. main logs it once and
// exits with status 1 whatever its Kind (spec.md §6, "Behavior").
type ExitError struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *ExitError) Unwrap() error { return e.Err }

func newErr(kind Kind, msg string, err error) *ExitError {
	return &ExitError{Kind: kind, Msg: msg, Err: err}
}
