package pygments

import "strings"

// ExecError is the error returned when pygmentize
// exits with a non-zero status or fails to start at all.
type ExecError struct {
	// Stderr holds everything the process wrote to stderr,
	// exactly as captured.
	Stderr string

	// Err is the underlying error from running the process,
	// usually an *exec.ExitError.
	Err error
}

var _ error = (*ExecError)(nil)

func (e *ExecError) Error() string {
	if msg := strings.TrimSpace(e.Stderr); msg != "" {
		return msg
	}
	return e.Err.Error()
}

func (e *ExecError) Unwrap() error { return e.Err }
