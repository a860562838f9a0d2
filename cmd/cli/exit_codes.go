package cli

import "errors"

const genericFailureExitCodeConstant = 1

// ExitCoder is implemented by errors that carry a process exit code.
type ExitCoder interface {
	ExitCode() int
}

// ExitCodeOf returns the exit code carried by err, 0 for nil, and 1 for errors without one.
func ExitCodeOf(err error) int {
	if err == nil {
		return 0
	}
	var exitCoder ExitCoder
	if errors.As(err, &exitCoder) {
		return exitCoder.ExitCode()
	}
	return genericFailureExitCodeConstant
}
