package runner

import (
	"errors"
	"fmt"

	"chartbaseline/internal/browser"
)

// Process exit statuses.
const (
	ExitOK                = 0
	ExitDependencyMissing = 1
	ExitNavigation        = 2
	ExitFailure           = 3
)

// NavigationError means the target page never reached network idle, either
// because the wait timed out or because nothing answered at URL.
type NavigationError struct {
	URL string
	Err error
}

func (e *NavigationError) Error() string {
	return fmt.Sprintf("load %s: %v", e.URL, e.Err)
}

func (e *NavigationError) Unwrap() error { return e.Err }

// ExitCode classifies a Run error into a process exit status.
func ExitCode(err error) int {
	var navErr *NavigationError
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, browser.ErrNotInstalled):
		return ExitDependencyMissing
	case errors.As(err, &navErr):
		return ExitNavigation
	default:
		return ExitFailure
	}
}
