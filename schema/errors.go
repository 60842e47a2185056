package schema

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors surfaced to callers of the pipeline.
var (
	// ErrSourceUnavailable means no branch of a repository could be fetched.
	ErrSourceUnavailable = errors.New("commit source unavailable")

	// ErrInvariant means a collection failed an internal consistency check.
	ErrInvariant = errors.New("collection invariant violated")
)

// BranchFailure records why one branch could not be fetched.
type BranchFailure struct {
	Branch string
	Err    error
}

// SourceUnavailableError is returned when every branch fetch of a repository failed.
type SourceUnavailableError struct {
	Repository string
	Failures   []BranchFailure
}

func (e *SourceUnavailableError) Error() string {
	parts := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		parts = append(parts, fmt.Sprintf("%s: %v", f.Branch, f.Err))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s for %s", ErrSourceUnavailable, e.Repository)
	}
	return fmt.Sprintf("%s for %s (%s)", ErrSourceUnavailable, e.Repository, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrSourceUnavailable.
func (e *SourceUnavailableError) Unwrap() error {
	return ErrSourceUnavailable
}
