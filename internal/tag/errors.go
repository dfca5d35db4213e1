package tag

import (
	"fmt"
	"strings"
)

// CyclicError reports that a tag name reappeared in its own resolution
// path. Path holds the chain in resolution order ending with the repeated
// name, so callers can print the exact cycle.
type CyclicError struct {
	Path []string
}

func (e *CyclicError) Error() string {
	return fmt.Sprintf("cyclic tag reference: %s", strings.Join(e.Path, " -> "))
}

// LoadError reports a store failure other than not-found while resolving.
// Path holds the resolution path at the point of failure and Err the
// underlying store error.
type LoadError struct {
	Path []string
	Err  error
}

func (e *LoadError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("unable to load tag: %v", e.Err)
	}
	return fmt.Sprintf("unable to load tag via %s: %v", strings.Join(e.Path, " -> "), e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
