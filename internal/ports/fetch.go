package ports

import (
	"context"
	"fmt"

	"apt-warden/internal/types"
)

// FetchErrorKind classifies why a package's build recipe could not be
// retrieved. The scheduler records the kind on the scan result; a fetch
// failure is task-local and never fatal to the batch.
type FetchErrorKind string

const (
	FetchNotFound    FetchErrorKind = "not-found"
	FetchTimeout     FetchErrorKind = "timeout"
	FetchNoDirectory FetchErrorKind = "no-directory"
)

type FetchError struct {
	Package string
	Kind    FetchErrorKind
	Cause   error
}

func (e *FetchError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch %s: %s: %v", e.Package, e.Kind, e.Cause)
	}
	return fmt.Sprintf("fetch %s: %s", e.Package, e.Kind)
}

func (e *FetchError) Unwrap() error { return e.Cause }

// FetchPort retrieves a package's build recipe and auxiliary files into an
// isolated, uniquely named workspace. The returned cleanup func removes the
// workspace and must be called regardless of outcome. Implementations try
// each source variant in order until one succeeds, bound each attempt by
// the configured timeout, and return a *FetchError on failure.
type FetchPort interface {
	Fetch(ctx context.Context, task types.PackageTask) (workspace string, cleanup func(), err error)
}
