package ports

import "context"

// UpdatePort applies the selected package updates through the system
// package manager. Invoked from a single logical thread of control; nothing
// else mutates system state concurrently.
type UpdatePort interface {
	Apply(ctx context.Context, packages []string) (exitCode int, combinedLog string, err error)
}
