package ports

import "context"

// CommandRunnerPort executes one remediation command line and returns its
// combined output. A non-zero exit is returned as an error; the fix
// executor records it and moves on to the next command.
type CommandRunnerPort interface {
	Run(ctx context.Context, command string) (output string, err error)
}
