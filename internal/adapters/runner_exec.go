package adapters

import (
	"context"
	"os/exec"

	"apt-warden/internal/ports"
	"apt-warden/internal/shared"
)

// ShellRunnerAdapter executes one remediation command line through the
// shell. Fix commands come from the oracle and may use pipes or
// redirection, so a plain argv split is not enough.
type ShellRunnerAdapter struct{}

func NewShellRunnerAdapter() ShellRunnerAdapter {
	return ShellRunnerAdapter{}
}

func (a ShellRunnerAdapter) Run(ctx context.Context, command string) (string, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return string(output), shared.CommandError(output, err)
	}
	return string(output), nil
}

var _ ports.CommandRunnerPort = ShellRunnerAdapter{}
