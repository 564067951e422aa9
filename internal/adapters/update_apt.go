package adapters

import (
	"context"
	"os/exec"

	"apt-warden/internal/ports"
)

// AptUpdateAdapter applies the approved updates through apt-get. This is
// the one mutation of the package database in the whole pipeline and it
// runs on a single logical thread, strictly after the gate has decided to
// proceed.
type AptUpdateAdapter struct{}

func NewAptUpdateAdapter() AptUpdateAdapter {
	return AptUpdateAdapter{}
}

func (a AptUpdateAdapter) Apply(ctx context.Context, packages []string) (int, string, error) {
	if len(packages) == 0 {
		return 0, "", nil
	}
	args := append([]string{"install", "--only-upgrade", "--assume-yes"}, packages...)
	cmd := exec.CommandContext(ctx, "apt-get", args...)
	output, err := cmd.CombinedOutput()
	exitCode := 0
	if exitErr, ok := err.(*exec.ExitError); ok {
		exitCode = exitErr.ExitCode()
		err = nil
	}
	return exitCode, string(output), err
}

var _ ports.UpdatePort = AptUpdateAdapter{}
