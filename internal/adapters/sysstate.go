package adapters

import (
	"context"
	"io/fs"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"

	"apt-warden/internal/ports"
	"apt-warden/internal/types"
)

// SystemStateAdapter gathers the post-update health signals. Each probe is
// independent: a failing probe logs and leaves its field at the zero value
// so collection always returns a snapshot.
type SystemStateAdapter struct {
	ConfigRoot string
	// Runner is swappable for tests; defaults to exec.
	Runner func(ctx context.Context, name string, args ...string) ([]byte, error)
}

func NewSystemStateAdapter() SystemStateAdapter {
	return SystemStateAdapter{
		ConfigRoot: "/etc",
		Runner: func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return exec.CommandContext(ctx, name, args...).CombinedOutput()
		},
	}
}

func (a SystemStateAdapter) Collect(ctx context.Context) (types.HealthSnapshot, error) {
	snapshot := types.HealthSnapshot{}
	snapshot.FailedServices = a.failedServiceCount(ctx)
	snapshot.PendingConfigConflicts = a.pendingConfigConflicts()
	snapshot.BrokenDependencies = a.brokenDependencySummary(ctx)
	snapshot.OrphanedPackages = a.orphanedPackages(ctx)
	snapshot.RecentKernelLog = a.recentKernelLog(ctx)
	return snapshot, nil
}

func (a SystemStateAdapter) failedServiceCount(ctx context.Context) int {
	output, err := a.Runner(ctx, "systemctl", "list-units", "--state=failed", "--no-legend", "--plain")
	if err != nil {
		log.Debug().Err(err).Msg("failed-service probe unavailable")
		return 0
	}
	return countNonEmptyLines(string(output))
}

// pendingConfigConflicts counts package-manager conflict copies left under
// the config root (*.dpkg-new / *.dpkg-dist).
func (a SystemStateAdapter) pendingConfigConflicts() int {
	count := 0
	_ = filepath.WalkDir(a.ConfigRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fs.SkipDir
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(path, ".dpkg-new") || strings.HasSuffix(path, ".dpkg-dist") {
			count++
		}
		return nil
	})
	return count
}

func (a SystemStateAdapter) brokenDependencySummary(ctx context.Context) string {
	output, err := a.Runner(ctx, "apt-get", "check")
	if err != nil {
		return strings.TrimSpace(string(output))
	}
	return ""
}

func (a SystemStateAdapter) orphanedPackages(ctx context.Context) []string {
	output, err := a.Runner(ctx, "apt-get", "--simulate", "autoremove")
	if err != nil {
		log.Debug().Err(err).Msg("orphaned-package probe unavailable")
		return nil
	}
	var orphans []string
	for _, line := range strings.Split(string(output), "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "Remv" {
			orphans = append(orphans, fields[1])
		}
	}
	return orphans
}

func (a SystemStateAdapter) recentKernelLog(ctx context.Context) string {
	output, err := a.Runner(ctx, "journalctl", "--dmesg", "--lines=50", "--no-pager")
	if err != nil {
		log.Debug().Err(err).Msg("kernel-log probe unavailable")
		return ""
	}
	return string(output)
}

func countNonEmptyLines(output string) int {
	count := 0
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) != "" {
			count++
		}
	}
	return count
}

var _ ports.SystemStatePort = SystemStateAdapter{}
