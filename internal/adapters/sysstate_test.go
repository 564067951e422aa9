package adapters

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeProbeRunner(outputs map[string][]byte, failures map[string]error) func(context.Context, string, ...string) ([]byte, error) {
	return func(_ context.Context, name string, args ...string) ([]byte, error) {
		key := name
		if len(args) > 0 {
			key = name + " " + args[0]
		}
		if err, ok := failures[key]; ok {
			return outputs[key], err
		}
		return outputs[key], nil
	}
}

func TestCollectHealthSnapshot(t *testing.T) {
	configRoot := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(configRoot, "app.conf.dpkg-new"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(configRoot, "other.conf.dpkg-dist"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(configRoot, "normal.conf"), []byte("x"), 0o644))

	adapter := SystemStateAdapter{
		ConfigRoot: configRoot,
		Runner: fakeProbeRunner(map[string][]byte{
			"systemctl list-units": []byte("nginx.service failed failed\npostgresql.service failed failed\n"),
			"apt-get --simulate":   []byte("Remv old-lib [1.0]\nRemv stale-tool [2.0]\nConf keeper\n"),
			"journalctl --dmesg":   []byte("kernel: everything is fine\n"),
		}, nil),
	}

	snapshot, err := adapter.Collect(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.FailedServices)
	assert.Equal(t, 2, snapshot.PendingConfigConflicts)
	assert.Empty(t, snapshot.BrokenDependencies)
	assert.Equal(t, []string{"old-lib", "stale-tool"}, snapshot.OrphanedPackages)
	assert.Contains(t, snapshot.RecentKernelLog, "everything is fine")
}

func TestCollectProbesDegradeIndependently(t *testing.T) {
	adapter := SystemStateAdapter{
		ConfigRoot: t.TempDir(),
		Runner: fakeProbeRunner(
			map[string][]byte{
				"apt-get check":      []byte("E: Unmet dependencies\n"),
				"apt-get --simulate": []byte("Remv orphan [1.0]\n"),
			},
			map[string]error{
				"systemctl list-units": errors.New("systemctl not available"),
				"apt-get check":        errors.New("exit status 100"),
				"journalctl --dmesg":   errors.New("no journal"),
			},
		),
	}

	snapshot, err := adapter.Collect(t.Context())
	require.NoError(t, err, "collection never fails as a whole")
	assert.Equal(t, 0, snapshot.FailedServices)
	assert.Equal(t, "E: Unmet dependencies", snapshot.BrokenDependencies)
	assert.Equal(t, []string{"orphan"}, snapshot.OrphanedPackages)
	assert.Empty(t, snapshot.RecentKernelLog)
}

func TestPendingConfigConflictsMissingRoot(t *testing.T) {
	adapter := SystemStateAdapter{ConfigRoot: filepath.Join(t.TempDir(), "does-not-exist")}
	assert.Equal(t, 0, adapter.pendingConfigConflicts())
}

func TestCountNonEmptyLines(t *testing.T) {
	assert.Equal(t, 0, countNonEmptyLines(""))
	assert.Equal(t, 2, countNonEmptyLines("a\n\n  \nb\n"))
}
