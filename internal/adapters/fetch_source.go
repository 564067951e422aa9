package adapters

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"apt-warden/internal/ports"
	"apt-warden/internal/types"
)

// SourceFetchAdapter retrieves a package's build recipe into an isolated
// workspace via `apt-get source`. Every attempt gets its own timeout so a
// hung mirror resolves to a task-local failure instead of stalling the
// batch; sibling fetches are never affected.
type SourceFetchAdapter struct {
	BaseDir string
	Timeout time.Duration
	// Runner is swappable for tests; defaults to apt-get source.
	Runner func(ctx context.Context, dir string, name string) ([]byte, error)
}

const defaultFetchTimeout = 120 * time.Second

func NewSourceFetchAdapter(baseDir string, timeout time.Duration) SourceFetchAdapter {
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return SourceFetchAdapter{
		BaseDir: baseDir,
		Timeout: timeout,
		Runner:  runAptGetSource,
	}
}

func runAptGetSource(ctx context.Context, dir string, name string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "apt-get", "source", "--only-source", name)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

func (a SourceFetchAdapter) Fetch(ctx context.Context, task types.PackageTask) (string, func(), error) {
	workspace, err := os.MkdirTemp(a.BaseDir, "apt-warden-"+sanitizeName(task.Name)+"-")
	if err != nil {
		return "", nil, &ports.FetchError{Package: task.Name, Kind: ports.FetchNoDirectory, Cause: err}
	}
	cleanup := func() { _ = os.RemoveAll(workspace) }

	variants := task.SourceVariants
	if len(variants) == 0 {
		variants = []string{task.Name}
	}
	var lastErr *ports.FetchError
	for _, variant := range variants {
		fetchErr := a.fetchVariant(ctx, workspace, task.Name, variant)
		if fetchErr == nil {
			return workspace, cleanup, nil
		}
		lastErr = fetchErr
		log.Debug().
			Str("package", task.Name).
			Str("variant", variant).
			Str("kind", string(fetchErr.Kind)).
			Msg("source variant fetch failed")
	}
	cleanup()
	return "", nil, lastErr
}

func (a SourceFetchAdapter) fetchVariant(ctx context.Context, workspace string, pkg string, variant string) *ports.FetchError {
	attemptCtx, cancel := context.WithTimeout(ctx, a.Timeout)
	defer cancel()
	output, err := a.Runner(attemptCtx, workspace, variant)
	if err != nil {
		return classifyFetchFailure(pkg, attemptCtx, output, err)
	}
	populated, err := dirHasEntries(workspace)
	if err != nil || !populated {
		return &ports.FetchError{Package: pkg, Kind: ports.FetchNoDirectory, Cause: err}
	}
	return nil
}

// classifyFetchFailure maps a failed apt-get source invocation to the fetch
// error taxonomy: deadline hit means Timeout, a missing source package
// means NotFound, anything else means no usable workspace.
func classifyFetchFailure(pkg string, ctx context.Context, output []byte, err error) *ports.FetchError {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &ports.FetchError{Package: pkg, Kind: ports.FetchTimeout, Cause: err}
	}
	text := strings.ToLower(string(output))
	if strings.Contains(text, "unable to find a source package") {
		return &ports.FetchError{Package: pkg, Kind: ports.FetchNotFound, Cause: err}
	}
	return &ports.FetchError{Package: pkg, Kind: ports.FetchNoDirectory, Cause: err}
}

func dirHasEntries(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, err
	}
	return len(entries) > 0, nil
}

func sanitizeName(name string) string {
	replacer := strings.NewReplacer("/", "-", ":", "-")
	return replacer.Replace(name)
}

var _ ports.FetchPort = SourceFetchAdapter{}
