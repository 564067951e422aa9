package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"apt-warden/internal/adapters"
	"apt-warden/internal/types"
)

type fakeInventory struct {
	packages []types.UpgradablePackage
	err      error
}

func (f fakeInventory) ListUpgradable(context.Context) ([]types.UpgradablePackage, error) {
	return f.packages, f.err
}

type fakeFetch struct {
	t    *testing.T
	errs map[string]error

	mu       sync.Mutex
	fetched  []string
	cleaned  map[string]bool
	populate func(dir string)
}

func newFakeFetch(t *testing.T) *fakeFetch {
	return &fakeFetch{
		t:       t,
		errs:    map[string]error{},
		cleaned: map[string]bool{},
		populate: func(dir string) {
			_ = os.WriteFile(filepath.Join(dir, "recipe.sh"), []byte("#!/bin/sh\nmake"), 0o644)
		},
	}
}

func (f *fakeFetch) Fetch(_ context.Context, task types.PackageTask) (string, func(), error) {
	f.mu.Lock()
	f.fetched = append(f.fetched, task.Name)
	f.mu.Unlock()
	if err := f.errs[task.Name]; err != nil {
		return "", nil, err
	}
	dir := f.t.TempDir()
	f.populate(dir)
	cleanup := func() {
		f.mu.Lock()
		f.cleaned[task.Name] = true
		f.mu.Unlock()
	}
	return dir, cleanup, nil
}

type fakeOracle struct {
	responses map[string]string // keyed by substring of the payload
	fallback  string
	err       error

	mu    sync.Mutex
	calls []oracleCall
}

type oracleCall struct {
	Payload string
	Prompt  string
	Model   string
}

func (f *fakeOracle) Analyze(_ context.Context, payload string, prompt string, model string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, oracleCall{Payload: payload, Prompt: prompt, Model: model})
	f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	for key, response := range f.responses {
		if key != "" && strings.Contains(payload, key) {
			return response, nil
		}
	}
	return f.fallback, nil
}

type fakeUpdate struct {
	exitCode int
	log      string
	err      error

	applied []string
}

func (f *fakeUpdate) Apply(_ context.Context, packages []string) (int, string, error) {
	f.applied = append(f.applied, packages...)
	return f.exitCode, f.log, f.err
}

type fakeSystemState struct {
	snapshots []types.HealthSnapshot
	calls     int
}

func (f *fakeSystemState) Collect(context.Context) (types.HealthSnapshot, error) {
	idx := f.calls
	f.calls++
	if idx < len(f.snapshots) {
		return f.snapshots[idx], nil
	}
	if len(f.snapshots) > 0 {
		return f.snapshots[len(f.snapshots)-1], nil
	}
	return types.HealthSnapshot{}, nil
}

type fakeReportWriter struct {
	reports []types.Report
	err     error
}

func (f *fakeReportWriter) WriteReport(report types.Report) error {
	if f.err != nil {
		return f.err
	}
	f.reports = append(f.reports, report)
	return nil
}

type fakeFixPlanWriter struct {
	plans []types.FixPlan
}

func (f *fakeFixPlanWriter) WriteFixPlan(plan types.FixPlan) error {
	f.plans = append(f.plans, plan)
	return nil
}

type fakeRunner struct {
	errs map[string]error

	mu  sync.Mutex
	ran []string
}

func (f *fakeRunner) Run(_ context.Context, command string) (string, error) {
	f.mu.Lock()
	f.ran = append(f.ran, command)
	f.mu.Unlock()
	if err := f.errs[command]; err != nil {
		return "", err
	}
	return "ok", nil
}

type fakeConfirm struct {
	answers []bool
	err     error
	asked   []string
}

func (f *fakeConfirm) Confirm(prompt string) (bool, error) {
	f.asked = append(f.asked, prompt)
	if f.err != nil {
		return false, f.err
	}
	if len(f.answers) == 0 {
		return false, nil
	}
	answer := f.answers[0]
	f.answers = f.answers[1:]
	return answer, nil
}

// testService assembles a Service from fakes with sane defaults. Tests
// override individual ports as needed.
func testService(t *testing.T) (Service, *fixture) {
	t.Helper()
	fx := &fixture{
		inventory: &fakeInventory{},
		fetch:     newFakeFetch(t),
		oracle:    &fakeOracle{fallback: "VERDICT: SAFE\nRISK: NONE\nSUMMARY: nothing notable"},
		update:    &fakeUpdate{},
		sysstate:  &fakeSystemState{},
		reports:   &fakeReportWriter{},
		fixplans:  &fakeFixPlanWriter{},
		runner:    &fakeRunner{errs: map[string]error{}},
		confirm:   &fakeConfirm{},
	}
	service := Service{
		Inventory:     fx.inventory,
		Fetch:         fx.fetch,
		Payload:       adapters.NewPayloadAdapter(),
		Oracle:        fx.oracle,
		Update:        fx.update,
		SystemState:   fx.sysstate,
		ReportWriter:  fx.reports,
		ReportReader:  adapters.NewReportReaderAdapter(),
		FixPlanWriter: fx.fixplans,
		Runner:        fx.runner,
		Confirm:       fx.confirm,
		Clock:         time.Now,
	}
	return service, fx
}

type fixture struct {
	inventory *fakeInventory
	fetch     *fakeFetch
	oracle    *fakeOracle
	update    *fakeUpdate
	sysstate  *fakeSystemState
	reports   *fakeReportWriter
	fixplans  *fakeFixPlanWriter
	runner    *fakeRunner
	confirm   *fakeConfirm
}

func testRunConfig() types.RunConfig {
	return types.RunConfig{
		Model:        "gpt-4o-mini",
		Concurrency:  4,
		FixMode:      types.FixModeSkip,
		UnknownRisk:  types.UnknownRiskWarn,
		FetchTimeout: time.Minute,
		ReportPath:   "test.report",
		PostUpdate:   false,
	}
}

func requireResult(t *testing.T, results []types.ScanResult, name string) types.ScanResult {
	t.Helper()
	for _, result := range results {
		if result.Package == name {
			return result
		}
	}
	require.Failf(t, "result missing", "no scan result for package %s", name)
	return types.ScanResult{}
}
