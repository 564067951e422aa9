package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"apt-warden/internal/core"
	"apt-warden/internal/policies"
	"apt-warden/internal/ports"
	"apt-warden/internal/types"
)

// Scan runs the full review pipeline up to (and including) the gate:
// inventory, trust classification, bounded-concurrency oracle review of
// every scan-required package, gate decision, report write.
//
// Fault isolation is the load-bearing property here: a fetch timeout, a
// dead oracle or a garbage response on one package resolves to that
// package's ScanResult and nothing else. The batch always settles, and the
// gate only runs after the pool has joined.
func (s Service) Scan(ctx context.Context, cfg types.RunConfig) (ScanOutcome, error) {
	if err := core.ValidateRunConfig(ctx, cfg); err != nil {
		return ScanOutcome{}, err
	}
	startedAt := s.Clock()

	packages, err := s.Inventory.ListUpgradable(ctx)
	if err != nil {
		return ScanOutcome{}, err
	}
	policy := policies.NewTrustPolicy(cfg.Trust, cfg.ScanOfficial)
	tasks := policy.BuildTasks(packages)
	log.Info().
		Int("total", len(tasks)).
		Msg("inventory classified")

	store := newResultStore()
	var scanTasks []types.PackageTask
	for _, task := range tasks {
		if !policies.NeedsScan(task.Tier) {
			store.Add(autoApprovedResult(task, s.Clock()))
			continue
		}
		if cfg.SkipScan {
			store.Add(skippedResult(task, s.Clock()))
			continue
		}
		scanTasks = append(scanTasks, task)
	}

	if len(scanTasks) > 0 {
		s.runScanPool(ctx, cfg, scanTasks, store)
	}

	results := store.Snapshot()
	decision := core.Classify(results, cfg.UnknownRisk)
	report := buildReport(tasks, results, decision, cfg, startedAt, s.Clock())
	if err := s.ReportWriter.WriteReport(report); err != nil {
		return ScanOutcome{}, err
	}
	log.Info().
		Bool("proceed", decision.Proceed).
		Int("safe", len(decision.Safe)).
		Int("warn", len(decision.Warn)).
		Int("threat", len(decision.Threat)).
		Int("fetch_failed", len(decision.FetchFailed)).
		Msg("gate decision")
	return ScanOutcome{Tasks: tasks, Results: results, Decision: decision, Report: report}, nil
}

// runScanPool reviews the scan-required tasks under the configured
// concurrency bound. Workers never share mutable state beyond the
// key-disjoint result store, and no worker failure propagates: every task
// writes exactly one result, then the pool joins.
func (s Service) runScanPool(ctx context.Context, cfg types.RunConfig, scanTasks []types.PackageTask, store *resultStore) {
	workerCount := cfg.Concurrency
	if len(scanTasks) < workerCount {
		workerCount = len(scanTasks)
	}
	log.Info().
		Int("packages", len(scanTasks)).
		Int("workers", workerCount).
		Str("model", cfg.Model).
		Msg("starting security review")

	progressDone := make(chan struct{})
	go reportProgress(store, len(scanTasks), progressDone)

	sem := make(chan struct{}, workerCount)
	var wg sync.WaitGroup
	for _, task := range scanTasks {
		task := task
		wg.Add(1)
		go func() {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			store.Add(s.scanOne(ctx, cfg, task))
		}()
	}
	wg.Wait()
	close(progressDone)
}

// reportProgress periodically logs settled-result cardinality. Advisory
// only; nothing synchronizes on it.
func reportProgress(store *resultStore, total int, done <-chan struct{}) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			log.Info().
				Int("settled", store.Count()).
				Int("total", total).
				Msg("scan progress")
		}
	}
}

// scanOne reviews a single package and always returns a settled result.
// Every failure mode lands in the result's status or fields, never in a
// returned error.
func (s Service) scanOne(ctx context.Context, cfg types.RunConfig, task types.PackageTask) types.ScanResult {
	result := types.ScanResult{
		Package:   task.Name,
		Origin:    task.Origin,
		Tier:      task.Tier,
		Verdict:   types.VerdictUnknown,
		Risk:      types.RiskUnknown,
		StartedAt: s.Clock(),
	}
	defer func() { result.EndedAt = s.Clock() }()

	workspace, cleanup, err := s.Fetch.Fetch(ctx, task)
	if err != nil {
		result.Status = fetchFailureStatus(err)
		result.Summary = fmt.Sprintf("source fetch failed: %v", err)
		log.Warn().Str("package", task.Name).Err(err).Msg("source fetch failed")
		return result
	}
	defer cleanup()

	payload, err := s.Payload.BuildPayload(workspace)
	if err != nil || payload == "" {
		result.Status = types.ScanStatusNoWorkspace
		result.Summary = "workspace yielded no reviewable files"
		log.Warn().Str("package", task.Name).Err(err).Msg("empty review payload")
		return result
	}

	raw, err := s.Oracle.Analyze(ctx, securityPayloadHeader(task)+payload, securityPrompt, cfg.Model)
	result.Status = types.ScanStatusScanned
	if err != nil {
		// The oracle failing is a scan with nothing parseable: verdict and
		// risk stay Unknown and the gate's unknown-risk action applies.
		result.Summary = fmt.Sprintf("oracle analysis failed: %v", err)
		log.Warn().Str("package", task.Name).Err(err).Msg("oracle analysis failed")
		return result
	}
	result.RawResponse = raw
	analysis := core.ParseVerdict(raw)
	result.Verdict = analysis.Verdict
	result.Risk = analysis.Risk
	result.Summary = analysis.Summary
	result.Remediation = analysis.Remediation
	log.Debug().
		Str("package", task.Name).
		Str("verdict", string(result.Verdict)).
		Str("risk", string(result.Risk)).
		Msg("package reviewed")
	return result
}

func fetchFailureStatus(err error) types.ScanStatus {
	var fetchErr *ports.FetchError
	if errors.As(err, &fetchErr) && fetchErr.Kind == ports.FetchNoDirectory {
		return types.ScanStatusNoWorkspace
	}
	return types.ScanStatusFetchFailed
}

func autoApprovedResult(task types.PackageTask, now time.Time) types.ScanResult {
	return types.ScanResult{
		Package:   task.Name,
		Origin:    task.Origin,
		Tier:      task.Tier,
		Status:    types.ScanStatusAutoApproved,
		Verdict:   types.VerdictSafe,
		Risk:      types.RiskNone,
		Summary:   fmt.Sprintf("auto-approved: trusted origin %s", task.Origin),
		StartedAt: now,
		EndedAt:   now,
	}
}

func skippedResult(task types.PackageTask, now time.Time) types.ScanResult {
	return types.ScanResult{
		Package:   task.Name,
		Origin:    task.Origin,
		Tier:      task.Tier,
		Status:    types.ScanStatusSkipped,
		Verdict:   types.VerdictUnknown,
		Risk:      types.RiskUnknown,
		Summary:   "security review skipped by configuration",
		StartedAt: now,
		EndedAt:   now,
	}
}

// buildReport aggregates one record per task plus run statistics. Purely
// additive: the gate decision is recorded, never re-derived.
func buildReport(tasks []types.PackageTask, results []types.ScanResult, decision types.GateDecision, cfg types.RunConfig, startedAt time.Time, endedAt time.Time) types.Report {
	byPackage := make(map[string]types.ScanResult, len(results))
	for _, result := range results {
		byPackage[result.Package] = result
	}
	report := types.Report{Decision: decision}
	autoTrusted := 0
	for _, task := range tasks {
		result := byPackage[task.Name]
		if result.Status == types.ScanStatusAutoApproved {
			autoTrusted++
		}
		report.Records = append(report.Records, types.PackageRecord{
			Package:     result.Package,
			Source:      result.Origin,
			Status:      result.Status,
			Verdict:     result.Verdict,
			Risk:        result.Risk,
			Summary:     result.Summary,
			Remediation: result.Remediation,
			RawResponse: result.RawResponse,
		})
	}
	report.Stats = types.RunStats{
		Total:       len(tasks),
		Safe:        len(decision.Safe),
		Warn:        len(decision.Warn),
		Threat:      len(decision.Threat),
		FetchFailed: len(decision.FetchFailed),
		AutoTrusted: autoTrusted,
		Model:       cfg.Model,
		Proceed:     decision.Proceed,
		StartedAt:   startedAt,
		Duration:    endedAt.Sub(startedAt),
	}
	return report
}
