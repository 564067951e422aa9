package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog/log"

	"apt-warden/internal/core"
	"apt-warden/internal/types"
)

// ErrGateBlocked marks the expected terminal outcome of a blocked gate.
// It halts the update, not the scanner: the scan completed, the report was
// written, and the package database is untouched.
func errGateBlocked(decision types.GateDecision) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeFailedPrecondition).
		WithMsg(fmt.Sprintf("update blocked by security gate: %d package(s) flagged", len(decision.Threat)))
}

// RunUpdate is the full pipeline: scan and gate, then, only on proceed,
// apply the updates, run the post-update analysis, drive the fix plan and
// record the final health snapshot. A blocked gate returns the scan
// outcome alongside a coded error so the caller can show the threat
// details.
func (s Service) RunUpdate(ctx context.Context, cfg types.RunConfig) (UpdateOutcome, error) {
	scan, err := s.Scan(ctx, cfg)
	if err != nil {
		return UpdateOutcome{}, err
	}
	outcome := UpdateOutcome{Scan: scan}
	if !scan.Decision.Proceed {
		return outcome, errGateBlocked(scan.Decision)
	}

	approved := append(append([]string{}, scan.Decision.Safe...), scan.Decision.Warn...)
	if len(approved) == 0 {
		log.Info().Msg("nothing to update")
		return outcome, nil
	}
	log.Info().Int("packages", len(approved)).Msg("applying updates")
	exitCode, applyLog, err := s.Update.Apply(ctx, approved)
	if err != nil {
		return outcome, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("package manager invocation failed").
			WithCause(err)
	}
	outcome.Applied = approved
	outcome.ApplyExitCode = exitCode
	outcome.ApplyLog = applyLog
	if exitCode != 0 {
		log.Warn().Int("exit_code", exitCode).Msg("package manager reported errors")
	}

	if !cfg.PostUpdate {
		return outcome, nil
	}
	return s.runPostUpdate(ctx, cfg, outcome)
}

// runPostUpdate collects system state, asks the oracle for a remediation
// plan and drives it under the configured fix mode.
func (s Service) runPostUpdate(ctx context.Context, cfg types.RunConfig, outcome UpdateOutcome) (UpdateOutcome, error) {
	health, err := s.SystemState.Collect(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("system state collection degraded")
	}

	model := cfg.PostUpdateModel
	if model == "" {
		model = cfg.Model
	}
	raw, err := s.Oracle.Analyze(ctx, postUpdatePayload(outcome.ApplyLog, health), postUpdatePrompt, model)
	if err != nil {
		// The update already happened; a dead oracle only costs us the
		// remediation pass.
		log.Warn().Err(err).Msg("post-update analysis unavailable")
		return outcome, nil
	}

	issues := core.ExtractIssues(raw)
	plan := core.BuildFixPlan(issues, cfg.FixMode)
	outcome.Plan = plan
	if err := s.FixPlanWriter.WriteFixPlan(plan); err != nil {
		log.Warn().Err(err).Msg("failed to persist fix plan")
	}
	if len(issues) == 0 {
		log.Info().Msg("post-update analysis found no issues")
		return outcome, nil
	}
	log.Info().Int("issues", len(issues)).Str("mode", string(plan.Mode)).Msg("fix plan built")

	outcomes, executed, err := s.ExecuteFixPlan(ctx, cfg, plan)
	outcome.FixOutcomes = outcomes
	if err != nil {
		return outcome, err
	}
	if executed {
		verification, verifyErr := s.SystemState.Collect(ctx)
		if verifyErr != nil {
			log.Warn().Err(verifyErr).Msg("post-fix health check degraded")
		}
		outcome.Health = &verification
		log.Info().
			Int("failed_services", verification.FailedServices).
			Int("config_conflicts", verification.PendingConfigConflicts).
			Msg("post-fix health snapshot")
	}
	return outcome, nil
}

// ExecuteFixPlan drives a fix plan under its mode. Skip never executes and
// never re-checks health. Auto waits out an interruptible warning delay
// first. Manual confirms each issue; a decline skips that issue only. One
// issue failing never stops the remaining issues; the per-issue error is
// recorded on its outcome. The returned bool reports whether execution was
// attempted at all (and a health re-check is therefore due).
func (s Service) ExecuteFixPlan(ctx context.Context, cfg types.RunConfig, plan types.FixPlan) ([]types.IssueOutcome, bool, error) {
	switch plan.Mode {
	case types.FixModeSkip:
		log.Info().Msg("fix mode skip: plan persisted, nothing executed")
		return nil, false, nil
	case types.FixModeAuto:
		log.Warn().
			Dur("delay", cfg.AutoFixDelay).
			Msg("auto fix mode: executing remediation commands after delay, interrupt to abort")
		if err := interruptibleDelay(ctx, cfg.AutoFixDelay); err != nil {
			log.Info().Msg("auto fix aborted before execution")
			return nil, false, err
		}
	case types.FixModeManual:
		// Confirmation happens per issue below.
	}

	outcomes := make([]types.IssueOutcome, 0, len(plan.Issues))
	for idx, issue := range plan.Issues {
		if plan.Mode == types.FixModeManual {
			approved, err := s.Confirm.Confirm(manualPrompt(idx, issue))
			if err != nil {
				return outcomes, true, errbuilder.New().
					WithCode(errbuilder.CodeInternal).
					WithMsg("confirmation prompt failed").
					WithCause(err)
			}
			if !approved {
				log.Info().Int("issue", idx+1).Msg("issue declined, skipping")
				outcomes = append(outcomes, types.IssueOutcome{Issue: issue, Applied: false})
				continue
			}
		}
		outcomes = append(outcomes, s.executeIssue(ctx, idx, issue))
	}
	return outcomes, true, nil
}

// executeIssue runs one issue's commands in order, accumulating failures
// without stopping the remaining commands.
func (s Service) executeIssue(ctx context.Context, idx int, issue types.Issue) types.IssueOutcome {
	var issueErr *multierror.Error
	for _, command := range issue.FixCommands {
		output, err := s.Runner.Run(ctx, command)
		if err != nil {
			issueErr = multierror.Append(issueErr, err)
			log.Error().
				Int("issue", idx+1).
				Str("command", command).
				Err(err).
				Msg("fix command failed")
			continue
		}
		log.Info().
			Int("issue", idx+1).
			Str("command", command).
			Int("output_bytes", len(output)).
			Msg("fix command applied")
	}
	err := issueErr.ErrorOrNil()
	return types.IssueOutcome{Issue: issue, Applied: err == nil, Err: err}
}

func manualPrompt(idx int, issue types.Issue) string {
	return fmt.Sprintf("issue %d [%s] %s: run %d command(s)?", idx+1, issue.Severity, issue.Problem, len(issue.FixCommands))
}

// interruptibleDelay waits for the warning delay, returning early with the
// context's error if the operator cancels. This is the one window to abort
// before auto mode mutates the system.
func interruptibleDelay(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
