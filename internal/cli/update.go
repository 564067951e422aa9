package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"

	"apt-warden/internal/app"
)

func newUpdateCommand() *cobra.Command {
	opts := scanOptions{}
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Review, gate and apply pending updates, then run the post-update pass",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpdate(cmd.Context(), cmd, opts)
		},
	}
	addScanFlags(cmd, &opts)
	return cmd
}

func runUpdate(ctx context.Context, cmd *cobra.Command, opts scanOptions) error {
	cfg, err := buildRunConfig(cmd, opts)
	if err != nil {
		return err
	}
	service := newAppService(cfg)
	outcome, err := service.RunUpdate(ctx, cfg)
	if err != nil {
		if errbuilder.CodeOf(err) == errbuilder.CodeFailedPrecondition {
			printDecision(outcome.Scan, cfg.DisplayLimit)
			fmt.Printf("update halted: %s\n", errorMessage(err))
		}
		return err
	}
	printDecision(outcome.Scan, cfg.DisplayLimit)
	printUpdateOutcome(outcome)
	return nil
}

func printUpdateOutcome(outcome app.UpdateOutcome) {
	if len(outcome.Applied) == 0 {
		return
	}
	fmt.Printf("applied %d package(s), package manager exit code %d\n", len(outcome.Applied), outcome.ApplyExitCode)
	if len(outcome.Plan.Issues) > 0 {
		fmt.Printf("post-update issues: %d (mode %s)\n", len(outcome.Plan.Issues), outcome.Plan.Mode)
	}
	for idx, result := range outcome.FixOutcomes {
		status := "applied"
		if result.Err != nil {
			status = "failed"
		} else if !result.Applied {
			status = "skipped"
		}
		fmt.Printf("- issue %d [%s]: %s\n", idx+1, result.Issue.Severity, status)
	}
	if outcome.Health != nil {
		fmt.Printf("post-fix health: %d failed service(s), %d pending config conflict(s)\n",
			outcome.Health.FailedServices, outcome.Health.PendingConfigConflicts)
	}
}
