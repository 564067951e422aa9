package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"apt-warden/internal/app"
	"apt-warden/internal/shared"
	"apt-warden/internal/types"
)

func newScanCommand() *cobra.Command {
	opts := scanOptions{}
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Review pending updates and report the gate decision",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScan(cmd.Context(), cmd, opts)
		},
	}
	addScanFlags(cmd, &opts)
	return cmd
}

func runScan(ctx context.Context, cmd *cobra.Command, opts scanOptions) error {
	cfg, err := buildRunConfig(cmd, opts)
	if err != nil {
		return err
	}
	service := newAppService(cfg)
	outcome, err := service.Scan(ctx, cfg)
	if err != nil {
		return err
	}
	printDecision(outcome, cfg.DisplayLimit)
	return nil
}

func printDecision(outcome app.ScanOutcome, limit int) {
	decision := outcome.Decision
	fmt.Printf("reviewed %d package(s): %d safe, %d warn, %d threat, %d fetch failed\n",
		outcome.Report.Stats.Total, len(decision.Safe), len(decision.Warn),
		len(decision.Threat), len(decision.FetchFailed))
	printCategory("warn", decision.Warn, limit)
	printCategory("fetch failed", decision.FetchFailed, limit)
	if decision.Proceed {
		fmt.Println("gate: proceed")
		return
	}
	fmt.Println("gate: BLOCKED")
	printThreats(outcome)
}

// printThreats shows each flagged package with its risk and remediation.
// A blocked gate must name its reasons.
func printThreats(outcome app.ScanOutcome) {
	byPackage := map[string]types.ScanResult{}
	for _, result := range outcome.Results {
		byPackage[result.Package] = result
	}
	for _, name := range outcome.Decision.Threat {
		result := byPackage[name]
		fmt.Printf("- %s (risk=%s): %s\n", name, result.Risk, shared.Truncate(result.Summary, 160))
		if result.Remediation != "" {
			fmt.Printf("  remediation: %s\n", result.Remediation)
		}
	}
}

func printCategory(label string, packages []string, limit int) {
	if len(packages) == 0 {
		return
	}
	shown := packages
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	fmt.Printf("%s:\n", label)
	for _, name := range shown {
		fmt.Printf("- %s\n", name)
	}
	if len(packages) > len(shown) {
		fmt.Printf("  (%d more not shown)\n", len(packages)-len(shown))
	}
}
