package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"apt-warden/internal/shared"
	"apt-warden/internal/types"
)

type inspectOptions struct {
	Report       string
	DisplayLimit int
}

func newInspectCommand() *cobra.Command {
	opts := inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Replay a report artifact for audit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInspect(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.Report, "report", "apt-warden.report", "Report artifact path")
	cmd.Flags().IntVar(&opts.DisplayLimit, "display-limit", 20, "Maximum records shown")
	_ = viper.BindPFlag("report", cmd.Flags().Lookup("report"))
	_ = viper.BindPFlag("display_limit", cmd.Flags().Lookup("display-limit"))
	return cmd
}

func runInspect(cmd *cobra.Command, opts inspectOptions) error {
	service := newAppService(types.RunConfig{})
	result, err := service.Inspect(resolveString(cmd, opts.Report, "report", "report"))
	if err != nil {
		return err
	}
	report := result.Report
	limit := resolveInt(cmd, opts.DisplayLimit, "display_limit", "display-limit")

	shown := report.Records
	if limit > 0 && len(shown) > limit {
		shown = shown[:limit]
	}
	for _, record := range shown {
		fmt.Printf("- %s [%s] verdict=%s risk=%s %s\n",
			record.Package, record.Status, record.Verdict, record.Risk,
			shared.Truncate(record.Summary, 120))
	}
	if len(report.Records) > len(shown) {
		fmt.Printf("  (%d more not shown)\n", len(report.Records)-len(shown))
	}
	fmt.Printf("records: %d, model: %s, duration: %s\n",
		len(report.Records), report.Stats.Model, report.Stats.Duration)
	fmt.Printf("gate: proceed=%t safe=%d warn=%d threat=%d fetch_failed=%d\n",
		report.Decision.Proceed, len(report.Decision.Safe), len(report.Decision.Warn),
		len(report.Decision.Threat), len(report.Decision.FetchFailed))
	return nil
}
