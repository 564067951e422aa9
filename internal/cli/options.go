package cli

import (
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"apt-warden/internal/adapters"
	"apt-warden/internal/app"
	"apt-warden/internal/policies"
	"apt-warden/internal/types"
)

// scanOptions covers the pipeline flags shared by scan and update.
type scanOptions struct {
	Model            string
	PostUpdateModel  string
	Concurrency      int
	SkipScan         bool
	ScanOfficial     bool
	DisplayLimit     int
	PostUpdate       bool
	FixMode          string
	UnknownRisk      string
	Report           string
	FixPlan          string
	OracleBaseURL    string
	OracleKeyEnv     string
	FetchTimeoutSec  int
	OracleTimeoutSec int
	AutoFixDelaySec  int
	TrustPolicy      string
}

func addScanFlags(cmd *cobra.Command, opts *scanOptions) {
	cmd.Flags().StringVar(&opts.Model, "model", "gpt-4o-mini", "Oracle model for the security review")
	cmd.Flags().StringVar(&opts.PostUpdateModel, "post-update-model", "", "Oracle model for the post-update pass (defaults to --model)")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 10, "Concurrent review workers")
	cmd.Flags().BoolVar(&opts.SkipScan, "skip-scan", false, "Skip the security review (packages are recorded as warnings)")
	cmd.Flags().BoolVar(&opts.ScanOfficial, "scan-official", false, "Also review official-origin packages")
	cmd.Flags().IntVar(&opts.DisplayLimit, "display-limit", 20, "Maximum packages shown per category")
	cmd.Flags().BoolVar(&opts.PostUpdate, "post-update", true, "Run the post-update analysis pass")
	cmd.Flags().StringVar(&opts.FixMode, "fix-mode", "manual", "Fix execution mode: auto, manual or skip")
	cmd.Flags().StringVar(&opts.UnknownRisk, "unknown-risk", "warn", "Gating action for unparseable risk: warn or block")
	cmd.Flags().StringVar(&opts.Report, "report", "apt-warden.report", "Report artifact path")
	cmd.Flags().StringVar(&opts.FixPlan, "fix-plan", "apt-warden.fixplan.yaml", "Persisted fix plan path")
	cmd.Flags().StringVar(&opts.OracleBaseURL, "oracle-url", "https://api.openai.com/v1", "Oracle API base URL")
	cmd.Flags().StringVar(&opts.OracleKeyEnv, "oracle-key-env", "APT_WARDEN_ORACLE_KEY", "Environment variable holding the oracle API key")
	cmd.Flags().IntVar(&opts.FetchTimeoutSec, "fetch-timeout", 120, "Per-attempt source fetch timeout in seconds")
	cmd.Flags().IntVar(&opts.OracleTimeoutSec, "oracle-timeout", 180, "Per-call oracle timeout in seconds")
	cmd.Flags().IntVar(&opts.AutoFixDelaySec, "auto-fix-delay", 10, "Warning delay before auto fix execution in seconds")
	cmd.Flags().StringVar(&opts.TrustPolicy, "trust-policy", "", "Trust policy YAML path (defaults to built-in origins)")

	_ = viper.BindPFlag("model", cmd.Flags().Lookup("model"))
	_ = viper.BindPFlag("post_update_model", cmd.Flags().Lookup("post-update-model"))
	_ = viper.BindPFlag("concurrency", cmd.Flags().Lookup("concurrency"))
	_ = viper.BindPFlag("skip_scan", cmd.Flags().Lookup("skip-scan"))
	_ = viper.BindPFlag("scan_official", cmd.Flags().Lookup("scan-official"))
	_ = viper.BindPFlag("display_limit", cmd.Flags().Lookup("display-limit"))
	_ = viper.BindPFlag("post_update", cmd.Flags().Lookup("post-update"))
	_ = viper.BindPFlag("fix_mode", cmd.Flags().Lookup("fix-mode"))
	_ = viper.BindPFlag("unknown_risk", cmd.Flags().Lookup("unknown-risk"))
	_ = viper.BindPFlag("report", cmd.Flags().Lookup("report"))
	_ = viper.BindPFlag("fix_plan", cmd.Flags().Lookup("fix-plan"))
	_ = viper.BindPFlag("oracle_url", cmd.Flags().Lookup("oracle-url"))
	_ = viper.BindPFlag("oracle_key_env", cmd.Flags().Lookup("oracle-key-env"))
	_ = viper.BindPFlag("fetch_timeout", cmd.Flags().Lookup("fetch-timeout"))
	_ = viper.BindPFlag("oracle_timeout", cmd.Flags().Lookup("oracle-timeout"))
	_ = viper.BindPFlag("auto_fix_delay", cmd.Flags().Lookup("auto-fix-delay"))
	_ = viper.BindPFlag("trust_policy", cmd.Flags().Lookup("trust-policy"))
}

// buildRunConfig resolves flags against viper and assembles the immutable
// run configuration every component receives.
func buildRunConfig(cmd *cobra.Command, opts scanOptions) (types.RunConfig, error) {
	trust := policies.DefaultTrustConfig()
	if path := resolveString(cmd, opts.TrustPolicy, "trust_policy", "trust-policy"); path != "" {
		loaded, err := adapters.LoadTrustConfig(path)
		if err != nil {
			return types.RunConfig{}, err
		}
		trust = loaded
	}
	return types.RunConfig{
		Model:           resolveString(cmd, opts.Model, "model", "model"),
		PostUpdateModel: resolveString(cmd, opts.PostUpdateModel, "post_update_model", "post-update-model"),
		Concurrency:     resolveInt(cmd, opts.Concurrency, "concurrency", "concurrency"),
		SkipScan:        resolveBool(cmd, opts.SkipScan, "skip_scan", "skip-scan"),
		ScanOfficial:    resolveBool(cmd, opts.ScanOfficial, "scan_official", "scan-official"),
		DisplayLimit:    resolveInt(cmd, opts.DisplayLimit, "display_limit", "display-limit"),
		PostUpdate:      resolveBool(cmd, opts.PostUpdate, "post_update", "post-update"),
		FixMode:         types.FixMode(strings.ToLower(resolveString(cmd, opts.FixMode, "fix_mode", "fix-mode"))),
		UnknownRisk:     types.UnknownRiskAction(strings.ToLower(resolveString(cmd, opts.UnknownRisk, "unknown_risk", "unknown-risk"))),
		FetchTimeout:    time.Duration(resolveInt(cmd, opts.FetchTimeoutSec, "fetch_timeout", "fetch-timeout")) * time.Second,
		OracleTimeout:   time.Duration(resolveInt(cmd, opts.OracleTimeoutSec, "oracle_timeout", "oracle-timeout")) * time.Second,
		AutoFixDelay:    time.Duration(resolveInt(cmd, opts.AutoFixDelaySec, "auto_fix_delay", "auto-fix-delay")) * time.Second,
		ReportPath:      resolveString(cmd, opts.Report, "report", "report"),
		FixPlanPath:     resolveString(cmd, opts.FixPlan, "fix_plan", "fix-plan"),
		OracleBaseURL:   resolveString(cmd, opts.OracleBaseURL, "oracle_url", "oracle-url"),
		OracleKeyEnv:    resolveString(cmd, opts.OracleKeyEnv, "oracle_key_env", "oracle-key-env"),
		Trust:           trust,
	}, nil
}

func newAppService(cfg types.RunConfig) app.Service {
	return app.NewService(cfg)
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return value
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	return value
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	return value
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
