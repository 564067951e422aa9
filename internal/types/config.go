package types

import "time"

// RunConfig is the immutable per-run configuration handed to every
// component. Nothing reads configuration ambiently once the CLI has built
// this value.
type RunConfig struct {
	Model           string
	PostUpdateModel string
	Concurrency     int
	SkipScan        bool
	ScanOfficial    bool
	DisplayLimit    int
	PostUpdate      bool
	FixMode         FixMode
	UnknownRisk     UnknownRiskAction
	FetchTimeout    time.Duration
	OracleTimeout   time.Duration
	AutoFixDelay    time.Duration
	ReportPath      string
	FixPlanPath     string
	OracleBaseURL   string
	OracleKeyEnv    string
	Trust           TrustConfig
}

// TrustConfig is the origin classification policy: which archives are
// trusted first-party, which are official (scanned only on opt-in), and
// everything else is scan-required. Loaded from the policy file when one is
// configured, otherwise the defaults apply.
type TrustConfig struct {
	TrustedOrigins  []string `yaml:"trusted_origins"`
	OfficialOrigins []string `yaml:"official_origins"`
}
