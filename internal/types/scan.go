package types

import "time"

// UpgradablePackage is one row of the raw inventory snapshot, before trust
// classification.
type UpgradablePackage struct {
	Name             string
	Origin           string
	InstalledVersion string
	CandidateVersion string
}

// PackageTask is one candidate update to review. Tasks are created once from
// the inventory snapshot and consumed exactly once by the scan scheduler.
type PackageTask struct {
	Name             string
	Origin           string
	Tier             OriginTier
	InstalledVersion string
	CandidateVersion string
	// SourceVariants is the ordered list of name rewrites the fetch adapter
	// tries until one yields a workspace. Always contains at least Name.
	SourceVariants []string
}

// ScanAnalysis holds the fields extracted from a single oracle response.
// Every field is parsed independently; absent fields degrade to their
// Unknown/empty values without affecting the others.
type ScanAnalysis struct {
	Verdict     Verdict
	Risk        RiskLevel
	Summary     string
	Remediation string
}

// ScanResult is the single, immutable outcome of one PackageTask. Exactly
// one exists per task, written by exactly one worker.
type ScanResult struct {
	Package     string
	Origin      string
	Tier        OriginTier
	Status      ScanStatus
	Verdict     Verdict
	Risk        RiskLevel
	Summary     string
	Remediation string
	RawResponse string
	StartedAt   time.Time
	EndedAt     time.Time
}

// GateDecision partitions the scanned packages and decides whether the
// update may proceed. Derived deterministically from the completed
// ScanResult set and never mutated afterwards.
type GateDecision struct {
	Safe        []string
	Warn        []string
	Threat      []string
	FetchFailed []string
	Proceed     bool
}

// Issue is a structured remediation item extracted from the post-update
// analysis. An Issue only exists if its source block carried a PROBLEM line
// and at least one command line.
type Issue struct {
	Severity    IssueSeverity `yaml:"severity"`
	Problem     string        `yaml:"problem"`
	Impact      string        `yaml:"impact,omitempty"`
	FixCommands []string      `yaml:"fix_commands"`
}

// FixPlan is the ordered issue list plus the mode that drives execution.
type FixPlan struct {
	Issues []Issue `yaml:"issues"`
	Mode   FixMode `yaml:"mode"`
}

// IssueOutcome records how a single issue's commands went during plan
// execution. A failed issue never prevents the remaining issues from
// running.
type IssueOutcome struct {
	Issue   Issue
	Applied bool
	Err     error
}

// HealthSnapshot is the minimal post-fix system-health picture collected
// after plan execution. It is a verification record, not a gate input.
type HealthSnapshot struct {
	FailedServices         int
	PendingConfigConflicts int
	BrokenDependencies     string
	OrphanedPackages       []string
	RecentKernelLog        string
}
