package types

// OriginTier classifies where a package comes from and therefore whether
// its update must pass the security review.
type OriginTier string

const (
	// OriginTierTrusted packages come from signed first-party archives and
	// skip the review entirely.
	OriginTierTrusted OriginTier = "trusted"
	// OriginTierScanRequired packages come from community archives (PPAs
	// and similar) and are always reviewed.
	OriginTierScanRequired OriginTier = "scan-required"
	// OriginTierOfficialOptIn packages are official-origin packages reviewed
	// only because the official opt-in flag is set.
	OriginTierOfficialOptIn OriginTier = "official-opt-in"
)

type ScanStatus string

const (
	ScanStatusScanned     ScanStatus = "scanned"
	ScanStatusFetchFailed ScanStatus = "fetch-failed"
	ScanStatusNoWorkspace ScanStatus = "no-workspace"
	// ScanStatusAutoApproved marks packages that bypassed review because
	// their origin tier is trusted.
	ScanStatusAutoApproved ScanStatus = "auto-approved"
	// ScanStatusSkipped marks scan-required packages left unreviewed by an
	// explicit --skip-scan. They are recorded as warnings, never as safe.
	ScanStatusSkipped ScanStatus = "skipped"
)

type Verdict string

const (
	VerdictSafe           Verdict = "safe"
	VerdictThreatDetected Verdict = "threat"
	VerdictUnknown        Verdict = "unknown"
)

// RiskLevel is the per-package severity assigned by the oracle. The named
// levels are totally ordered (None < Low < Medium < High < Critical);
// Unknown sits outside the ordering and is policed by the unknown-risk
// action in the run configuration.
type RiskLevel string

const (
	RiskNone     RiskLevel = "none"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
	RiskUnknown  RiskLevel = "unknown"
)

// GateAction is what the gate does with a single scan result.
type GateAction string

const (
	GateActionAllow GateAction = "allow"
	GateActionWarn  GateAction = "warn"
	GateActionBlock GateAction = "block"
)

// UnknownRiskAction is the configured gating action for scanned packages
// whose risk could not be parsed from the oracle response.
type UnknownRiskAction string

const (
	UnknownRiskWarn  UnknownRiskAction = "warn"
	UnknownRiskBlock UnknownRiskAction = "block"
)

type FixMode string

const (
	FixModeAuto   FixMode = "auto"
	FixModeManual FixMode = "manual"
	FixModeSkip   FixMode = "skip"
)

type IssueSeverity string

const (
	IssueSeverityCritical IssueSeverity = "critical"
	IssueSeverityHigh     IssueSeverity = "high"
	IssueSeverityMedium   IssueSeverity = "medium"
	IssueSeverityLow      IssueSeverity = "low"
)
