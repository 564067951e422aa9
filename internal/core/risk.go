package core

import (
	"strings"

	"apt-warden/internal/types"
)

// riskRank orders the named risk levels. Unknown has no rank on purpose;
// its gating action comes from the run configuration, never from ordering.
var riskRank = map[types.RiskLevel]int{
	types.RiskNone:     0,
	types.RiskLow:      1,
	types.RiskMedium:   2,
	types.RiskHigh:     3,
	types.RiskCritical: 4,
}

// RiskAtLeast reports whether level is a known risk at or above threshold.
// Unknown never satisfies any threshold.
func RiskAtLeast(level types.RiskLevel, threshold types.RiskLevel) bool {
	rank, ok := riskRank[level]
	if !ok {
		return false
	}
	want, ok := riskRank[threshold]
	if !ok {
		return false
	}
	return rank >= want
}

// ActionFor maps a single scan result's risk to the gate action. Unknown
// risk follows the configured unknown-risk action so an unparseable oracle
// response is never silently treated as safe.
func ActionFor(risk types.RiskLevel, unknown types.UnknownRiskAction) types.GateAction {
	switch risk {
	case types.RiskNone, types.RiskLow:
		return types.GateActionAllow
	case types.RiskMedium:
		return types.GateActionWarn
	case types.RiskHigh, types.RiskCritical:
		return types.GateActionBlock
	default:
		if unknown == types.UnknownRiskBlock {
			return types.GateActionBlock
		}
		return types.GateActionWarn
	}
}

// ParseRiskLevel normalizes a free-text risk token from the oracle.
// Anything unrecognized is Unknown.
func ParseRiskLevel(value string) types.RiskLevel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "none":
		return types.RiskNone
	case "low":
		return types.RiskLow
	case "medium", "moderate":
		return types.RiskMedium
	case "high":
		return types.RiskHigh
	case "critical":
		return types.RiskCritical
	default:
		return types.RiskUnknown
	}
}

// ParseVerdictToken normalizes a free-text verdict token from the oracle.
func ParseVerdictToken(value string) types.Verdict {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch {
	case normalized == "safe" || normalized == "ok" || normalized == "clean":
		return types.VerdictSafe
	case strings.Contains(normalized, "threat") || strings.Contains(normalized, "malicious"):
		return types.VerdictThreatDetected
	default:
		return types.VerdictUnknown
	}
}

// ParseIssueSeverity normalizes a free-text severity token. Unrecognized
// tokens default to Medium so a sloppy response still yields an actionable
// issue rather than dropping it.
func ParseIssueSeverity(value string) types.IssueSeverity {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "critical":
		return types.IssueSeverityCritical
	case "high":
		return types.IssueSeverityHigh
	case "low":
		return types.IssueSeverityLow
	default:
		return types.IssueSeverityMedium
	}
}
