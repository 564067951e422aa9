package core

import (
	"sort"

	"apt-warden/internal/types"
)

// Classify folds the completed scan-result set into a single gate decision.
// Pure function: it must only run once every task has settled, and its
// output is never mutated afterwards.
//
// Fetch failures are listed separately; they do not block the gate by
// themselves, but they are never folded into the safe set either: an
// unscanned package is not assumed safe.
func Classify(results []types.ScanResult, unknown types.UnknownRiskAction) types.GateDecision {
	decision := types.GateDecision{}
	for _, result := range results {
		switch result.Status {
		case types.ScanStatusAutoApproved:
			decision.Safe = append(decision.Safe, result.Package)
			continue
		case types.ScanStatusSkipped:
			decision.Warn = append(decision.Warn, result.Package)
			continue
		case types.ScanStatusScanned:
		default:
			decision.FetchFailed = append(decision.FetchFailed, result.Package)
			continue
		}
		action := ActionFor(result.Risk, unknown)
		// An explicit threat verdict with unparseable risk blocks regardless
		// of the unknown-risk action.
		if result.Risk == types.RiskUnknown && result.Verdict == types.VerdictThreatDetected {
			action = types.GateActionBlock
		}
		switch action {
		case types.GateActionBlock:
			decision.Threat = append(decision.Threat, result.Package)
		case types.GateActionWarn:
			decision.Warn = append(decision.Warn, result.Package)
		default:
			decision.Safe = append(decision.Safe, result.Package)
		}
	}
	sort.Strings(decision.Safe)
	sort.Strings(decision.Warn)
	sort.Strings(decision.Threat)
	sort.Strings(decision.FetchFailed)
	decision.Proceed = len(decision.Threat) == 0
	return decision
}
