package app

import "apt-warden/internal/types"

// ScanOutcome is everything a completed scan produced: the classified task
// set, one settled result per task, the gate decision derived from them,
// and the aggregated report that was written.
type ScanOutcome struct {
	Tasks    []types.PackageTask
	Results  []types.ScanResult
	Decision types.GateDecision
	Report   types.Report
}

// UpdateOutcome extends a scan outcome with what happened after the gate.
type UpdateOutcome struct {
	Scan          ScanOutcome
	Applied       []string
	ApplyExitCode int
	ApplyLog      string
	Plan          types.FixPlan
	FixOutcomes   []types.IssueOutcome
	Health        *types.HealthSnapshot
}

// InspectResult is a report artifact read back for audit replay.
type InspectResult struct {
	Report types.Report
}
