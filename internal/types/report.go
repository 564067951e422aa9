package types

import "time"

// PackageRecord is one report entry. The field set mirrors the on-disk
// record contract exactly so the report round-trips for audit replay.
type PackageRecord struct {
	Package     string
	Source      string
	Status      ScanStatus
	Verdict     Verdict
	Risk        RiskLevel
	Summary     string
	Remediation string
	RawResponse string
}

// RunStats are the run-level counters appended once per report.
type RunStats struct {
	Total       int
	Safe        int
	Warn        int
	Threat      int
	FetchFailed int
	AutoTrusted int
	Model       string
	Proceed     bool
	StartedAt   time.Time
	Duration    time.Duration
}

// Report is the aggregation artifact for a whole run: one record per
// PackageTask plus run statistics and the recorded gate decision. The
// aggregator only records the gate's decision, it never re-derives it.
type Report struct {
	Records  []PackageRecord
	Stats    RunStats
	Decision GateDecision
}
