package ports

import "apt-warden/internal/types"

// ReportWriterPort appends the run's report artifact: one machine-parseable
// record per package task plus run statistics. The on-disk format must
// round-trip through ReportReaderPort for audit replay.
type ReportWriterPort interface {
	WriteReport(report types.Report) error
}

// ReportReaderPort parses a previously written report artifact back into
// its records.
type ReportReaderPort interface {
	ReadReport(path string) (types.Report, error)
}

// FixPlanWriterPort persists the fix plan for inspection, whether or not it
// is executed.
type FixPlanWriterPort interface {
	WriteFixPlan(plan types.FixPlan) error
}
