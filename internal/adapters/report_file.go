package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"apt-warden/internal/ports"
	"apt-warden/internal/types"
)

// Fixed markers delimiting the verbatim oracle response inside a report
// record. The report must round-trip through ReportReaderAdapter, so these
// never change.
const (
	rawResponseBegin = "--- RAW RESPONSE BEGIN ---"
	rawResponseEnd   = "--- RAW RESPONSE END ---"
	runEndMarker     = "=== END RUN ==="
)

// ReportFileAdapter appends run reports to a plain-text artifact: one
// record per package task, then the run summary. Append-only on purpose so
// a report file accumulates an audit trail across runs.
type ReportFileAdapter struct {
	Path string
}

func NewReportFileAdapter(path string) ReportFileAdapter {
	return ReportFileAdapter{Path: path}
}

func (a ReportFileAdapter) WriteReport(report types.Report) error {
	path := strings.TrimSpace(a.Path)
	if path == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("report path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create report directory").
			WithCause(err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open report file").
			WithCause(err)
	}
	defer file.Close()
	if _, err := file.WriteString(renderReport(report)); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write report").
			WithCause(err)
	}
	return nil
}

func renderReport(report types.Report) string {
	var builder strings.Builder
	for _, record := range report.Records {
		builder.WriteString(renderRecord(record))
	}
	builder.WriteString(renderStats(report.Stats))
	builder.WriteString(renderDecision(report.Decision))
	builder.WriteString(runEndMarker + "\n\n")
	return builder.String()
}

func renderRecord(record types.PackageRecord) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "PACKAGE: %s\n", record.Package)
	fmt.Fprintf(&builder, "SOURCE: %s\n", record.Source)
	fmt.Fprintf(&builder, "STATUS: %s\n", record.Status)
	fmt.Fprintf(&builder, "VERDICT: %s\n", record.Verdict)
	fmt.Fprintf(&builder, "RISK: %s\n", record.Risk)
	fmt.Fprintf(&builder, "SUMMARY: %s\n", sanitizeSummary(record.Summary))
	if strings.TrimSpace(record.Remediation) != "" {
		builder.WriteString("REMEDIATION:\n")
		builder.WriteString(record.Remediation)
		builder.WriteString("\n")
	}
	builder.WriteString(rawResponseBegin + "\n")
	if record.RawResponse != "" {
		for _, line := range strings.Split(record.RawResponse, "\n") {
			builder.WriteString(escapeRawLine(line))
			builder.WriteString("\n")
		}
	}
	builder.WriteString(rawResponseEnd + "\n\n")
	return builder.String()
}

// isMarkerLine reports whether a line is one of the raw-block delimiters.
func isMarkerLine(line string) bool {
	return line == rawResponseBegin || line == rawResponseEnd
}

// escapeRawLine backslash-escapes raw oracle text that would collide with
// the raw-block delimiters. The oracle is untrusted free text; the on-disk
// markers must stay unambiguous so the artifact round-trips exactly.
func escapeRawLine(line string) string {
	if isMarkerLine(strings.TrimLeft(line, `\`)) {
		return `\` + line
	}
	return line
}

func renderStats(stats types.RunStats) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "RUN_TOTAL: %d\n", stats.Total)
	fmt.Fprintf(&builder, "RUN_SAFE: %d\n", stats.Safe)
	fmt.Fprintf(&builder, "RUN_WARN: %d\n", stats.Warn)
	fmt.Fprintf(&builder, "RUN_THREAT: %d\n", stats.Threat)
	fmt.Fprintf(&builder, "RUN_FETCH_FAILED: %d\n", stats.FetchFailed)
	fmt.Fprintf(&builder, "RUN_AUTO_TRUSTED: %d\n", stats.AutoTrusted)
	fmt.Fprintf(&builder, "RUN_MODEL: %s\n", stats.Model)
	fmt.Fprintf(&builder, "RUN_STARTED: %s\n", stats.StartedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&builder, "RUN_DURATION: %s\n", stats.Duration)
	return builder.String()
}

func renderDecision(decision types.GateDecision) string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "GATE_PROCEED: %t\n", decision.Proceed)
	fmt.Fprintf(&builder, "GATE_SAFE: %s\n", strings.Join(decision.Safe, ","))
	fmt.Fprintf(&builder, "GATE_WARN: %s\n", strings.Join(decision.Warn, ","))
	fmt.Fprintf(&builder, "GATE_THREAT: %s\n", strings.Join(decision.Threat, ","))
	fmt.Fprintf(&builder, "GATE_FETCH_FAILED: %s\n", strings.Join(decision.FetchFailed, ","))
	return builder.String()
}

// sanitizeSummary keeps the SUMMARY field on one line so the record stays
// line-parseable.
func sanitizeSummary(summary string) string {
	return strings.Join(strings.Fields(summary), " ")
}

var _ ports.ReportWriterPort = ReportFileAdapter{}
