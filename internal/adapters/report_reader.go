package adapters

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"apt-warden/internal/ports"
	"apt-warden/internal/types"
)

// ReportReaderAdapter parses a report artifact back into records and run
// statistics. This is the audit-replay half of the report contract: what
// ReportFileAdapter writes must come back intact, raw responses verbatim.
// A file holding several appended runs yields all records; the summary of
// the last run wins.
type ReportReaderAdapter struct{}

func NewReportReaderAdapter() ReportReaderAdapter {
	return ReportReaderAdapter{}
}

func (a ReportReaderAdapter) ReadReport(path string) (types.Report, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return types.Report{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("report file not found").
			WithCause(err)
	}
	return parseReport(string(content))
}

func parseReport(content string) (types.Report, error) {
	report := types.Report{}
	lines := strings.Split(content, "\n")
	var current *types.PackageRecord
	inRaw := false
	inRemediation := false
	var rawLines []string
	var remediationLines []string

	closeRecord := func() {
		if current == nil {
			return
		}
		if inRemediation {
			// Record ended mid-block (truncated or hand-edited artifact);
			// keep what was captured and do not leak the mode.
			current.Remediation = strings.TrimSpace(strings.Join(remediationLines, "\n"))
			inRemediation = false
		}
		current.RawResponse = strings.Join(rawLines, "\n")
		report.Records = append(report.Records, *current)
		current = nil
		rawLines = nil
		remediationLines = nil
	}

	for _, line := range lines {
		if inRaw {
			if line == rawResponseEnd {
				inRaw = false
				closeRecord()
				continue
			}
			rawLines = append(rawLines, unescapeRawLine(line))
			continue
		}
		if current != nil && inRemediation {
			if line == rawResponseBegin {
				current.Remediation = strings.TrimSpace(strings.Join(remediationLines, "\n"))
				inRemediation = false
				inRaw = true
			} else {
				remediationLines = append(remediationLines, line)
			}
			continue
		}
		if strings.HasPrefix(line, "PACKAGE: ") {
			closeRecord()
			current = &types.PackageRecord{Package: strings.TrimPrefix(line, "PACKAGE: ")}
			continue
		}
		if current != nil {
			if line == rawResponseBegin {
				inRaw = true
				continue
			}
			switch {
			case strings.HasPrefix(line, "SOURCE: "):
				current.Source = strings.TrimPrefix(line, "SOURCE: ")
			case strings.HasPrefix(line, "STATUS: "):
				current.Status = types.ScanStatus(strings.TrimPrefix(line, "STATUS: "))
			case strings.HasPrefix(line, "VERDICT: "):
				current.Verdict = types.Verdict(strings.TrimPrefix(line, "VERDICT: "))
			case strings.HasPrefix(line, "RISK: "):
				current.Risk = types.RiskLevel(strings.TrimPrefix(line, "RISK: "))
			case strings.HasPrefix(line, "SUMMARY: "):
				current.Summary = strings.TrimPrefix(line, "SUMMARY: ")
			case line == "REMEDIATION:":
				inRemediation = true
				remediationLines = nil
			}
			continue
		}
		parseSummaryLine(line, &report)
	}
	closeRecord()
	return report, nil
}

func parseSummaryLine(line string, report *types.Report) {
	key, value, found := strings.Cut(line, ": ")
	if !found {
		if strings.HasSuffix(line, ":") {
			key = strings.TrimSuffix(line, ":")
			value = ""
		} else {
			return
		}
	}
	switch key {
	case "RUN_TOTAL":
		report.Stats.Total = parseCount(value)
	case "RUN_SAFE":
		report.Stats.Safe = parseCount(value)
	case "RUN_WARN":
		report.Stats.Warn = parseCount(value)
	case "RUN_THREAT":
		report.Stats.Threat = parseCount(value)
	case "RUN_FETCH_FAILED":
		report.Stats.FetchFailed = parseCount(value)
	case "RUN_AUTO_TRUSTED":
		report.Stats.AutoTrusted = parseCount(value)
	case "RUN_MODEL":
		report.Stats.Model = value
	case "RUN_STARTED":
		if parsed, err := time.Parse(time.RFC3339, value); err == nil {
			report.Stats.StartedAt = parsed
		}
	case "RUN_DURATION":
		if parsed, err := time.ParseDuration(value); err == nil {
			report.Stats.Duration = parsed
		}
	case "GATE_PROCEED":
		report.Decision.Proceed = value == "true"
		report.Stats.Proceed = report.Decision.Proceed
	case "GATE_SAFE":
		report.Decision.Safe = splitPackageList(value)
	case "GATE_WARN":
		report.Decision.Warn = splitPackageList(value)
	case "GATE_THREAT":
		report.Decision.Threat = splitPackageList(value)
	case "GATE_FETCH_FAILED":
		report.Decision.FetchFailed = splitPackageList(value)
	}
}

// unescapeRawLine undoes the writer's delimiter escaping inside a raw
// block.
func unescapeRawLine(line string) string {
	if strings.HasPrefix(line, `\`) && isMarkerLine(strings.TrimLeft(line, `\`)) {
		return line[1:]
	}
	return line
}

func parseCount(value string) int {
	count, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return count
}

func splitPackageList(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return strings.Split(value, ",")
}

var _ ports.ReportReaderPort = ReportReaderAdapter{}
