package core

import (
	"strings"

	"apt-warden/internal/types"
)

// ParseVerdict extracts the typed analysis fields from a raw oracle
// response. The oracle gives no schema guarantee, so every field is parsed
// independently: a missing or mangled VERDICT line must not stop RISK or
// SUMMARY extraction. Callers keep the raw text alongside the parsed value
// for audit.
func ParseVerdict(raw string) types.ScanAnalysis {
	analysis := types.ScanAnalysis{
		Verdict: types.VerdictUnknown,
		Risk:    types.RiskUnknown,
	}
	lines := strings.Split(raw, "\n")
	for _, line := range lines {
		if value, ok := taggedValue(line, "VERDICT"); ok {
			analysis.Verdict = ParseVerdictToken(value)
			break
		}
	}
	for _, line := range lines {
		if value, ok := taggedValue(line, "RISK"); ok {
			analysis.Risk = ParseRiskLevel(value)
			break
		}
	}
	for _, line := range lines {
		if value, ok := taggedValue(line, "SUMMARY"); ok {
			analysis.Summary = value
			break
		}
	}
	analysis.Remediation = remediationBlock(lines)
	return analysis
}

// taggedValue matches "TAG: value" case-insensitively and returns the
// trimmed value.
func taggedValue(line string, tag string) (string, bool) {
	trimmed := strings.TrimSpace(line)
	prefix := tag + ":"
	if len(trimmed) < len(prefix) {
		return "", false
	}
	if !strings.EqualFold(trimmed[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(trimmed[len(prefix):]), true
}

// remediationBlock returns the text between the first REMEDIATION: header
// and the next all-caps header line (or end of response). The value on the
// REMEDIATION line itself, if any, is the first line of the block.
func remediationBlock(lines []string) string {
	var block []string
	capturing := false
	for _, line := range lines {
		if value, ok := taggedValue(line, "REMEDIATION"); ok && !capturing {
			capturing = true
			if value != "" {
				block = append(block, value)
			}
			continue
		}
		if !capturing {
			continue
		}
		if isHeaderLine(line) {
			break
		}
		block = append(block, strings.TrimRight(line, " \t"))
	}
	return strings.TrimSpace(strings.Join(block, "\n"))
}

// isHeaderLine reports whether a line looks like an all-caps "TAG:" header,
// which terminates a remediation block.
func isHeaderLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	idx := strings.Index(trimmed, ":")
	if idx <= 0 {
		return false
	}
	tag := trimmed[:idx]
	for _, r := range tag {
		if (r < 'A' || r > 'Z') && r != '_' {
			return false
		}
	}
	return true
}
