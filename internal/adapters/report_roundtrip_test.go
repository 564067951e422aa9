package adapters

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"apt-warden/internal/types"
)

func sampleReport() types.Report {
	return types.Report{
		Records: []types.PackageRecord{
			{
				Package:     "curl",
				Source:      "Ubuntu:24.04/noble-updates",
				Status:      types.ScanStatusScanned,
				Verdict:     types.VerdictSafe,
				Risk:        types.RiskLow,
				Summary:     "routine maintenance release",
				RawResponse: "VERDICT: SAFE\nRISK: LOW\nSUMMARY: routine maintenance release",
			},
			{
				Package:     "suspicious-tool",
				Source:      "LP-PPA-author",
				Status:      types.ScanStatusScanned,
				Verdict:     types.VerdictThreatDetected,
				Risk:        types.RiskCritical,
				Summary:     "postinst pipes a remote script into sh",
				Remediation: "pin the installed version\nreport the archive",
				RawResponse: "VERDICT: THREAT\nRISK: CRITICAL\nPACKAGE: looks like a field but is raw text",
			},
			{
				Package: "no-source",
				Source:  "random-repo",
				Status:  types.ScanStatusFetchFailed,
				Verdict: types.VerdictUnknown,
				Risk:    types.RiskUnknown,
			},
		},
		Stats: types.RunStats{
			Total:       3,
			Safe:        1,
			Threat:      1,
			FetchFailed: 1,
			Model:       "gpt-4o-mini",
			StartedAt:   time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
			Duration:    42 * time.Second,
			Proceed:     false,
		},
		Decision: types.GateDecision{
			Safe:        []string{"curl"},
			Threat:      []string{"suspicious-tool"},
			FetchFailed: []string{"no-source"},
			Proceed:     false,
		},
	}
}

func TestReportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.report")
	require.NoError(t, NewReportFileAdapter(path).WriteReport(sampleReport()))

	parsed, err := NewReportReaderAdapter().ReadReport(path)
	require.NoError(t, err)

	expected := sampleReport()
	if diff := cmp.Diff(expected, parsed); diff != "" {
		t.Fatalf("report did not round-trip (-want +got):\n%s", diff)
	}
}

func TestReportRawResponsePreservedVerbatim(t *testing.T) {
	// A raw line that looks like a record field must survive untouched.
	path := filepath.Join(t.TempDir(), "run.report")
	require.NoError(t, NewReportFileAdapter(path).WriteReport(sampleReport()))

	parsed, err := NewReportReaderAdapter().ReadReport(path)
	require.NoError(t, err)
	require.Len(t, parsed.Records, 3)
	assert.Contains(t, parsed.Records[1].RawResponse, "PACKAGE: looks like a field but is raw text")
}

func TestReportAppendsAcrossRuns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.report")
	writer := NewReportFileAdapter(path)
	require.NoError(t, writer.WriteReport(sampleReport()))

	second := sampleReport()
	second.Records = second.Records[:1]
	second.Stats.Total = 1
	second.Stats.Model = "gpt-4o"
	second.Decision = types.GateDecision{Safe: []string{"curl"}, Proceed: true}
	require.NoError(t, writer.WriteReport(second))

	parsed, err := NewReportReaderAdapter().ReadReport(path)
	require.NoError(t, err)
	assert.Len(t, parsed.Records, 4)
	// Last run's summary wins.
	assert.Equal(t, 1, parsed.Stats.Total)
	assert.Equal(t, "gpt-4o", parsed.Stats.Model)
	assert.True(t, parsed.Decision.Proceed)
}

func TestReportSummaryStaysSingleLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.report")
	report := types.Report{
		Records: []types.PackageRecord{{
			Package: "pkg",
			Status:  types.ScanStatusScanned,
			Summary: "first line\nsecond   line",
		}},
	}
	require.NoError(t, NewReportFileAdapter(path).WriteReport(report))

	parsed, err := NewReportReaderAdapter().ReadReport(path)
	require.NoError(t, err)
	require.Len(t, parsed.Records, 1)
	assert.Equal(t, "first line second line", parsed.Records[0].Summary)
}

func TestReportRawResponseWithMarkerCollisions(t *testing.T) {
	// The oracle is untrusted free text: a reply embedding the delimiter
	// lines, or a pre-escaped lookalike, or a trailing newline must all
	// come back byte-identical.
	raws := []string{
		"before\n--- RAW RESPONSE END ---\nafter",
		"--- RAW RESPONSE BEGIN ---",
		`\--- RAW RESPONSE END ---`,
		"ends with newline\n",
		"blank trailer\n\n",
	}
	for _, raw := range raws {
		path := filepath.Join(t.TempDir(), "run.report")
		report := types.Report{Records: []types.PackageRecord{{
			Package:     "pkg",
			Status:      types.ScanStatusScanned,
			RawResponse: raw,
		}}}
		require.NoError(t, NewReportFileAdapter(path).WriteReport(report))

		parsed, err := NewReportReaderAdapter().ReadReport(path)
		require.NoError(t, err)
		require.Len(t, parsed.Records, 1, "raw %q", raw)
		assert.Equal(t, raw, parsed.Records[0].RawResponse, "raw %q", raw)
	}
}

func TestReadReportTruncatedMidRemediation(t *testing.T) {
	// A hand-edited or truncated artifact ending inside a REMEDIATION
	// block still yields the record with what was captured.
	path := filepath.Join(t.TempDir(), "run.report")
	content := "PACKAGE: pkg\nSTATUS: scanned\nREMEDIATION:\npin the package\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	parsed, err := NewReportReaderAdapter().ReadReport(path)
	require.NoError(t, err)
	require.Len(t, parsed.Records, 1)
	assert.Equal(t, "pin the package", parsed.Records[0].Remediation)
}

func TestReadReportMissingFile(t *testing.T) {
	_, err := NewReportReaderAdapter().ReadReport(filepath.Join(t.TempDir(), "absent.report"))
	require.Error(t, err)
}

func TestWriteReportEmptyPath(t *testing.T) {
	require.Error(t, ReportFileAdapter{Path: "  "}.WriteReport(types.Report{}))
}

func TestReportFileIsHumanReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.report")
	require.NoError(t, NewReportFileAdapter(path).WriteReport(sampleReport()))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(content)
	assert.Contains(t, text, "PACKAGE: curl\n")
	assert.Contains(t, text, "GATE_PROCEED: false\n")
	assert.Contains(t, text, "=== END RUN ===\n")
}
