package app

import (
	"fmt"
	"strings"

	"apt-warden/internal/types"
)

// securityPrompt is the fixed review instruction sent with every package
// workspace. The response contract (VERDICT/RISK/SUMMARY/REMEDIATION
// tagged lines) is what the parser scrapes; everything else in the reply is
// free text.
const securityPrompt = `You are a security reviewer for Linux package updates.
You receive the build recipe and auxiliary files of one package about to be upgraded.
Look for malicious or suspicious content: exfiltration, backdoors, obfuscated payloads,
credential theft, unexpected network access, tampered maintainer scripts.

Reply with these tagged lines:
VERDICT: SAFE or THREAT
RISK: NONE, LOW, MEDIUM, HIGH or CRITICAL
SUMMARY: one line describing your finding
REMEDIATION: (optional) steps to take, free text until the next tagged line`

// postUpdatePrompt drives the second oracle pass over the update log and
// system-health signals. Issues come back as SEVERITY blocks terminated by
// END_ISSUE, each carrying PROBLEM, IMPACT and FIX_COMMANDS lines.
const postUpdatePrompt = `You are a Linux system administrator reviewing the aftermath of a package update.
You receive the update log and current system-health signals.
Identify concrete breakage introduced by the update.

For each problem found, emit a block:
SEVERITY: CRITICAL, HIGH, MEDIUM or LOW
PROBLEM: one line describing the problem
IMPACT: one line describing the impact
FIX_COMMANDS:
<one shell command per line>
END_ISSUE

If nothing is broken, reply NO_ISSUES.`

func securityPayloadHeader(task types.PackageTask) string {
	return fmt.Sprintf("PACKAGE: %s\nORIGIN: %s\nINSTALLED: %s\nCANDIDATE: %s\n\n",
		task.Name, task.Origin, task.InstalledVersion, task.CandidateVersion)
}

// postUpdatePayload flattens the update log and the health snapshot into
// the text payload for the post-update pass.
func postUpdatePayload(applyLog string, health types.HealthSnapshot) string {
	var builder strings.Builder
	builder.WriteString("=== UPDATE LOG ===\n")
	builder.WriteString(applyLog)
	builder.WriteString("\n=== SYSTEM STATE ===\n")
	fmt.Fprintf(&builder, "failed_services: %d\n", health.FailedServices)
	fmt.Fprintf(&builder, "pending_config_conflicts: %d\n", health.PendingConfigConflicts)
	if health.BrokenDependencies != "" {
		fmt.Fprintf(&builder, "broken_dependencies: %s\n", health.BrokenDependencies)
	}
	if len(health.OrphanedPackages) > 0 {
		fmt.Fprintf(&builder, "orphaned_packages: %s\n", strings.Join(health.OrphanedPackages, ", "))
	}
	if health.RecentKernelLog != "" {
		builder.WriteString("=== RECENT KERNEL LOG ===\n")
		builder.WriteString(health.RecentKernelLog)
	}
	return builder.String()
}
