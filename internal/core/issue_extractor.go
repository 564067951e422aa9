package core

import (
	"strings"

	"apt-warden/internal/types"
)

// extractorState is the state of the line-oriented issue scanner.
type extractorState int

const (
	stateIdle extractorState = iota
	stateInIssue
)

// ExtractIssues runs the tagged-line state machine over a post-update
// oracle response and returns the issues it describes, in order.
//
// A block starts at a SEVERITY: line and normally ends at END_ISSUE. A new
// SEVERITY: line while a block is open implicitly closes the previous block
// first, so a response missing its terminator still yields the issues it
// listed. A block without a PROBLEM line or without at least one command
// line yields nothing. Lines outside any block are ignored.
func ExtractIssues(raw string) []types.Issue {
	var issues []types.Issue
	var current types.Issue
	state := stateIdle

	flush := func() {
		if state != stateInIssue {
			return
		}
		if strings.TrimSpace(current.Problem) != "" && len(current.FixCommands) > 0 {
			issues = append(issues, current)
		}
		current = types.Issue{}
		state = stateIdle
	}

	for _, line := range strings.Split(raw, "\n") {
		if value, ok := taggedValue(line, "SEVERITY"); ok {
			flush()
			current = types.Issue{Severity: ParseIssueSeverity(value)}
			state = stateInIssue
			continue
		}
		if state != stateInIssue {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(line), "END_ISSUE") {
			flush()
			continue
		}
		if value, ok := taggedValue(line, "PROBLEM"); ok {
			current.Problem = value
			continue
		}
		if value, ok := taggedValue(line, "IMPACT"); ok {
			current.Impact = value
			continue
		}
		if _, ok := taggedValue(line, "FIX_COMMANDS"); ok {
			// Marker only; command lines follow.
			continue
		}
		if command := strings.TrimSpace(line); command != "" && !isHeaderLine(line) {
			current.FixCommands = append(current.FixCommands, command)
		}
	}
	flush()
	return issues
}

// BuildFixPlan wraps the extracted issues and the configured mode into the
// plan that drives remediation.
func BuildFixPlan(issues []types.Issue, mode types.FixMode) types.FixPlan {
	return types.FixPlan{Issues: issues, Mode: mode}
}
