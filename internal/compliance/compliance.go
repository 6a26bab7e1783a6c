// Package compliance implements the validation & compliance engine of
// spec.md §4.8 (component I): manifest integrity classification, research
// linkage and return-format checks, rule-adherence scoring with severity
// escalation, and gap analysis against a canonical docs corpus.
package compliance

import (
	"regexp"
	"strings"
	"time"

	"github.com/cleo-run/cleo/internal/model"
)

// requiredManifestFields names the fields that must be present and typed
// for a manifest entry to be "valid" (spec.md §4.8).
var requiredManifestFields = []string{"id", "title", "linked_tasks", "status"}

// ClassifyManifest reports the integrity class of entry: valid (every
// required field present and typed), partial (<=2 missing), invalid (>=3
// missing), or missing (no entry at all, reported by callers when entry
// is nil).
func ClassifyManifest(entry *model.ManifestEntry) model.ManifestIntegrity {
	if entry == nil {
		return model.ManifestMissing
	}
	missing := 0
	if entry.ID == "" {
		missing++
	}
	if entry.Title == "" {
		missing++
	}
	if len(entry.LinkedTasks) == 0 {
		missing++
	}
	if entry.Status == "" {
		missing++
	}
	switch {
	case missing == 0:
		return model.ManifestValid
	case missing <= 2:
		return model.ManifestPartial
	default:
		return model.ManifestInvalid
	}
}

// returnFormatPattern is the required phrase pattern a subagent's return
// text must match (spec.md §4.8: "return format: matches the required
// phrase pattern").
var returnFormatPattern = regexp.MustCompile(`(?i)^\s*(task|research|design)\s+(complete|completed|blocked|returned)\b`)

// CheckReturnFormat reports whether returnText opens with the required
// phrase pattern.
func CheckReturnFormat(returnText string) bool {
	return returnFormatPattern.MatchString(returnText)
}

// CheckResearchLinkage reports whether entry's linked_tasks names
// spawningTaskID (spec.md §4.8).
func CheckResearchLinkage(entry *model.ManifestEntry, spawningTaskID string) bool {
	if entry == nil {
		return false
	}
	for _, id := range entry.LinkedTasks {
		if id == spawningTaskID {
			return true
		}
	}
	return false
}

// ScoreReturn runs the three compliance rules for one subagent return and
// produces a ComplianceEvent plus any resulting ViolationEvents (spec.md
// §4.8: "three rules (manifest, link, format); ruleAdherenceScore =
// passes/3").
func ScoreReturn(taskID string, entry *model.ManifestEntry, returnText string, now time.Time) (model.ComplianceEvent, []model.ViolationEvent) {
	integrity := ClassifyManifest(entry)
	manifestPass := integrity == model.ManifestValid
	linkPass := CheckResearchLinkage(entry, taskID)
	formatPass := CheckReturnFormat(returnText)

	passes := 0
	for _, p := range []bool{manifestPass, linkPass, formatPass} {
		if p {
			passes++
		}
	}
	score := float64(passes) / 3.0

	severity := severityFor(integrity, manifestPass, linkPass, formatPass)

	event := model.ComplianceEvent{
		TS:                 now,
		TaskID:             taskID,
		ManifestIntegrity:  integrity,
		ManifestPass:       manifestPass,
		LinkPass:           linkPass,
		FormatPass:         formatPass,
		RuleAdherenceScore: score,
		Severity:           severity,
	}

	var violations []model.ViolationEvent
	if !manifestPass {
		violations = append(violations, model.ViolationEvent{TS: now, TaskID: taskID, Rule: "manifest", Severity: severity, Detail: string(integrity)})
	}
	if !linkPass {
		violations = append(violations, model.ViolationEvent{TS: now, TaskID: taskID, Rule: "link", Severity: severity})
	}
	if !formatPass {
		violations = append(violations, model.ViolationEvent{TS: now, TaskID: taskID, Rule: "format", Severity: severity})
	}

	return event, violations
}

// severityFor escalates low -> medium -> high as more rules fail, with a
// missing manifest treated as the worst single failure regardless of the
// other two rules (spec.md §4.8).
func severityFor(integrity model.ManifestIntegrity, manifestPass, linkPass, formatPass bool) model.Severity {
	if integrity == model.ManifestMissing {
		return model.SeverityHigh
	}
	failures := 0
	for _, p := range []bool{manifestPass, linkPass, formatPass} {
		if !p {
			failures++
		}
	}
	switch {
	case failures == 0:
		return model.SeverityLow
	case failures == 1:
		return model.SeverityMedium
	default:
		return model.SeverityHigh
	}
}

// AnalyzeGaps lists every topic named by reviewEntries that is not
// covered by a case-insensitive search of corpus, and reports
// readyToArchive iff the result is empty (spec.md §4.8: "Gap analysis").
func AnalyzeGaps(reviewEntries []model.ManifestEntry, corpus string) model.GapAnalysis {
	lowerCorpus := strings.ToLower(corpus)
	seen := map[string]bool{}
	var missing []string
	for _, entry := range reviewEntries {
		for _, topic := range entry.Topics {
			key := strings.ToLower(topic)
			if seen[key] {
				continue
			}
			seen[key] = true
			if !strings.Contains(lowerCorpus, key) {
				missing = append(missing, topic)
			}
		}
	}
	return model.GapAnalysis{MissingTopics: missing, ReadyToArchive: len(missing) == 0}
}
