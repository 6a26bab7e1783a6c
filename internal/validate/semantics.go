package validate

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cleo-run/cleo/internal/model"
)

const (
	minTitleRunes  = 1
	maxTitleRunes  = 200
	minReasonRunes = 3
)

var labelPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)

// shellMetacharacters rejects file paths that could be misinterpreted by a
// shell if ever interpolated into a command (spec.md §4.3 layer 2).
var shellMetacharacters = regexp.MustCompile("[;|&$`\\n<>(){}\\\\*?~!]")

// fieldSemantics runs layer 2 (per-field rules) over a single task. now is
// injected so checks against "the future" are deterministic under a frozen
// clock (spec.md §4.10).
func fieldSemantics(t *model.Task, now time.Time, r *Result) {
	path := fmt.Sprintf("tasks[%s]", t.ID)

	runes := []rune(strings.TrimSpace(t.Title))
	if len(runes) < minTitleRunes || len(runes) > maxTitleRunes {
		r.addError(path+".title", "TITLE_LENGTH", fmt.Sprintf("title must be between %d and %d characters", minTitleRunes, maxTitleRunes))
	}

	if t.CreatedAt.After(now) {
		r.addError(path+".createdAt", "TIMESTAMP_IN_FUTURE", "createdAt must not be in the future")
	}
	if t.UpdatedAt.After(now) {
		r.addError(path+".updatedAt", "TIMESTAMP_IN_FUTURE", "updatedAt must not be in the future")
	}

	if t.CompletedAt != nil {
		if t.CompletedAt.After(now) {
			r.addError(path+".completedAt", "TIMESTAMP_IN_FUTURE", "completedAt must not be in the future")
		}
		if t.CompletedAt.Before(t.CreatedAt) {
			r.addError(path+".completedAt", "COMPLETED_BEFORE_CREATED", "completedAt must not precede createdAt")
		}
	}

	if t.Status == model.StatusCancelled {
		reason := strings.TrimSpace(t.CancellationReason)
		if len([]rune(reason)) < minReasonRunes {
			r.addError(path+".cancellationReason", "REASON_TOO_SHORT", fmt.Sprintf("cancellation reason must be at least %d characters", minReasonRunes))
		}
		if t.CancelledAt == nil {
			r.addError(path+".cancelledAt", "MISSING_CANCELLED_AT", "cancelled tasks must record cancelledAt")
		} else if t.CancelledAt.After(now) {
			r.addError(path+".cancelledAt", "TIMESTAMP_IN_FUTURE", "cancelledAt must not be in the future")
		}
	}
	if t.Status == model.StatusDone && t.CompletedAt == nil {
		r.addError(path+".completedAt", "MISSING_COMPLETED_AT", "done tasks must record completedAt")
	}

	for i, label := range t.Labels {
		if !labelPattern.MatchString(label) {
			r.addError(fmt.Sprintf("%s.labels[%d]", path, i), "LABEL_NOT_NORMALIZED", "labels must be lowercase kebab-case")
		}
	}

	for i, f := range t.Files {
		if shellMetacharacters.MatchString(f) {
			r.addError(fmt.Sprintf("%s.files[%d]", path, i), "UNSAFE_FILE_PATH", "file path contains shell metacharacters")
		}
	}
}
