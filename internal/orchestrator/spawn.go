package orchestrator

import (
	"errors"
	"fmt"
	"time"

	"github.com/cleo-run/cleo/internal/model"
)

// ErrTaskNotFound is returned when a spawn target does not exist in the
// loaded subtree.
var ErrTaskNotFound = errors.New("orchestrator: task not found")

// ErrNotFullyResolved is returned when a spawn prompt still carries an
// unbound token; spawning must be refused (spec.md §4.7 step 5).
var ErrNotFullyResolved = errors.New("orchestrator: spawn prompt not fully resolved")

// SpawnPrompt is the assembled, token-resolved prompt for one subagent
// spawn, together with the resolution precondition callers must check.
type SpawnPrompt struct {
	TaskID     string
	EpicID     string
	Protocol   Protocol
	Text       string
	Resolution TokenResolution
}

// BuildSpawnPrompt assembles a deterministic concatenation of the base
// subagent protocol and the conditional protocol selected by task
// type/keyword, then resolves all tokens (spec.md §4.7 step 5).
func BuildSpawnPrompt(tasks []model.Task, epicID, taskID string, now time.Time) (*SpawnPrompt, error) {
	var target *model.Task
	for i := range tasks {
		if tasks[i].ID == taskID {
			target = &tasks[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}

	base, err := basePrompt()
	if err != nil {
		return nil, fmt.Errorf("load base protocol: %w", err)
	}
	protocol := Classify(*target)
	conditional, err := conditionalPrompt(protocol)
	if err != nil {
		return nil, fmt.Errorf("load %s protocol: %w", protocol, err)
	}

	raw := base + "\n" + conditional
	text, resolution := resolveTokens(raw, taskID, epicID, now)

	return &SpawnPrompt{
		TaskID:     taskID,
		EpicID:     epicID,
		Protocol:   protocol,
		Text:       text,
		Resolution: resolution,
	}, nil
}

// RequireResolved refuses to let an unresolved prompt be spawned.
func RequireResolved(p *SpawnPrompt) error {
	if !p.Resolution.FullyResolved {
		return fmt.Errorf("%w: %v", ErrNotFullyResolved, p.Resolution.Unresolved)
	}
	return nil
}
