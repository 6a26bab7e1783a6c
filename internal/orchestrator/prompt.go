package orchestrator

import (
	"strings"
	"time"
)

// TokenResolution reports whether every {token} in a spawn prompt was
// bound; consumers must refuse to spawn when FullyResolved is false
// (spec.md §4.7: "the resulting context carries a boolean
// tokenResolution.fullyResolved").
type TokenResolution struct {
	FullyResolved bool
	Unresolved    []string
}

var knownTokens = []string{"{taskId}", "{epicId}", "{date}"}

// resolveTokens substitutes the fixed token set and reports any that
// remain unbound or any unknown `{...}` placeholder left in the text.
func resolveTokens(text, taskID, epicID string, now time.Time) (string, TokenResolution) {
	replacer := strings.NewReplacer(
		"{taskId}", taskID,
		"{epicId}", epicID,
		"{date}", now.UTC().Format("2006-01-02"),
	)
	resolved := replacer.Replace(text)

	var unresolved []string
	for _, tok := range knownTokens {
		if strings.Contains(resolved, tok) {
			unresolved = append(unresolved, tok)
		}
	}
	for _, tok := range findBraceTokens(resolved) {
		unresolved = append(unresolved, tok)
	}
	return resolved, TokenResolution{FullyResolved: len(unresolved) == 0, Unresolved: unresolved}
}

// findBraceTokens scans for any remaining `{...}` placeholder not in the
// fixed known set, so an unexpected/typo'd token also blocks spawning.
func findBraceTokens(text string) []string {
	var found []string
	for {
		start := strings.IndexByte(text, '{')
		if start == -1 {
			break
		}
		end := strings.IndexByte(text[start:], '}')
		if end == -1 {
			break
		}
		found = append(found, text[start:start+end+1])
		text = text[start+end+1:]
	}
	return found
}
