// Package metrics implements the token-usage metrics engine of spec.md
// §4.9 (component J): chars/4 estimation, OTel exporter parsing,
// session/spawn-tier logging, A/B comparison, and project -> global
// aggregation. Every write honors a single opt-out flag (spec.md §4.9:
// "when disabled, every write is a cheap no-op").
package metrics

import "os"

// EstimateText approximates the token count of text as ceil(chars/4),
// the universal fallback when no measured count is available (spec.md
// §4.9).
func EstimateText(text string) int {
	n := len([]rune(text))
	if n == 0 {
		return 0
	}
	return (n + 3) / 4
}

// EstimateFile approximates a file's token count from its size on disk.
func EstimateFile(path string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	size := info.Size()
	if size == 0 {
		return 0, nil
	}
	return int((size + 3) / 4), nil
}
