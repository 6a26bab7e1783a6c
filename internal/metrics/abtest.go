package metrics

import (
	"context"
	"fmt"

	"github.com/cleo-run/cleo/internal/model"
)

// ABVerdictThresholds configures the verdict cutoffs used by Compare
// (spec.md §4.9: "a verdict string keyed on configurable thresholds").
type ABVerdictThresholds struct {
	// TokenSavingsRatio is the minimum (baseline-cleo)/baseline ratio
	// required to call CLEO a net win on tokens.
	TokenSavingsRatio float64
	// MinValidationPassRate is the minimum gate pass rate CLEO must
	// clear to avoid a "regressed" verdict regardless of token savings.
	MinValidationPassRate float64
}

// DefaultABVerdictThresholds mirrors the conservative defaults used
// elsewhere in CLEO for "does this look better" judgments.
var DefaultABVerdictThresholds = ABVerdictThresholds{
	TokenSavingsRatio:     0.10,
	MinValidationPassRate: 0.80,
}

// ABComparison is the result of comparing a labeled CLEO session against
// its baseline counterpart.
type ABComparison struct {
	Test              model.ABTest
	CleoTokens        int64
	BaselineTokens    int64
	TokenDelta        int64
	TokenSavingsRatio float64
	CleoTaskCount     int
	BaselineTaskCount int
	CleoPassRate      float64
	Verdict           string
}

// Compare computes a token delta, per-task efficiency, and validation
// pass rates between a CLEO session and its baseline, then assigns a
// verdict per thresholds (spec.md §4.9: "after both end, compute token
// delta, per-task efficiency, validation pass rates, and a verdict").
func Compare(test model.ABTest, snapshots []model.SessionTokenSnapshot, cleoTaskCount, baselineTaskCount int, cleoGatesPassed, cleoGatesTotal int, thresholds ABVerdictThresholds) ABComparison {
	cleoTokens, _ := SessionConsumed(snapshots, test.CleoSessionID)
	baselineTokens, _ := SessionConsumed(snapshots, test.BaselineSessionID)

	cmp := ABComparison{
		Test:              test,
		CleoTokens:        cleoTokens,
		BaselineTokens:    baselineTokens,
		TokenDelta:        baselineTokens - cleoTokens,
		CleoTaskCount:     cleoTaskCount,
		BaselineTaskCount: baselineTaskCount,
	}
	if baselineTokens > 0 {
		cmp.TokenSavingsRatio = float64(cmp.TokenDelta) / float64(baselineTokens)
	}
	if cleoGatesTotal > 0 {
		cmp.CleoPassRate = float64(cleoGatesPassed) / float64(cleoGatesTotal)
	}

	switch {
	case cmp.CleoPassRate < thresholds.MinValidationPassRate:
		cmp.Verdict = "regressed"
	case cmp.TokenSavingsRatio >= thresholds.TokenSavingsRatio:
		cmp.Verdict = "improved"
	case cmp.TokenSavingsRatio <= -thresholds.TokenSavingsRatio:
		cmp.Verdict = "worse"
	default:
		cmp.Verdict = "neutral"
	}
	return cmp
}

// CreateABTest registers a new labeled session pair.
func (s *Service) CreateABTest(ctx context.Context, label, cleoSessionID, baselineSessionID string) (model.ABTest, error) {
	id, err := model.NewSessionID(s.now())
	if err != nil {
		return model.ABTest{}, fmt.Errorf("generate ab test id: %w", err)
	}
	test := model.ABTest{
		ID:                id,
		Label:             label,
		CleoSessionID:     cleoSessionID,
		BaselineSessionID: baselineSessionID,
		CreatedAt:         s.now(),
	}
	if s.Disabled {
		return test, nil
	}
	if err := s.Accessor.AppendABTest(ctx, test); err != nil {
		return model.ABTest{}, err
	}
	return test, nil
}

// CompleteABTest stamps a test's completion time and re-appends it; a
// later read takes the most recent entry for a given ID as authoritative.
func (s *Service) CompleteABTest(ctx context.Context, test model.ABTest) error {
	if s.Disabled {
		return nil
	}
	completed := s.now()
	test.CompletedAt = &completed
	return s.Accessor.AppendABTest(ctx, test)
}

func latestABTests(tests []model.ABTest) map[string]model.ABTest {
	byID := make(map[string]model.ABTest, len(tests))
	for _, t := range tests {
		existing, ok := byID[t.ID]
		if !ok || t.CreatedAt.After(existing.CreatedAt) || (t.CompletedAt != nil && existing.CompletedAt == nil) {
			byID[t.ID] = t
		}
	}
	return byID
}

// LatestABTest returns the most up-to-date record for id, or false if
// none exists.
func LatestABTest(tests []model.ABTest, id string) (model.ABTest, bool) {
	t, ok := latestABTests(tests)[id]
	return t, ok
}
