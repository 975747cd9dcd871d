package scoring

import (
	"fmt"
	"math"

	"github.com/codearena/judge-worker/pkg/rubric"
)

const (
	buildFailureCap      = 25.0
	lintPenaltyPerError  = 5.0
	lintPenaltyCap       = 50.0
	coverageHighBonus    = 10.0
	coverageLowBonus     = 5.0
	coverageHighPct      = 80.0
	coverageLowPct       = 60.0
)

// Tie-breaker criteria, applied in declaration order.
const (
	TieBreakTestsPassed    = "tests_passed"
	TieBreakCriticalErrors = "critical_errors"
	TieBreakSubmitTime     = "submit_time"
)

// DefaultTieBreakOrder is applied when a rubric does not declare its own.
var DefaultTieBreakOrder = []string{TieBreakTestsPassed, TieBreakCriticalErrors, TieBreakSubmitTime}

// ScoreRequirement computes a requirement's 0-100 score from the gathered
// evidence. The base score is the pass rate of matched tests excluding
// skipped ones; build failure caps requirements that declare build
// evidence; lint errors deduct points and coverage adds a bonus.
func ScoreRequirement(req rubric.Requirement, ev Evidence) RequirementScore {
	rs := RequirementScore{RequirementID: req.ID}

	matched := MatchTests(req.Tests, ev.Tests.AllCases())
	passed, skipped := 0, 0
	for _, tc := range matched {
		switch tc.Status {
		case StatusPassed:
			passed++
		case StatusSkipped:
			skipped++
		}
	}

	score := 0.0
	considered := len(matched) - skipped
	if considered > 0 {
		score = float64(passed) / float64(considered) * 100
		rs.Evidence = append(rs.Evidence,
			fmt.Sprintf("%d/%d matched tests passed (%d skipped)", passed, considered, skipped))
	} else {
		rs.Details = "no matching tests"
	}

	if req.BuildEvidence && !ev.BuildSuccess {
		if score > buildFailureCap {
			score = buildFailureCap
		}
		rs.Evidence = append(rs.Evidence, "build failed, score capped")
	}

	if ev.Lint != nil && ev.Lint.ErrorCount > 0 {
		penalty := math.Min(lintPenaltyCap, lintPenaltyPerError*float64(ev.Lint.ErrorCount))
		score -= penalty
		rs.Evidence = append(rs.Evidence,
			fmt.Sprintf("%d lint errors, -%.0f points", ev.Lint.ErrorCount, penalty))
	}

	if ev.Coverage != nil {
		switch {
		case ev.Coverage.Total.Lines >= coverageHighPct:
			score += coverageHighBonus
			rs.Evidence = append(rs.Evidence,
				fmt.Sprintf("line coverage %.1f%%, +%.0f bonus", ev.Coverage.Total.Lines, coverageHighBonus))
		case ev.Coverage.Total.Lines >= coverageLowPct:
			score += coverageLowBonus
			rs.Evidence = append(rs.Evidence,
				fmt.Sprintf("line coverage %.1f%%, +%.0f bonus", ev.Coverage.Total.Lines, coverageLowBonus))
		}
	}

	rs.Score = math.Round(clamp(score, 0, 100))
	rs.WeightedScore = rs.Score * float64(req.Weight) / 100
	return rs
}

// CalculateScore aggregates requirement scores into the final 0-100 total:
// round of the weighted-score sum. Weights are used exactly as declared;
// a rubric whose weights do not sum to 100 is the caller's warning to log.
func CalculateScore(requirements []RequirementScore, tb TieBreakers) ScoringResult {
	sum := 0.0
	for _, rs := range requirements {
		sum += rs.WeightedScore
	}

	return ScoringResult{
		TotalScore:   int(math.Round(clamp(sum, 0, 100))),
		MaxScore:     100,
		Requirements: requirements,
		TieBreakers:  tb,
	}
}

// CompareTieBreakers applies the criteria in order: higher testsPassed
// wins, fewer criticalErrors wins, earlier submitTime wins. It returns a
// positive value when a wins, negative when b wins and 0 on a full tie.
func CompareTieBreakers(a, b TieBreakers, order []string) int {
	if len(order) == 0 {
		order = DefaultTieBreakOrder
	}
	for _, criterion := range order {
		switch criterion {
		case TieBreakTestsPassed:
			if a.TestsPassed != b.TestsPassed {
				return a.TestsPassed - b.TestsPassed
			}
		case TieBreakCriticalErrors:
			if a.CriticalErrors != b.CriticalErrors {
				return b.CriticalErrors - a.CriticalErrors
			}
		case TieBreakSubmitTime:
			if !a.SubmitTime.IsZero() && !b.SubmitTime.IsZero() && !a.SubmitTime.Equal(b.SubmitTime) {
				if a.SubmitTime.Before(b.SubmitTime) {
					return 1
				}
				return -1
			}
		}
	}
	return 0
}

type Winner int

const (
	Tie Winner = iota
	WinnerA
	WinnerB
)

// DetermineWinner compares total scores first and falls back to the
// tie-breakers only on an exact tie.
func DetermineWinner(a, b ScoringResult, order []string) Winner {
	if a.TotalScore != b.TotalScore {
		if a.TotalScore > b.TotalScore {
			return WinnerA
		}
		return WinnerB
	}
	switch cmp := CompareTieBreakers(a.TieBreakers, b.TieBreakers, order); {
	case cmp > 0:
		return WinnerA
	case cmp < 0:
		return WinnerB
	default:
		return Tie
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
