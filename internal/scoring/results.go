// Package scoring contains the pure scoring engine: report parsers,
// test-to-requirement matching and weighted score computation. Nothing in
// this package performs I/O.
package scoring

import "time"

type TestStatus string

const (
	StatusPassed  TestStatus = "passed"
	StatusFailed  TestStatus = "failed"
	StatusSkipped TestStatus = "skipped"
	StatusError   TestStatus = "error"
)

type TestCase struct {
	Name       string
	ClassName  string
	File       string
	Status     TestStatus
	DurationMs float64
	Message    string
}

type TestSuite struct {
	Name  string
	Tests []TestCase
}

// TestResults is the common shape every report parser produces, regardless
// of the input format.
type TestResults struct {
	Suites       []TestSuite
	TotalTests   int
	TotalPassed  int
	TotalFailed  int
	TotalSkipped int
	TotalErrors  int
}

// AllCases flattens the suites into a single slice.
func (tr TestResults) AllCases() []TestCase {
	var cases []TestCase
	for _, s := range tr.Suites {
		cases = append(cases, s.Tests...)
	}
	return cases
}

// recount recomputes the totals from the suite contents.
func (tr *TestResults) recount() {
	tr.TotalTests, tr.TotalPassed, tr.TotalFailed, tr.TotalSkipped, tr.TotalErrors = 0, 0, 0, 0, 0
	for _, s := range tr.Suites {
		for _, c := range s.Tests {
			tr.TotalTests++
			switch c.Status {
			case StatusPassed:
				tr.TotalPassed++
			case StatusFailed:
				tr.TotalFailed++
			case StatusSkipped:
				tr.TotalSkipped++
			case StatusError:
				tr.TotalErrors++
			}
		}
	}
}

type FileCoverage struct {
	Lines      float64
	Branches   float64
	Functions  float64
	Statements float64
}

type CoverageReport struct {
	Total FileCoverage
	Files map[string]FileCoverage
}

type LintSeverity int

const (
	SeverityWarning LintSeverity = 1
	SeverityError   LintSeverity = 2
)

type LintIssue struct {
	File     string
	Line     int
	Rule     string
	Severity LintSeverity
	Message  string
}

type LintReport struct {
	Issues       []LintIssue
	ErrorCount   int
	WarningCount int
}

// Evidence is everything the pipeline gathered that scoring can draw on.
type Evidence struct {
	Tests        TestResults
	Coverage     *CoverageReport
	Lint         *LintReport
	BuildSuccess bool
}

type RequirementScore struct {
	RequirementID string   `json:"requirement_id"`
	Score         float64  `json:"score"`          // 0-100
	WeightedScore float64  `json:"weighted_score"` // score * weight / 100
	Evidence      []string `json:"evidence,omitempty"`
	Details       string   `json:"details,omitempty"`
}

type TieBreakers struct {
	TestsPassed    int       `json:"tests_passed"`
	CriticalErrors int       `json:"critical_errors"`
	SubmitTime     time.Time `json:"submit_time"`
}

// ScoringResult is the engine's aggregate output. It is not persisted
// verbatim; the orchestrator serializes the pieces it needs.
type ScoringResult struct {
	TotalScore   int                `json:"total_score"`
	MaxScore     int                `json:"max_score"`
	Requirements []RequirementScore `json:"requirements"`
	TieBreakers  TieBreakers        `json:"tie_breakers"`
}
