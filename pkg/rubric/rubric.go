package rubric

import "fmt"

// RequirementType distinguishes automated checks from AI-judged requirements.
type RequirementType string

const (
	RequirementAutomated RequirementType = "automated"
	RequirementAIJudge   RequirementType = "ai_judge"
)

// Rubric is the declarative, weighted set of requirements used to score a
// submission. Rubrics are versioned and immutable once published.
type Rubric struct {
	Version        string        `json:"version"`
	Requirements   []Requirement `json:"requirements"`
	BuildCommand   []string      `json:"build_command,omitempty"`
	InstallCommand []string      `json:"install_command,omitempty"`
}

type Requirement struct {
	ID     string          `json:"id"`
	Name   string          `json:"name"`
	Weight int             `json:"weight"` // 0-100, expected to sum to 100 across the rubric
	Type   RequirementType `json:"type"`
	Checks []Check         `json:"checks"`
	// Tests holds glob-style patterns matched against report test cases.
	Tests []string `json:"tests,omitempty"`
	// BuildEvidence marks the requirement as depending on a successful build.
	BuildEvidence bool `json:"build_evidence,omitempty"`
}

type Check struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Command          string   `json:"command"`
	Args             []string `json:"args,omitempty"`
	ExpectedExitCode int      `json:"expected_exit_code"` // defaults to 0
	TimeoutSeconds   int      `json:"timeout_seconds"`    // defaults to 60
	Points           int      `json:"points"`
}

// MaxPoints sums the declared points across the requirement's checks.
func (r Requirement) MaxPoints() int {
	total := 0
	for _, c := range r.Checks {
		total += c.Points
	}
	return total
}

// WeightSum returns the total weight declared across requirements.
func (rb Rubric) WeightSum() int {
	sum := 0
	for _, req := range rb.Requirements {
		sum += req.Weight
	}
	return sum
}

// Validate returns a hard error for malformed rubrics and a list of warnings
// for conditions that scoring tolerates. A weight sum other than 100 is a
// warning only; scoring proceeds with the declared weights as-is.
func (rb Rubric) Validate() ([]string, error) {
	if len(rb.Requirements) == 0 {
		return nil, fmt.Errorf("rubric has no requirements")
	}

	seen := make(map[string]struct{}, len(rb.Requirements))
	for _, req := range rb.Requirements {
		if req.ID == "" {
			return nil, fmt.Errorf("requirement %q has empty id", req.Name)
		}
		if _, dup := seen[req.ID]; dup {
			return nil, fmt.Errorf("duplicate requirement id %q", req.ID)
		}
		seen[req.ID] = struct{}{}
		if req.Weight < 0 || req.Weight > 100 {
			return nil, fmt.Errorf("requirement %q weight %d out of range", req.ID, req.Weight)
		}
	}

	var warnings []string
	if sum := rb.WeightSum(); sum != 100 {
		warnings = append(warnings, fmt.Sprintf("rubric weights sum to %d, expected 100", sum))
	}
	return warnings, nil
}

// Normalize applies check defaults: expected exit code 0 and a 60 second
// timeout when unset.
func (rb *Rubric) Normalize(defaultCheckTimeoutSec int) {
	for ri := range rb.Requirements {
		for ci := range rb.Requirements[ri].Checks {
			check := &rb.Requirements[ri].Checks[ci]
			if check.TimeoutSeconds <= 0 {
				check.TimeoutSeconds = defaultCheckTimeoutSec
			}
		}
	}
}

// Source resolves the published rubric and judge image reference for a
// challenge version. Implementations live outside this subsystem.
type Source interface {
	Resolve(challengeVersion string) (Rubric, string, error)
}
