package scoring

import "encoding/json"

// jsonReport mirrors the jest-style runner output: a testResults array of
// files, each with assertionResults.
type jsonReport struct {
	TestResults []jsonFileResult `json:"testResults"`
}

type jsonFileResult struct {
	Name             string                `json:"name"`
	AssertionResults []jsonAssertionResult `json:"assertionResults"`
}

type jsonAssertionResult struct {
	Title           string   `json:"title"`
	FullName        string   `json:"fullName"`
	Status          string   `json:"status"`
	Duration        float64  `json:"duration"`
	FailureMessages []string `json:"failureMessages"`
}

// ParseJSONReport parses a jest-style JSON test report. Malformed input
// yields an empty result.
func ParseJSONReport(data []byte) TestResults {
	var results TestResults

	var report jsonReport
	if err := json.Unmarshal(data, &report); err != nil {
		return results
	}

	for _, file := range report.TestResults {
		suite := TestSuite{Name: file.Name}
		for _, a := range file.AssertionResults {
			name := a.FullName
			if name == "" {
				name = a.Title
			}
			tc := TestCase{
				Name:       name,
				File:       file.Name,
				DurationMs: a.Duration,
			}
			switch a.Status {
			case "passed":
				tc.Status = StatusPassed
			case "failed":
				tc.Status = StatusFailed
			case "skipped", "pending", "todo", "disabled":
				tc.Status = StatusSkipped
			default:
				tc.Status = StatusError
			}
			if len(a.FailureMessages) > 0 {
				tc.Message = a.FailureMessages[0]
			}
			suite.Tests = append(suite.Tests, tc)
		}
		results.Suites = append(results.Suites, suite)
	}

	results.recount()
	return results
}
