package scoring

import "encoding/json"

type lintFileResult struct {
	FilePath string        `json:"filePath"`
	Messages []lintMessage `json:"messages"`
}

type lintMessage struct {
	RuleID   string `json:"ruleId"`
	Severity int    `json:"severity"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
}

// ParseLintReport parses an eslint-style JSON report: an array of per-file
// results with severity-tagged messages. Malformed input yields an empty
// report.
func ParseLintReport(data []byte) LintReport {
	var report LintReport

	var raw []lintFileResult
	if err := json.Unmarshal(data, &raw); err != nil {
		return report
	}

	for _, file := range raw {
		for _, m := range file.Messages {
			issue := LintIssue{
				File:     file.FilePath,
				Line:     m.Line,
				Rule:     m.RuleID,
				Severity: LintSeverity(m.Severity),
				Message:  m.Message,
			}
			report.Issues = append(report.Issues, issue)
			switch issue.Severity {
			case SeverityError:
				report.ErrorCount++
			case SeverityWarning:
				report.WarningCount++
			}
		}
	}

	return report
}
