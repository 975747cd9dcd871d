package scoring

import "encoding/json"

type coverageMetric struct {
	Pct float64 `json:"pct"`
}

type coverageEntry struct {
	Lines      coverageMetric `json:"lines"`
	Branches   coverageMetric `json:"branches"`
	Functions  coverageMetric `json:"functions"`
	Statements coverageMetric `json:"statements"`
}

// ParseCoverageReport parses an istanbul-style coverage summary: a JSON
// object keyed by file path plus a "total" aggregate entry. Malformed input
// yields an empty report.
func ParseCoverageReport(data []byte) CoverageReport {
	report := CoverageReport{Files: make(map[string]FileCoverage)}

	var raw map[string]coverageEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		return report
	}

	for path, entry := range raw {
		cov := FileCoverage{
			Lines:      entry.Lines.Pct,
			Branches:   entry.Branches.Pct,
			Functions:  entry.Functions.Pct,
			Statements: entry.Statements.Pct,
		}
		if path == "total" {
			report.Total = cov
			continue
		}
		report.Files[path] = cov
	}

	return report
}
