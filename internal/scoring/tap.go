package scoring

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

var tapResultRegex = regexp.MustCompile(`^(ok|not ok)(?:\s+(\d+))?(?:\s+-?\s*(.*))?$`)

// ParseTAP parses a Test Anything Protocol stream. Lines that do not look
// like TAP results are skipped, so malformed input degrades to an empty
// result rather than failing.
func ParseTAP(data []byte) TestResults {
	var results TestResults
	suite := TestSuite{Name: "tap"}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		m := tapResultRegex.FindStringSubmatch(line)
		if m == nil {
			continue
		}

		description := m[3]
		directive := ""
		if idx := strings.Index(description, "#"); idx >= 0 {
			directive = strings.ToUpper(strings.TrimSpace(description[idx+1:]))
			description = strings.TrimSpace(description[:idx])
		}

		tc := TestCase{Name: description}
		switch {
		case strings.HasPrefix(directive, "SKIP"), strings.HasPrefix(directive, "TODO"):
			tc.Status = StatusSkipped
		case m[1] == "ok":
			tc.Status = StatusPassed
		default:
			tc.Status = StatusFailed
		}
		suite.Tests = append(suite.Tests, tc)
	}

	if len(suite.Tests) > 0 {
		results.Suites = []TestSuite{suite}
	}
	results.recount()
	return results
}
