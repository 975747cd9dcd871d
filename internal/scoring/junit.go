package scoring

import (
	"encoding/xml"
	"strconv"
	"strings"
)

type junitTestSuites struct {
	XMLName xml.Name         `xml:"testsuites"`
	Suites  []junitTestSuite `xml:"testsuite"`
}

type junitTestSuite struct {
	Name  string          `xml:"name,attr"`
	Cases []junitTestCase `xml:"testcase"`
}

type junitTestCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	File      string        `xml:"file,attr"`
	Time      string        `xml:"time,attr"`
	Failure   *junitOutcome `xml:"failure"`
	Error     *junitOutcome `xml:"error"`
	Skipped   *junitOutcome `xml:"skipped"`
}

type junitOutcome struct {
	Message string `xml:"message,attr"`
	Body    string `xml:",chardata"`
}

// ParseJUnitXML parses a JUnit-style XML report. Both a <testsuites> root
// and a bare <testsuite> root are accepted. Malformed input yields an empty
// result, never an error.
func ParseJUnitXML(data []byte) TestResults {
	var results TestResults

	var root junitTestSuites
	if err := xml.Unmarshal(data, &root); err != nil {
		var single junitTestSuite
		if err := xml.Unmarshal(data, &single); err != nil {
			return results
		}
		root.Suites = []junitTestSuite{single}
	}

	for _, js := range root.Suites {
		suite := TestSuite{Name: js.Name}
		for _, jc := range js.Cases {
			tc := TestCase{
				Name:      jc.Name,
				ClassName: jc.ClassName,
				File:      jc.File,
				Status:    StatusPassed,
			}
			if secs, err := strconv.ParseFloat(jc.Time, 64); err == nil {
				tc.DurationMs = secs * 1000
			}
			switch {
			case jc.Error != nil:
				tc.Status = StatusError
				tc.Message = outcomeMessage(jc.Error)
			case jc.Failure != nil:
				tc.Status = StatusFailed
				tc.Message = outcomeMessage(jc.Failure)
			case jc.Skipped != nil:
				tc.Status = StatusSkipped
				tc.Message = outcomeMessage(jc.Skipped)
			}
			suite.Tests = append(suite.Tests, tc)
		}
		results.Suites = append(results.Suites, suite)
	}

	results.recount()
	return results
}

func outcomeMessage(o *junitOutcome) string {
	if o.Message != "" {
		return o.Message
	}
	return strings.TrimSpace(o.Body)
}
