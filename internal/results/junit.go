package results

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

type junitSuite struct {
	XMLName xml.Name
	Name    string       `xml:"name,attr"`
	File    string       `xml:"file,attr"`
	Tests   string       `xml:"tests,attr"`
	Suites  []junitSuite `xml:"testsuite"`
	Cases   []junitCase  `xml:"testcase"`
}

type junitCase struct {
	Name      string         `xml:"name,attr"`
	Class     string         `xml:"class,attr"`
	ClassName string         `xml:"classname,attr"`
	File      string         `xml:"file,attr"`
	Line      string         `xml:"line,attr"`
	Failures  []junitProblem `xml:"failure"`
	Errors    []junitProblem `xml:"error"`
	Skipped   *junitProblem  `xml:"skipped"`
}

type junitProblem struct {
	Type    string `xml:"type,attr"`
	Message string `xml:"message,attr"`
	Body    string `xml:",chardata"`
}

// testCase is a junitCase with the file inherited from its suites.
type testCase struct {
	junitCase
	suiteFile string
}

func (c testCase) file() string {
	if c.File != "" {
		return c.File
	}
	return c.suiteFile
}

func (c testCase) className() string {
	if c.Class != "" {
		return c.Class
	}
	return c.ClassName
}

func (c testCase) line() int {
	n, err := strconv.Atoi(strings.TrimSpace(c.Line))
	if err != nil || n < 1 {
		return -1
	}
	return n - 1
}

func decodeReport(data []byte) (*junitSuite, error) {
	var root junitSuite
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReportMalformed, err)
	}
	return &root, nil
}

// collectCases flattens every testcase in document order. The second
// result is true when the report declares that it ran no tests.
func collectCases(root *junitSuite) ([]testCase, bool, error) {
	switch root.XMLName.Local {
	case "testsuites", "testsuite":
	default:
		return nil, false, fmt.Errorf("%w: root element <%s>", ErrReportShapeUnexpected, root.XMLName.Local)
	}

	var cases []testCase
	var walk func(s *junitSuite, file string)
	walk = func(s *junitSuite, file string) {
		if s.File != "" {
			file = s.File
		}
		for _, c := range s.Cases {
			cases = append(cases, testCase{junitCase: c, suiteFile: file})
		}
		for i := range s.Suites {
			walk(&s.Suites[i], file)
		}
	}
	walk(root, "")

	if len(cases) > 0 {
		return cases, false, nil
	}
	if declaresZero(root) {
		return nil, true, nil
	}
	return nil, false, fmt.Errorf("%w: no testcase elements", ErrReportShapeUnexpected)
}

func declaresZero(root *junitSuite) bool {
	if strings.TrimSpace(root.Tests) != "" {
		return strings.TrimSpace(root.Tests) == "0"
	}
	if len(root.Suites) == 0 {
		return false
	}
	for i := range root.Suites {
		if strings.TrimSpace(root.Suites[i].Tests) != "0" {
			return false
		}
	}
	return true
}
