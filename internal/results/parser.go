package results

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/acarl005/stripansi"
	"github.com/ethereum/go-ethereum/log"

	"phpunitbridge/internal/discovery"
	"phpunitbridge/internal/metrics"
	"phpunitbridge/internal/pathmap"
	"phpunitbridge/internal/position"
	"phpunitbridge/internal/runspec"
)

const (
	shortMessageLimit = 120
	outputTailLines   = 20
)

var (
	dataSetSuffix = regexp.MustCompile(`\s+with data set\s.*$`)
	frameLine     = regexp.MustCompile(`^(.+):(\d+)$`)
)

// Parser reads the report named by a RunContext.
type Parser struct {
	sources  *pathmap.Mapper
	logger   log.Logger
	metrics  *metrics.Metrics
	readFile func(string) ([]byte, error)
}

// NewParser returns a Parser translating report paths with sources. A nil
// mapper is identity; nil metrics record nothing.
func NewParser(sources *pathmap.Mapper, logger log.Logger, m *metrics.Metrics) *Parser {
	if logger == nil {
		logger = log.Root()
	}
	if sources == nil {
		sources = pathmap.New("source", nil, logger)
	}
	return &Parser{sources: sources, logger: logger, metrics: m, readFile: os.ReadFile}
}

// Parse returns results keyed by position id. A report that cannot be
// read or understood yields an empty map; the failure is logged together
// with the tail of the tool's output.
func (p *Parser) Parse(rc runspec.RunContext, rawOutput string, tree *position.Tree) map[string]TestResult {
	out, err := p.Read(rc, tree)
	if err != nil {
		reason := failureReason(err)
		p.metrics.RecordReportFailure(reason)
		p.logger.Warn("Failed to read test report", "path", rc.ResultsPath, "reason", reason, "err", err, "output", outputTail(rawOutput))
		return map[string]TestResult{}
	}
	return out
}

// Read is Parse without the error collapsing. Errors wrap one of
// ErrReportUnavailable, ErrReportMalformed or ErrReportShapeUnexpected.
func (p *Parser) Read(rc runspec.RunContext, tree *position.Tree) (map[string]TestResult, error) {
	data, err := p.readFile(rc.ResultsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReportUnavailable, err)
	}
	return p.ParseReport(data, tree)
}

// ParseReport converts report bytes into results.
func (p *Parser) ParseReport(data []byte, tree *position.Tree) (map[string]TestResult, error) {
	root, err := decodeReport(data)
	if err != nil {
		return nil, err
	}
	cases, empty, err := collectCases(root)
	if err != nil {
		return nil, err
	}
	out := make(map[string]TestResult, len(cases))
	if empty {
		p.logger.Debug("Test report declares no tests")
		return out, nil
	}

	for _, c := range cases {
		id, ok := p.caseID(c, tree)
		if !ok {
			p.logger.Debug("Skipping unmatched test case", "class", c.className(), "name", c.Name)
			continue
		}
		result := caseResult(c)
		if prev, seen := out[id]; seen {
			result = merge(prev, result)
		}
		out[id] = result
	}
	for _, r := range out {
		p.metrics.RecordResult(string(r.Status))
	}
	return out, nil
}

func (p *Parser) caseID(c testCase, tree *position.Tree) (string, bool) {
	class := shortClass(c.className())
	method := methodName(c.Name)
	if method == "" {
		return "", false
	}
	if !discovery.IsTestClass(class) {
		class = ""
	}
	if file := c.file(); file != "" {
		return position.ID(p.sources.RemoteToLocal(file), class, method), true
	}
	if tree == nil {
		return "", false
	}
	node, ok := tree.FindTest(class, method)
	if !ok {
		return "", false
	}
	return node.Position().ID, true
}

func caseResult(c testCase) TestResult {
	problems := append(append([]junitProblem(nil), c.Failures...), c.Errors...)
	if len(problems) > 0 {
		result := TestResult{Status: StatusFailed}
		for _, pr := range problems {
			msg := problemMessage(pr, c)
			result.Errors = append(result.Errors, TestError{Message: msg, Line: errorLine(pr.Body, c)})
			if result.ShortMessage == "" {
				result.ShortMessage = shorten(msg)
			}
		}
		return result
	}
	if c.Skipped != nil {
		return TestResult{Status: StatusSkipped, ShortMessage: shorten(problemMessage(*c.Skipped, c))}
	}
	return TestResult{Status: StatusPassed}
}

// merge folds a data-provider row into the result already stored for its
// method.
func merge(prev, next TestResult) TestResult {
	out := prev
	if next.Status.rank() > prev.Status.rank() {
		out.Status = next.Status
		out.ShortMessage = next.ShortMessage
	}
	if out.ShortMessage == "" {
		out.ShortMessage = next.ShortMessage
	}
	out.Errors = append(append([]TestError(nil), prev.Errors...), next.Errors...)
	return out
}

func problemMessage(pr junitProblem, c testCase) string {
	if msg := strings.TrimSpace(pr.Message); msg != "" {
		return msg
	}
	lines := strings.Split(strings.TrimSpace(pr.Body), "\n")
	if len(lines) > 0 && isCaseHeader(lines[0], c) {
		lines = lines[1:]
	}
	for len(lines) > 0 {
		last := strings.TrimSpace(lines[len(lines)-1])
		if last != "" && !frameLine.MatchString(last) {
			break
		}
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func isCaseHeader(line string, c testCase) bool {
	line = strings.TrimSpace(line)
	return strings.Contains(line, "::"+methodName(c.Name))
}

// errorLine prefers the last stack frame pointing into the test's own
// file, then the test case line.
func errorLine(body string, c testCase) int {
	file := c.file()
	lines := strings.Split(strings.TrimSpace(body), "\n")
	for i := len(lines) - 1; i >= 0 && file != ""; i-- {
		m := frameLine.FindStringSubmatch(strings.TrimSpace(lines[i]))
		if m == nil || m[1] != file {
			continue
		}
		if n, err := strconv.Atoi(m[2]); err == nil && n > 0 {
			return n - 1
		}
	}
	return c.line()
}

func shortClass(class string) string {
	class = strings.TrimSpace(class)
	if i := strings.LastIndexAny(class, `\.`); i >= 0 {
		return class[i+1:]
	}
	return class
}

func methodName(name string) string {
	return strings.TrimSpace(dataSetSuffix.ReplaceAllString(name, ""))
}

func shorten(msg string) string {
	first, _, _ := strings.Cut(msg, "\n")
	first = strings.TrimSpace(first)
	if r := []rune(first); len(r) > shortMessageLimit {
		return string(r[:shortMessageLimit-3]) + "..."
	}
	return first
}

func outputTail(raw string) string {
	clean := strings.TrimRight(stripansi.Strip(raw), "\n")
	if clean == "" {
		return ""
	}
	lines := strings.Split(clean, "\n")
	if len(lines) > outputTailLines {
		lines = lines[len(lines)-outputTailLines:]
	}
	return strings.Join(lines, "\n")
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrReportUnavailable):
		return metrics.ReasonUnavailable
	case errors.Is(err, ErrReportMalformed):
		return metrics.ReasonMalformed
	default:
		return metrics.ReasonShape
	}
}
