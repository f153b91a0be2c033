package adapter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/log"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"phpunitbridge/internal/config"
	"phpunitbridge/internal/discovery"
	"phpunitbridge/internal/metrics"
	"phpunitbridge/internal/pathmap"
	"phpunitbridge/internal/position"
	"phpunitbridge/internal/results"
	"phpunitbridge/internal/runspec"
	"phpunitbridge/internal/testutil"
)

const fooTest = `<?php

use PHPUnit\Framework\TestCase;

class FooTest extends TestCase
{
    public function testBar(): void
    {
        $this->assertTrue(true);
    }

    public function testBaz(): void
    {
        $this->assertTrue(false, 'assertion failed');
    }

    /** @test */
    public function helperMethod(): void
    {
        $this->markTestSkipped();
    }
}
`

type fixture struct {
	root    string
	test    string
	reports string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	root := testutil.Project(t, map[string]string{"tests/FooTest.php": fooTest})
	return fixture{root: root, test: filepath.Join(root, "tests", "FooTest.php"), reports: t.TempDir()}
}

func newAdapter(t *testing.T, opts config.Options, m *metrics.Metrics) *Adapter {
	t.Helper()
	a, err := New(opts, log.NewLogger(log.DiscardHandler()), m)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestAdapterRoundTrip(t *testing.T) {
	fx := newFixture(t)
	m := metrics.New()
	a := newAdapter(t, config.Options{
		SourcePathMap: pathmap.Static{Native: fx.root, Remote: "/var/www"},
		ResultsDir:    fx.reports,
	}, m)

	assert.Equal(t, "phpunit", a.Name())
	assert.True(t, a.IsTestFile(fx.test))

	tree, err := a.Discover(testutil.Context(t), fx.test)
	require.NoError(t, err)
	require.Len(t, tree.Tests(), 3)

	node, ok := tree.FindTest("FooTest", "testBar")
	require.True(t, ok)
	spec, err := a.BuildSpec(node.Position(), tree)
	require.NoError(t, err)

	assert.Equal(t, fx.root, spec.Dir)
	assert.Equal(t, "/var/www/tests/FooTest.php", spec.Command[1])
	assert.Equal(t, []string{"--filter", "testBar"}, spec.Command[len(spec.Command)-2:])
	assert.Equal(t, fx.reports, filepath.Dir(spec.Context.ResultsPath))

	report := fmt.Sprintf(`<testsuites>
  <testsuite name="FooTest" file="/var/www/tests/FooTest.php" tests="3">
    <testcase name="testBar" class="FooTest" file="/var/www/tests/FooTest.php" line="7"/>
    <testcase name="testBaz" class="FooTest" file="/var/www/tests/FooTest.php" line="12">
      <failure>FooTest::testBaz
assertion failed

%s:14</failure>
    </testcase>
    <testcase name="helperMethod" class="FooTest" file="/var/www/tests/FooTest.php" line="18"><skipped/></testcase>
  </testsuite>
</testsuites>`, "/var/www/tests/FooTest.php")
	require.NoError(t, os.WriteFile(spec.Context.ResultsPath, []byte(report), 0o644))

	got := a.Results(spec.Context, "", tree)
	require.Len(t, got, 3)
	for _, pos := range tree.Tests() {
		assert.Contains(t, got, pos.ID)
	}
	baz, _ := tree.FindTest("FooTest", "testBaz")
	assert.Equal(t, results.StatusFailed, got[baz.Position().ID].Status)
	assert.Equal(t, "assertion failed", got[baz.Position().ID].ShortMessage)
	assert.Equal(t, 13, got[baz.Position().ID].Errors[0].Line)

	kinds, err := promtest.GatherAndCount(m.Registry(), "phpunitbridge_discovered_positions_total")
	require.NoError(t, err)
	assert.Equal(t, 3, kinds, "file, namespace and test series")
	specs, err := promtest.GatherAndCount(m.Registry(), "phpunitbridge_run_specs_total")
	require.NoError(t, err)
	assert.Equal(t, 1, specs)
}

func TestAdapterMissingReport(t *testing.T) {
	a := newAdapter(t, config.Options{}, nil)
	rc := runspec.RunContext{ResultsPath: filepath.Join(t.TempDir(), "missing.xml")}

	got := a.Results(rc, "PHP Fatal error", nil)
	assert.Empty(t, got)

	_, err := a.ReadResults(rc, nil)
	assert.True(t, errors.Is(err, results.ErrReportUnavailable))
}

func TestAdapterDiscoverFailureIsCounted(t *testing.T) {
	fx := newFixture(t)
	broken := filepath.Join(fx.root, "tests", "BrokenTest.php")
	require.NoError(t, os.WriteFile(broken, []byte("<?php\nclass BrokenTest {\n  public function testX( {\n"), 0o644))

	m := metrics.New()
	a := newAdapter(t, config.Options{}, m)

	_, err := a.Discover(testutil.Context(t), broken)
	require.Error(t, err)
	assert.True(t, errors.Is(err, discovery.ErrParseFailure))

	const want = `
# HELP phpunitbridge_discovery_failures_total Files that could not be parsed
# TYPE phpunitbridge_discovery_failures_total counter
phpunitbridge_discovery_failures_total 1
`
	require.NoError(t, promtest.GatherAndCompare(m.Registry(), strings.NewReader(want), "phpunitbridge_discovery_failures_total"))
}

func TestAdapterSuitePosition(t *testing.T) {
	fx := newFixture(t)
	a := newAdapter(t, config.Options{
		Binary:     runspec.StaticBinary{"php", "vendor/bin/phpunit"},
		ExtraArgs:  []string{"--colors=never"},
		ResultsDir: fx.reports,
	}, nil)

	root, ok := a.Root(fx.test)
	require.True(t, ok)
	assert.Equal(t, fx.root, root)

	suite, err := a.SuitePosition(fx.test)
	require.NoError(t, err)
	assert.Equal(t, position.KindDir, suite.Kind)

	spec, err := a.BuildSpec(suite, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"php", "vendor/bin/phpunit", "--colors=never"}, spec.Command[:3])
	assert.True(t, strings.HasPrefix(spec.Command[3], runspec.LogJUnitFlag+"="))
	assert.Len(t, spec.Command, 4)

	dir := a.DirPosition(filepath.Join(fx.root, "tests"))
	spec, err = a.BuildSpec(dir, nil)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(fx.root, "tests"), spec.Command[2])
}

func TestAdapterFilterDir(t *testing.T) {
	a := newAdapter(t, config.Options{}, nil)
	assert.True(t, a.FilterDir("tests", "tests"))
	assert.False(t, a.FilterDir("vendor", "vendor"))
	assert.False(t, a.FilterDir(".git", ".git"))
}
