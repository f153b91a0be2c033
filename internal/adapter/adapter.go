// Package adapter is the contract surface offered to a test host: it wires
// discovery, command building and result parsing for PHPUnit projects.
package adapter

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"phpunitbridge/internal/config"
	"phpunitbridge/internal/discovery"
	"phpunitbridge/internal/metrics"
	"phpunitbridge/internal/pathmap"
	"phpunitbridge/internal/position"
	"phpunitbridge/internal/project"
	"phpunitbridge/internal/results"
	"phpunitbridge/internal/runspec"
)

// Name identifies the adapter to the host.
const Name = "phpunit"

const rootCacheSize = 512

// ErrNoProjectRoot is returned when a path lies outside any PHP project.
var ErrNoProjectRoot = errors.New("no project root found")

// Adapter holds read-only collaborators built once from Options.
type Adapter struct {
	logger     log.Logger
	metrics    *metrics.Metrics
	finder     *project.Finder
	discoverer *discovery.Discoverer
	builder    *runspec.Builder
	parser     *results.Parser
}

// New applies opts and builds the adapter. A nil logger uses the root
// logger; nil metrics record nothing.
func New(opts config.Options, logger log.Logger, m *metrics.Metrics) (*Adapter, error) {
	if logger == nil {
		logger = log.Root()
	}
	finder, err := project.NewFinder(rootCacheSize)
	if err != nil {
		return nil, fmt.Errorf("create root finder: %w", err)
	}
	discoverer, err := discovery.New(logger)
	if err != nil {
		return nil, fmt.Errorf("create discoverer: %w", err)
	}

	sources := pathmap.New("source", opts.SourcePathMap, logger)
	reports := pathmap.New("results", opts.ResultsPathMap, logger)

	a := &Adapter{
		logger:     logger,
		metrics:    m,
		finder:     finder,
		discoverer: discoverer,
		parser:     results.NewParser(sources, logger, m),
	}
	a.builder = runspec.NewBuilder(runspec.Config{
		Binary:     opts.Binary,
		Sources:    sources,
		Reports:    reports,
		RootFor:    func(path string) string { return finder.RootOr(path, "") },
		ExtraArgs:  opts.ExtraArgs,
		ResultsDir: opts.ResultsDir,
		Logger:     logger,
	})
	return a, nil
}

// Name returns the adapter name.
func (a *Adapter) Name() string {
	return Name
}

// Root returns the project root owning path.
func (a *Adapter) Root(path string) (string, bool) {
	return a.finder.Root(path)
}

// IsTestFile reports whether the host should discover path.
func (a *Adapter) IsTestFile(path string) bool {
	return discovery.IsTestFile(path)
}

// FilterDir reports whether the host should descend into a directory.
func (a *Adapter) FilterDir(name, relPath string) bool {
	return discovery.FilterDir(name, relPath)
}

// Discover returns the position tree of a test file.
func (a *Adapter) Discover(ctx context.Context, path string) (*position.Tree, error) {
	tree, err := a.discoverer.Discover(ctx, path)
	if err != nil {
		if errors.Is(err, discovery.ErrParseFailure) {
			a.metrics.RecordDiscoveryFailure()
		}
		return nil, err
	}
	tree.Walk(func(n *position.Node) bool {
		a.metrics.RecordPosition(string(n.Position().Kind))
		return true
	})
	return tree, nil
}

// BuildSpec returns the command running pos.
func (a *Adapter) BuildSpec(pos position.Position, tree *position.Tree) (runspec.RunSpec, error) {
	spec, err := a.builder.Build(pos, tree)
	if err != nil {
		return runspec.RunSpec{}, err
	}
	a.metrics.RecordSpec(string(pos.Kind))
	return spec, nil
}

// Results parses the report of a finished run. It never fails; an
// unreadable report yields an empty map.
func (a *Adapter) Results(rc runspec.RunContext, rawOutput string, tree *position.Tree) map[string]results.TestResult {
	return a.parser.Parse(rc, rawOutput, tree)
}

// ReadResults is Results with the stage error kept, for diagnostics.
func (a *Adapter) ReadResults(rc runspec.RunContext, tree *position.Tree) (map[string]results.TestResult, error) {
	return a.parser.Read(rc, tree)
}

// SuitePosition returns the dir position running the whole suite of the
// project owning path.
func (a *Adapter) SuitePosition(path string) (position.Position, error) {
	root, ok := a.finder.Root(path)
	if !ok {
		return position.Position{}, fmt.Errorf("%w for %s", ErrNoProjectRoot, path)
	}
	return position.NewDir(root), nil
}

// DirPosition returns the dir position running every test below dir.
func (a *Adapter) DirPosition(dir string) position.Position {
	return position.NewDir(dir)
}

// Close releases parser resources.
func (a *Adapter) Close() {
	a.discoverer.Close()
}
