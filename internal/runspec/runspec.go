// Package runspec turns a selected position into a PHPUnit command line.
package runspec

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"phpunitbridge/internal/pathmap"
	"phpunitbridge/internal/position"
)

// Flags understood by PHPUnit.
const (
	LogJUnitFlag = "--log-junit"
	FilterFlag   = "--filter"
)

// RunContext travels with a command so results can be read afterwards.
type RunContext struct {
	// ResultsPath is the local path the JUnit report will appear at.
	ResultsPath string            `json:"results_path"`
	Position    position.Position `json:"position"`
}

// RunSpec is a command plus the context needed to read its results.
type RunSpec struct {
	Command []string   `json:"command"`
	Dir     string     `json:"dir,omitempty"`
	Context RunContext `json:"context"`
}

// Builder builds RunSpecs. Collaborators are injected at construction.
type Builder struct {
	binary     BinaryResolver
	sources    *pathmap.Mapper
	reports    *pathmap.Mapper
	rootFor    func(path string) string
	extraArgs  []string
	resultsDir string
	newName    func() string
	logger     log.Logger
}

// Config carries the Builder's collaborators; zero values select defaults.
type Config struct {
	Binary      BinaryResolver
	Sources     *pathmap.Mapper
	Reports     *pathmap.Mapper
	RootFor     func(path string) string
	ExtraArgs   []string
	ResultsDir  string
	ReportNamer func() string
	Logger      log.Logger
}

// NewBuilder returns a Builder.
func NewBuilder(cfg Config) *Builder {
	b := &Builder{
		binary:     cfg.Binary,
		sources:    cfg.Sources,
		reports:    cfg.Reports,
		rootFor:    cfg.RootFor,
		extraArgs:  append([]string(nil), cfg.ExtraArgs...),
		resultsDir: cfg.ResultsDir,
		newName:    cfg.ReportNamer,
		logger:     cfg.Logger,
	}
	if b.logger == nil {
		b.logger = log.Root()
	}
	if b.binary == nil {
		b.binary = VendorBinary{}
	}
	if b.sources == nil {
		b.sources = pathmap.New("source", nil, b.logger)
	}
	if b.reports == nil {
		b.reports = pathmap.New("results", nil, b.logger)
	}
	if b.rootFor == nil {
		b.rootFor = func(string) string { return "" }
	}
	if b.resultsDir == "" {
		b.resultsDir = os.TempDir()
	}
	if b.newName == nil {
		b.newName = func() string { return "phpunit-" + uuid.NewString() + ".xml" }
	}
	return b
}

// Build returns the command that runs pos. The tree is the one pos was
// selected from; a nil tree is accepted for directory runs.
func (b *Builder) Build(pos position.Position, tree *position.Tree) (RunSpec, error) {
	if pos.Path == "" {
		return RunSpec{}, errors.New("position has no path")
	}
	if tree != nil {
		if _, ok := tree.Get(pos.ID); !ok {
			return RunSpec{}, fmt.Errorf("position %q is not part of the tree", pos.ID)
		}
	}

	root := b.rootFor(pos.Path)
	binary, err := b.binary.Resolve(root)
	if err != nil {
		return RunSpec{}, fmt.Errorf("resolve phpunit binary: %w", err)
	}
	if len(binary) == 0 {
		return RunSpec{}, errors.New("resolve phpunit binary: empty command")
	}

	command := append([]string(nil), binary...)
	if !isSuiteRoot(pos, root) {
		command = append(command, b.sources.LocalToRemote(pos.Path))
	}
	command = append(command, b.extraArgs...)

	resultsPath := filepath.Join(b.resultsDir, b.newName())
	command = append(command, LogJUnitFlag+"="+b.reports.LocalToRemote(resultsPath))

	if pos.Kind == position.KindTest {
		command = append(command, FilterFlag, pos.Name)
	}

	b.logger.Debug("Built run spec", "id", pos.ID, "kind", pos.Kind, "results", resultsPath)
	return RunSpec{
		Command: command,
		Dir:     root,
		Context: RunContext{
			ResultsPath: resultsPath,
			Position:    pos,
		},
	}, nil
}

// isSuiteRoot reports whether pos stands for the whole project suite, in
// which case PHPUnit is left to read its own configuration.
func isSuiteRoot(pos position.Position, root string) bool {
	if pos.Kind != position.KindDir {
		return false
	}
	return root != "" && filepath.Clean(pos.Path) == filepath.Clean(root)
}
