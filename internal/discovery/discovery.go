// Package discovery finds PHPUnit test classes and methods in PHP sources
// and arranges them into a position tree.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"

	"github.com/ethereum/go-ethereum/log"
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"

	"phpunitbridge/internal/position"
)

// testAttribute matches a Test attribute inside a PHP 8 attribute list,
// short or fully qualified, alone or next to other attributes.
var testAttribute = regexp.MustCompile(`(?:#\[|,|\\)\s*Test\s*[\](,]`)

var errSyntax = errors.New("syntax error")

type rule struct {
	name  string
	query *sitter.Query
}

// Discoverer runs the discovery queries against PHP files. It is safe for
// concurrent use; each call gets its own parser and cursors.
type Discoverer struct {
	lang     *sitter.Language
	rules    []rule
	readFile func(string) ([]byte, error)
	logger   log.Logger
}

// Option customizes a Discoverer.
type Option func(*Discoverer)

// WithReadFile replaces the filesystem read used by Discover.
func WithReadFile(fn func(string) ([]byte, error)) Option {
	return func(d *Discoverer) {
		if fn != nil {
			d.readFile = fn
		}
	}
}

// New compiles the discovery queries.
func New(logger log.Logger, opts ...Option) (*Discoverer, error) {
	if logger == nil {
		logger = log.Root()
	}
	lang := php.GetLanguage()
	d := &Discoverer{
		lang:     lang,
		readFile: os.ReadFile,
		logger:   logger,
	}
	for _, q := range ruleQueries {
		query, err := sitter.NewQuery([]byte(q.query), lang)
		if err != nil {
			d.Close()
			return nil, fmt.Errorf("compile %s query: %w", q.name, err)
		}
		d.rules = append(d.rules, rule{name: q.name, query: query})
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Close releases the compiled queries.
func (d *Discoverer) Close() {
	for _, r := range d.rules {
		r.query.Close()
	}
	d.rules = nil
}

// Discover reads path and returns its test tree.
func (d *Discoverer) Discover(ctx context.Context, path string) (*position.Tree, error) {
	src, err := d.readFile(path)
	if err != nil {
		return nil, &ParseError{Path: path, Line: -1, Err: err}
	}
	return d.DiscoverSource(ctx, path, src)
}

// declaration is a matched class or method.
type declaration struct {
	kind  position.Kind
	name  string
	rng   position.Range
	start uint32
	end   uint32
}

// DiscoverSource builds the test tree for already loaded source.
func (d *Discoverer) DiscoverSource(ctx context.Context, path string, src []byte) (*position.Tree, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(d.lang)

	syntax, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, &ParseError{Path: path, Line: -1, Err: err}
	}
	defer syntax.Close()

	root := syntax.RootNode()
	if root.HasError() {
		return nil, &ParseError{Path: path, Line: firstErrorLine(root), Err: errSyntax}
	}

	decls, err := d.collect(ctx, root, src)
	if err != nil {
		return nil, err
	}

	tree := position.NewTree(position.NewFile(path, nodeRange(root)))
	var (
		classes   []declaration
		classNode = map[uint32]*position.Node{}
	)
	for _, decl := range decls {
		switch decl.kind {
		case position.KindNamespace:
			node := tree.Add(nil, position.Position{
				ID:    position.ID(path, decl.name),
				Kind:  position.KindNamespace,
				Name:  decl.name,
				Path:  tree.Root().Position().Path,
				Range: decl.rng,
			})
			classes = append(classes, decl)
			classNode[decl.start] = node
		case position.KindTest:
			var parent *position.Node
			className := ""
			for i := len(classes) - 1; i >= 0; i-- {
				if classes[i].start <= decl.start && decl.end <= classes[i].end {
					parent = classNode[classes[i].start]
					className = classes[i].name
					break
				}
			}
			tree.Add(parent, position.Position{
				ID:    position.ID(path, className, decl.name),
				Kind:  position.KindTest,
				Name:  decl.name,
				Path:  tree.Root().Position().Path,
				Range: decl.rng,
			})
		}
	}

	d.logger.Debug("Discovered positions", "path", path, "positions", tree.Len())
	return tree, nil
}

// collect runs every rule and returns the matched declarations in source
// order, one per definition node.
func (d *Discoverer) collect(ctx context.Context, root *sitter.Node, src []byte) ([]declaration, error) {
	seen := map[uint32]declaration{}
	for _, r := range d.rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cursor := sitter.NewQueryCursor()
		cursor.Exec(r.query, root)
		for {
			match, ok := cursor.NextMatch()
			if !ok {
				break
			}
			match = cursor.FilterPredicates(match, src)
			if len(match.Captures) == 0 {
				continue
			}
			decl, ok := r.declaration(match, src)
			if !ok {
				continue
			}
			if _, dup := seen[decl.start]; !dup {
				seen[decl.start] = decl
			}
		}
		cursor.Close()
	}

	decls := make([]declaration, 0, len(seen))
	for _, decl := range seen {
		decls = append(decls, decl)
	}
	sort.Slice(decls, func(i, j int) bool {
		return decls[i].start < decls[j].start
	})
	return decls, nil
}

func (r rule) declaration(match *sitter.QueryMatch, src []byte) (declaration, bool) {
	var name, def, attrs *sitter.Node
	kind := position.KindTest
	for _, capture := range match.Captures {
		switch r.query.CaptureNameForId(capture.Index) {
		case captureNamespaceName:
			name = capture.Node
			kind = position.KindNamespace
		case captureNamespaceDef:
			def = capture.Node
		case captureTestName:
			name = capture.Node
		case captureTestDef:
			def = capture.Node
		case captureTestAttrs:
			attrs = capture.Node
		}
	}
	if name == nil || def == nil {
		return declaration{}, false
	}
	if attrs != nil && !testAttribute.MatchString(attrs.Content(src)) {
		return declaration{}, false
	}
	return declaration{
		kind:  kind,
		name:  name.Content(src),
		rng:   nodeRange(def),
		start: def.StartByte(),
		end:   def.EndByte(),
	}, true
}

func nodeRange(n *sitter.Node) position.Range {
	start, end := n.StartPoint(), n.EndPoint()
	return position.Range{
		StartLine:   int(start.Row),
		StartColumn: int(start.Column),
		EndLine:     int(end.Row),
		EndColumn:   int(end.Column),
	}
}

// firstErrorLine returns the row of the first ERROR or missing node.
func firstErrorLine(n *sitter.Node) int {
	if n.Type() == "ERROR" || n.IsMissing() {
		return int(n.StartPoint().Row)
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}
		if line := firstErrorLine(child); line >= 0 {
			return line
		}
	}
	return -1
}
