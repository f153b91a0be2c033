package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/term"

	"phpunitbridge/internal/position"
	"phpunitbridge/internal/results"
)

// isTerminal inspects a writer for TTY support.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if file, ok := w.(*os.File); ok {
		return term.IsTerminal(int(file.Fd()))
	}
	if fder, ok := w.(interface{ Fd() uintptr }); ok {
		return term.IsTerminal(int(fder.Fd()))
	}
	return false
}

type palette struct {
	r *lipgloss.Renderer
}

func newPalette(w io.Writer) palette {
	return palette{r: lipgloss.NewRenderer(w)}
}

func (p palette) color(s string, c lipgloss.Color) string {
	return p.r.NewStyle().Foreground(c).Render(s)
}

func (p palette) kind(k position.Kind) string {
	switch k {
	case position.KindNamespace:
		return p.color(string(k), lipgloss.Color("39"))
	case position.KindTest:
		return p.color(string(k), lipgloss.Color("42"))
	default:
		return p.color(string(k), lipgloss.Color("244"))
	}
}

func (p palette) status(s results.Status) string {
	switch s {
	case results.StatusPassed:
		return p.color(string(s), lipgloss.Color("42"))
	case results.StatusFailed:
		return p.color(string(s), lipgloss.Color("196"))
	default:
		return p.color(string(s), lipgloss.Color("220"))
	}
}

// renderTree prints one line per node, indented by depth, with 1-based
// start lines.
func renderTree(w io.Writer, tree *position.Tree) {
	p := newPalette(w)
	var walk func(n *position.Node, depth int)
	walk = func(n *position.Node, depth int) {
		pos := n.Position()
		fmt.Fprintf(w, "%s%s %s :%d\n", strings.Repeat("  ", depth), p.kind(pos.Kind), pos.Name, pos.Range.StartLine+1)
		for _, child := range n.Children() {
			walk(child, depth+1)
		}
	}
	walk(tree.Root(), 0)
}

type summary struct {
	passed, failed, skipped int
}

func summarize(res map[string]results.TestResult) summary {
	var s summary
	for _, r := range res {
		switch r.Status {
		case results.StatusPassed:
			s.passed++
		case results.StatusFailed:
			s.failed++
		case results.StatusSkipped:
			s.skipped++
		}
	}
	return s
}

func (s summary) String() string {
	return fmt.Sprintf("%d passed, %d failed, %d skipped", s.passed, s.failed, s.skipped)
}

// renderResults prints a results table sorted by id.
func renderResults(w io.Writer, res map[string]results.TestResult) {
	ids := make([]string, 0, len(res))
	for id := range res {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	p := newPalette(w)
	t := table.NewWriter()
	t.SetOutputMirror(w)
	if isTerminal(w) {
		t.SetStyle(table.StyleRounded)
	} else {
		t.SetStyle(table.StyleLight)
	}
	t.AppendHeader(table.Row{"Status", "Test", "Message"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Test", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Message", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
	})
	for _, id := range ids {
		r := res[id]
		t.AppendRow(table.Row{p.status(r.Status), id, r.ShortMessage})
	}
	t.AppendFooter(table.Row{"", summarize(res).String(), ""})
	t.Render()
}
