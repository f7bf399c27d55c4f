// Package browser is a read-only terminal tree browser for catalogs.
package browser

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/textinput"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/tui/theme"
)

// Source resolves catalogs.
type Source interface {
	Catalogs() []string
	Sync(catalogID string) (*frontend.Sync, error)
}

type treeLoadedMsg struct {
	catalog string
	query   string
	nodes   []*frontend.Node
	err     error
}

type row struct {
	node  *frontend.Node
	depth int
}

// Model browses the trees of every catalog of a Source.
type Model struct {
	src      Source
	catalogs []string
	current  int

	roots    []*frontend.Node
	expanded map[string]bool
	rows     []row
	cursor   int
	offset   int

	// query filters the tree to search hits and their ancestors.
	input     textinput.Model
	searching bool
	query     string

	width  int
	height int
	status string
	err    error
	theme  theme.Theme
}

// New returns a browser starting at catalog start, or the first catalog.
func New(src Source, start string) *Model {
	ti := textinput.New()
	ti.Placeholder = "search"
	ti.CharLimit = 128
	ti.Prompt = "/"

	m := &Model{
		src:      src,
		catalogs: src.Catalogs(),
		expanded: make(map[string]bool),
		input:    ti,
		theme:    theme.Default(),
		status:   "loading…",
	}
	for i, id := range m.catalogs {
		if id == start {
			m.current = i
		}
	}
	return m
}

// Run launches the Bubble Tea program.
func Run(src Source, start string) error {
	p := tea.NewProgram(New(src, start), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.load()
}

func (m *Model) catalog() string {
	if len(m.catalogs) == 0 {
		return ""
	}
	return m.catalogs[m.current]
}

func (m *Model) load() tea.Cmd {
	id, query := m.catalog(), m.query
	src := m.src
	return func() tea.Msg {
		sync, err := src.Sync(id)
		if err != nil {
			return treeLoadedMsg{catalog: id, query: query, err: err}
		}
		var nodes []*frontend.Node
		if query == "" {
			nodes, err = sync.GetTree(context.Background())
		} else {
			nodes, err = sync.Search(context.Background(), query)
		}
		return treeLoadedMsg{catalog: id, query: query, nodes: nodes, err: err}
	}
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch v := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = v.Width
		m.height = v.Height
		m.scroll()
	case treeLoadedMsg:
		if v.catalog != m.catalog() || v.query != m.query {
			return m, nil
		}
		m.err = v.err
		if v.err != nil {
			m.status = v.err.Error()
			break
		}
		m.roots = v.nodes
		if v.query != "" {
			expandAll(m.expanded, v.nodes)
			m.status = fmt.Sprintf("%d matches for %q", countMarked(v.nodes), v.query)
		} else {
			m.status = fmt.Sprintf("%d nodes", countNodes(v.nodes))
		}
		m.flatten()
	case tea.KeyPressMsg:
		return m, m.handleKey(v)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	if m.searching {
		return m.handleSearchKey(msg)
	}
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit
	case "esc":
		if m.query != "" {
			m.query = ""
			m.expanded = make(map[string]bool)
			m.status = "loading…"
			return m.load()
		}
		return tea.Quit
	case "/":
		m.searching = true
		m.input.Reset()
		m.input.SetValue(m.query)
		m.input.CursorEnd()
		return tea.Batch(m.input.Focus(), textinput.Blink)
	case "up", "k":
		m.move(-1)
	case "down", "j":
		m.move(1)
	case "home", "g":
		m.cursor = 0
		m.scroll()
	case "end", "G":
		m.cursor = len(m.rows) - 1
		m.scroll()
	case "right", "l":
		m.setExpanded(true)
	case "left", "h":
		if n := m.selected(); n != nil && !m.expanded[n.ID] {
			m.selectParent()
			break
		}
		m.setExpanded(false)
	case "enter", "space", " ":
		if n := m.selected(); n != nil && n.Droppable {
			m.expanded[n.ID] = !m.expanded[n.ID]
			m.flatten()
		}
	case "tab":
		if len(m.catalogs) > 1 {
			m.current = (m.current + 1) % len(m.catalogs)
			m.reset()
			return m.load()
		}
	case "shift+tab":
		if len(m.catalogs) > 1 {
			m.current = (m.current + len(m.catalogs) - 1) % len(m.catalogs)
			m.reset()
			return m.load()
		}
	case "r":
		m.status = "reloading…"
		return m.load()
	}
	return nil
}

func (m *Model) handleSearchKey(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.query = strings.TrimSpace(m.input.Value())
		m.input.Blur()
		m.expanded = make(map[string]bool)
		m.status = "searching…"
		return m.load()
	case "esc", "ctrl+c":
		m.searching = false
		m.input.Reset()
		m.input.Blur()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) reset() {
	m.roots = nil
	m.rows = nil
	m.cursor = 0
	m.offset = 0
	m.expanded = make(map[string]bool)
	m.query = ""
	m.status = "loading…"
}

func (m *Model) move(delta int) {
	if len(m.rows) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	m.scroll()
}

func (m *Model) selected() *frontend.Node {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return nil
	}
	return m.rows[m.cursor].node
}

func (m *Model) setExpanded(open bool) {
	n := m.selected()
	if n == nil || !n.Droppable || m.expanded[n.ID] == open {
		return
	}
	m.expanded[n.ID] = open
	m.flatten()
}

func (m *Model) selectParent() {
	if m.cursor >= len(m.rows) {
		return
	}
	depth := m.rows[m.cursor].depth
	for i := m.cursor - 1; i >= 0; i-- {
		if m.rows[i].depth < depth {
			m.cursor = i
			m.scroll()
			return
		}
	}
}

// flatten rebuilds the visible rows, keeping the cursor on the same node
// when it is still visible.
func (m *Model) flatten() {
	var keep string
	if n := m.selected(); n != nil {
		keep = n.ID
	}
	m.rows = m.rows[:0]
	var walk func(nodes []*frontend.Node, depth int)
	walk = func(nodes []*frontend.Node, depth int) {
		for _, n := range nodes {
			m.rows = append(m.rows, row{node: n, depth: depth})
			if m.expanded[n.ID] {
				walk(n.Children, depth+1)
			}
		}
	}
	walk(m.roots, 0)

	m.cursor = 0
	for i, r := range m.rows {
		if r.node.ID == keep {
			m.cursor = i
			break
		}
	}
	m.scroll()
}

// visible is the number of tree rows that fit between header and footer.
func (m *Model) visible() int {
	if m.height <= 0 {
		return len(m.rows)
	}
	if h := m.height - 4; h > 0 {
		return h
	}
	return 1
}

func (m *Model) scroll() {
	h := m.visible()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// View implements tea.Model.
func (m *Model) View() (string, *tea.Cursor) {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n\n")

	if len(m.rows) == 0 {
		b.WriteString(m.theme.Tree.Empty.Render("  empty"))
		b.WriteString("\n")
	}
	end := m.offset + m.visible()
	if end > len(m.rows) {
		end = len(m.rows)
	}
	for i := m.offset; i < end; i++ {
		b.WriteString(m.renderRow(m.rows[i], i == m.cursor))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String(), nil
}

func (m *Model) header() string {
	tabs := make([]string, 0, len(m.catalogs))
	for i, id := range m.catalogs {
		style := m.theme.Header.Tab
		if i == m.current {
			style = m.theme.Header.ActiveTab
		}
		tabs = append(tabs, style.Render(id))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderRow(r row, selected bool) string {
	n := r.node
	glyph := "•"
	style := m.theme.Tree.Leaf
	if n.Droppable {
		style = m.theme.Tree.Group
		glyph = "▸"
		if m.expanded[n.ID] {
			glyph = "▾"
		}
	}
	line := strings.Repeat("  ", r.depth) + glyph + " " + n.Text
	if m.width > 0 {
		line = truncate.StringWithTail(line, uint(m.width-2), "…")
	}
	if n.Data != nil && n.Data.Marked {
		style = m.theme.Tree.Match
	}
	if selected {
		style = style.Inherit(m.theme.Tree.Selected)
	}
	out := style.Render(line)
	if n.Data != nil && n.Data.URLPath != "" && !selected {
		detail := "  " + n.Data.URLPath
		if m.width > 0 {
			room := m.width - 2 - lipgloss.Width(line)
			if room <= 1 {
				return out
			}
			detail = truncate.StringWithTail(detail, uint(room), "…")
		}
		out += m.theme.Tree.Detail.Render(detail)
	}
	return out
}

func (m *Model) footer() string {
	if m.searching {
		return m.input.View()
	}
	status := m.theme.Footer.Status.Render(m.status)
	if m.err != nil {
		status = m.theme.Footer.Error.Render(m.status)
	}
	help := m.theme.Footer.Help.Render("↑/↓ move • ←/→ fold • / search • tab catalog • r reload • q quit")
	return status + "  " + help
}

func expandAll(expanded map[string]bool, nodes []*frontend.Node) {
	for _, n := range nodes {
		if len(n.Children) > 0 {
			expanded[n.ID] = true
			expandAll(expanded, n.Children)
		}
	}
}

func countMarked(nodes []*frontend.Node) int {
	n := 0
	for _, node := range nodes {
		if node.Data != nil && node.Data.Marked {
			n++
		}
		n += countMarked(node.Children)
	}
	return n
}

func countNodes(nodes []*frontend.Node) int {
	n := 0
	for _, node := range nodes {
		n += 1 + countNodes(node.Children)
	}
	return n
}
