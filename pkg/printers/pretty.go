package printers

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/navtree/pkg/frontend"
)

// PrettyPrint renders catalog trees for a terminal.
type PrettyPrint struct {
	ShowID bool
	Out    io.Writer
}

const idWidth = 38

var (
	spacing = strings.Repeat(" ", idWidth)
)

func (pp *PrettyPrint) out() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprintln(pp.out(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	if pp.ShowID {
		_, _ = t.Fprint(pp.out(), spacing)
	}
	_, _ = t.Fprint(pp.out(), title)
	_, _ = c.Fprintf(pp.out(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.out(), " node")
	default:
		_, _ = c.Fprintln(pp.out(), " nodes")
	}
}

// Tree prints nodes and their children indented by depth. Groups are bold,
// search hits are highlighted.
func (pp *PrettyPrint) Tree(nodes []*frontend.Node) {
	if len(nodes) == 0 {
		f := color.New(color.Faint, color.Italic)
		if pp.ShowID {
			_, _ = f.Fprint(pp.out(), spacing)
		}
		_, _ = f.Fprint(pp.out(), " empty\n\n")
		return
	}
	pp.tree(nodes, 0)
	_, _ = fmt.Fprintln(pp.out(), "")
}

func (pp *PrettyPrint) tree(nodes []*frontend.Node, depth int) {
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	for _, n := range nodes {
		if pp.ShowID {
			id := n.ID
			if len(id) >= idWidth {
				id = id[:idWidth-1]
			}
			_, _ = y.Fprint(pp.out(), id)
			_, _ = y.Fprint(pp.out(), strings.Repeat(" ", idWidth-len(id)))
		}
		_, _ = fmt.Fprint(pp.out(), strings.Repeat("  ", depth))
		pp.node(n)
		pp.tree(n.Children, depth+1)
	}
}

func (pp *PrettyPrint) node(n *frontend.Node) {
	text := color.New()
	glyph := "•"
	switch {
	case n.Droppable:
		text = color.New(color.Bold)
		glyph = "▸"
		if len(n.Children) > 0 {
			glyph = "▾"
		}
	case n.Data != nil && n.Data.ModelID != "":
		glyph = "◆"
	}
	if n.Data != nil && n.Data.Marked {
		text = color.New(color.FgHiGreen, color.Bold)
	}
	_, _ = fmt.Fprintf(pp.out(), "%s ", glyph)
	_, _ = text.Fprint(pp.out(), n.Text)
	if n.Data != nil && n.Data.URLPath != "" {
		_, _ = color.New(color.Faint).Fprintf(pp.out(), "  %s", n.Data.URLPath)
		if n.Data.TargetBlank {
			_, _ = color.New(color.Faint).Fprint(pp.out(), " ↗")
		}
	}
	_, _ = fmt.Fprintln(pp.out(), "")
}
