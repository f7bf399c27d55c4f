package printers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/navtree/pkg/catalog"
	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/item"
)

func init() {
	color.NoColor = true
}

func TestTreeIndentsChildren(t *testing.T) {
	nodes := []*frontend.Node{{
		ID: "docs", Text: "Docs", Droppable: true,
		Data: &item.Item{ID: "docs", Type: "group"},
		Children: []*frontend.Node{{
			ID: "intro", Text: "Intro", Parent: "docs",
			Data: &item.Item{ID: "intro", Type: "link", URLPath: "/intro", Marked: true},
		}},
	}, {
		ID: "blog", Text: "Blog",
		Data: &item.Item{ID: "blog", Type: "link", URLPath: "https://example.com", TargetBlank: true},
	}}

	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Tree(nodes)

	want := "▾ Docs\n  • Intro  /intro\n• Blog  https://example.com ↗\n\n"
	if got := buf.String(); got != want {
		t.Fatalf("unexpected tree:\n%q\nwant\n%q", got, want)
	}
}

func TestTreeShowsIDs(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf, ShowID: true}
	pp.Tree([]*frontend.Node{{ID: "a1", Text: "Home", Data: &item.Item{ID: "a1"}}})

	line := strings.SplitN(buf.String(), "\n", 2)[0]
	if !strings.HasPrefix(line, "a1 ") || !strings.HasSuffix(line, "• Home") {
		t.Fatalf("unexpected line %q", line)
	}
	if len(line) != idWidth+len("• Home") {
		t.Fatalf("id column not padded: %q", line)
	}
}

func TestEmptyTree(t *testing.T) {
	var buf bytes.Buffer
	(&PrettyPrint{Out: &buf}).Tree(nil)
	if !strings.Contains(buf.String(), "empty") {
		t.Fatalf("expected empty marker, got %q", buf.String())
	}
}

func TestEncodeFormats(t *testing.T) {
	node := &frontend.Node{ID: "a", Text: "A", Parent: item.Root, Data: &item.Item{ID: "a", Name: "A", Type: "link"}}

	tests := map[Format]string{
		FormatJSON: `"parent": 0`,
		FormatYAML: "parent: 0",
	}
	for format, want := range tests {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, format, node); err != nil {
				t.Fatalf("encode: %v", err)
			}
			if !strings.Contains(buf.String(), want) {
				t.Fatalf("expected %q in\n%s", want, buf.String())
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "JSON": FormatJSON, " yaml ": FormatYAML} {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Fatalf("ParseFormat(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseFormat("xml"); err == nil {
		t.Fatal("expected error for xml")
	}
}

func TestActionsTable(t *testing.T) {
	var buf bytes.Buffer
	Actions(&buf, []catalog.ActionInfo{{ID: "open-link", Name: "Open link", Kind: catalog.ActionLink}})
	out := buf.String()
	if !strings.Contains(out, "open-link") || !strings.Contains(out, "Open link") {
		t.Fatalf("unexpected table %q", out)
	}
}
