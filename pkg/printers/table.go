package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"gopkg.in/yaml.v3"

	"tableflip.dev/navtree/pkg/catalog"
)

// Format selects how structured output is written.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts text, json and yaml; empty means text.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected text, json or yaml)", s)
	}
}

// Encode writes v as json or yaml.
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
}

// Actions prints a table of the given actions.
func Actions(w io.Writer, actions []catalog.ActionInfo) {
	if len(actions) == 0 {
		_, _ = color.New(color.Faint, color.Italic).Fprintln(w, " no actions")
		return
	}
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold("ID"), bold("NAME"), bold("KIND"), bold("ICON"))
	for _, a := range actions {
		tbl.AddRow(a.ID, a.Name, string(a.Kind), a.Icon)
	}
	_, _ = fmt.Fprintln(w, tbl)
}

// KeyValues prints label/value rows, wrapping long values.
func KeyValues(w io.Writer, rows [][2]string) {
	tbl := uitable.New()
	tbl.MaxColWidth = 80
	tbl.Wrap = true
	for _, r := range rows {
		tbl.AddRow(bold(r[0]+":"), r[1])
	}
	_, _ = fmt.Fprintln(w, tbl)
}

func bold(s string) string {
	return color.New(color.Bold).Sprint(s)
}
