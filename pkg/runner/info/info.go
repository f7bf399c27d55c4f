package info

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"tableflip.dev/navtree/pkg/printers"
	"tableflip.dev/navtree/pkg/store"
)

type Info struct {
	Config store.Config
	Stores *store.Registry
	Out    io.Writer
}

func (n *Info) Do(ctx context.Context) error {
	out := n.Out
	if out == nil {
		out = color.Output
	}

	if override := os.Getenv("NAVTREE_CONFIG_PATH"); override != "" {
		_, _ = fmt.Fprintln(out, "NAVTREE_CONFIG_PATH found on env, using ", override)
	} else {
		_, _ = fmt.Fprintln(out, "NAVTREE_CONFIG_PATH env var not set")
	}

	if n.Config == nil {
		var err error
		n.Config, err = store.LoadConfig()
		if err != nil {
			return err
		}
	}

	printers.KeyValues(out, [][2]string{
		{"Kind", n.Config.Kind()},
		{"Path", n.Config.BasePath()},
		{"Records", n.Config.RecordsPath()},
		{"Model", n.Config.Model()},
		{"Sections", strings.Join(n.Config.Sections(), ", ")},
		{"Flush debounce", n.Config.FlushDebounce().String()},
		{"Write timeout", n.Config.WriteTimeout().String()},
		{"Write retries", strconv.Itoa(n.Config.WriteRetries())},
	})

	if n.Stores == nil {
		return fmt.Errorf("no catalogs loaded")
	}

	_, _ = fmt.Fprintf(out, "Catalogs:\n")
	warn := color.New(color.FgHiRed)
	found := 0
	for _, s := range n.Stores.All() {
		_, _ = fmt.Fprintf(out, "  %s  %d nodes\n", s.ID(), s.Len())
		for _, o := range s.Orphans() {
			_, _ = warn.Fprintf(out, "    orphan %s %q, parent %s missing\n", o.ID, o.Name, o.ParentID)
		}
		found++
	}

	if found == 0 {
		_, _ = fmt.Fprintf(out, "  %s\n", "no catalogs")
	}

	return nil
}
