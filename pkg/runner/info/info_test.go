package info

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"tableflip.dev/navtree/pkg/item"
	"tableflip.dev/navtree/pkg/runner/internal/runnertest"
)

func TestInfoListsCatalogs(t *testing.T) {
	svc := runnertest.Open(t)
	runnertest.Seed(t, runnertest.Main(t, svc), runnertest.Link("home", "Home", item.Root))

	var buf bytes.Buffer
	i := Info{Config: runnertest.Config{Base: "/tmp/navtree"}, Stores: svc.Stores(), Out: &buf}
	if err := i.Do(context.Background()); err != nil {
		t.Fatalf("Do: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"/tmp/navtree", "main  1 nodes", "Model:"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in\n%s", want, out)
		}
	}
}

func TestInfoWithoutStores(t *testing.T) {
	var buf bytes.Buffer
	i := Info{Config: runnertest.Config{Base: t.TempDir()}, Out: &buf}
	if err := i.Do(context.Background()); err == nil {
		t.Fatal("expected error without stores")
	}
}
