package rename

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/navtree/pkg/item"
	"tableflip.dev/navtree/pkg/records"
	"tableflip.dev/navtree/pkg/runner/internal/runnertest"
)

func TestRenameLink(t *testing.T) {
	ctx := context.Background()
	svc := runnertest.Open(t)
	sync := runnertest.Main(t, svc)
	runnertest.Seed(t, sync, runnertest.Link("home", "Home", item.Root))

	var buf bytes.Buffer
	require.NoError(t, (&Rename{ID: "home", Name: "Start", Sync: sync, Out: &buf}).Do(ctx))
	assert.Contains(t, buf.String(), "Start  /home")

	it, err := sync.Lookup(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "Start", it.Name)
	assert.Equal(t, "/home", it.URLPath)
}

func TestRenameModelUpdatesMirrors(t *testing.T) {
	ctx := context.Background()
	svc := runnertest.Open(t)
	sync := runnertest.Main(t, svc)

	rec, err := svc.Records().Create(ctx, "page", records.Record{"title": "Pricing"})
	require.NoError(t, err)
	runnertest.Seed(t, sync,
		&item.Item{ID: "m1", Type: "model", ModelID: rec.ID()},
		runnertest.Group("footer", "Footer", item.Root),
		&item.Item{ID: "m2", Type: "model", ModelID: rec.ID(), ParentID: "footer"},
	)

	var buf bytes.Buffer
	require.NoError(t, (&Rename{ID: "m2", Name: "Plans", Sync: sync, Out: &buf}).Do(ctx))
	assert.Contains(t, buf.String(), "Renamed - 2 nodes")

	for _, id := range []item.ID{"m1", "m2"} {
		it, err := sync.Lookup(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Plans", it.Name)
	}
}
