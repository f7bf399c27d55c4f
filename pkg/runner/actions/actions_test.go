package actions

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/navtree/pkg/item"
	"tableflip.dev/navtree/pkg/runner/internal/runnertest"
)

func TestListAndRun(t *testing.T) {
	ctx := context.Background()
	svc := runnertest.Open(t)
	sync := runnertest.Main(t, svc)
	runnertest.Seed(t, sync,
		runnertest.Link("zeta", "Zeta", item.Root),
		runnertest.Link("alpha", "Alpha", item.Root),
	)

	var buf bytes.Buffer
	require.NoError(t, (&Actions{Sync: sync, Out: &buf}).Do(ctx))
	assert.Contains(t, buf.String(), "sort-alphabetically")

	buf.Reset()
	require.NoError(t, (&Actions{IDs: []string{"zeta"}, Sync: sync, Out: &buf}).Do(ctx))
	assert.Contains(t, buf.String(), "open-link")
	assert.NotContains(t, buf.String(), "sort-alphabetically")

	buf.Reset()
	require.NoError(t, (&Actions{Run: "sort-alphabetically", Sync: sync, Out: &buf}).Do(ctx))
	root, err := sync.GetChilds(ctx, nil)
	require.NoError(t, err)
	require.Len(t, root, 2)
	assert.Equal(t, "alpha", root[0].ID)

	err = (&Actions{Run: "explode", Sync: sync, Out: &buf}).Do(ctx)
	assert.Error(t, err)
}
