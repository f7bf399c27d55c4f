package search

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/navtree/pkg/frontend"
	"tableflip.dev/navtree/pkg/item"
	"tableflip.dev/navtree/pkg/printers"
	"tableflip.dev/navtree/pkg/runner/internal/runnertest"
)

func TestSearchJSON(t *testing.T) {
	svc := runnertest.Open(t)
	sync := runnertest.Main(t, svc)
	runnertest.Seed(t, sync,
		runnertest.Group("g1", "Guides", item.Root),
		runnertest.Link("i1", "App setup", "g1"),
		runnertest.Link("i2", "Billing", "g1"),
		runnertest.Link("i3", "Mobile app", item.Root),
	)

	var buf bytes.Buffer
	r := Search{Term: "APP", Sync: sync, Format: printers.FormatJSON, Out: &buf}
	require.NoError(t, r.Do(context.Background()))

	var nodes []*frontend.Node
	require.NoError(t, json.Unmarshal(buf.Bytes(), &nodes))
	require.Len(t, nodes, 2)
	assert.Equal(t, "g1", nodes[0].ID)
	assert.False(t, nodes[0].Data.Marked)
	require.Len(t, nodes[0].Children, 2)
	assert.True(t, nodes[0].Children[0].Data.Marked)
	assert.False(t, nodes[0].Children[1].Data.Marked)
	assert.Equal(t, "i3", nodes[1].ID)
	assert.True(t, nodes[1].Data.Marked)
}
