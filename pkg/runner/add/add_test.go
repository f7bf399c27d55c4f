package add

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/navtree/pkg/item"
	"tableflip.dev/navtree/pkg/runner/internal/runnertest"
)

func TestAddPrintsSiblings(t *testing.T) {
	ctx := context.Background()
	svc := runnertest.Open(t)
	sync := runnertest.Main(t, svc)
	runnertest.Seed(t, sync,
		runnertest.Group("docs", "Docs", item.Root),
		runnertest.Link("intro", "Intro", "docs"),
	)

	var buf bytes.Buffer
	r := Add{Type: "link", Name: "Setup", Parent: "docs", URL: "/setup", Sync: sync, Out: &buf}
	require.NoError(t, r.Do(ctx))
	require.NotNil(t, r.Created)
	assert.Equal(t, item.ID("docs"), r.Created.Parent)
	assert.Equal(t, 1, r.Created.Data.SortOrder)
	assert.Equal(t, "Docs\n• Intro  /intro\n• Setup  /setup\n\n", buf.String())
}

func TestAddModelCreatesRecord(t *testing.T) {
	ctx := context.Background()
	svc := runnertest.Open(t)
	sync := runnertest.Main(t, svc)

	var buf bytes.Buffer
	r := Add{Type: "model", Name: "Pricing", Sync: sync, Out: &buf}
	require.NoError(t, r.Do(ctx))
	require.NotEmpty(t, r.Created.Data.ModelID)

	recs, err := svc.Records().Find(ctx, "page", nil)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, r.Created.Data.ModelID, recs[0].ID())
}

func TestAddRejectsUnknownType(t *testing.T) {
	svc := runnertest.Open(t)
	r := Add{Type: "banner", Name: "x", Sync: runnertest.Main(t, svc)}
	assert.Error(t, r.Do(context.Background()))
	assert.Nil(t, r.Created)
}
