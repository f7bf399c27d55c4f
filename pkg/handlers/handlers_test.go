package handlers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"tableflip.dev/navtree/pkg/catalog"
	"tableflip.dev/navtree/pkg/item"
	"tableflip.dev/navtree/pkg/records"
	"tableflip.dev/navtree/pkg/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	stores  *store.Registry
	records *records.Diskv
	reg     *catalog.Registry
	group   *Group
	link    *Link
	model   *Model
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	dir := t.TempDir()

	f := &fixture{
		stores:  store.NewRegistry(),
		records: records.NewDiskv(filepath.Join(dir, "records")),
	}
	backend := store.NewDiskvBackend(filepath.Join(dir, "db"))
	require.NoError(t, f.stores.OpenAll(ctx, backend, []string{"main"}, store.WithFlushDebounce(time.Millisecond)))
	t.Cleanup(func() { _ = f.stores.Close(context.Background()) })

	f.group = NewGroup(f.stores)
	f.link = NewLink(f.stores)
	f.model = NewModel(f.stores, f.records, "Page")
	reg, err := catalog.New("navigation",
		catalog.WithHandlers(f.group, f.link, f.model),
		catalog.WithActions(SortAlphabetically(f.stores)),
	)
	require.NoError(t, err)
	f.reg = reg
	return f
}

func (f *fixture) create(t *testing.T, it *item.Item) *item.Item {
	t.Helper()
	got, err := f.reg.Create(context.Background(), "main", it)
	require.NoError(t, err)
	return got
}

func TestCreateAppendsAfterSiblings(t *testing.T) {
	f := newFixture(t)
	g := f.create(t, &item.Item{Name: "Docs", Type: GroupType})
	assert.NotEmpty(t, g.ID)
	assert.Equal(t, "folder", g.Icon)

	a := f.create(t, &item.Item{Name: "Intro", Type: LinkType, URLPath: "/docs/intro", ParentID: g.ID})
	b := f.create(t, &item.Item{Name: "Setup", Type: LinkType, URLPath: "/docs/setup", ParentID: g.ID})
	c := f.create(t, &item.Item{Name: "Pinned", Type: LinkType, URLPath: "/docs/pinned", ParentID: g.ID, SortOrder: 10})
	d := f.create(t, &item.Item{Name: "Last", Type: GroupType, ParentID: g.ID})
	assert.Equal(t, 0, a.SortOrder)
	assert.Equal(t, 1, b.SortOrder)
	assert.Equal(t, 10, c.SortOrder)
	assert.Equal(t, 11, d.SortOrder)

	childs, err := f.reg.GetChilds(context.Background(), "main", g.ID, "")
	require.NoError(t, err)
	require.Len(t, childs, 4)
	assert.Equal(t, []item.ID{a.ID, b.ID, c.ID, d.ID}, []item.ID{childs[0].ID, childs[1].ID, childs[2].ID, childs[3].ID})
}

func TestCreateValidates(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.create(t, &item.Item{ID: "g", Name: "Docs", Type: GroupType})

	tests := map[string]*item.Item{
		"missing name":     {Type: GroupType},
		"missing url":      {Name: "x", Type: LinkType},
		"unknown parent":   {Name: "x", Type: GroupType, ParentID: "nope"},
		"duplicate id":     {ID: g.ID, Name: "x", Type: GroupType},
		"unknown model id": {Name: "x", Type: ModelType, ModelID: "nope"},
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := f.reg.Create(ctx, "main", in)
			assert.Error(t, err)
		})
	}

	_, err := f.reg.Create(ctx, "footer", &item.Item{Name: "x", Type: GroupType})
	assert.True(t, catalog.IsNotFound(err))
}

func TestOnlyGroupsHoldChildren(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.create(t, &item.Item{ID: "g", Name: "Docs", Type: GroupType})
	l := f.create(t, &item.Item{ID: "l", Name: "Home", Type: LinkType, URLPath: "/"})
	page, err := f.records.Create(ctx, "page", records.Record{"title": "Pricing"})
	require.NoError(t, err)
	m := f.create(t, &item.Item{ID: "m", Type: ModelType, ModelID: page.ID()})

	var verr catalog.ValidationError
	for _, parent := range []item.ID{l.ID, m.ID} {
		_, err := f.reg.Create(ctx, "main", &item.Item{Name: "x", Type: LinkType, URLPath: "/x", ParentID: parent})
		assert.ErrorAs(t, err, &verr, "create under %s", parent)
		_, err = f.reg.Create(ctx, "main", &item.Item{Name: "x", Type: GroupType, ParentID: parent})
		assert.ErrorAs(t, err, &verr, "group under %s", parent)
	}

	moved := l.Clone()
	moved.ParentID = m.ID
	_, err = f.reg.Update(ctx, "main", l.ID, moved)
	assert.ErrorAs(t, err, &verr)

	moved.ParentID = g.ID
	got, err := f.reg.Update(ctx, "main", l.ID, moved)
	require.NoError(t, err)
	assert.Equal(t, g.ID, got.ParentID)
}

func TestModelIDMustNameARecordFile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	var verr catalog.ValidationError
	for _, id := range []string{"../page/x", "../../etc/passwd", "..", "a/b", `a\b`} {
		_, err := f.reg.Create(ctx, "main", &item.Item{Type: ModelType, ModelID: id})
		assert.ErrorAs(t, err, &verr, "model id %q", id)
		assert.Equal(t, "modelId", verr.Field)
	}
}

func TestUpdateRefusesCycles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	outer := f.create(t, &item.Item{ID: "outer", Name: "Outer", Type: GroupType})
	inner := f.create(t, &item.Item{ID: "inner", Name: "Inner", Type: GroupType, ParentID: outer.ID})

	_, err := f.reg.Update(ctx, "main", outer.ID, &item.Item{Name: "Outer", Type: GroupType, ParentID: inner.ID})
	var verr catalog.ValidationError
	assert.ErrorAs(t, err, &verr)

	_, err = f.reg.Update(ctx, "main", outer.ID, &item.Item{Name: "Outer", Type: GroupType, ParentID: outer.ID})
	assert.ErrorAs(t, err, &verr)

	_, err = f.reg.Update(ctx, "main", inner.ID, &item.Item{Type: LinkType, URLPath: "/x"})
	assert.True(t, catalog.IsNotFound(err), "type of an existing node cannot change")

	moved, err := f.reg.Update(ctx, "main", inner.ID, &item.Item{Type: GroupType})
	require.NoError(t, err)
	assert.Equal(t, "Inner", moved.Name)
	assert.True(t, moved.ParentID.IsRoot())
}

func TestDeleteIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	l := f.create(t, &item.Item{Name: "Home", Type: LinkType, URLPath: "/"})

	require.NoError(t, f.reg.DeleteItem(ctx, "main", LinkType, l.ID))
	require.NoError(t, f.reg.DeleteItem(ctx, "main", LinkType, l.ID))

	found, err := f.reg.Find(ctx, "main", LinkType, l.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	g := f.create(t, &item.Item{Name: "Docs", Type: GroupType})
	assert.Error(t, f.reg.DeleteItem(ctx, "main", LinkType, g.ID))
}

func TestOpenLinkAction(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	l := f.create(t, &item.Item{Name: "Blog", Type: LinkType, URLPath: "https://example.com/blog", TargetBlank: true})

	actions := catalog.Describe(f.reg.GetActions(ctx, []*item.Item{l}))
	require.Len(t, actions, 1)
	assert.Equal(t, OpenLinkAction, actions[0].ID)
	assert.Equal(t, catalog.ActionLink, actions[0].Kind)

	res, err := f.reg.HandleAction(ctx, "main", OpenLinkAction, []*item.Item{{ID: l.ID, Type: LinkType}}, nil)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"url": "https://example.com/blog", "targetBlank": true}, res)

	tpl, err := f.reg.EditTemplate(ctx, "main", LinkType, l.ID)
	require.NoError(t, err)
	assert.Equal(t, catalog.TemplateLink, tpl.Kind)
	assert.Equal(t, "https://example.com/blog", tpl.Data["urlPath"])
}

func TestSortAlphabetically(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	g := f.create(t, &item.Item{Name: "Docs", Type: GroupType})
	for _, name := range []string{"charlie", "Alpha", "bravo"} {
		f.create(t, &item.Item{Name: name, Type: LinkType, URLPath: "/" + name, ParentID: g.ID, SortOrder: 7})
	}

	actions := f.reg.GetActions(ctx, []*item.Item{g})
	require.Len(t, actions, 1)
	assert.Equal(t, SortAlphabeticallyAction, actions[0].ID())

	_, err := f.reg.HandleAction(ctx, "main", SortAlphabeticallyAction, []*item.Item{g}, nil)
	require.NoError(t, err)

	childs, err := f.reg.GetChilds(ctx, "main", g.ID, "")
	require.NoError(t, err)
	var names []string
	for i, it := range childs {
		names = append(names, it.Name)
		assert.Equal(t, i, it.SortOrder)
	}
	assert.Equal(t, []string{"Alpha", "bravo", "charlie"}, names)
}

func TestModelItemsMirrorRecords(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	page, err := f.records.Create(ctx, "page", records.Record{"title": "Pricing"})
	require.NoError(t, err)

	first := f.create(t, &item.Item{Type: ModelType, ModelID: page.ID()})
	assert.Equal(t, "Pricing", first.Name)
	g := f.create(t, &item.Item{Name: "Footer", Type: GroupType})
	second := f.create(t, &item.Item{Type: ModelType, ModelID: page.ID(), ParentID: g.ID})

	updated, err := f.reg.UpdateModelItems(ctx, "main", ModelType, page.ID(), &item.Item{Name: "Plans"})
	require.NoError(t, err)
	assert.Len(t, updated, 2)

	for _, id := range []item.ID{first.ID, second.ID} {
		got, err := f.reg.Find(ctx, "main", ModelType, id)
		require.NoError(t, err)
		assert.Equal(t, "Plans", got.Name)
	}
	rec, err := f.records.FindOne(ctx, "page", records.ByID(page.ID()))
	require.NoError(t, err)
	assert.Equal(t, "Plans", rec.String("title"))

	// Renaming one mirror renames the record and the other mirror.
	_, err = f.reg.Update(ctx, "main", second.ID, &item.Item{Name: "Prices", Type: ModelType, ParentID: g.ID})
	require.NoError(t, err)
	got, err := f.reg.Find(ctx, "main", ModelType, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "Prices", got.Name)
}

func TestModelCreateMakesRecord(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	it := f.create(t, &item.Item{Name: "Careers", Type: ModelType})
	require.NotEmpty(t, it.ModelID)

	rec, err := f.records.FindOne(ctx, "page", records.ByID(it.ModelID))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Careers", rec.String("title"))

	tpl, err := f.reg.AddTemplate(ctx, "main", ModelType)
	require.NoError(t, err)
	assert.Equal(t, catalog.TemplateModel, tpl.Kind)
	assert.Equal(t, "model/page/add", tpl.Path)

	_, err = f.reg.UpdateModelItems(ctx, "main", ModelType, "missing", &item.Item{Name: "x"})
	assert.True(t, catalog.IsNotFound(err))
}
