package widgets_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/domdriver/internal/config"
	"github.com/joeycumines/domdriver/internal/domtest"
	"github.com/joeycumines/domdriver/internal/future"
	"github.com/joeycumines/domdriver/internal/locator"
	"github.com/joeycumines/domdriver/internal/player"
	"github.com/joeycumines/domdriver/internal/widgets"
)

type fixture struct {
	doc    *domtest.Document
	sched  *domtest.FakeScheduler
	engine *future.Engine
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	doc := domtest.NewDocument()
	t.Cleanup(doc.Close)

	resolver := locator.New(doc.Find, doc.Wrap)
	cfg := config.NewConfig()
	cfg.EventDelay = time.Millisecond
	cfg.PollInterval = time.Millisecond
	cfg.DefaultTimeout = time.Second
	cfg.Validate()

	sched := domtest.NewFakeScheduler(time.Unix(0, 0))
	pl := player.New(cfg, sched, domtest.NewInjector(doc), resolver, &domtest.Animations{}, &domtest.Visual{}, domtest.NewGesture())
	engine := future.NewEngine(pl, resolver, cfg, nil, doc)

	return &fixture{doc: doc, sched: sched, engine: engine}
}

func (fx *fixture) drain(t *testing.T) {
	t.Helper()
	for i := 0; i < 200 && !fx.engine.Player.IsIdle(); i++ {
		fx.sched.Advance(time.Millisecond)
	}
	require.True(t, fx.engine.Player.IsIdle(), "player never drained")
}

func TestButtonClickEnqueuesTap(t *testing.T) {
	fx := newFixture(t)
	btn := domtest.NewNode("save", "button")
	btn.Attach().Show()
	fx.doc.Root.AddChild(btn)

	// Tap expansion (spec §4.4) never fires a literal "tap" event; it
	// dispatches pointerdown, pointerup, then click.
	var downed, upped, clicked bool
	fx.doc.Subscribe(fx.doc.Wrap(btn), "pointerdown", func() { downed = true })
	fx.doc.Subscribe(fx.doc.Wrap(btn), "pointerup", func() { upped = true })
	fx.doc.Subscribe(fx.doc.Wrap(btn), "click", func() { clicked = true })

	widgets.Button(fx.engine, "#save", time.Second).Do("click")
	fx.drain(t)

	assert.True(t, downed)
	assert.True(t, upped)
	assert.True(t, clicked)
}

func TestFieldSetValueTypesText(t *testing.T) {
	fx := newFixture(t)
	in := domtest.NewNode("name", "input")
	in.Attach().Show()
	fx.doc.Root.AddChild(in)

	widgets.Field(fx.engine, "#name", time.Second).Do("setValue", "hello")
	fx.drain(t)

	assert.Equal(t, "hello", in.Value)
}

func TestContainerVisibleAndHiddenStates(t *testing.T) {
	fx := newFixture(t)
	box := domtest.NewNode("panel", "div")
	box.Attach().Hide()
	fx.doc.Root.AddChild(box)

	c := widgets.Container(fx.engine, "#panel", time.Second)
	c.State("hidden")
	fx.drain(t)
	assert.NoError(t, c.Err())

	box.Show()
	c2 := widgets.Container(fx.engine, "#panel", time.Second)
	c2.State("visible")
	fx.drain(t)
	assert.NoError(t, c2.Err())
}

func TestElementDestroyedState(t *testing.T) {
	fx := newFixture(t)
	el := domtest.NewNode("toast", "div")
	el.Attach().Show()
	fx.doc.Root.AddChild(el)

	f := widgets.Element(fx.engine, "#toast", time.Second)
	fx.drain(t)

	f.State("destroyed")
	fx.sched.Advance(3 * time.Millisecond)
	assert.False(t, fx.engine.Player.IsIdle(), "must keep waiting while still attached")

	el.Detach()
	fx.drain(t)
}

// fakeRecord backs the fakeCollection with a node and arbitrary properties.
type fakeRecord struct {
	node  *domtest.Node
	props map[string]any
}

// fakeCollection is a minimal widgets.Collection/widgets.TabularCollection
// double, modeled on domtest's in-memory approach: plain Go slices/maps
// instead of a real widget library's data source.
type fakeCollection struct {
	records  []fakeRecord
	selected map[any]bool
	cells    map[string]*domtest.Node // "<recordIndex>:<colIndex>" -> cell node
}

func newFakeCollection(recs ...fakeRecord) *fakeCollection {
	return &fakeCollection{records: recs, selected: map[any]bool{}, cells: map[string]*domtest.Node{}}
}

func (c *fakeCollection) Records() []widgets.Record {
	out := make([]widgets.Record, len(c.records))
	for i, r := range c.records {
		out[i] = widgets.Record{ID: r.props["id"], Index: i, Props: r.props}
	}
	return out
}

func (c *fakeCollection) Selected() []any {
	var out []any
	for id, ok := range c.selected {
		if ok {
			out = append(out, id)
		}
	}
	return out
}

func (c *fakeCollection) Select(ids []any) error {
	for _, id := range ids {
		c.selected[id] = true
	}
	return nil
}

func (c *fakeCollection) Deselect(ids []any) error {
	for _, id := range ids {
		delete(c.selected, id)
	}
	return nil
}

func (c *fakeCollection) NodeForRecord(rec widgets.Record) any {
	return c.records[rec.Index].node
}

func (c *fakeCollection) NodeForCell(rec widgets.Record, col widgets.ColumnLocator) any {
	key := keyFor(rec.Index, col)
	return c.cells[key]
}

func keyFor(recordIndex int, col widgets.ColumnLocator) string {
	switch col.Mode {
	case widgets.ColumnByOrdinal:
		return recordKey(recordIndex, col.Index)
	default:
		return recordKey(recordIndex, -1)
	}
}

func recordKey(recordIndex, colIndex int) string {
	return string(rune('a'+recordIndex)) + ":" + string(rune('a'+colIndex))
}

func newRow(doc *domtest.Document, id string) *domtest.Node {
	n := domtest.NewNode(id, "li")
	n.Attach().Show()
	doc.Root.AddChild(n)
	return n
}

func TestListSelectAndWaitSelectedByID(t *testing.T) {
	fx := newFixture(t)
	row0 := newRow(fx.doc, "row-a")
	row1 := newRow(fx.doc, "row-b")

	coll := newFakeCollection(
		fakeRecord{node: row0, props: map[string]any{"id": "a"}},
		fakeRecord{node: row1, props: map[string]any{"id": "b"}},
	)

	root := domtest.NewNode("list", "ul")
	root.Attach().Show()
	fx.doc.Root.AddChild(root)

	l := widgets.NewList(fx.engine, "#list", coll, time.Second)
	l.Select(widgets.BySelectorID("a")).WaitSelected(widgets.BySelectorID("a"))
	fx.drain(t)

	assert.ElementsMatch(t, []any{"a"}, coll.Selected())
}

func TestListWaitSelectedCountMismatchKeepsWaiting(t *testing.T) {
	fx := newFixture(t)
	row0 := newRow(fx.doc, "row-a")
	row1 := newRow(fx.doc, "row-b")

	coll := newFakeCollection(
		fakeRecord{node: row0, props: map[string]any{"id": "a"}},
		fakeRecord{node: row1, props: map[string]any{"id": "b"}},
	)

	root := domtest.NewNode("list", "ul")
	root.Attach().Show()
	fx.doc.Root.AddChild(root)

	l := widgets.NewList(fx.engine, "#list", coll, time.Second)
	l.WaitSelected(widgets.BySelectorID("a", "b"))

	fx.sched.Advance(3 * time.Millisecond)
	assert.False(t, fx.engine.Player.IsIdle(), "must wait until both requested records are selected")

	coll.Select([]any{"a", "b"})
	fx.drain(t)
}

func TestListDeselectAndWaitDeselected(t *testing.T) {
	fx := newFixture(t)
	row0 := newRow(fx.doc, "row-a")

	coll := newFakeCollection(fakeRecord{node: row0, props: map[string]any{"id": "a"}})
	coll.selected["a"] = true

	root := domtest.NewNode("list", "ul")
	root.Attach().Show()
	fx.doc.Root.AddChild(root)

	l := widgets.NewList(fx.engine, "#list", coll, time.Second)
	l.Deselect(widgets.BySelectorID("a")).WaitDeselected(widgets.BySelectorID("a"))
	fx.drain(t)

	assert.Empty(t, coll.Selected())
}

func TestListSelectByIndexRangeQueryAndAll(t *testing.T) {
	fx := newFixture(t)
	rows := []fakeRecord{
		{node: newRow(fx.doc, "row-0"), props: map[string]any{"id": 0, "kind": "even"}},
		{node: newRow(fx.doc, "row-1"), props: map[string]any{"id": 1, "kind": "odd"}},
		{node: newRow(fx.doc, "row-2"), props: map[string]any{"id": 2, "kind": "even"}},
	}

	newListRoot := func(id string) {
		root := domtest.NewNode(id, "ul")
		root.Attach().Show()
		fx.doc.Root.AddChild(root)
	}

	byIndex := newFakeCollection(rows...)
	newListRoot("list-idx")
	widgets.NewList(fx.engine, "#list-idx", byIndex, time.Second).
		Select(widgets.BySelectorIndex(1)).
		WaitSelected(widgets.BySelectorIndex(1))
	fx.drain(t)
	assert.ElementsMatch(t, []any{1}, byIndex.Selected())

	byRange := newFakeCollection(rows...)
	end := 2
	newListRoot("list-range")
	widgets.NewList(fx.engine, "#list-range", byRange, time.Second).
		Select(widgets.BySelectorRange(0, &end)).
		WaitSelected(widgets.BySelectorRange(0, &end))
	fx.drain(t)
	assert.ElementsMatch(t, []any{0, 1, 2}, byRange.Selected())

	byQuery := newFakeCollection(rows...)
	newListRoot("list-query")
	widgets.NewList(fx.engine, "#list-query", byQuery, time.Second).
		Select(widgets.BySelectorQuery("kind", "even")).
		WaitSelected(widgets.BySelectorQuery("kind", "even"))
	fx.drain(t)
	assert.ElementsMatch(t, []any{0, 2}, byQuery.Selected())

	byAll := newFakeCollection(rows...)
	newListRoot("list-all")
	widgets.NewList(fx.engine, "#list-all", byAll, time.Second).
		Select(widgets.BySelectorAll()).
		WaitSelected(widgets.BySelectorAll())
	fx.drain(t)
	assert.ElementsMatch(t, []any{0, 1, 2}, byAll.Selected())
}

func TestListItemResolvesByIndexIDAndQuery(t *testing.T) {
	fx := newFixture(t)
	rowA := newRow(fx.doc, "row-a")
	rowB := newRow(fx.doc, "row-b")

	coll := newFakeCollection(
		fakeRecord{node: rowA, props: map[string]any{"id": "a", "label": "Alpha"}},
		fakeRecord{node: rowB, props: map[string]any{"id": "b", "label": "Beta"}},
	)

	root := domtest.NewNode("list", "ul")
	root.Attach().Show()
	fx.doc.Root.AddChild(root)

	l := widgets.NewList(fx.engine, "#list", coll, time.Second)
	fx.drain(t)

	byIndex := l.Item(widgets.ByRecordIndex(1))
	fx.drain(t)
	require.NotNil(t, byIndex.Element())
	assert.Equal(t, rowB, byIndex.Element().Node())
	assert.Equal(t, 1, byIndex.RecordIndex)

	byID := l.Item(widgets.ByRecordID("a"))
	fx.drain(t)
	require.NotNil(t, byID.Element())
	assert.Equal(t, rowA, byID.Element().Node())

	byQuery := l.Item(widgets.ByRecordProp("label", "Beta"))
	fx.drain(t)
	require.NotNil(t, byQuery.Element())
	assert.Equal(t, rowB, byQuery.Element().Node())
}

func TestListItemBackReturnsOwningList(t *testing.T) {
	fx := newFixture(t)
	row := newRow(fx.doc, "row-a")
	coll := newFakeCollection(fakeRecord{node: row, props: map[string]any{"id": "a"}})

	root := domtest.NewNode("list", "ul")
	root.Attach().Show()
	fx.doc.Root.AddChild(root)

	l := widgets.NewList(fx.engine, "#list", coll, time.Second)
	item := l.Item(widgets.ByRecordID("a"))
	fx.drain(t)

	assert.Equal(t, l.Future, item.Back())
}

func TestItemRevealWithScroller(t *testing.T) {
	fx := newFixture(t)
	row := newRow(fx.doc, "row-a")
	coll := newFakeCollection(fakeRecord{node: row, props: map[string]any{"id": "a"}})

	root := domtest.NewNode("list", "ul")
	root.Attach().Show()
	fx.doc.Root.AddChild(root)

	l := widgets.NewList(fx.engine, "#list", coll, time.Second)
	item := l.Item(widgets.ByRecordID("a"))
	fx.drain(t)

	var scrolledTo any
	item.Reveal(scrollerFunc(func(el any, done func()) {
		scrolledTo = el
		done()
	}))
	fx.drain(t)

	assert.Equal(t, item.Element(), scrolledTo)
}

type scrollerFunc func(el any, done func())

func (f scrollerFunc) ScrollIntoView(el any, done func()) { f(el, done) }

func TestTabularRowAndCellResolution(t *testing.T) {
	fx := newFixture(t)
	row := newRow(fx.doc, "row-0")
	cell := domtest.NewNode("cell-0-0", "td")
	cell.Attach().Show()
	fx.doc.Root.AddChild(cell)

	coll := newFakeCollection(fakeRecord{node: row, props: map[string]any{"id": "r0"}})
	coll.cells[recordKey(0, 0)] = cell

	tableRoot := domtest.NewNode("grid", "table")
	tableRoot.Attach().Show()
	fx.doc.Root.AddChild(tableRoot)

	tab := widgets.NewTabular(fx.engine, "#grid", coll, time.Second)
	r := tab.Row(widgets.ByRecordID("r0"))
	fx.drain(t)
	require.NotNil(t, r.Element())
	assert.Equal(t, row, r.Element().Node())

	c := r.Cell(widgets.ByColumnOrdinal(0), coll)
	fx.drain(t)
	require.NotNil(t, c.Element())
	assert.Equal(t, cell, c.Element().Node())
}

func TestCellWaitsForRowBeforeResolving(t *testing.T) {
	fx := newFixture(t)
	coll := newFakeCollection() // empty: the row will never be found

	tableRoot := domtest.NewNode("grid", "table")
	tableRoot.Attach().Show()
	fx.doc.Root.AddChild(tableRoot)

	tab := widgets.NewTabular(fx.engine, "#grid", coll, time.Second)
	r := tab.Row(widgets.ByRecordID("missing"))
	c := r.Cell(widgets.ByColumnOrdinal(0), coll)

	fx.sched.Advance(3 * time.Millisecond)
	assert.False(t, fx.engine.Player.IsIdle())
	assert.Nil(t, c.Element())
}
