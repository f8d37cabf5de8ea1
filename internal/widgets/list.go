package widgets

import (
	"time"

	"github.com/joeycumines/domdriver/internal/future"
	"github.com/joeycumines/domdriver/internal/playable"
)

// ListClass extends BaseClass with nothing extra of its own; the selection
// mixin (spec §4.8) is exposed via the List wrapper's methods rather than
// registered states/actions, since it needs direct access to the backing
// Collection rather than just the resolved Element.
var ListClass = BaseClass.Extend("list")

// TabularClass is kept distinct from List so column-aware cell navigation
// (spec §4.9) can target it via the variant table independently.
var TabularClass = BaseClass.Extend("tabular")

// List is a list-like future plus its backing Collection, providing the
// selection mixin of spec §4.8.
type List struct {
	*future.Future
	Collection Collection
}

// NewList constructs a root-level List future over a Collection (spec
// §4.9 "item ... back-reference to its collection future").
func NewList(engine *future.Engine, selector string, coll Collection, timeout time.Duration) *List {
	f := future.New(engine, ListClass, playable.SelectorTarget(selector, nil, ""), timeout)
	return &List{Future: f, Collection: coll}
}

// Tabular is the column-aware analogue of List (spec §4.9 "tabular").
type Tabular struct {
	*future.Future
	Collection Collection
}

// NewTabular constructs a root-level Tabular future over a Collection.
func NewTabular(engine *future.Engine, selector string, coll Collection, timeout time.Duration) *Tabular {
	f := future.New(engine, TabularClass, playable.SelectorTarget(selector, nil, ""), timeout)
	return &Tabular{Future: f, Collection: coll}
}

// Select enqueues selecting the records addressed by sel.
func (l *List) Select(sel Selector) *List { Select(l.Future, l.Collection, sel); return l }

// Deselect enqueues deselecting the records addressed by sel.
func (l *List) Deselect(sel Selector) *List { Deselect(l.Future, l.Collection, sel); return l }

// WaitSelected waits until exactly the addressed records are selected.
func (l *List) WaitSelected(sel Selector) *List { Selected(l.Future, l.Collection, sel); return l }

// WaitDeselected waits until none of the addressed records is selected.
func (l *List) WaitDeselected(sel Selector) *List { Deselected(l.Future, l.Collection, sel); return l }

// Item returns an Item future bound to this List via the record locator
// (spec §4.9 "Item / Row / Cell futures").
func (l *List) Item(loc RecordLocator) *Item {
	return newItem(l.Future, l.Collection, loc)
}
