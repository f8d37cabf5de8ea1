package widgets

import (
	"fmt"

	"github.com/joeycumines/domdriver/internal/future"
	"github.com/joeycumines/domdriver/internal/playable"
)

// RecordLocator carries one of {ordinal index, id, property+value} (spec
// §4.9 "An item future carries one of ... as its record-locator").
type RecordLocator struct {
	Mode  AddressMode // ByIndex, ByID, or ByQuery
	Index int
	ID    any
	Prop  string
	Value any
}

// ByRecordIndex addresses a record by ordinal position.
func ByRecordIndex(i int) RecordLocator { return RecordLocator{Mode: ByIndex, Index: i} }

// ByRecordID addresses a record by id.
func ByRecordID(id any) RecordLocator { return RecordLocator{Mode: ByID, ID: id} }

// ByRecordProp addresses a record by a property/value match.
func ByRecordProp(prop string, value any) RecordLocator {
	return RecordLocator{Mode: ByQuery, Prop: prop, Value: value}
}

func (l RecordLocator) match(r Record) bool {
	switch l.Mode {
	case ByIndex:
		return r.Index == l.Index
	case ByID:
		return r.ID == l.ID
	case ByQuery:
		v, ok := r.Props[l.Prop]
		return ok && v == l.Value
	default:
		return false
	}
}

func (l RecordLocator) describe() string {
	switch l.Mode {
	case ByIndex:
		return fmt.Sprintf("item[index=%d]", l.Index)
	case ByID:
		return fmt.Sprintf("item[id=%v]", l.ID)
	case ByQuery:
		return fmt.Sprintf("item[%s=%v]", l.Prop, l.Value)
	default:
		return "item"
	}
}

// ItemClass extends BaseClass; item/row/cell futures are otherwise plain
// elements once their node is resolved (spec §4.9).
var ItemClass = BaseClass.Extend("item")

// Item is a future bound to one record of a collection (spec §4.9).
type Item struct {
	*future.Future
	Collection Collection
	Locator    RecordLocator
	// RecordIndex is recorded once the root playable resolves the matching
	// record (spec §4.9 "records the recordIndex").
	RecordIndex int
	record      Record
	found       bool
}

func newItem(collectionFuture *future.Future, coll Collection, loc RecordLocator) *Item {
	engine := collectionFuture.Engine()
	item := &Item{Collection: coll, Locator: loc}

	p := playable.New(playable.KindPredicate)
	p.Timeout = 0
	p.Ready = func(pp *playable.Playable) bool {
		parentEl := collectionFuture.Element()
		if parentEl == nil {
			pp.SetWaitingTag(loc.describe(), "available")
			return false
		}
		for _, r := range coll.Records() {
			if loc.match(r) {
				item.record = r
				item.RecordIndex = r.Index
				item.found = true
				node := coll.NodeForRecord(r)
				el, err := engine.Resolver.Resolve(nodeTarget(node), pp.ResolvedTarget())
				if err != nil || el == nil {
					pp.SetWaitingTag(loc.describe(), "available")
					return false
				}
				pp.SetResolvedTarget(el)
				pp.SetWaiting(true)
				return true
			}
		}
		pp.SetWaitingTag(loc.describe(), "found")
		return false
	}

	f := future.NewBound(engine, ItemClass, p)
	f.SetOwner(collectionFuture)
	item.Future = f
	return item
}

func nodeTarget(node any) playable.Target { return playable.NodeTarget(node) }

// Reveal scrolls the item's node into view, completing only after the
// collection's scroller signals "scroll end" (or synchronously if the
// collection has no async scroller) — spec §4.9 "reveal()".
func (it *Item) Reveal(scroller Scroller) *Item {
	p := playable.New(playable.KindCallback)
	if scroller == nil {
		p.SyncFn = func() error { return nil }
	} else {
		p.AsyncFn = func(done playable.DoneFunc) {
			scroller.ScrollIntoView(it.Element(), done)
		}
	}
	it.Engine().Player.Enqueue(p)
	return it
}

// Scroller is the optional async scroller collaborator consulted by
// reveal() (spec §4.9). ScrollIntoView must call done exactly once, either
// synchronously (no-op scroller) or after the scroll animation completes.
type Scroller interface {
	ScrollIntoView(el any, done func())
}
