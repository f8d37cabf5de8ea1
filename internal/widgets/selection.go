package widgets

import (
	"fmt"
	"reflect"

	"github.com/joeycumines/domdriver/internal/future"
	"github.com/joeycumines/domdriver/internal/playable"
)

// Record is one addressable entry of a list-like widget's backing data
// (spec §4.9 "collection's id->record lookup").
type Record struct {
	ID    any
	Index int
	Props map[string]any
}

// Collection is the external data contract a list/tabular future is
// constructed against: the id->record lookup, positional lookup, and
// mutable selection set the selection mixin operates on (spec §4.8, §4.9).
// domtest ships an in-memory implementation; production code would back
// this with the real widget library's data source.
type Collection interface {
	Records() []Record
	Selected() []any
	Select(ids []any) error
	Deselect(ids []any) error
	// NodeForRecord resolves the DOM node for a given record (spec §4.9
	// "obtains the DOM node via the collection's node-lookup contract").
	NodeForRecord(rec Record) any
}

// AddressMode is one of the four selection-mixin addressing modes (spec
// §4.8).
type AddressMode int

const (
	ByID AddressMode = iota
	ByIndex
	ByRange
	ByQuery
	ByAll
)

// Selector addresses a subset of a Collection's records by one of the four
// modes of spec §4.8. Range End of nil means "through the last available
// record" (inclusive endpoints).
type Selector struct {
	Mode    AddressMode
	IDs     []any
	Indexes []int
	Start   int
	End     *int
	Prop    string
	Value   any
}

// BySelectorID addresses one or many records by id.
func BySelectorID(ids ...any) Selector { return Selector{Mode: ByID, IDs: ids} }

// BySelectorIndex addresses one or many records by positional index.
func BySelectorIndex(idx ...int) Selector { return Selector{Mode: ByIndex, Indexes: idx} }

// BySelectorRange addresses an inclusive range of positional indexes. A nil
// end means "through the last available record".
func BySelectorRange(start int, end *int) Selector {
	return Selector{Mode: ByRange, Start: start, End: end}
}

// BySelectorQuery addresses records by a simple property/value match
// (linear scan, spec §4.8).
func BySelectorQuery(prop string, value any) Selector {
	return Selector{Mode: ByQuery, Prop: prop, Value: value}
}

// BySelectorAll addresses every record in the collection.
func BySelectorAll() Selector { return Selector{Mode: ByAll} }

// requestedCount reports how many records the selector asks for, used by
// the "requested-count mismatch short-circuits to false" rule (spec §4.8).
// -1 means "not applicable" (query/all resolve by match, not by count).
func (s Selector) requestedCount() int {
	switch s.Mode {
	case ByID:
		return len(s.IDs)
	case ByIndex:
		return len(s.Indexes)
	case ByRange:
		return -1 // resolved length is itself the request; no separate count to compare
	default:
		return -1
	}
}

// Resolve returns the records a Selector addresses against coll.
func (s Selector) Resolve(coll Collection) []Record {
	all := coll.Records()
	switch s.Mode {
	case ByID:
		want := map[any]bool{}
		for _, id := range s.IDs {
			want[id] = true
		}
		var out []Record
		for _, r := range all {
			if want[r.ID] {
				out = append(out, r)
			}
		}
		return out

	case ByIndex:
		want := map[int]bool{}
		for _, i := range s.Indexes {
			want[i] = true
		}
		var out []Record
		for _, r := range all {
			if want[r.Index] {
				out = append(out, r)
			}
		}
		return out

	case ByRange:
		end := len(all) - 1
		if s.End != nil {
			end = *s.End
		}
		var out []Record
		for _, r := range all {
			if r.Index >= s.Start && r.Index <= end {
				out = append(out, r)
			}
		}
		return out

	case ByQuery:
		var out []Record
		for _, r := range all {
			if v, ok := r.Props[s.Prop]; ok && reflect.DeepEqual(v, s.Value) {
				out = append(out, r)
			}
		}
		return out

	case ByAll:
		return all

	default:
		return nil
	}
}

func (s Selector) ids(coll Collection) []any {
	resolved := s.Resolve(coll)
	ids := make([]any, len(resolved))
	for i, r := range resolved {
		ids[i] = r.ID
	}
	return ids
}

// Select enqueues a callback playable that selects the addressed records
// (spec §4.8 "select mode").
func Select(f *future.Future, coll Collection, sel Selector) *future.Future {
	p := playable.New(playable.KindCallback)
	p.SyncFn = func() error { return coll.Select(sel.ids(coll)) }
	f.Engine().Player.Enqueue(p)
	return f
}

// Deselect enqueues a callback playable that deselects the addressed
// records (spec §4.8 "deselect mode").
func Deselect(f *future.Future, coll Collection, sel Selector) *future.Future {
	p := playable.New(playable.KindCallback)
	p.SyncFn = func() error { return coll.Deselect(sel.ids(coll)) }
	f.Engine().Player.Enqueue(p)
	return f
}

// Selected waits until exactly the addressed records are selected: "every
// requested record is selected and the counts match" (spec §4.8).
func Selected(f *future.Future, coll Collection, sel Selector) *future.Future {
	return waitSelectionState(f, coll, sel, true)
}

// Deselected waits until none of the addressed records is selected (spec
// §4.8).
func Deselected(f *future.Future, coll Collection, sel Selector) *future.Future {
	return waitSelectionState(f, coll, sel, false)
}

func waitSelectionState(f *future.Future, coll Collection, sel Selector, wantSelected bool) *future.Future {
	p := playable.New(playable.KindPredicate)
	p.Timeout = 0
	p.Ready = func(pp *playable.Playable) bool {
		requested := sel.Resolve(coll)
		if n := sel.requestedCount(); n >= 0 && len(requested) != n {
			pp.SetWaitingTag(fmt.Sprintf("selection(%v)", sel.Mode), "resolved")
			return false
		}
		current := map[any]bool{}
		for _, id := range coll.Selected() {
			current[id] = true
		}
		if wantSelected {
			count := 0
			for _, r := range requested {
				if current[r.ID] {
					count++
				}
			}
			ok := count == len(requested) && len(current) == len(requested)
			if !ok {
				pp.SetWaitingTag("selection", "selected")
				return false
			}
		} else {
			for _, r := range requested {
				if current[r.ID] {
					pp.SetWaitingTag("selection", "deselected")
					return false
				}
			}
		}
		pp.SetWaiting(true)
		return true
	}
	f.Engine().Player.Enqueue(p)
	return f
}
