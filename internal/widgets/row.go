package widgets

import (
	"fmt"

	"github.com/joeycumines/domdriver/internal/future"
	"github.com/joeycumines/domdriver/internal/playable"
)

// RowClass extends ItemClass; rows are items of a Tabular (spec §4.9 "Row
// and cell futures compose analogously").
var RowClass = ItemClass.Extend("row")

// Row is a future bound to one record of a Tabular.
type Row struct {
	*Item
}

// Row returns a Row future bound to the given record locator.
func (t *Tabular) Row(loc RecordLocator) *Row {
	item := newItem(t.Future, t.Collection, loc)
	item.WithClass(RowClass)
	return &Row{Item: item}
}

// ColumnMode distinguishes the three cell column-locator shapes of spec
// §4.9 "by ordinal, by column id, or by column property/value".
type ColumnMode int

const (
	ColumnByOrdinal ColumnMode = iota
	ColumnByID
	ColumnByQuery
)

// ColumnLocator addresses a column within a row (spec §4.9).
type ColumnLocator struct {
	Mode  ColumnMode
	Index int
	ID    any
	Prop  string
	Value any
}

// ByColumnOrdinal addresses a column by position.
func ByColumnOrdinal(i int) ColumnLocator { return ColumnLocator{Mode: ColumnByOrdinal, Index: i} }

// ByColumnID addresses a column by id.
func ByColumnID(id any) ColumnLocator { return ColumnLocator{Mode: ColumnByID, ID: id} }

// ByColumnProp addresses a column by a property/value match.
func ByColumnProp(prop string, value any) ColumnLocator {
	return ColumnLocator{Mode: ColumnByQuery, Prop: prop, Value: value}
}

func (l ColumnLocator) describe() string {
	switch l.Mode {
	case ColumnByOrdinal:
		return fmt.Sprintf("cell[col=%d]", l.Index)
	case ColumnByID:
		return fmt.Sprintf("cell[col=%v]", l.ID)
	default:
		return fmt.Sprintf("cell[%s=%v]", l.Prop, l.Value)
	}
}

// CellClass extends BaseClass directly; a cell is a plain element once its
// node is resolved.
var CellClass = BaseClass.Extend("cell")

// TabularCollection extends Collection with the extra node-lookup layer
// cells need (spec §4.9 "an additional column-locator layer for cells").
type TabularCollection interface {
	Collection
	NodeForCell(rec Record, col ColumnLocator) any
}

// Cell returns a Cell future bound to the given column of this row.
func (r *Row) Cell(col ColumnLocator, coll TabularCollection) *Cell {
	engine := r.Engine()
	owner := r.Future
	c := &Cell{Column: col}

	p := playable.New(playable.KindPredicate)
	p.Ready = func(pp *playable.Playable) bool {
		if !r.found {
			pp.SetWaitingTag(col.describe(), "row-resolved")
			return false
		}
		node := coll.NodeForCell(r.record, col)
		if node == nil {
			pp.SetWaitingTag(col.describe(), "available")
			return false
		}
		el, err := engine.Resolver.Resolve(nodeTarget(node), pp.ResolvedTarget())
		if err != nil || el == nil {
			pp.SetWaitingTag(col.describe(), "available")
			return false
		}
		pp.SetResolvedTarget(el)
		pp.SetWaiting(true)
		return true
	}

	f := future.NewBound(engine, CellClass, p)
	f.SetOwner(owner)
	c.Future = f
	return c
}

// Cell is a future bound to one (record, column) pair of a Tabular (spec
// §4.9).
type Cell struct {
	*future.Future
	Column ColumnLocator
}
