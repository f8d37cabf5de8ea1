package domtest

import "github.com/joeycumines/domdriver/internal/external"

// Element adapts a *Node into external.Element, and supports the Resolver's
// in-place rebind policy (locator.Rebindable) so a selector that re-resolves
// to a different node doesn't force an allocation (spec §4.1).
type Element struct {
	node *Node
	doc  *Document
}

var (
	_ external.Element = (*Element)(nil)
)

func (e *Element) IsAttached() bool { return e.node != nil && e.node.IsAttached() }
func (e *Element) IsVisible() bool  { return e.node != nil && e.node.IsVisible() }
func (e *Element) GetText() string {
	if e.node == nil {
		return ""
	}
	return e.node.Text
}

func (e *Element) Contains(other external.Element) bool {
	o, ok := other.(*Element)
	if !ok || o.node == nil || e.node == nil {
		return false
	}
	return e.node.Contains(o.node)
}

func (e *Element) HasClass(name string) bool { return e.node != nil && e.node.HasClass(name) }
func (e *Element) Node() any                 { return e.node }

// Rebind satisfies locator.Rebindable.
func (e *Element) Rebind(node any) {
	n, _ := node.(*Node)
	e.node = n
}
