// Package locator implements the locator resolver of spec.md §4.1: turning a
// symbolic target specifier into a concrete wrapped element at the moment of
// use, with back-reference resolution performed by the caller at enqueue
// time (not by this package, which only ever resolves "at use").
package locator

import (
	"github.com/joeycumines/domdriver/internal/external"
	"github.com/joeycumines/domdriver/internal/playable"
)

// FindFunc is the pluggable query dialect (spec §6 "Find function").
// A nil return with a nil error means "no match yet"; a non-nil error means
// the expression itself is malformed.
type FindFunc func(expr string, strict bool, root external.Element, direction string) (external.Element, error)

// Wrap adapts a raw backing node into a wrapped Element (spec §6 "DOM
// wrapper factory").
type WrapFunc func(node any) external.Element

// Rebindable is implemented by wrapper elements that support in-place
// identity-preserving rebinding when a selector re-resolves to a different
// node (spec §4.1 re-resolution policy, §9 open question). Resolver uses
// this instead of allocating a new wrapper on every tick.
type Rebindable interface {
	Rebind(node any)
}

// Resolver resolves playable.Target values into external.Element, honoring
// the re-resolution policy of spec §4.1: a string locator that yields a
// different node between ticks updates the cached wrapper in place rather
// than being treated as a failure.
type Resolver struct {
	Find FindFunc
	Wrap WrapFunc
}

// New constructs a Resolver from the two external collaborators it needs.
func New(find FindFunc, wrap WrapFunc) *Resolver {
	return &Resolver{Find: find, Wrap: wrap}
}

// Resolve attempts to resolve target against cached, returning the (possibly
// rebound) wrapped element, or nil if not yet resolvable. cached is the
// previously resolved element for this same target slot (may be nil).
func (r *Resolver) Resolve(target playable.Target, cached external.Element) (external.Element, error) {
	switch target.Kind {
	case playable.TargetNone:
		return nil, nil

	case playable.TargetNode:
		if target.Node == nil {
			return nil, nil
		}
		if cached != nil {
			if rb, ok := cached.(Rebindable); ok {
				rb.Rebind(target.Node)
				return cached, nil
			}
		}
		return r.Wrap(target.Node), nil

	case playable.TargetFunc:
		node := target.Func()
		if node == nil {
			// A fn-based resolver returning nil after previously returning a
			// node means the playable re-enters not-ready (spec §4.1).
			return nil, nil
		}
		if cached != nil {
			if rb, ok := cached.(Rebindable); ok {
				rb.Rebind(node)
				return cached, nil
			}
		}
		return r.Wrap(node), nil

	case playable.TargetSelector:
		el, err := r.Find(target.Selector, true, target.Root, target.Direction)
		if err != nil {
			return nil, err
		}
		if el == nil {
			return nil, nil
		}
		// Re-resolution policy: if the selector now yields a different node
		// than previously cached, update the cached wrapper in place instead
		// of allocating a new one and instead of treating the swap as a
		// failure.
		if cached != nil {
			if cached.Node() == el.Node() {
				return cached, nil
			}
			if rb, ok := cached.(Rebindable); ok {
				rb.Rebind(el.Node())
				return cached, nil
			}
		}
		return el, nil

	case playable.TargetBackref:
		if target.Backref == nil {
			return nil, nil
		}
		return target.Backref.ResolvedTarget(), nil

	default:
		return nil, nil
	}
}
