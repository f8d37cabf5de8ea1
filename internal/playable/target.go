package playable

import "github.com/joeycumines/domdriver/internal/external"

// TargetKind distinguishes the four target specifier shapes of spec §3/§4.1.
type TargetKind int

const (
	// TargetNone means the playable has no target (e.g. a pure delay).
	TargetNone TargetKind = iota
	// TargetNode wraps a DOM node directly.
	TargetNode
	// TargetFunc resolves by invoking a function each readiness tick.
	TargetFunc
	// TargetSelector resolves a string expression via the host's find
	// dialect.
	TargetSelector
	// TargetBackref shares the resolved target of an earlier playable,
	// bound to a direct Playable reference at enqueue time (spec §9).
	TargetBackref
)

// Target is a resolved-at-use target specifier (spec §3 "target,
// relatedTarget"). Exactly one of the fields below is meaningful, selected
// by Kind.
type Target struct {
	Kind TargetKind

	Node     any // a raw external.Element-able backing node
	Func     func() any
	Selector string
	// Direction scopes a selector resolution relative to Root (spec §4.1).
	Root      external.Element
	Direction string

	// Backref is resolved at enqueue time (spec §3 invariant: "Integer
	// back-references are resolved at enqueue time, not at play time").
	Backref *Playable
}

// None reports whether the target carries no specifier at all.
func (t Target) None() bool { return t.Kind == TargetNone }

// NodeTarget wraps a DOM node unchanged.
func NodeTarget(node any) Target { return Target{Kind: TargetNode, Node: node} }

// FuncTarget resolves by invoking fn on each readiness tick; a nil return
// means not ready (spec §4.1).
func FuncTarget(fn func() any) Target { return Target{Kind: TargetFunc, Func: fn} }

// SelectorTarget resolves a string expression, optionally scoped.
func SelectorTarget(expr string, root external.Element, direction string) Target {
	return Target{Kind: TargetSelector, Selector: expr, Root: root, Direction: direction}
}

// BackrefTarget shares the resolved target of p once p resolves it.
func BackrefTarget(p *Playable) Target { return Target{Kind: TargetBackref, Backref: p} }
