// Package external defines the contracts the engine consumes from its host
// environment (spec.md §6): the DOM wrapper, host scheduler, animations
// probe, event injector, and the optional visual/gesture collaborators.
// Nothing in this package owns a DOM implementation or a browser event
// loop — those are supplied by a host (domtest, in this module's tests and
// demo) and consumed here only as interfaces.
package external

import "time"

// Element is the external DOM wrapper factory contract (spec §6 "DOM wrapper
// factory"). domtest.Element implements this; production code would wrap a
// real js.Value/DOM node equivalently.
type Element interface {
	IsAttached() bool
	IsVisible() bool
	GetText() string
	Contains(other Element) bool
	HasClass(name string) bool
	// Node returns the opaque backing pointer. Locator re-resolution may
	// mutate what this points to in place (spec §4.1, §9 open question);
	// callers that need stable identity should compare by Element, not Node.
	Node() any
}

// Scheduler is the host scheduler contract (spec §6): defer/cancel/now.
type Scheduler interface {
	Defer(fn func(), delay time.Duration) CancelHandle
	Now() time.Time
}

// CancelHandle cancels a deferred callback. Calling Cancel twice, or after
// the callback already fired, is a no-op.
type CancelHandle interface {
	Cancel()
}

// AnimationsProbe is the animations collaborator (spec §6, §4.2).
type AnimationsProbe interface {
	AnyActive() bool
}

// Injector performs the actual synthetic DOM dispatch (spec §6).
type Injector interface {
	Inject(p *Dispatch) error
}

// Dispatch is what the Player hands the Injector: a resolved event ready to
// fire. EventType, payload fields, and the two resolved elements are all the
// Injector needs; it never sees the Playable's scheduling state.
type Dispatch struct {
	EventType         string
	Target            Element
	RelatedTarget     Element
	X, Y              int
	Button            int
	Key               string
	Text              string
	Caret             int
	Meta, Shift, Ctrl bool
	Detail            int
}

// VisualFeedback is the pointer/gesture visual collaborator (spec §6). All
// methods are allowed to be no-ops.
type VisualFeedback interface {
	ShowPointer(x, y int)
	HidePointer()
	ShowGesture()
	HideGesture()
}

// GestureCompletion is the optional tap-completion collaborator (spec §6,
// §4.4). When nil, tap's trailing wait-predicate always succeeds immediately.
type GestureCompletion interface {
	Activate()
	Deactivate()
	Complete(targetID, gestureName string) bool
}

// EventSource is consumed by a future State's event-subscription strategy
// (spec §4.7): arm a subscription to a named event on an element, invoking
// fn when it fires, until the returned cancel func is called. Not named in
// spec §6's list verbatim, but required by the "wait function or event
// list" shape of StateDescriptor in spec §3 — the DOM wrapper is the only
// plausible owner of event subscription.
type EventSource interface {
	Subscribe(el Element, event string, fn func()) (cancel func())
}
