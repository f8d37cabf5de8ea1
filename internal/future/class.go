package future

import (
	"github.com/joeycumines/domdriver/internal/external"
	"github.com/joeycumines/domdriver/internal/playable"
)

// StateDescriptor is a registered, parameterisable readiness condition
// (spec §3 "StateDescriptor", §4.7 "State methods").
type StateDescriptor struct {
	// Is is the synchronous predicate over the resolved root element.
	Is func(f *Future, el external.Element, args []any) bool
	// Wait, if non-nil, arms an event-subscription strategy instead of pure
	// polling (spec §4.7).
	Wait *WaitSpec
	// Availability/Visibility, if non-nil, override the future's inherited
	// default readiness policy for this state's playable (spec §3).
	Availability *playable.Availability
	Visibility   *playable.Visibility
}

// WaitSpec describes the event-subscription strategy of spec §4.7: arm a
// subscription, check Is once, and if not already true, wait for the event
// to fire and re-check (with a short debounce tie-break).
type WaitSpec struct {
	// Events names events to subscribe to via the Engine's EventSource.
	Events []string
	// Arm, if set, takes precedence over Events: a function (done) that
	// arms a subscription itself and returns a teardown (spec §3 "a function
	// (done) -> cancelFn").
	Arm func(f *Future, done func()) (cancel func())
}

// ActionDescriptor is a registered action: an operation that enqueues an
// injected event or widget-library call (spec §4.7 "Action methods").
type ActionDescriptor struct {
	// Build returns a playable whose Target/RelatedTarget are NOT yet set;
	// the Future wires them to the root playable's back-reference.
	Build func(f *Future, args []any) *playable.Playable
}

// Class is the registry of states and actions for one future "kind"
// (element, button, grid, ...), analogous to a future-class's prototype in
// the source (spec §4.7).
type Class struct {
	Name    string
	States  map[string]StateDescriptor
	Actions map[string]ActionDescriptor
}

// NewClass constructs an empty, named Class.
func NewClass(name string) *Class {
	return &Class{Name: name, States: make(map[string]StateDescriptor), Actions: make(map[string]ActionDescriptor)}
}

// RegisterState adds or replaces a state descriptor.
func (c *Class) RegisterState(name string, d StateDescriptor) { c.States[name] = d }

// RegisterAction adds or replaces an action descriptor.
func (c *Class) RegisterAction(name string, d ActionDescriptor) { c.Actions[name] = d }

// Extend creates a new Class that inherits name's states/actions, then lets
// the caller add/override more — used by widget derivations (container,
// field, list, ...) to build on a common base class.
func (c *Class) Extend(name string) *Class {
	n := NewClass(name)
	for k, v := range c.States {
		n.States[k] = v
	}
	for k, v := range c.Actions {
		n.Actions[k] = v
	}
	return n
}
