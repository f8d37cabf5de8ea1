// Package playable defines the queued scheduling unit described in
// spec.md §3: a self-describing item with a readiness predicate, one or two
// targets, optional callback, delay, timeout, and bookkeeping state.
package playable

import (
	"time"

	"github.com/google/uuid"

	"github.com/joeycumines/domdriver/internal/external"
)

// Kind distinguishes the four playable shapes from spec.md §3.
type Kind int

const (
	// KindEvent dispatches a DOM event via the Injector.
	KindEvent Kind = iota
	// KindCallback invokes an opaque function.
	KindCallback
	// KindDelay waits a fixed duration with no readiness gate beyond time.
	KindDelay
	// KindPredicate polls a custom ready function with no event dispatch.
	KindPredicate
)

func (k Kind) String() string {
	switch k {
	case KindEvent:
		return "injected-event"
	case KindCallback:
		return "callback"
	case KindDelay:
		return "wait-delay"
	case KindPredicate:
		return "wait-predicate"
	default:
		return "unknown"
	}
}

// State is the per-playable state machine (spec §4.3.1).
type State int

const (
	StateQueued State = iota
	StatePending
	StatePlaying
	StateDone
	StateTimedOut
	StateErrored
)

func (s State) String() string {
	switch s {
	case StateQueued:
		return "queued"
	case StatePending:
		return "pending"
	case StatePlaying:
		return "playing"
	case StateDone:
		return "done"
	case StateTimedOut:
		return "timed-out"
	case StateErrored:
		return "errored"
	default:
		return "unknown"
	}
}

// Availability is the availability readiness policy (spec §3).
type Availability int

const (
	MustBeAttached Availability = iota
	MustBeDetached
	AvailabilityDontCare
)

// Visibility is the visibility readiness policy (spec §3).
type Visibility int

const (
	MustBeVisible Visibility = iota
	MustBeHidden
	VisibilityDontCare
)

// Animation is the animation readiness policy (spec §3).
type Animation int

const (
	WaitForIdle Animation = iota
	IgnoreAnimation
)

// ReadinessPolicy bundles the three independent readiness axes of spec §3.
type ReadinessPolicy struct {
	Availability Availability
	Visibility   Visibility
	Animation    Animation
}

// DefaultReadinessPolicy is must-be-attached, must-be-visible, wait-for-idle.
func DefaultReadinessPolicy() ReadinessPolicy {
	return ReadinessPolicy{
		Availability: MustBeAttached,
		Visibility:   MustBeVisible,
		Animation:    WaitForIdle,
	}
}

// Ready is a custom readiness predicate (spec §4.2). By contract, it must
// call SetWaiting(true) on success and SetWaitingTag(tag, state) on failure —
// that bookkeeping drives diagnostics only, never scheduling correctness.
type Ready func(p *Playable) bool

// EventPayload holds the type-specific fields for injected events (spec §3).
type EventPayload struct {
	EventType string
	X, Y      int
	Button    int
	Key       string
	Text      string
	Caret     int
	Meta      bool
	Shift     bool
	Ctrl      bool
	Detail    int
}

// Playable is the unit of scheduled work (spec §3).
type Playable struct {
	ID   int64     // monotonic per-Player sequence number
	UUID uuid.UUID // globally-unique diagnostic id, for cross-block log correlation

	Kind Kind

	Target        Target
	RelatedTarget Target

	resolvedTarget        external.Element
	resolvedRelatedTarget external.Element

	Policy ReadinessPolicy
	Ready  Ready // nil means "use the default composite readiness"

	Delay   time.Duration
	// Timeout 0 means the Player's DefaultTimeout applies; the deadline is
	// disabled only when that default is also 0. A playable cannot disable
	// its own deadline while DefaultTimeout is non-zero.
	Timeout time.Duration

	State State

	WaitingFor   string
	WaitingState string

	Payload EventPayload

	// Callback playables (spec §4.5) carry exactly one of the two
	// following. SyncFn models a zero-parameter JS callback: completion is
	// immediate on return. AsyncFn models a callback that declares a `done`
	// parameter: the Player waits for explicit invocation of done (or for the
	// timeout). AsyncFn returns nothing, so there is no returned-promise path:
	// done is the only completion signal.
	SyncFn  func() error
	AsyncFn func(done DoneFunc)

	// waitStartTime is stamped on the first not-ready observation; timeouts
	// are measured from here, not from enqueue (spec §5).
	waitStartTime time.Time
	haveWaitStart bool

	// err is set when the playable terminates in StateErrored.
	err error
}

// DoneFunc is the completion signal passed to a callback playable's Fn
// (spec §4.5). Calling it more than once after the first call has no
// further effect.
type DoneFunc func()

// New constructs a Playable with every default populated from
// DefaultReadinessPolicy, ready to be enqueued.
func New(kind Kind) *Playable {
	return &Playable{
		UUID:   uuid.New(),
		Kind:   kind,
		Policy: DefaultReadinessPolicy(),
		State:  StateQueued,
	}
}

// ResolvedTarget returns the cached wrapped element, or nil if not yet
// resolved.
func (p *Playable) ResolvedTarget() external.Element { return p.resolvedTarget }

// SetResolvedTarget caches the wrapped element once resolution succeeds.
func (p *Playable) SetResolvedTarget(e external.Element) { p.resolvedTarget = e }

// ResolvedRelatedTarget returns the cached wrapped related element.
func (p *Playable) ResolvedRelatedTarget() external.Element { return p.resolvedRelatedTarget }

// SetResolvedRelatedTarget caches the wrapped related element.
func (p *Playable) SetResolvedRelatedTarget(e external.Element) { p.resolvedRelatedTarget = e }

// SetWaiting records a successful readiness check, clearing diagnostic tags.
func (p *Playable) SetWaiting(ready bool) {
	if ready {
		p.WaitingFor = ""
		p.WaitingState = ""
	}
}

// SetWaitingTag records a failed readiness check's diagnostic tags (spec
// §4.2's "setWaiting(tag, state)").
func (p *Playable) SetWaitingTag(tag, state string) {
	p.WaitingFor = tag
	p.WaitingState = state
}

// MarkWaitStart stamps waitStartTime on the first not-ready observation.
// Subsequent calls are no-ops until ResetWaitStart.
func (p *Playable) MarkWaitStart(now time.Time) {
	if !p.haveWaitStart {
		p.waitStartTime = now
		p.haveWaitStart = true
	}
}

// ResetWaitStart clears the wait-start stamp, e.g. when a playable is
// un-shifted back to queued by a pause (spec §4.3 "Pause/resume").
func (p *Playable) ResetWaitStart() {
	p.haveWaitStart = false
}

// Elapsed returns how long the playable has been waiting since the first
// not-ready observation, or 0 if it has never been observed not-ready.
func (p *Playable) Elapsed(now time.Time) time.Duration {
	if !p.haveWaitStart {
		return 0
	}
	return now.Sub(p.waitStartTime)
}

// Err returns the error a StateErrored playable terminated with.
func (p *Playable) Err() error { return p.err }

// SetErr records the terminal error (spec §4.5 "thrown exceptions ... are
// surfaced as errors").
func (p *Playable) SetErr(err error) { p.err = err }
