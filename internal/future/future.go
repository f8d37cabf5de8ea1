package future

import (
	"fmt"
	"time"

	"github.com/joeycumines/domdriver/internal/external"
	"github.com/joeycumines/domdriver/internal/playable"
)

// Future is a handle to a deferred element/component (spec §3 "Future").
type Future struct {
	engine *Engine
	class  *Class

	root          *playable.Playable
	valueProperty string
	timeout       time.Duration

	// relational back-reference (spec §3).
	parent    *Future
	direction string

	// owning-future back-reference, for item/row/cell (spec §3).
	owner *Future

	lastErr error
}

// New constructs a Future bound to target, enqueuing a single root playable
// that resolves the element and caches it (spec §4.7 "Construction"). The
// root playable only waits for existence: animation and visibility checks
// are disabled by default.
func New(engine *Engine, class *Class, target playable.Target, timeout time.Duration) *Future {
	f := &Future{engine: engine, class: class, timeout: timeout}

	root := playable.New(playable.KindPredicate)
	root.Target = target
	root.Timeout = timeout
	root.Policy = playable.ReadinessPolicy{
		Availability: playable.MustBeAttached,
		Visibility:   playable.VisibilityDontCare,
		Animation:    playable.IgnoreAnimation,
	}
	root.Ready = func(p *playable.Playable) bool {
		el, err := engine.Resolver.Resolve(p.Target, p.ResolvedTarget())
		if err != nil || el == nil {
			p.SetWaitingTag(rootTag(target), "available")
			return false
		}
		if !el.IsAttached() {
			p.SetWaitingTag(rootTag(target), "attached")
			return false
		}
		p.SetResolvedTarget(el)
		p.SetWaiting(true)
		return true
	}
	f.root = root
	engine.Player.Enqueue(root)
	return f
}

// NewBound constructs a Future from an already-built root playable (custom
// Ready hook and all), for derivations whose resolution logic doesn't fit
// the plain "resolve target, check attached" shape New provides — item/row/
// cell futures resolve by searching collection records rather than by
// locator (spec §4.9).
func NewBound(engine *Engine, class *Class, root *playable.Playable) *Future {
	f := &Future{engine: engine, class: class, root: root, timeout: root.Timeout}
	engine.Player.Enqueue(root)
	return f
}

func rootTag(t playable.Target) string {
	if t.Kind == playable.TargetSelector {
		return t.Selector
	}
	return "element"
}

// Element returns the cached resolved element, if the root playable has
// completed resolution by the time this is called (typically safe only from
// inside an And()/Wait() callback, which run after the root has resolved).
func (f *Future) Element() external.Element { return f.root.ResolvedTarget() }

// Class returns the future's registered class (states/actions), letting
// relational/derived futures share a parent's vocabulary.
func (f *Future) Class() *Class { return f.class }

// Engine returns the Future's context object.
func (f *Future) Engine() *Engine { return f.engine }

// Owner returns the owning collection future for item/row/cell derivations
// (spec §3 "owning-future back-reference"), or nil.
func (f *Future) Owner() *Future { return f.owner }

// SetOwner records the owning collection future; used by widgets package
// constructors.
func (f *Future) SetOwner(owner *Future) { f.owner = owner }

// Back returns the owning collection future, implementing the
// "return-to-owner" fluent idiom of spec §4.7 for item/row/cell futures.
func (f *Future) Back() *Future {
	if f.owner == nil {
		return f
	}
	return f.owner
}

// Do enqueues the named action (spec §4.7 "Action methods"): a playable
// whose target shares the future's root resolved element, via a
// variant-resolved ActionDescriptor.
func (f *Future) Do(name string, args ...any) *Future {
	desc, ok := f.resolveAction(name)
	if !ok {
		f.lastErr = fmt.Errorf("unknown action %q on class %q", name, f.class.Name)
		return f
	}
	p := desc.Build(f, args)
	if p.Target.None() {
		p.Target = playable.BackrefTarget(f.root)
	}
	if p.Timeout == 0 {
		p.Timeout = f.timeout
	}
	f.engine.Player.Enqueue(p)
	return f
}

func (f *Future) resolveAction(name string) (ActionDescriptor, bool) {
	key := f.class.Name + "." + name
	if impl, ok := f.engine.Variants.Resolve(key); ok {
		if d, ok := impl.(ActionDescriptor); ok {
			return d, true
		}
	}
	d, ok := f.class.Actions[name]
	return d, ok
}

// State enqueues the named wait-state (spec §4.7 "State methods"): either an
// event-subscription strategy (if the descriptor has a Wait that can be armed:
// an Arm func, or Events with a non-nil Engine.Events) or a pure poll.
func (f *Future) State(name string, args ...any) *Future {
	desc, ok := f.resolveState(name)
	if !ok {
		f.lastErr = fmt.Errorf("unknown state %q on class %q", name, f.class.Name)
		return f
	}

	p := playable.New(playable.KindPredicate)
	p.Target = playable.BackrefTarget(f.root)
	p.Timeout = f.timeout
	policy := playable.DefaultReadinessPolicy()
	if desc.Availability != nil {
		policy.Availability = *desc.Availability
	}
	if desc.Visibility != nil {
		policy.Visibility = *desc.Visibility
	}
	p.Policy = policy

	if desc.Wait != nil && (desc.Wait.Arm != nil || f.engine.Events != nil) {
		p.Ready = f.stateWaitReady(desc, args)
	} else {
		p.Ready = f.statePollReady(desc, args)
	}

	f.engine.Player.Enqueue(p)
	return f
}

func (f *Future) resolveState(name string) (StateDescriptor, bool) {
	key := f.class.Name + "." + name
	if impl, ok := f.engine.Variants.Resolve(key); ok {
		if d, ok := impl.(StateDescriptor); ok {
			return d, true
		}
	}
	d, ok := f.class.States[name]
	return d, ok
}

// statePollReady implements the no-Wait branch of spec §4.7: poll Is(args)
// on every drain tick.
func (f *Future) statePollReady(desc StateDescriptor, args []any) playable.Ready {
	return func(p *playable.Playable) bool {
		el := f.Element()
		if el == nil {
			p.SetWaitingTag("state", "resolved")
			return false
		}
		if desc.Is(f, el, args) {
			p.SetWaiting(true)
			return true
		}
		p.SetWaitingTag("state", "satisfied")
		return false
	}
}

// stateWaitReady implements the event-subscription branch of spec §4.7: arm
// once, check Is once; thereafter only re-check when the subscription fires,
// with a ready flag flipped by the event callback.
func (f *Future) stateWaitReady(desc StateDescriptor, args []any) playable.Ready {
	armed := false
	var cancel func()
	eventFired := false

	return func(p *playable.Playable) bool {
		el := f.Element()
		if el == nil {
			p.SetWaitingTag("state", "resolved")
			return false
		}

		if !armed {
			armed = true
			if desc.Wait.Arm != nil {
				cancel = desc.Wait.Arm(f, func() { eventFired = true })
			} else if f.engine.Events != nil {
				var cancels []func()
				for _, ev := range desc.Wait.Events {
					ev := ev
					cancels = append(cancels, f.engine.Events.Subscribe(el, ev, func() { eventFired = true }))
				}
				cancel = func() {
					for _, c := range cancels {
						c()
					}
				}
			}
			if desc.Is(f, el, args) {
				if cancel != nil {
					cancel()
				}
				p.SetWaiting(true)
				return true
			}
			p.SetWaitingTag("state", "satisfied")
			return false
		}

		if !eventFired {
			p.SetWaitingTag("state", "satisfied")
			return false
		}

		// Tie-breaking debounce: the event fired, re-check once more.
		eventFired = false
		if desc.Is(f, el, args) {
			if cancel != nil {
				cancel()
			}
			p.SetWaiting(true)
			return true
		}
		p.SetWaitingTag("state", "satisfied")
		return false
	}
}
