package future

import "github.com/joeycumines/domdriver/internal/playable"

// Direction tokens for relational navigation (spec §4.7).
const (
	DirectionDown  = "down"
	DirectionUp    = "up"
	DirectionChild = "child"
)

// Down returns a new Future scoped to a descendant of f matching selector
// (spec §4.7 "Relational navigation").
func (f *Future) Down(selector string) *Future {
	return f.navigate(DirectionDown, selector, f.class)
}

// Up returns a new Future scoped to an ancestor of f matching selector.
func (f *Future) Up(selector string) *Future {
	return f.navigate(DirectionUp, selector, f.class)
}

// Child returns a new Future scoped to a direct child of f matching selector.
func (f *Future) Child(selector string) *Future {
	return f.navigate(DirectionChild, selector, f.class)
}

// navigate builds a derived Future whose locator delegates to the
// parent-direction-selector triple at resolution time (spec §4.7), sharing
// class so the derived future's vocabulary matches its parent's unless a
// caller explicitly rebinds it via WithClass.
func (f *Future) navigate(direction, selector string, class *Class) *Future {
	root := f.root
	target := playable.SelectorTarget(selector, nil, direction)
	target.Root = nil // resolved lazily: filled in by the Ready hook below via root's cached element

	child := &Future{engine: f.engine, class: class, timeout: f.timeout, parent: f, direction: direction}

	p := playable.New(playable.KindPredicate)
	p.Timeout = f.timeout
	p.Ready = func(pp *playable.Playable) bool {
		parentEl := root.ResolvedTarget()
		if parentEl == nil {
			pp.SetWaitingTag(selector, "available")
			return false
		}
		scoped := playable.SelectorTarget(selector, parentEl, direction)
		el, err := f.engine.Resolver.Resolve(scoped, pp.ResolvedTarget())
		if err != nil || el == nil {
			pp.SetWaitingTag(selector, "available")
			return false
		}
		if !el.IsAttached() {
			pp.SetWaitingTag(selector, "attached")
			return false
		}
		pp.SetResolvedTarget(el)
		pp.SetWaiting(true)
		return true
	}
	child.root = p
	f.engine.Player.Enqueue(p)
	return child
}

// WithClass rebinds the future's registered vocabulary, used when a
// relational navigation crosses into a differently-typed widget (e.g.
// container.Down("...") landing on a field).
func (f *Future) WithClass(class *Class) *Future {
	f.class = class
	return f
}

// Parent returns the relational parent future, or nil for a root-level
// future (spec §3 "relational back-reference").
func (f *Future) Parent() *Future { return f.parent }

// Direction returns the relational direction token used to derive this
// future, or "" for a root-level future.
func (f *Future) Direction() string { return f.direction }
