package future

import (
	"time"

	"github.com/joeycumines/domdriver/internal/playable"
)

// And implements the inspection method of spec §4.7: a variadic list whose
// items are either a timeout override (applied to subsequent async
// functions in this call), a synchronous inspection func(value), or an
// asynchronous inspection func(value, done). All become callback playables
// in enqueue order.
func (f *Future) And(items ...any) *Future {
	asyncTimeout := f.timeout

	for _, item := range items {
		switch v := item.(type) {
		case time.Duration:
			asyncTimeout = v
		case int:
			asyncTimeout = time.Duration(v) * time.Millisecond

		case func(value any):
			p := playable.New(playable.KindCallback)
			fn := v
			p.SyncFn = func() error {
				fn(f.Element())
				return nil
			}
			f.engine.Player.Enqueue(p)

		case func(value any) error:
			p := playable.New(playable.KindCallback)
			fn := v
			p.SyncFn = func() error { return fn(f.Element()) }
			f.engine.Player.Enqueue(p)

		case func(value any, done func()):
			p := playable.New(playable.KindCallback)
			p.Timeout = asyncTimeout
			fn := v
			p.AsyncFn = func(done playable.DoneFunc) {
				fn(f.Element(), func() { done() })
			}
			f.engine.Player.Enqueue(p)

		default:
			f.lastErr = errUnsupportedAndItem
		}
	}
	return f
}

// Wait implements the wait method of spec §4.7: a number inserts a pure
// delay, a string labels the next function's diagnostic tag, and a function
// inserts a wait-predicate playable.
func (f *Future) Wait(items ...any) *Future {
	var label string

	for _, item := range items {
		switch v := item.(type) {
		case time.Duration:
			p := playable.New(playable.KindDelay)
			p.Delay = v
			f.engine.Player.Enqueue(p)
			label = ""

		case int:
			p := playable.New(playable.KindDelay)
			p.Delay = time.Duration(v) * time.Millisecond
			f.engine.Player.Enqueue(p)
			label = ""

		case string:
			label = v

		case func() bool:
			p := playable.New(playable.KindPredicate)
			p.Timeout = f.timeout
			tag := label
			if tag == "" {
				tag = "condition"
			}
			fn := v
			p.Ready = func(pp *playable.Playable) bool {
				if fn() {
					pp.SetWaiting(true)
					return true
				}
				pp.SetWaitingTag(tag, "true")
				return false
			}
			f.engine.Player.Enqueue(p)
			label = ""

		default:
			f.lastErr = errUnsupportedWaitItem
		}
	}
	return f
}

// Err returns the last error recorded by Do/State/And/Wait calling an
// unregistered name or unsupported variadic item. Per spec §7 these are
// "pathological" programmer errors, not reportable test expectations.
func (f *Future) Err() error { return f.lastErr }

var (
	errUnsupportedAndItem  = futureError("and(): unsupported item type")
	errUnsupportedWaitItem = futureError("wait(): unsupported item type")
)

type futureError string

func (e futureError) Error() string { return string(e) }
