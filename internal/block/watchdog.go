// Package block implements the Block/WatchDog test harness adapter of
// spec.md §4.10: wrapping a user test function, running it, and deciding
// when the test has fully resolved.
//
// The "wait for two independent async signals, report the first failure"
// shape is the same one golang.org/x/sync/errgroup exists for; the Block's
// completion gate uses an errgroup.Group waiting on exactly two producers
// rather than a hand-rolled WaitGroup, grounded on lox-pokerforbots' use of
// golang.org/x/sync in its scheduler-adjacent code. WatchDog's single-fire
// done/fail pair is a mutex-guarded fired flag.
package block

import (
	"fmt"
	"sync"
	"time"
)

// Done is the continuation-style completion signal with a fail sibling
// (spec §9 "Model as a small object with two methods rather than a function
// with a mutating property").
type Done interface {
	Done()
	Fail(err error)
}

// WatchDog is an asynchronous deadline attached to a single Done callback
// (spec §3 "WatchDog").
type WatchDog struct {
	mu       sync.Mutex
	timeout  time.Duration
	explicit bool // true iff a timeout was explicitly passed, vs defaulted
	fired    bool
	err      error
	timer    *time.Timer
	onFire   func(err error) // invoked exactly once, success (nil) or failure
}

// NewWatchDog arms a deadline of timeout, invoking onFire with a
// distinguishing message if Done/Fail is never called in time (spec §4.10
// "WatchDog timeout messages distinguish 'no explicit timeout passed' from
// explicit timeouts").
func NewWatchDog(timeout time.Duration, explicit bool, onFire func(err error)) *WatchDog {
	wd := &WatchDog{timeout: timeout, explicit: explicit, onFire: onFire}
	if timeout > 0 {
		wd.timer = time.AfterFunc(timeout, wd.expire)
	}
	return wd
}

func (wd *WatchDog) expire() {
	wd.mu.Lock()
	if wd.fired {
		wd.mu.Unlock()
		return
	}
	wd.fired = true
	wd.mu.Unlock()

	var msg string
	if wd.explicit {
		msg = fmt.Sprintf("watchdog expired after explicit timeout of %s", wd.timeout)
	} else {
		msg = "watchdog expired: did you forget to call done()? (no explicit timeout was passed)"
	}
	wd.onFire(fmt.Errorf("%s", msg))
}

// Done reports success, firing onFire(nil) exactly once.
func (wd *WatchDog) Done() { wd.finish(nil) }

// Fail reports failure, firing onFire(err) exactly once.
func (wd *WatchDog) Fail(err error) { wd.finish(err) }

func (wd *WatchDog) finish(err error) {
	wd.mu.Lock()
	if wd.fired {
		wd.mu.Unlock()
		return
	}
	wd.fired = true
	wd.mu.Unlock()

	if wd.timer != nil {
		wd.timer.Stop()
	}
	wd.onFire(err)
}
