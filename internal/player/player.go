// Package player implements the cooperative scheduler of spec.md §4.3: a
// single-track, single-threaded queue of playables gated on readiness, with
// per-item timeouts, reentrant-enqueue splicing, and tap/type expansion.
//
// Tap expansion's fixed sub-event order (pointerdown -> pointerup -> click)
// is enforced with a github.com/joeycumines/go-behaviortree Sequence, ticked
// once per drain poll the same way internal/builtin/bt/adapter.go drives an
// asynchronous external operation to completion via repeated Tick() calls;
// see dispatch.go's tapSequenceNode.
package player

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joeycumines/domdriver/internal/config"
	"github.com/joeycumines/domdriver/internal/external"
	"github.com/joeycumines/domdriver/internal/locator"
	"github.com/joeycumines/domdriver/internal/playable"
)

// Player is the cooperative scheduler (spec §4.3). It is not safe for
// concurrent use from multiple goroutines: per spec §5 it advances
// exclusively on host timer callbacks from a single scheduling thread.
type Player struct {
	cfg      *config.EngineConfig
	sched    Scheduler
	injector Injector
	anim     AnimationsProbe
	visual   VisualFeedback
	gesture  GestureCompletion
	resolver *locator.Resolver
	log      *slog.Logger

	queue   []*playable.Playable
	nextID  int64
	pending *playable.Playable
	timer   CancelHandle

	pauseCount int
	// pendingFnInsertIndex is non-nil only while a currently-playing
	// callback is executing; it tracks where subsequent Enqueue calls splice
	// in, per spec §4.3's reentrant-enqueue rule.
	pendingFnInsertIndex *int

	endSubs []func()
	errSubs []func(err error)

	touchCount     int
	lastGestureEnd time.Time

	stopped bool
}

// Re-exported collaborator aliases so callers only need to import this
// package, not internal/external, for the common path.
type (
	Scheduler         = external.Scheduler
	Injector          = external.Injector
	AnimationsProbe   = external.AnimationsProbe
	VisualFeedback    = external.VisualFeedback
	GestureCompletion = external.GestureCompletion
	CancelHandle      = external.CancelHandle
	Dispatch          = external.Dispatch
)

// New constructs a Player from its external collaborators (spec §6).
func New(cfg *config.EngineConfig, sched Scheduler, injector Injector, resolver *locator.Resolver, anim AnimationsProbe, visual VisualFeedback, gesture GestureCompletion) *Player {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	cfg.Validate()
	return &Player{
		cfg:      cfg,
		sched:    sched,
		injector: injector,
		anim:     anim,
		visual:   visual,
		gesture:  gesture,
		resolver: resolver,
		log:      cfg.Logger,
	}
}

// OnEnd registers a subscriber fired exactly once the next time the queue
// fully drains, stops, or fails (spec §5 "Block-to-Player ... single-shot
// subscription").
func (pl *Player) OnEnd(fn func()) { pl.endSubs = append(pl.endSubs, fn) }

// OnError registers a subscriber fired when the Player fails (spec §4.3
// "Failure and termination").
func (pl *Player) OnError(fn func(err error)) { pl.errSubs = append(pl.errSubs, fn) }

// IsIdle reports whether the queue is empty and nothing is pending/playing.
func (pl *Player) IsIdle() bool { return len(pl.queue) == 0 && pl.pending == nil }

// QueueLen returns the number of not-yet-terminal playables, including the
// currently pending one if any.
func (pl *Player) QueueLen() int {
	n := len(pl.queue)
	if pl.pending != nil {
		n++
	}
	return n
}

// Enqueue adds p to the queue, assigning its ID. It does not resolve integer
// back-references: a caller turns one into a direct Playable reference with
// BackrefByOffset before setting p's target. If called from inside a
// currently-playing callback, p is spliced at pendingFnInsertIndex instead
// of appended to the tail (spec §4.3 "Enqueue semantics and reentrancy").
func (pl *Player) Enqueue(p *playable.Playable) int64 {
	pl.nextID++
	p.ID = pl.nextID

	if p.Kind == playable.KindEvent && p.Delay == 0 {
		p.Delay = pl.cfg.EventDelay
	}

	if pl.pendingFnInsertIndex != nil {
		idx := *pl.pendingFnInsertIndex
		if idx > len(pl.queue) {
			idx = len(pl.queue)
		}
		pl.queue = append(pl.queue, nil)
		copy(pl.queue[idx+1:], pl.queue[idx:])
		pl.queue[idx] = p
		*pl.pendingFnInsertIndex = idx + 1
	} else {
		pl.queue = append(pl.queue, p)
	}

	pl.drain()
	return p.ID
}

// BackrefByOffset resolves an integer back-reference (spec §3, §9): N
// positions earlier in the queue *at enqueue time*. offset is negative
// (e.g. -1 means "the playable immediately before this one").
func (pl *Player) BackrefByOffset(offset int) *playable.Playable {
	// "Earlier in the queue" includes the pending/playing item and anything
	// already enqueued before the current Enqueue call.
	all := pl.allInSourceOrder()
	idx := len(all) + offset
	if idx < 0 || idx >= len(all) {
		return nil
	}
	return all[idx]
}

func (pl *Player) allInSourceOrder() []*playable.Playable {
	all := make([]*playable.Playable, 0, len(pl.queue)+1)
	if pl.pending != nil {
		all = append(all, pl.pending)
	}
	all = append(all, pl.queue...)
	return all
}

// drain advances the scheduler: if idle and not paused, shifts the head
// playable into pending and schedules its first readiness check after its
// delay (spec §4.3 step 1).
func (pl *Player) drain() {
	if pl.stopped || pl.pauseCount > 0 || pl.pending != nil || len(pl.queue) == 0 {
		return
	}
	p := pl.queue[0]
	pl.queue = pl.queue[1:]
	p.State = playable.StatePending
	pl.pending = p
	pl.scheduleCheck(p, p.Delay)
}

func (pl *Player) scheduleCheck(p *playable.Playable, delay time.Duration) {
	if delay < 0 {
		delay = 0
	}
	pl.timer = pl.sched.Defer(func() { pl.playEventSoon(p) }, delay)
}

// playEventSoon is the timer callback driving a single pending playable
// through its readiness gate (spec §4.3 steps 2-3).
func (pl *Player) playEventSoon(p *playable.Playable) {
	if pl.stopped || pl.pending != p {
		return
	}

	ready := pl.isReady(p)
	if !ready {
		now := pl.sched.Now()
		p.MarkWaitStart(now)
		timeout := pl.effectiveTimeout(p)
		if timeout != 0 && p.Elapsed(now) >= timeout {
			pl.timeoutPlayable(p)
			return
		}
		pl.scheduleCheck(p, pl.cfg.PollInterval)
		return
	}

	p.State = playable.StatePlaying
	pl.dispatch(p)
}

func (pl *Player) effectiveTimeout(p *playable.Playable) time.Duration {
	if p.Timeout != 0 {
		return p.Timeout
	}
	return pl.cfg.DefaultTimeout
}

// timeoutPlayable transitions p to StateTimedOut and runs the failure path
// (spec §4.3 "Failure and termination").
func (pl *Player) timeoutPlayable(p *playable.Playable) {
	p.State = playable.StateTimedOut
	msg := pl.timeoutMessage(p)
	pl.log.Warn("playable timed out", "id", p.ID, "kind", p.Kind.String(), "message", msg)
	pl.fail(fmt.Errorf("%s", msg))
}

// playNext clears the pending slot and resumes the drain loop (spec §4.3
// step 3 "On completion ... resume drain").
func (pl *Player) playNext(p *playable.Playable) {
	if pl.pending == p {
		pl.pending = nil
	}
	if len(pl.queue) == 0 && pl.pending == nil {
		pl.fireEnd()
		return
	}
	pl.drain()
}

func (pl *Player) fireEnd() {
	subs := pl.endSubs
	pl.endSubs = nil
	for _, fn := range subs {
		fn()
	}
}

// Stop empties the queue, cancels the pending timer, then fires end (spec
// §5 "Cancellation").
func (pl *Player) Stop() {
	pl.stopped = true
	if pl.timer != nil {
		pl.timer.Cancel()
		pl.timer = nil
	}
	pl.queue = nil
	pl.pending = nil
	pl.fireEnd()
}

// fail empties the queue, fires error then end (spec §4.3 "Failure and
// termination", §5 "fail").
func (pl *Player) fail(err error) {
	pl.queue = nil
	pl.pending = nil
	if pl.timer != nil {
		pl.timer.Cancel()
		pl.timer = nil
	}
	subs := pl.errSubs
	pl.errSubs = nil
	for _, fn := range subs {
		fn(err)
	}
	if pl.visual != nil {
		pl.visual.HidePointer()
		pl.visual.HideGesture()
	}
	pl.fireEnd()
}

// Fail is the externally-triggerable counterpart to the internal timeout/
// error path (spec §5 "A Player fail empties the queue, fires an error with
// message, then end").
func (pl *Player) Fail(message string) { pl.fail(fmt.Errorf("%s", message)) }

// Pause suspends the drain loop. If a playable is currently pending (not yet
// playing), it is un-shifted back to the queue head and reset to queued
// (spec §4.3 "Pause/resume"), UNLESS the pause originates from inside that
// playable's own callback (fromOwnCallback).
func (pl *Player) Pause(fromOwnCallback bool) {
	pl.pauseCount++
	if pl.pending != nil && pl.pending.State == playable.StatePending && !fromOwnCallback {
		if pl.timer != nil {
			pl.timer.Cancel()
			pl.timer = nil
		}
		p := pl.pending
		p.State = playable.StateQueued
		p.ResetWaitStart()
		pl.pending = nil
		pl.queue = append([]*playable.Playable{p}, pl.queue...)
	}
}

// Resume re-enters the drain loop once the pause count drops to zero.
func (pl *Player) Resume() {
	if pl.pauseCount > 0 {
		pl.pauseCount--
	}
	if pl.pauseCount == 0 {
		pl.drain()
	}
}
