package player

import (
	"fmt"
	"time"

	bt "github.com/joeycumines/go-behaviortree"

	"github.com/joeycumines/domdriver/internal/external"
	"github.com/joeycumines/domdriver/internal/playable"
)

// dispatch fires a StatePlaying playable according to its Kind (spec §4.4,
// §4.5).
func (pl *Player) dispatch(p *playable.Playable) {
	switch p.Kind {
	case playable.KindEvent:
		pl.dispatchEvent(p)
	case playable.KindCallback:
		pl.dispatchCallback(p)
	case playable.KindDelay, playable.KindPredicate:
		pl.finishPlayable(p)
	}
}

// dispatchEvent expands composite gestures (tap, type) at play time, or
// hands a simple event straight to the Injector (spec §4.4).
func (pl *Player) dispatchEvent(p *playable.Playable) {
	switch p.Payload.EventType {
	case "tap":
		pl.expandTap(p)
		return
	case "type":
		pl.expandType(p)
		return
	}
	pl.injectSimple(p)
}

func (pl *Player) injectSimple(p *playable.Playable) {
	d := &Dispatch{
		EventType:     p.Payload.EventType,
		Target:        p.ResolvedTarget(),
		RelatedTarget: p.ResolvedRelatedTarget(),
		X:             p.Payload.X,
		Y:             p.Payload.Y,
		Button:        p.Payload.Button,
		Key:           p.Payload.Key,
		Text:          p.Payload.Text,
		Caret:         p.Payload.Caret,
		Meta:          p.Payload.Meta,
		Shift:         p.Payload.Shift,
		Ctrl:          p.Payload.Ctrl,
		Detail:        p.Payload.Detail,
	}
	pl.bookkeepDispatch(p.Payload.EventType, p.Payload.X, p.Payload.Y)
	if err := pl.injector.Inject(d); err != nil {
		pl.failPlayable(p, err)
		return
	}
	pl.finishPlayable(p)
}

// bookkeepDispatch implements the "post-dispatch bookkeeping" of spec §4.4:
// touch counting, visual feedback, and the last-gesture-end stamp.
func (pl *Player) bookkeepDispatch(eventType string, x, y int) {
	switch eventType {
	case "pointerdown":
		pl.touchCount++
		if pl.visual != nil {
			pl.visual.ShowPointer(x, y)
			pl.visual.ShowGesture()
		}
	case "pointerup":
		if pl.touchCount > 0 {
			pl.touchCount--
		}
		if pl.visual != nil {
			pl.visual.HidePointer()
			pl.visual.HideGesture()
		}
		pl.lastGestureEnd = pl.sched.Now()
	}
}

// expandTap implements the tap expansion of spec §4.4: pointerdown,
// pointerup (target := -1), click (target := -2), then a trailing
// wait-predicate consulting the gesture-completion collaborator. The fixed
// firing order (pointerdown -> pointerup -> click -> wait) is enforced by a
// bt.Sequence over the three dispatch sub-playables, ticked once per drain
// poll from the wait-predicate's Ready hook the same way
// internal/builtin/bt/adapter.go drives an external async operation to
// completion via repeated Tick() calls: the wait-predicate cannot report
// ready until the Sequence itself reports bt.Success, i.e. until every sub
// has reached StateDone in order. The subs are spliced at the queue head so
// the original tap's position relative to the rest of the queue is preserved.
func (pl *Player) expandTap(p *playable.Playable) {
	original := p
	target := original.ResolvedTarget()

	mkSub := func(eventType string, delay time.Duration, targetEl external.Element) *playable.Playable {
		sub := playable.New(playable.KindEvent)
		sub.Payload = original.Payload
		sub.Payload.EventType = eventType
		sub.Delay = delay
		sub.Timeout = original.Timeout
		sub.SetResolvedTarget(targetEl)
		sub.Target = playable.Target{} // already resolved; defaultReady must treat this as "no target to re-resolve"
		return sub
	}

	pointerdown := mkSub("pointerdown", original.Delay, target)
	pointerup := mkSub("pointerup", 0, target)
	click := mkSub("click", 0, target)

	seq := tapSequenceNode([]*playable.Playable{pointerdown, pointerup, click})

	waitPred := playable.New(playable.KindPredicate)
	waitPred.Timeout = original.Timeout
	gestureName := "tap"
	targetID := fmt.Sprintf("%p", target)
	waitPred.Ready = func(*playable.Playable) bool {
		status, err := seq.Tick()
		if err != nil || status != bt.Success {
			return false
		}
		if pl.gesture == nil {
			return true
		}
		return pl.gesture.Complete(targetID, gestureName)
	}

	subs := []*playable.Playable{pointerdown, pointerup, click, waitPred}
	pl.spliceAtHead(subs)
	pl.pending = nil
	pl.drain()
}

// tapSequenceNode builds a bt.Sequence gating the dispatch order of subs:
// each leaf reports bt.Running until its playable reaches StateDone,
// bt.Success once done, and bt.Failure on StateErrored/StateTimedOut.
// bt.Sequence ticks leaves left to right and stops at the first non-success,
// so the composite only reaches bt.Success once pointerdown, pointerup and
// click have all completed in that order (spec §4.4, §5's fixed-order
// contract), grounded on the teacher's bt.Sequence usage
// (internal/builtin/bt/require.go).
func tapSequenceNode(subs []*playable.Playable) bt.Node {
	nodes := make([]bt.Node, len(subs))
	for i, s := range subs {
		s := s
		nodes[i] = bt.New(func([]bt.Node) (bt.Status, error) {
			switch s.State {
			case playable.StateDone:
				return bt.Success, nil
			case playable.StateErrored, playable.StateTimedOut:
				return bt.Failure, nil
			default:
				return bt.Running, nil
			}
		})
	}
	return bt.New(func(children []bt.Node) (bt.Status, error) {
		return bt.Sequence(children)
	}, nodes...)
}

// expandType implements the type expansion of spec §4.4: one keydown/keyup
// pair per character of Text, or a single pair for a bare Key. A playable
// with neither is skipped entirely. Each per-character keydown carries just
// that character, at the original caret plus the number of characters
// already typed.
func (pl *Player) expandType(p *playable.Playable) {
	original := p
	target := original.ResolvedTarget()

	var subs []*playable.Playable
	mk := func(eventType, key, text string, delay time.Duration, caret int) *playable.Playable {
		sub := playable.New(playable.KindEvent)
		sub.Payload = original.Payload
		sub.Payload.EventType = eventType
		sub.Payload.Key = key
		sub.Payload.Text = text
		sub.Payload.Caret = caret
		sub.Delay = delay
		sub.Timeout = original.Timeout
		sub.SetResolvedTarget(target)
		return sub
	}

	switch {
	case original.Payload.Text != "":
		n := 0
		for _, r := range original.Payload.Text {
			delay := time.Duration(0)
			if n == 0 {
				delay = original.Delay
			}
			key := string(r)
			subs = append(subs, mk("keydown", key, key, delay, original.Payload.Caret+n))
			subs = append(subs, mk("keyup", key, "", 0, 0))
			n++
		}
	case original.Payload.Key != "":
		subs = append(subs, mk("keydown", original.Payload.Key, "", original.Delay, original.Payload.Caret))
		subs = append(subs, mk("keyup", original.Payload.Key, "", 0, 0))
	default:
		// Neither text nor key: the playable is skipped (spec §4.4).
		pl.pending = nil
		pl.drain()
		return
	}

	pl.spliceAtHead(subs)
	pl.pending = nil
	pl.drain()
}

// spliceAtHead inserts subs at the front of the queue, preserving their
// relative order and the original playable's ordering relative to the tail
// (spec §4.4, §5).
func (pl *Player) spliceAtHead(subs []*playable.Playable) {
	for _, s := range subs {
		pl.nextID++
		s.ID = pl.nextID
	}
	pl.queue = append(subs, pl.queue...)
}

// dispatchCallback runs a callback playable (spec §4.5), arming the
// reentrant-enqueue marker for the duration of the call.
func (pl *Player) dispatchCallback(p *playable.Playable) {
	idx := 0
	pl.pendingFnInsertIndex = &idx

	defer func() {
		pl.pendingFnInsertIndex = nil
		if r := recover(); r != nil {
			pl.handleCallbackPanic(p, r)
		}
	}()

	switch {
	case p.SyncFn != nil:
		err := p.SyncFn()
		pl.pendingFnInsertIndex = nil
		if err != nil {
			pl.failPlayable(p, err)
			return
		}
		pl.finishPlayable(p)

	case p.AsyncFn != nil:
		done := false
		var cancelTimeout CancelHandle
		finish := func() {
			if done {
				return
			}
			done = true
			if cancelTimeout != nil {
				cancelTimeout.Cancel()
			}
			pl.pendingFnInsertIndex = nil
			pl.finishPlayable(p)
		}
		if to := pl.effectiveTimeout(p); to != 0 {
			cancelTimeout = pl.sched.Defer(func() {
				if done {
					return
				}
				done = true
				pl.pendingFnInsertIndex = nil
				pl.timeoutPlayable(p)
			}, to)
		}
		p.AsyncFn(finish)

	default:
		pl.pendingFnInsertIndex = nil
		pl.finishPlayable(p)
	}
}

func (pl *Player) handleCallbackPanic(p *playable.Playable, r any) {
	err := fmt.Errorf("callback panic: %v", r)
	if pl.cfg.ExceptionHandling {
		pl.failPlayable(p, err)
		return
	}
	panic(r)
}

// finishPlayable transitions p to done and resumes the drain (spec §4.3
// step 3).
func (pl *Player) finishPlayable(p *playable.Playable) {
	p.State = playable.StateDone
	pl.playNext(p)
}

// failPlayable transitions p to errored and runs the Player-wide failure
// path (spec §4.3 "Failure and termination", §7 "User callback threw").
func (pl *Player) failPlayable(p *playable.Playable, err error) {
	p.State = playable.StateErrored
	p.SetErr(err)
	pl.log.Error("playable errored", "id", p.ID, "kind", p.Kind.String(), "error", err)
	pl.fail(err)
}
