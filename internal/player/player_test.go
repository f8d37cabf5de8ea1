package player_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/domdriver/internal/config"
	"github.com/joeycumines/domdriver/internal/domtest"
	"github.com/joeycumines/domdriver/internal/locator"
	"github.com/joeycumines/domdriver/internal/playable"
	"github.com/joeycumines/domdriver/internal/player"
)

// harness bundles a Player with a domtest.Document and a manual clock,
// the way a real host bundles a Player against a live DOM — used by every
// scenario test below instead of hand-rolled fakes, since domtest already
// implements every external collaborator the Player needs.
type harness struct {
	doc   *domtest.Document
	sched *domtest.FakeScheduler
	pl    *player.Player
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	doc := domtest.NewDocument()
	t.Cleanup(doc.Close)

	resolver := locator.New(doc.Find, doc.Wrap)
	cfg := config.NewConfig()
	cfg.EventDelay = time.Millisecond
	cfg.PollInterval = time.Millisecond
	cfg.DefaultTimeout = 0
	cfg.Validate()

	sched := domtest.NewFakeScheduler(time.Unix(0, 0))
	pl := player.New(cfg, sched, domtest.NewInjector(doc), resolver, &domtest.Animations{}, &domtest.Visual{}, domtest.NewGesture())

	return &harness{doc: doc, sched: sched, pl: pl}
}

// advanceUntilIdle repeatedly steps the fake clock forward until the Player
// reports idle or maxSteps is exhausted (guards against a test bug hanging).
func (h *harness) advanceUntilIdle(t *testing.T, step time.Duration, maxSteps int) {
	t.Helper()
	for i := 0; i < maxSteps && !h.pl.IsIdle(); i++ {
		h.sched.Advance(step)
	}
}

// --- S1: basic click -------------------------------------------------------

func TestScenarioBasicClick(t *testing.T) {
	h := newHarness(t)

	btn := domtest.NewNode("submit", "button")
	btn.Attach().Show()
	h.doc.Root.AddChild(btn)

	var ended bool
	h.pl.OnEnd(func() { ended = true })

	p := playable.New(playable.KindEvent)
	p.Target = playable.SelectorTarget("#submit", nil, "")
	p.Payload = playable.EventPayload{EventType: "click"}
	h.pl.Enqueue(p)

	h.advanceUntilIdle(t, time.Millisecond, 50)

	assert.True(t, ended, "player must fire OnEnd once the queue drains")
	assert.Equal(t, playable.StateDone, p.State)
	assert.True(t, h.pl.IsIdle())
}

// --- S2: deferred visibility ------------------------------------------------

func TestScenarioDeferredVisibility(t *testing.T) {
	h := newHarness(t)

	btn := domtest.NewNode("reveal", "button")
	btn.Attach().Hide() // not yet visible
	h.doc.Root.AddChild(btn)

	p := playable.New(playable.KindEvent)
	p.Target = playable.SelectorTarget("#reveal", nil, "")
	p.Payload = playable.EventPayload{EventType: "click"}
	h.pl.Enqueue(p)

	// Still waiting: the button is attached but hidden.
	h.sched.Advance(5 * time.Millisecond)
	assert.False(t, h.pl.IsIdle())
	assert.Equal(t, "visible", p.WaitingState)

	btn.Show()
	h.advanceUntilIdle(t, time.Millisecond, 50)

	assert.True(t, h.pl.IsIdle())
	assert.Equal(t, playable.StateDone, p.State)
}

// --- S3: timeout -------------------------------------------------------------

func TestScenarioTimeout(t *testing.T) {
	h := newHarness(t)

	var failErr error
	h.pl.OnError(func(err error) { failErr = err })

	p := playable.New(playable.KindEvent)
	p.Target = playable.SelectorTarget("#never-appears", nil, "")
	p.Payload = playable.EventPayload{EventType: "click"}
	p.Timeout = 20 * time.Millisecond
	h.pl.Enqueue(p)

	h.sched.Advance(30 * time.Millisecond)

	require.Error(t, failErr)
	assert.Contains(t, failErr.Error(), "#never-appears")
	assert.Equal(t, playable.StateTimedOut, p.State)
	assert.True(t, h.pl.IsIdle(), "a failed player empties its queue")
}

// --- S4: nested ordering -----------------------------------------------------

func TestScenarioNestedOrdering(t *testing.T) {
	h := newHarness(t)

	var order []string

	first := playable.New(playable.KindCallback)
	first.SyncFn = func() error {
		order = append(order, "first")

		inner := playable.New(playable.KindCallback)
		inner.SyncFn = func() error {
			order = append(order, "inner")
			return nil
		}
		h.pl.Enqueue(inner)
		return nil
	}

	last := playable.New(playable.KindCallback)
	last.SyncFn = func() error {
		order = append(order, "last")
		return nil
	}

	h.pl.Enqueue(first)
	h.pl.Enqueue(last)

	h.advanceUntilIdle(t, time.Millisecond, 50)

	assert.Equal(t, []string{"first", "inner", "last"}, order,
		"a callback's own reentrant enqueue splices immediately after it, ahead of anything already queued behind it")
}

// S5 (selection by mixed modes) is exercised in internal/widgets, where the
// Selector/Collection types it depends on actually live.

// --- S6: async inspection with done -----------------------------------------

func TestScenarioAsyncCallbackDone(t *testing.T) {
	h := newHarness(t)

	var doneFn func()
	p := playable.New(playable.KindCallback)
	p.AsyncFn = func(done playable.DoneFunc) {
		doneFn = done
	}
	h.pl.Enqueue(p)

	h.sched.Advance(time.Millisecond)
	assert.False(t, h.pl.IsIdle(), "an async callback playable stays pending until done() is called")

	doneFn()
	assert.True(t, h.pl.IsIdle())
	assert.Equal(t, playable.StateDone, p.State)
}

func TestScenarioAsyncCallbackTimeout(t *testing.T) {
	h := newHarness(t)

	var failErr error
	h.pl.OnError(func(err error) { failErr = err })

	p := playable.New(playable.KindCallback)
	p.Timeout = 10 * time.Millisecond
	p.AsyncFn = func(done playable.DoneFunc) {
		// never calls done
	}
	h.pl.Enqueue(p)

	h.sched.Advance(20 * time.Millisecond)

	require.Error(t, failErr)
	assert.Equal(t, playable.StateTimedOut, p.State)
}

func TestCallbackPanicConvertsToFailure(t *testing.T) {
	h := newHarness(t)

	var failErr error
	h.pl.OnError(func(err error) { failErr = err })

	p := playable.New(playable.KindCallback)
	p.SyncFn = func() error {
		panic("boom")
	}
	h.pl.Enqueue(p)

	h.advanceUntilIdle(t, time.Millisecond, 10)

	require.Error(t, failErr)
	assert.Contains(t, failErr.Error(), "boom")
}

func TestStopCancelsOutstandingWork(t *testing.T) {
	h := newHarness(t)

	var ended bool
	h.pl.OnEnd(func() { ended = true })

	p := playable.New(playable.KindEvent)
	p.Target = playable.SelectorTarget("#absent", nil, "")
	h.pl.Enqueue(p)

	h.pl.Stop()

	assert.True(t, ended)
	assert.True(t, h.pl.IsIdle())
}

func TestPauseResumeReQueuesPendingPlayable(t *testing.T) {
	h := newHarness(t)

	btn := domtest.NewNode("go", "button")
	btn.Attach().Show()
	h.doc.Root.AddChild(btn)

	p := playable.New(playable.KindEvent)
	p.Target = playable.SelectorTarget("#go", nil, "")
	p.Payload = playable.EventPayload{EventType: "click"}
	h.pl.Enqueue(p)

	h.pl.Pause(false)
	assert.Equal(t, playable.StateQueued, p.State, "pausing un-shifts the pending playable back to queued")

	h.pl.Resume()
	h.advanceUntilIdle(t, time.Millisecond, 50)

	assert.Equal(t, playable.StateDone, p.State)
}

func TestFailMessage(t *testing.T) {
	h := newHarness(t)

	var got error
	h.pl.OnError(func(err error) { got = err })

	h.pl.Fail("manual failure")
	require.Error(t, got)
	assert.Equal(t, errors.New("manual failure").Error(), got.Error())
}
