package playable

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindEvent, "injected-event"},
		{KindCallback, "callback"},
		{KindDelay, "wait-delay"},
		{KindPredicate, "wait-predicate"},
		{Kind(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.kind.String())
		})
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateQueued, "queued"},
		{StatePending, "pending"},
		{StatePlaying, "playing"},
		{StateDone, "done"},
		{StateTimedOut, "timed-out"},
		{StateErrored, "errored"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.String())
		})
	}
}

func TestNewDefaults(t *testing.T) {
	p := New(KindEvent)
	assert.Equal(t, KindEvent, p.Kind)
	assert.Equal(t, StateQueued, p.State)
	assert.Equal(t, DefaultReadinessPolicy(), p.Policy)
	assert.NotEqual(t, uuid.UUID{}, p.UUID, "New must stamp a non-zero diagnostic UUID")
}

func TestResolvedTargetRoundTrip(t *testing.T) {
	p := New(KindPredicate)
	assert.Nil(t, p.ResolvedTarget())
	assert.Nil(t, p.ResolvedRelatedTarget())
}

func TestWaitingTagBookkeeping(t *testing.T) {
	p := New(KindEvent)
	p.SetWaitingTag("#submit", "attached")
	assert.Equal(t, "#submit", p.WaitingFor)
	assert.Equal(t, "attached", p.WaitingState)

	p.SetWaiting(true)
	assert.Empty(t, p.WaitingFor)
	assert.Empty(t, p.WaitingState)
}

func TestWaitStartAndElapsed(t *testing.T) {
	p := New(KindEvent)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, time.Duration(0), p.Elapsed(now), "never marked means zero elapsed")

	p.MarkWaitStart(now)
	later := now.Add(3 * time.Second)
	assert.Equal(t, 3*time.Second, p.Elapsed(later))

	// A second MarkWaitStart must not move the stamp forward.
	p.MarkWaitStart(later.Add(time.Minute))
	assert.Equal(t, 3*time.Second, p.Elapsed(later))

	p.ResetWaitStart()
	assert.Equal(t, time.Duration(0), p.Elapsed(later))
}

func TestErrRoundTrip(t *testing.T) {
	p := New(KindCallback)
	assert.NoError(t, p.Err())

	err := assert.AnError
	p.SetErr(err)
	assert.Equal(t, err, p.Err())
}
