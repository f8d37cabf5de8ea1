package block

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/joeycumines/domdriver/internal/player"
)

// Result is the outcome of one Block run (spec §3 Block, §6 Reporter).
type Result struct {
	ID           string
	Name         string
	Passed       bool
	Expectations []string
	Disabled     bool
}

// Fn is the user test function. done is non-nil only when Async is true.
type Fn func(ctx any, done Done)

// Block wraps one user test function (spec §3 "Block", §4.10).
type Block struct {
	ID      string
	Name    string
	Fn      Fn
	Timeout time.Duration
	Ctx     any
	Async   bool // true iff Fn declares a completion parameter

	player *player.Player
	log    *slog.Logger

	mu           sync.Mutex
	err          error
	expectations []string
	running      bool
	playing      bool

	onComplete func(Result)
}

// New constructs a Block. async mirrors spec §3's "async (true iff fn
// declares a completion parameter)" — since Go has no runtime arity
// introspection, callers pass this explicitly.
func New(id, name string, fn Fn, timeout time.Duration, ctx any, async bool, pl *player.Player, log *slog.Logger) *Block {
	if log == nil {
		log = slog.Default()
	}
	return &Block{ID: id, Name: name, Fn: fn, Timeout: timeout, Ctx: ctx, Async: async, player: pl, log: log}
}

// Run executes the block (spec §4.10):
//  1. construct a WatchDog iff Async
//  2. call Fn(ctx, watchDog)
//  3. after return, if the Player has pending playables, subscribe once to
//     its end event
//  4. complete when both the WatchDog (if armed) has reported and the
//     Player has drained (or was never engaged).
//
// onComplete is called exactly once, with the accumulated result.
func (b *Block) Run(onComplete func(Result)) {
	b.onComplete = onComplete
	b.running = true

	var g errgroup.Group
	watchDogDone := make(chan struct{})
	playerDone := make(chan struct{})

	var wd *WatchDog
	if b.Async {
		wd = NewWatchDog(b.Timeout, b.Timeout > 0, func(err error) {
			if err != nil {
				b.recordFailure(err)
			}
			close(watchDogDone)
		})
	} else {
		close(watchDogDone)
	}

	g.Go(func() error {
		<-watchDogDone
		return nil
	})

	func() {
		defer func() {
			if r := recover(); r != nil {
				b.recordFailure(fmt.Errorf("test function panicked: %v", r))
				if wd != nil {
					wd.Fail(fmt.Errorf("panic: %v", r))
				}
			}
		}()
		var done Done
		if b.Async {
			done = wd
		}
		b.Fn(b.Ctx, done)
	}()

	if b.player != nil && !b.player.IsIdle() {
		b.playing = true
		b.player.OnEnd(func() { close(playerDone) })
		b.player.OnError(func(err error) {
			b.recordFailure(err)
		})
	} else {
		close(playerDone)
	}

	g.Go(func() error {
		<-playerDone
		return nil
	})

	go func() {
		_ = g.Wait()
		b.finish()
	}()
}

func (b *Block) recordFailure(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.expectations = append(b.expectations, err.Error())
	if b.err == nil {
		b.err = err
	}
}

func (b *Block) finish() {
	b.mu.Lock()
	passed := b.err == nil
	expectations := append([]string(nil), b.expectations...)
	b.running = false
	b.mu.Unlock()

	res := Result{ID: b.ID, Name: b.Name, Passed: passed, Expectations: expectations}
	b.log.Info("block finished", "id", b.ID, "name", b.Name, "passed", passed)
	if b.onComplete != nil {
		b.onComplete(res)
	}
}
