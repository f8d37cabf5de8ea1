package domtest

import (
	"sync"

	"github.com/joeycumines/domdriver/internal/external"
)

// Animations is a toggleable AnimationsProbe double: tests flip Active to
// simulate a CSS transition in flight, exercising the "wait for animations
// idle" readiness gate of spec §4.2.
type Animations struct {
	mu     sync.RWMutex
	active bool
}

var _ external.AnimationsProbe = (*Animations)(nil)

func (a *Animations) AnyActive() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.active
}

// Set toggles the simulated animation state.
func (a *Animations) Set(active bool) {
	a.mu.Lock()
	a.active = active
	a.mu.Unlock()
}

// Visual records pointer/gesture feedback calls for assertions, the way the
// teacher's mouseharness.Console records sent mouse sequences rather than
// rendering them for a human.
type Visual struct {
	mu     sync.Mutex
	Events []string
}

var _ external.VisualFeedback = (*Visual)(nil)

func (v *Visual) record(s string) {
	v.mu.Lock()
	v.Events = append(v.Events, s)
	v.mu.Unlock()
}

func (v *Visual) ShowPointer(x, y int) { v.record("show-pointer") }
func (v *Visual) HidePointer()         { v.record("hide-pointer") }
func (v *Visual) ShowGesture()         { v.record("show-gesture") }
func (v *Visual) HideGesture()         { v.record("hide-gesture") }

// Gesture is a GestureCompletion double that, by default, completes any
// gesture immediately; tests can call Hold to make Complete return false
// until Release is called, exercising tap's trailing wait-predicate (spec
// §4.4).
type Gesture struct {
	mu      sync.Mutex
	holding map[string]bool
	active  bool
}

var _ external.GestureCompletion = (*Gesture)(nil)

func NewGesture() *Gesture { return &Gesture{holding: map[string]bool{}} }

func (g *Gesture) Activate() {
	g.mu.Lock()
	g.active = true
	g.mu.Unlock()
}

func (g *Gesture) Deactivate() {
	g.mu.Lock()
	g.active = false
	g.mu.Unlock()
}

// Hold keeps Complete returning false for the named gesture until Release.
func (g *Gesture) Hold(targetID, gestureName string) {
	g.mu.Lock()
	g.holding[targetID+"\x00"+gestureName] = true
	g.mu.Unlock()
}

// Release lets a held gesture report complete.
func (g *Gesture) Release(targetID, gestureName string) {
	g.mu.Lock()
	delete(g.holding, targetID+"\x00"+gestureName)
	g.mu.Unlock()
}

func (g *Gesture) Complete(targetID, gestureName string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return !g.holding[targetID+"\x00"+gestureName]
}
