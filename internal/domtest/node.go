// Package domtest is an in-memory DOM double used by this module's own
// tests and by cmd/domdemo: a tree of Node values standing in for a real
// browser document, an Element wrapper satisfying internal/external's
// collaborator interfaces, a find dialect, and a pair of Scheduler
// implementations (a real one and a manual-clock fake for deterministic
// tests).
//
// It is grounded on the teacher's internal/mouseharness package — which
// locates and clicks elements inside a virtual terminal buffer rather than a
// virtual DOM — and wires github.com/lrstanley/bubblezone (via the
// teacher's internal/builtin/bubblezone wrapper) for the same zone/bounds
// bookkeeping mouseharness' ElementLocation does by hand.
package domtest

import (
	"fmt"
	"strings"
	"sync"
)

// Node is one element of the in-memory document tree.
type Node struct {
	ID       string
	Tag      string
	Classes  []string
	Attrs    map[string]string
	Text     string
	Value    string // current input value, mutated by dispatched type/keydown events
	Caret    int
	Children []*Node
	Parent   *Node

	attached bool
	visible  bool

	mu sync.RWMutex
}

// NewNode constructs a detached, invisible Node. Call Attach/Show (or set
// the fields directly before wiring into a Document) to make it resolvable.
func NewNode(id, tag string) *Node {
	return &Node{ID: id, Tag: tag, Attrs: map[string]string{}}
}

// Attach marks the node (and, transitively, nothing else — ancestors must
// be attached independently) attached.
func (n *Node) Attach() *Node { n.mu.Lock(); n.attached = true; n.mu.Unlock(); return n }

// Detach marks the node detached.
func (n *Node) Detach() *Node { n.mu.Lock(); n.attached = false; n.mu.Unlock(); return n }

// Show marks the node visible.
func (n *Node) Show() *Node { n.mu.Lock(); n.visible = true; n.mu.Unlock(); return n }

// Hide marks the node hidden.
func (n *Node) Hide() *Node { n.mu.Lock(); n.visible = false; n.mu.Unlock(); return n }

// IsAttached reports the node's attached flag, honoring ancestor detachment:
// a node is only really attached if every ancestor up to the root is too.
func (n *Node) IsAttached() bool {
	for cur := n; cur != nil; cur = cur.Parent {
		cur.mu.RLock()
		ok := cur.attached
		cur.mu.RUnlock()
		if !ok {
			return false
		}
	}
	return true
}

// IsVisible reports the node's visible flag, honoring ancestor visibility.
func (n *Node) IsVisible() bool {
	for cur := n; cur != nil; cur = cur.Parent {
		cur.mu.RLock()
		ok := cur.visible
		cur.mu.RUnlock()
		if !ok {
			return false
		}
	}
	return true
}

// HasClass reports class membership.
func (n *Node) HasClass(name string) bool {
	for _, c := range n.Classes {
		if c == name {
			return true
		}
	}
	return false
}

// AddChild appends child to n's children, setting its Parent.
func (n *Node) AddChild(child *Node) *Node {
	child.Parent = n
	n.Children = append(n.Children, child)
	return n
}

// Contains reports whether other is n or a descendant of n.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.Parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Walk visits n and every descendant in document order, stopping early if
// fn returns false.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

func (n *Node) String() string {
	return fmt.Sprintf("<%s id=%q class=%q>", n.Tag, n.ID, strings.Join(n.Classes, " "))
}
