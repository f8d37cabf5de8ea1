package domtest

import (
	"fmt"
	"strings"
	"sync"

	zone "github.com/lrstanley/bubblezone"

	"github.com/joeycumines/domdriver/internal/external"
)

// Document owns the node tree plus the bookkeeping a real browser would give
// for free: a bubblezone Manager tracking each node's on-screen bounds (so
// tap/click dispatch has coordinates to report, mirroring the teacher's
// mouseharness.ElementLocation) and a simple pub-sub table backing
// EventSource.
type Document struct {
	Root *Node

	zones *zone.Manager

	mu   sync.RWMutex
	subs map[string][]func() // key: nodeID+"\x00"+event
}

// NewDocument constructs a Document with a single root node ("document").
func NewDocument() *Document {
	root := NewNode("document", "document")
	root.Attach().Show()
	return &Document{
		Root:  root,
		zones: zone.New(),
		subs:  map[string][]func(){},
	}
}

// Close releases the bubblezone manager.
func (d *Document) Close() {
	if d.zones != nil {
		d.zones.Close()
	}
}

// Mark registers a zone for node, recording content for bounds lookup the
// way a render pass would (spec's DOM has no render loop of its own; the
// demo/tests call this after laying nodes out at known coordinates).
func (d *Document) Mark(node *Node, content string) string {
	return d.zones.Mark(node.ID, content)
}

// Scan processes previously-marked content, registering zone bounds.
func (d *Document) Scan(content string) string {
	return d.zones.Scan(content)
}

// Bounds returns the last-scanned bounding box for node, or ok=false if it
// was never marked/scanned.
func (d *Document) Bounds(node *Node) (x0, y0, x1, y1 int, ok bool) {
	info := d.zones.Get(node.ID)
	if info == nil || info.IsZero() {
		return 0, 0, 0, 0, false
	}
	return info.StartX, info.StartY, info.EndX, info.EndY, true
}

// Center returns the midpoint of node's last-scanned bounds, or (0,0,false).
func (d *Document) Center(node *Node) (x, y int, ok bool) {
	x0, y0, x1, y1, ok := d.Bounds(node)
	if !ok {
		return 0, 0, false
	}
	return (x0 + x1) / 2, (y0 + y1) / 2, true
}

// selector is the parsed form of one of this package's find expressions:
// an optional tag, optional #id, and any number of .class filters.
type selector struct {
	tag     string
	id      string
	classes []string
}

func parseSelector(expr string) selector {
	var s selector
	var cur strings.Builder
	kind := byte(0) // 0 = tag, '#' = id, '.' = class
	flush := func() {
		tok := cur.String()
		cur.Reset()
		if tok == "" {
			return
		}
		switch kind {
		case '#':
			s.id = tok
		case '.':
			s.classes = append(s.classes, tok)
		default:
			s.tag = tok
		}
	}
	for i := 0; i < len(expr); i++ {
		c := expr[i]
		if c == '#' || c == '.' {
			flush()
			kind = c
			continue
		}
		cur.WriteByte(c)
	}
	flush()
	return s
}

func (s selector) matches(n *Node) bool {
	if s.tag != "" && n.Tag != s.tag {
		return false
	}
	if s.id != "" && n.ID != s.id {
		return false
	}
	for _, c := range s.classes {
		if !n.HasClass(c) {
			return false
		}
	}
	return true
}

// Find implements locator.FindFunc against this document's tree. direction
// scopes the search relative to root (spec §4.1's selector targets, and
// spec §4.9's Down/Up/Child relational navigation):
//
//	""      - whole document, document order
//	"down"  - descendants of root (root itself excluded)
//	"child" - direct children of root only
//	"up"    - ancestors of root, nearest first
func (d *Document) Find(expr string, strict bool, root external.Element, direction string) (external.Element, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		if strict {
			return nil, fmt.Errorf("domtest: empty selector")
		}
		return nil, nil
	}
	sel := parseSelector(expr)

	scope := d.Root
	if root != nil {
		el, ok := root.(*Element)
		if !ok || el.node == nil {
			return nil, fmt.Errorf("domtest: root element not a domtest.Element")
		}
		scope = el.node
	}

	switch direction {
	case "up":
		for cur := scope.Parent; cur != nil; cur = cur.Parent {
			if sel.matches(cur) {
				return d.Wrap(cur), nil
			}
		}
		return nil, nil

	case "child":
		for _, c := range scope.Children {
			if sel.matches(c) {
				return d.Wrap(c), nil
			}
		}
		return nil, nil

	case "down":
		var found *Node
		for _, c := range scope.Children {
			c.Walk(func(n *Node) bool {
				if sel.matches(n) {
					found = n
					return false
				}
				return true
			})
			if found != nil {
				break
			}
		}
		if found == nil {
			return nil, nil
		}
		return d.Wrap(found), nil

	default:
		var found *Node
		scope.Walk(func(n *Node) bool {
			if sel.matches(n) {
				found = n
				return false
			}
			return true
		})
		if found == nil {
			return nil, nil
		}
		return d.Wrap(found), nil
	}
}

// Wrap adapts a raw *Node into an external.Element (locator.WrapFunc).
func (d *Document) Wrap(node any) external.Element {
	n, _ := node.(*Node)
	if n == nil {
		return nil
	}
	return &Element{node: n, doc: d}
}

func (d *Document) subKey(nodeID, event string) string { return nodeID + "\x00" + event }

// fire invokes every subscriber registered for (node, event).
func (d *Document) fire(node *Node, event string) {
	d.mu.RLock()
	fns := append([]func(){}, d.subs[d.subKey(node.ID, event)]...)
	d.mu.RUnlock()
	for _, fn := range fns {
		if fn != nil { // nil marks a cancelled subscription
			fn()
		}
	}
}

// Subscribe implements external.EventSource.
func (d *Document) Subscribe(el external.Element, event string, fn func()) (cancel func()) {
	e, ok := el.(*Element)
	if !ok || e.node == nil {
		return func() {}
	}
	key := d.subKey(e.node.ID, event)
	d.mu.Lock()
	d.subs[key] = append(d.subs[key], fn)
	idx := len(d.subs[key]) - 1
	d.mu.Unlock()
	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		list := d.subs[key]
		if idx < len(list) {
			list[idx] = nil
		}
	}
}
