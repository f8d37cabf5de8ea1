package domtest

import (
	"fmt"

	"github.com/joeycumines/domdriver/internal/external"
)

// Injector performs the synthetic dispatch the Player hands it (spec §6),
// mutating the in-memory document the way a real browser's input pipeline
// would, then firing the event to any EventSource subscribers so State's
// event-subscription strategy (spec §4.7) has something to observe.
type Injector struct {
	Doc *Document
}

var _ external.Injector = (*Injector)(nil)

// NewInjector constructs an Injector writing into doc.
func NewInjector(doc *Document) *Injector { return &Injector{Doc: doc} }

func (i *Injector) Inject(d *external.Dispatch) error {
	target, ok := d.Target.(*Element)
	if !ok || target.node == nil {
		return fmt.Errorf("domtest: dispatch target is not attached to this document")
	}
	node := target.node

	switch d.EventType {
	case "keydown":
		if d.Text != "" {
			runes := []rune(node.Value)
			caret := d.Caret
			if caret < 0 || caret > len(runes) {
				caret = len(runes)
			}
			runes = append(runes[:caret], append([]rune(d.Text), runes[caret:]...)...)
			node.Value = string(runes)
			node.Caret = caret + len([]rune(d.Text))
		} else if d.Key == "Backspace" && len(node.Value) > 0 {
			runes := []rune(node.Value)
			if node.Caret > 0 && node.Caret <= len(runes) {
				runes = append(runes[:node.Caret-1], runes[node.Caret:]...)
				node.Value = string(runes)
				node.Caret--
			}
		}
	case "keyup":
		// no state change; keydown already applied the edit
	case "pointerdown", "pointerup", "click", "mousedown", "mouseup":
		// hit-testing already happened by the time a Dispatch exists;
		// nothing further to mutate besides firing the event below.
	}

	i.Doc.fire(node, d.EventType)
	return nil
}
