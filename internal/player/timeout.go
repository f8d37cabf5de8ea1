package player

import (
	"fmt"
	"strings"

	"github.com/joeycumines/domdriver/internal/playable"
)

// timeoutMessage builds the diagnostic string of spec §4.6: walking
// back-references for a target/relatedTarget timeout until the originating
// locator is found, or falling back to the waitingFor/waitingState tags.
func (pl *Player) timeoutMessage(p *playable.Playable) string {
	selector := pl.describeOriginatingLocator(p)

	waitingFor := p.WaitingFor
	if waitingFor == "" {
		waitingFor = selector
	}
	waitingState := p.WaitingState
	if waitingState == "" {
		waitingState = "ready"
	}

	var b strings.Builder
	b.WriteString("Timeout waiting for ")
	b.WriteString(waitingFor)
	if selector != "" && selector != waitingFor {
		b.WriteString(fmt.Sprintf(" (%s)", selector))
	}
	b.WriteString(" to be ")
	b.WriteString(waitingState)
	if p.Kind == playable.KindEvent && p.Payload.EventType != "" {
		b.WriteString(" for ")
		b.WriteString(p.Payload.EventType)
	}
	return b.String()
}

// describeOriginatingLocator follows the chain of back-reference targets
// until it finds a playable carrying a string selector or direct node, then
// describes it by selector text (or a synthetic tag for a raw node).
func (pl *Player) describeOriginatingLocator(p *playable.Playable) string {
	cur := p
	for i := 0; i < 64; i++ { // bounded: back-reference chains cannot cycle in a well-formed queue
		t := cur.Target
		switch t.Kind {
		case playable.TargetSelector:
			return t.Selector
		case playable.TargetBackref:
			if t.Backref == nil {
				return ""
			}
			cur = t.Backref
			continue
		case playable.TargetNode:
			return fmt.Sprintf("node#%v", t.Node)
		default:
			return ""
		}
	}
	return ""
}
