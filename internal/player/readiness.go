package player

import (
	"github.com/joeycumines/domdriver/internal/external"
	"github.com/joeycumines/domdriver/internal/playable"
)

// isReady implements the default composite readiness of spec §4.2, unless p
// carries a custom Ready hook, in which case that hook fully replaces it.
func (pl *Player) isReady(p *playable.Playable) bool {
	if p.Ready != nil {
		return p.Ready(p)
	}
	return pl.defaultReady(p)
}

func (pl *Player) defaultReady(p *playable.Playable) bool {
	if p.Policy.Animation == playable.WaitForIdle && pl.anim != nil && pl.anim.AnyActive() {
		p.SetWaitingTag("animation", "idle")
		return false
	}

	if !p.Target.None() {
		el, err := pl.resolver.Resolve(p.Target, p.ResolvedTarget())
		if err != nil || el == nil {
			p.SetWaitingTag(targetTag(p.Target), "available")
			return false
		}
		p.SetResolvedTarget(el)
		if ok := pl.checkAvailabilityAndVisibility(p, el, targetTag(p.Target), p.Policy); !ok {
			return false
		}
	}

	if !p.RelatedTarget.None() {
		el, err := pl.resolver.Resolve(p.RelatedTarget, p.ResolvedRelatedTarget())
		if err != nil || el == nil {
			p.SetWaitingTag(targetTag(p.RelatedTarget), "available")
			return false
		}
		p.SetResolvedRelatedTarget(el)
		if ok := pl.checkAvailabilityAndVisibility(p, el, targetTag(p.RelatedTarget), p.Policy); !ok {
			return false
		}
	}

	p.SetWaiting(true)
	return true
}

func (pl *Player) checkAvailabilityAndVisibility(p *playable.Playable, el external.Element, tag string, policy playable.ReadinessPolicy) bool {
	switch policy.Availability {
	case playable.MustBeAttached:
		if !el.IsAttached() {
			p.SetWaitingTag(tag, "attached")
			return false
		}
	case playable.MustBeDetached:
		if el.IsAttached() {
			p.SetWaitingTag(tag, "detached")
			return false
		}
	}

	switch policy.Visibility {
	case playable.MustBeVisible:
		if !el.IsVisible() {
			p.SetWaitingTag(tag, "visible")
			return false
		}
	case playable.MustBeHidden:
		if el.IsVisible() {
			p.SetWaitingTag(tag, "hidden")
			return false
		}
	}

	return true
}

func targetTag(t playable.Target) string {
	switch t.Kind {
	case playable.TargetSelector:
		return t.Selector
	case playable.TargetBackref:
		return "target"
	default:
		return "target"
	}
}
