// Package widgets implements the domain-aware future derivations of
// spec.md §4.9 (container, field, list, tabular, item, row, cell), the
// selection mixin of §4.8, and the common action/state vocabulary every
// widget class extends (spec §4.7 "Future derivations").
package widgets

import (
	"strings"
	"time"

	"github.com/joeycumines/domdriver/internal/external"
	"github.com/joeycumines/domdriver/internal/future"
	"github.com/joeycumines/domdriver/internal/playable"
)

// Availability/Visibility override helpers, used to build StateDescriptor
// pointer fields tersely.
func avail(a playable.Availability) *playable.Availability { return &a }
func vis(v playable.Visibility) *playable.Visibility       { return &v }

// BaseClass is the common "element" vocabulary every widget class extends
// (spec §4.7): click/tap/type/setValue actions, visible/hidden/destroyed
// states. It plays the role the source's base Future class does.
var BaseClass = buildBaseClass()

func buildBaseClass() *future.Class {
	c := future.NewClass("element")

	c.RegisterAction("click", future.ActionDescriptor{Build: func(f *future.Future, args []any) *playable.Playable {
		p := playable.New(playable.KindEvent)
		x, y := 0, 0
		if len(args) >= 2 {
			x, _ = args[0].(int)
			y, _ = args[1].(int)
		}
		p.Payload = playable.EventPayload{EventType: "tap", X: x, Y: y}
		return p
	}})

	c.RegisterAction("tap", c.Actions["click"])

	c.RegisterAction("type", future.ActionDescriptor{Build: func(f *future.Future, args []any) *playable.Playable {
		p := playable.New(playable.KindEvent)
		text := ""
		if len(args) >= 1 {
			text, _ = args[0].(string)
		}
		p.Payload = playable.EventPayload{EventType: "type", Text: text}
		return p
	}})

	c.RegisterAction("setValue", future.ActionDescriptor{Build: func(f *future.Future, args []any) *playable.Playable {
		p := playable.New(playable.KindEvent)
		value := ""
		if len(args) >= 1 {
			value, _ = args[0].(string)
		}
		p.Payload = playable.EventPayload{EventType: "type", Text: value, Caret: len(value)}
		return p
	}})

	c.RegisterState("visible", future.StateDescriptor{
		Is: func(f *future.Future, el external.Element, args []any) bool { return el.IsVisible() },
	})
	c.RegisterState("hidden", future.StateDescriptor{
		Visibility: vis(playable.VisibilityDontCare),
		Is:         func(f *future.Future, el external.Element, args []any) bool { return !el.IsVisible() },
	})
	c.RegisterState("destroyed", future.StateDescriptor{
		Availability: avail(playable.AvailabilityDontCare),
		Visibility:   vis(playable.VisibilityDontCare),
		Is:           func(f *future.Future, el external.Element, args []any) bool { return !el.IsAttached() },
	})
	c.RegisterState("checked", future.StateDescriptor{
		Is: func(f *future.Future, el external.Element, args []any) bool { return el.HasClass("checked") },
	})
	c.RegisterState("expanded", future.StateDescriptor{
		Is: func(f *future.Future, el external.Element, args []any) bool { return el.HasClass("expanded") },
	})
	c.RegisterState("collapsed", future.StateDescriptor{
		Is: func(f *future.Future, el external.Element, args []any) bool { return !el.HasClass("expanded") },
	})
	c.RegisterState("selected", future.StateDescriptor{
		Is: func(f *future.Future, el external.Element, args []any) bool { return el.HasClass("selected") },
	})
	c.RegisterState("viewReady", future.StateDescriptor{
		Is: func(f *future.Future, el external.Element, args []any) bool { return el.IsAttached() && el.IsVisible() },
	})
	c.RegisterState("valueLike", future.StateDescriptor{
		Is: func(f *future.Future, el external.Element, args []any) bool {
			if len(args) == 0 {
				return true
			}
			want, _ := args[0].(string)
			return strings.Contains(el.GetText(), want)
		},
	})

	return c
}

// Element constructs a root-level Future for a plain element (spec §4.7
// "Construction ... factory (element, component, button, grid, ...)").
func Element(engine *future.Engine, selector string, timeout time.Duration) *future.Future {
	return future.New(engine, BaseClass, playable.SelectorTarget(selector, nil, ""), timeout)
}
