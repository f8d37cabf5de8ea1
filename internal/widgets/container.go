package widgets

import (
	"time"

	"github.com/joeycumines/domdriver/internal/future"
	"github.com/joeycumines/domdriver/internal/playable"
)

// ContainerClass extends BaseClass for components that host child widgets
// but otherwise behave like a plain element (spec §4.9 "container").
var ContainerClass = BaseClass.Extend("container")

// FieldClass extends BaseClass with valueLike/setValue already present on
// the base — field futures exist to give form inputs their own class name
// for variant dispatch (spec §4.9 "field").
var FieldClass = BaseClass.Extend("field")

// ButtonClass is a plain clickable element, kept distinct from Element so a
// toolkit variant table can target buttons specifically (spec §4.7
// "Toolkit-variant methods").
var ButtonClass = BaseClass.Extend("button")

// Container constructs a root-level container Future.
func Container(engine *future.Engine, selector string, timeout time.Duration) *future.Future {
	return future.New(engine, ContainerClass, playable.SelectorTarget(selector, nil, ""), timeout)
}

// Field constructs a root-level field (form input) Future.
func Field(engine *future.Engine, selector string, timeout time.Duration) *future.Future {
	return future.New(engine, FieldClass, playable.SelectorTarget(selector, nil, ""), timeout)
}

// Button constructs a root-level button Future.
func Button(engine *future.Engine, selector string, timeout time.Duration) *future.Future {
	return future.New(engine, ButtonClass, playable.SelectorTarget(selector, nil, ""), timeout)
}
