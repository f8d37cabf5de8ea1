// Package future implements the fluent builder described in spec.md §4.7:
// factories create a Future bound to a locator, chained methods enqueue
// playables against the Future's cached root element, and a declarative
// registry of named states ("wait-for-X") and actions ("do-X") lets widget
// packages extend the base without subclassing.
//
// Per spec §9 ("Global singleton state ... retain as an injected instance"),
// nothing here is a package-level global: every Future is constructed from
// an *Engine, a small context object bundling the Player, the locator
// Resolver, and the active variant table.
package future

import (
	"github.com/joeycumines/domdriver/internal/config"
	"github.com/joeycumines/domdriver/internal/external"
	"github.com/joeycumines/domdriver/internal/locator"
	"github.com/joeycumines/domdriver/internal/player"
	"github.com/joeycumines/domdriver/internal/variant"
)

// Engine is the injected context object every Future is built from.
type Engine struct {
	Player   *player.Player
	Resolver *locator.Resolver
	Config   *config.EngineConfig
	Variants *variant.Table
	Events   external.EventSource // optional; nil means states never use the Wait event strategy
}

// NewEngine wires a Player and Resolver (already constructed against the
// host's external collaborators) into a reusable Future-building context.
func NewEngine(pl *player.Player, resolver *locator.Resolver, cfg *config.EngineConfig, variants *variant.Table, events external.EventSource) *Engine {
	if cfg == nil {
		cfg = config.NewConfig()
	}
	if variants == nil {
		variants = variant.NewTableForVariant(variant.Token(cfg.ToolkitVariant))
	}
	return &Engine{Player: pl, Resolver: resolver, Config: cfg, Variants: variants, Events: events}
}

// rootElementOf returns f's cached root element (nil if f or its root
// playable is nil, or the root has not resolved yet).
func (e *Engine) rootElementOf(f *Future) external.Element {
	if f == nil || f.root == nil {
		return nil
	}
	return f.root.ResolvedTarget()
}
