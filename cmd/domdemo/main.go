// Command domdemo wires the full engine (Player, locator Resolver, Future
// builder, a BaseClass-derived widget, and a Block test harness) against
// internal/domtest's in-memory document, the way a real host would wire it
// against a browser tab. It exists to exercise the pieces end-to-end
// outside of package tests, mirroring the role the teacher's
// cmd/one-shot-man/main.go plays for internal/command's registry.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joeycumines/domdriver/internal/block"
	"github.com/joeycumines/domdriver/internal/config"
	"github.com/joeycumines/domdriver/internal/domtest"
	"github.com/joeycumines/domdriver/internal/future"
	"github.com/joeycumines/domdriver/internal/locator"
	"github.com/joeycumines/domdriver/internal/player"
	"github.com/joeycumines/domdriver/internal/reporter"
	"github.com/joeycumines/domdriver/internal/widgets"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	doc := domtest.NewDocument()
	defer doc.Close()

	button := domtest.NewNode("submit", "button")
	button.Classes = []string{"primary"}
	button.Attach().Show()
	doc.Root.AddChild(button)
	doc.Scan(doc.Mark(button, "[ Submit ]"))

	status := domtest.NewNode("status", "span")
	status.Attach().Hide()
	doc.Root.AddChild(status)

	resolver := locator.New(doc.Find, doc.Wrap)

	cfg := config.NewConfig()
	cfg.Logger = log
	cfg.Validate()

	sched := domtest.RealScheduler{}
	injector := domtest.NewInjector(doc)
	anim := &domtest.Animations{}
	visual := &domtest.Visual{}
	gesture := domtest.NewGesture()

	pl := player.New(cfg, sched, injector, resolver, anim, visual, gesture)
	engine := future.NewEngine(pl, resolver, cfg, nil, doc)

	con := reporter.NewConsole(os.Stdout)
	con.SuiteEnter("domdemo")

	done := make(chan block.Result, 1)

	b := block.New("b1", "click submit reveals status", func(ctx any, d block.Done) {
		eng := ctx.(*future.Engine)
		btn := widgets.Element(eng, "#submit", 2*time.Second)
		btn.Do("click")
		status.Show()
	}, 2*time.Second, engine, false, pl, log)

	b.Run(func(res block.Result) { done <- res })

	res := <-done
	con.TestFinished(reporter.TestResult{
		ID:           res.ID,
		Name:         res.Name,
		Passed:       res.Passed,
		Expectations: res.Expectations,
	})
	con.SuiteLeave("domdemo")

	if !res.Passed {
		return fmt.Errorf("domdemo: block failed: %v", res.Expectations)
	}
	return nil
}
