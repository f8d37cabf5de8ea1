package reporter

import (
	"fmt"
	"io"
	"os"
	"strings"

	"charm.land/lipgloss/v2"
)

// Console is a human-readable Reporter implementation rendered with the
// same styling library the teacher's TUI stack uses (charm.land/lipgloss/v2),
// giving spec §6's otherwise-abstract Reporter a concrete, colorized
// implementation for local/manual runs — the engine itself never imports
// this package; only a host wiring it up for interactive use does.
type Console struct {
	out io.Writer

	suite  lipgloss.Style
	pass   lipgloss.Style
	fail   lipgloss.Style
	skip   lipgloss.Style
	detail lipgloss.Style
}

// NewConsole constructs a Console reporter writing to out (os.Stdout if
// nil).
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	return &Console{
		out:    out,
		suite:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")),
		pass:   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		fail:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		skip:   lipgloss.NewStyle().Faint(true).Foreground(lipgloss.Color("3")),
		detail: lipgloss.NewStyle().Faint(true),
	}
}

func (c *Console) SuiteEnter(name string)      { fmt.Fprintln(c.out, c.suite.Render("▶ "+name)) }
func (c *Console) SuiteLeave(string)           {}
func (c *Console) SuiteStarted(name string)    { fmt.Fprintln(c.out, c.suite.Render("suite "+name)) }
func (c *Console) SuiteFinished(string)        {}
func (c *Console) TestStarted(id, name string) {}

func (c *Console) TestFinished(result TestResult) {
	switch {
	case result.Disabled:
		fmt.Fprintln(c.out, c.skip.Render("○ "+result.Name+" (disabled)"))
	case result.Passed:
		fmt.Fprintln(c.out, c.pass.Render("✓ "+result.Name))
	default:
		fmt.Fprintln(c.out, c.fail.Render("✗ "+result.Name))
		for _, e := range result.Expectations {
			fmt.Fprintln(c.out, c.detail.Render("    "+strings.TrimSpace(e)))
		}
	}
}
