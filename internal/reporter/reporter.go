// Package reporter defines the abstract status-reporter surface consumed by
// the core (spec.md §6 "Reporter") and a console implementation used by the
// demo and local/manual runs.
package reporter

// TestResult is the shape passed to TestFinished (spec §6 "{id, name,
// passed, expectations, disabled}").
type TestResult struct {
	ID           string
	Name         string
	Passed       bool
	Expectations []string
	Disabled     bool
}

// Reporter is the abstract test-framework glue the core reports through
// (spec §6). The core never calls a concrete test framework directly.
type Reporter interface {
	SuiteEnter(name string)
	SuiteLeave(name string)
	SuiteStarted(name string)
	SuiteFinished(name string)
	TestStarted(id, name string)
	TestFinished(result TestResult)
}

// NopReporter discards everything; useful as a default in tests that don't
// assert on reporting.
type NopReporter struct{}

func (NopReporter) SuiteEnter(string)          {}
func (NopReporter) SuiteLeave(string)          {}
func (NopReporter) SuiteStarted(string)        {}
func (NopReporter) SuiteFinished(string)       {}
func (NopReporter) TestStarted(string, string) {}
func (NopReporter) TestFinished(TestResult)    {}
