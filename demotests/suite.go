package demotests

import (
	"code.cloudfoundry.org/clock"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

	"github.com/suitest/suitest/framework"
)

// Environment holds what the demo tests need besides their session.
type Environment struct {
	// Timers runs deferred completions, the way asynchronous code under test would.
	Timers framework.Scheduler
}

// Module is a named group of tests that share one session and one report.
type Module struct {
	Name     string
	Register func(s *framework.Session, env Environment)
}

// AllModules is the demonstration suite in the order it is run.
var AllModules = []Module{
	{Name: "Module 1", Register: DoModule1Tests},
	{Name: "Module 2", Register: DoModule2Tests},
}

// RunTestSuite runs every module one after another and returns their results in the same
// order. The module name is used as the report title; test names passed to opts.Filter and
// opts.TestLogger are qualified as "module/test".
func RunTestSuite(config framework.Config, opts framework.Options, modules ...Module) []framework.Results {
	if len(modules) == 0 {
		modules = AllModules
	}
	clk := opts.Clock
	if clk == nil {
		clk = clock.NewClock()
	}
	env := Environment{Timers: framework.NewClockScheduler(clk)}

	var all []framework.Results
	for _, m := range modules {
		moduleConfig := config
		if !moduleConfig.Title.IsDefined() {
			moduleConfig.Title = ldvalue.NewOptionalString(m.Name)
		}
		moduleOpts := opts
		moduleOpts.Clock = clk
		if opts.Filter != nil {
			moduleOpts.Filter = func(name string) bool { return opts.Filter(QualifiedName(m.Name, name)) }
		}
		if opts.TestLogger != nil {
			moduleOpts.TestLogger = qualifyingTestLogger{module: m.Name, target: opts.TestLogger}
		}
		register := m.Register
		all = append(all, framework.Run(moduleConfig, moduleOpts, func(s *framework.Session) {
			register(s, env)
		}))
	}
	return all
}

// QualifiedName is the name a test of the given module has in filters and test logs.
func QualifiedName(module, test string) string {
	return module + "/" + test
}

type qualifyingTestLogger struct {
	module string
	target framework.TestLogger
}

func (q qualifyingTestLogger) TestStarted(name string) {
	q.target.TestStarted(QualifiedName(q.module, name))
}

func (q qualifyingTestLogger) TestError(name string, err error) {
	q.target.TestError(QualifiedName(q.module, name), err)
}

func (q qualifyingTestLogger) TestFinished(name string, status framework.Status, debugOutput framework.CapturedOutput) {
	q.target.TestFinished(QualifiedName(q.module, name), status, debugOutput)
}

func (q qualifyingTestLogger) TestSkipped(name string, reason string) {
	q.target.TestSkipped(QualifiedName(q.module, name), reason)
}
