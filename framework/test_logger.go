package framework

// TestLogger receives progress notifications while a session runs. Calls may arrive from
// different goroutines, one at a time per test. Implementations must not complete tests
// themselves; the session waits for every TestFinished call before it writes its report.
type TestLogger interface {
	TestStarted(name string)
	TestError(name string, err error)
	TestFinished(name string, status Status, debugOutput CapturedOutput)
	TestSkipped(name string, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(string)                          {}
func (n nullTestLogger) TestError(string, error)                     {}
func (n nullTestLogger) TestFinished(string, Status, CapturedOutput) {}
func (n nullTestLogger) TestSkipped(string, string)                  {}

// MultiTestLogger forwards every notification to each of its loggers in order.
type MultiTestLogger []TestLogger

func (m MultiTestLogger) TestStarted(name string) {
	for _, l := range m {
		l.TestStarted(name)
	}
}

func (m MultiTestLogger) TestError(name string, err error) {
	for _, l := range m {
		l.TestError(name, err)
	}
}

func (m MultiTestLogger) TestFinished(name string, status Status, debugOutput CapturedOutput) {
	for _, l := range m {
		l.TestFinished(name, status, debugOutput)
	}
}

func (m MultiTestLogger) TestSkipped(name string, reason string) {
	for _, l := range m {
		l.TestSkipped(name, reason)
	}
}
