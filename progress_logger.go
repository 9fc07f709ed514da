package main

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"

	"github.com/suitest/suitest/framework"
)

// ProgressTestLogger shows a single progress line with pass and fail counts instead of a line
// per test. The number of tests is not known in advance, so the bar counts up without a total.
type ProgressTestLogger struct {
	bar     *progressbar.ProgressBar
	out     io.Writer
	lock    sync.Mutex
	passed  int
	failed  int
	skipped int
}

// NewProgressTestLogger creates a ProgressTestLogger that draws on out.
func NewProgressTestLogger(out io.Writer) *ProgressTestLogger {
	p := &ProgressTestLogger{out: out}
	p.bar = progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(p.description()),
		progressbar.OptionSetWidth(50),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetWriter(out),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(out, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)
	return p
}

func (p *ProgressTestLogger) description() string {
	return color.CyanString("Running tests: ") +
		color.GreenString("[passed: %d", p.passed) +
		" | " +
		color.RedString("failed: %d", p.failed) +
		" | " +
		color.YellowString("skipped: %d]", p.skipped)
}

func (p *ProgressTestLogger) TestStarted(string) {}

func (p *ProgressTestLogger) TestError(string, error) {}

func (p *ProgressTestLogger) TestFinished(name string, status framework.Status, debugOutput framework.CapturedOutput) {
	p.lock.Lock()
	defer p.lock.Unlock()
	if status == framework.StatusPassed {
		p.passed++
	} else {
		p.failed++
	}
	p.bar.Describe(p.description())
	_ = p.bar.Add(1)
}

func (p *ProgressTestLogger) TestSkipped(string, string) {
	p.lock.Lock()
	defer p.lock.Unlock()
	p.skipped++
	p.bar.Describe(p.description())
}

// Finish ends the progress line.
func (p *ProgressTestLogger) Finish() {
	p.lock.Lock()
	defer p.lock.Unlock()
	_ = p.bar.Finish()
}
