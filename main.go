package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/suitest/suitest/demotests"
	"github.com/suitest/suitest/framework"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	var params commandParams
	if !params.Read(args, stderr) {
		return 2
	}

	config, err := params.config(isTerminal(stdout) && !color.NoColor)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid configuration: %s\n", err)
		return 2
	}
	stdout = &syncWriter{w: stdout}

	mainDebugLogger := framework.NullLogger()
	if params.debugAll {
		mainDebugLogger = log.New(stdout, "", log.LstdFlags)
	}

	fmt.Fprintln(stdout)
	framework.PrintFilterDescription(stdout, params.filters)

	var testLogger framework.TestLogger
	var progress *ProgressTestLogger
	if params.progress {
		progress = NewProgressTestLogger(stderr)
		testLogger = progress
	} else {
		fmt.Fprintln(stdout, "Running test suite")
		testLogger = &ConsoleTestLogger{
			Out:                  stdout,
			DebugOutputOnFailure: params.debug || params.debugAll,
			DebugOutputOnSuccess: params.debugAll,
		}
	}

	all := demotests.RunTestSuite(config, framework.Options{
		Output:      stdout,
		Scheduler:   framework.NewClockScheduler(nil),
		DebugLogger: mainDebugLogger,
		TestLogger:  testLogger,
		Filter:      params.filters.AsFilter,
	})
	if progress != nil {
		progress.Finish()
	}

	var failedNames []string
	for i, results := range all {
		module := demotests.AllModules[i].Name
		if err := results.Err(); err != nil {
			fmt.Fprintf(stdout, "%s: %s\n", module, err)
		}
		for _, f := range results.Failures {
			failedNames = append(failedNames, demotests.QualifiedName(module, f.Name))
		}
		for _, name := range results.Summary.Incomplete {
			failedNames = append(failedNames, demotests.QualifiedName(module, name))
		}
	}
	if len(failedNames) != 0 {
		fmt.Fprintf(stdout, "To run only the tests that did not pass:\n  %s\n", params.rerunCommand(failedNames))
		return 1
	}
	for _, results := range all {
		if !results.OK() {
			return 1
		}
	}
	return 0
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// syncWriter serializes writes from test loggers and session reports that share one output.
type syncWriter struct {
	lock sync.Mutex
	w    io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.w.Write(p)
}
