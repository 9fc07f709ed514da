package framework

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"
)

// Status is the outcome of a single test.
type Status string

const (
	// StatusPassed means at least one assertion was recorded and none failed.
	StatusPassed Status = "passed"
	// StatusFailed means at least one assertion failed, or the action panicked.
	StatusFailed Status = "failed"
	// StatusEmpty means the test completed without recording any assertion.
	StatusEmpty Status = "empty"
	// StatusIncomplete means the session was finalized before the test called Done.
	StatusIncomplete Status = "incomplete"
)

// Outcome is passed to the callbacks given to T.Done.
type Outcome struct {
	Name   string
	Status Status
	Time   time.Duration
}

// Summary is passed to the Session.Finish callback.
type Summary struct {
	Total      int
	Passed     int
	Failed     int
	Time       time.Duration
	Incomplete []string
}

func (s Summary) String() string {
	return fmt.Sprintf("%d tests, %d passed, %d failed, time: %s", s.Total, s.Passed, s.Failed, s.Time)
}

// Results holds everything a finished session knows about its tests.
type Results struct {
	SessionID string
	Summary   Summary
	Tests     []TestResult
	Failures  []TestResult
	Stopped   bool
}

// TestResult is the report entry of one test, or of a test left incomplete.
type TestResult struct {
	Name        string
	Description string
	Status      Status
	Time        time.Duration
	Errors      []error
}

// OK is true if every test that completed passed, no test was left incomplete and the run
// was not stopped.
func (r Results) OK() bool {
	return len(r.Failures) == 0 && len(r.Summary.Incomplete) == 0 && !r.Stopped
}

// Err combines the failures of the run into one error, or returns nil if there were none.
func (r Results) Err() error {
	var result *multierror.Error
	for _, f := range r.Failures {
		result = multierror.Append(result, TestFailure{Name: f.Name, Status: f.Status, Errors: f.Errors})
	}
	for _, name := range r.Summary.Incomplete {
		result = multierror.Append(result, TestFailure{Name: name, Status: StatusIncomplete})
	}
	return result.ErrorOrNil()
}

// TestFailure describes one test that did not pass.
type TestFailure struct {
	Name   string
	Status Status
	Errors []error
}

func (f TestFailure) Error() string {
	if len(f.Errors) == 0 {
		return fmt.Sprintf("[%s]: %s", f.Name, f.Status)
	}
	return fmt.Sprintf("[%s]: %s", f.Name, multierror.Append(nil, f.Errors...))
}

func (f TestFailure) Unwrap() []error {
	return f.Errors
}
