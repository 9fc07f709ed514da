package framework

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"code.cloudfoundry.org/clock"
	"github.com/google/uuid"
)

// ErrRunTimeout is returned by Session.Wait when the configured run timeout forced finalization.
var ErrRunTimeout = errors.New("test run timed out")

// Options holds the collaborators of a Session. Every field is optional.
type Options struct {
	// Output receives the whole report in a single Write when the session is finalized.
	// Defaults to os.Stdout.
	Output io.Writer

	// Scheduler starts registered actions. If nil, actions run synchronously inside
	// Session.Test.
	Scheduler Scheduler

	// Clock is used for start times, elapsed times and the run timeout. Defaults to the
	// real clock.
	Clock clock.Clock

	// DebugLogger receives session-level debug messages.
	DebugLogger Logger

	// TestLogger is notified as tests start, fail and finish.
	TestLogger TestLogger

	// Filter, if set, decides which test names are registered at all.
	Filter Filter
}

// Session registers tests, aggregates their results and prints the report once every
// registered test has completed or a stop was requested.
type Session struct {
	id         string
	config     Config
	clock      clock.Clock
	scheduler  Scheduler
	output     io.Writer
	logger     Logger
	testLogger TestLogger
	filter     Filter
	formatter  *reportFormatter
	createdAt  time.Time
	finishedCh chan struct{}

	lock           sync.Mutex
	tests          map[string]*T
	registered     []*T
	completed      map[*T]bool
	outstanding    int
	total          int
	passed         int
	failed         int
	stopRequested  bool
	finishCallback func(Summary)
	elapsed        []time.Duration
	report         strings.Builder
	results        []TestResult
	failures       []TestResult
	finished       bool
	summary        Summary
	notifying      int
	idle           *sync.Cond
}

// NewSession creates a Session. The report header is buffered immediately; nothing is
// written to the output until the session is finalized.
func NewSession(config Config, opts Options) *Session {
	s := &Session{
		id:         uuid.NewString(),
		config:     config,
		clock:      opts.Clock,
		scheduler:  opts.Scheduler,
		output:     opts.Output,
		logger:     opts.DebugLogger,
		testLogger: opts.TestLogger,
		filter:     opts.Filter,
		formatter:  newReportFormatter(config),
		finishedCh: make(chan struct{}),
		tests:      make(map[string]*T),
		completed:  make(map[*T]bool),
	}
	s.idle = sync.NewCond(&s.lock)
	if s.clock == nil {
		s.clock = clock.NewClock()
	}
	if s.scheduler == nil {
		s.scheduler = ImmediateScheduler
	}
	if s.output == nil {
		s.output = os.Stdout
	}
	if s.logger == nil {
		s.logger = NullLogger()
	}
	if s.testLogger == nil {
		s.testLogger = nullTestLogger{}
	}
	s.createdAt = s.clock.Now()
	s.report.WriteString(s.formatter.header(config.title(), s.id))
	return s
}

// ID returns the unique identifier printed in the report header.
func (s *Session) ID() string {
	return s.id
}

// Test registers a named test and schedules its action. The test counts as registered and
// outstanding as soon as Test returns, whether or not the action has started yet.
//
// Registering a name twice replaces the earlier test for Get; both still have to complete.
//
// A test registered after the session was finalized still counts toward the total and its
// action still runs, but it is not reported: its Done returns ErrSessionFinished.
func (s *Session) Test(name string, action func(*T)) error {
	if name == "" {
		return &ArgumentError{Method: "Test", Usage: testUsage, Reason: "name must not be empty"}
	}
	if action == nil {
		return &ArgumentError{Method: "Test", Usage: testUsage, Reason: "action must not be nil"}
	}
	if s.filter != nil && !s.filter(name) {
		s.testLogger.TestSkipped(name, "excluded by filter parameters")
		return nil
	}

	t := newT(s, name)

	s.lock.Lock()
	late := s.finished
	_, replaced := s.tests[name]
	s.tests[name] = t
	s.total++
	if late {
		s.summary.Total++
	} else {
		s.registered = append(s.registered, t)
		s.outstanding++
	}
	outstanding := s.outstanding
	s.lock.Unlock()

	if late {
		s.logger.Printf("Test %q registered after the session finished; it is counted but not reported", name)
	}
	if replaced {
		s.logger.Printf("Test %q registered again; Get will return the newer one", name)
	}
	delay := s.config.defaultDelay()
	s.logger.Printf("Registered test %q, starting in %s (%d outstanding)", name, delay, outstanding)
	s.scheduler.Schedule(func() { t.run(action) }, delay)
	return nil
}

// Get returns the most recently registered test with the given name.
func (s *Session) Get(name string) (*T, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	t, ok := s.tests[name]
	return t, ok
}

// Stop requests that the run end. It takes effect the next time any test calls Done: that
// call finalizes the session and returns ErrExecutionStopped, as does every later Done.
func (s *Session) Stop() *Session {
	s.lock.Lock()
	s.stopRequested = true
	s.lock.Unlock()
	s.logger.Printf("Stop requested")
	return s
}

// Finish sets the callback that receives the summary when the session is finalized. Only the
// most recently set callback fires, and it fires once. If the session is already finalized
// the callback is invoked immediately.
func (s *Session) Finish(callback func(Summary)) *Session {
	s.lock.Lock()
	if s.finished {
		summary := s.summary
		s.lock.Unlock()
		if callback != nil {
			callback(summary)
		}
		return s
	}
	s.finishCallback = callback
	s.lock.Unlock()
	return s
}

// Finished returns a channel that is closed once the report has been written.
func (s *Session) Finished() <-chan struct{} {
	return s.finishedCh
}

// Wait blocks until the session is finalized and returns its results. If ctx ends, or the
// configured run timeout (measured from NewSession) elapses first, the session is finalized
// at once and the tests that never completed are reported as incomplete.
func (s *Session) Wait(ctx context.Context) (Results, error) {
	var timeout <-chan time.Time
	if d := s.config.runTimeout(); d > 0 {
		remaining := d - s.clock.Since(s.createdAt)
		if remaining <= 0 {
			if s.abort("run timeout") {
				return s.Results(), ErrRunTimeout
			}
			return s.Results(), nil
		}
		timer := s.clock.NewTimer(remaining)
		defer timer.Stop()
		timeout = timer.C()
	}
	select {
	case <-s.finishedCh:
		return s.Results(), nil
	case <-timeout:
		if s.abort("run timeout") {
			return s.Results(), ErrRunTimeout
		}
		return s.Results(), nil
	case <-ctx.Done():
		if s.abort(ctx.Err().Error()) {
			return s.Results(), ctx.Err()
		}
		return s.Results(), nil
	}
}

// Results returns a snapshot of the session's results so far.
func (s *Session) Results() Results {
	s.lock.Lock()
	defer s.lock.Unlock()
	summary := s.summary
	if !s.finished {
		summary = s.currentSummaryLocked()
	}
	return Results{
		SessionID: s.id,
		Summary:   summary,
		Tests:     append([]TestResult(nil), s.results...),
		Failures:  append([]TestResult(nil), s.failures...),
		Stopped:   s.stopRequested,
	}
}

func (s *Session) countAssertion(passed bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.finished {
		return
	}
	if passed {
		s.passed++
	} else {
		s.failed++
	}
}

func (s *Session) isStopped() bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.stopRequested
}

// complete records the report entry of a test that called Done, and finalizes the session if
// it was the last outstanding test or a stop was requested. It reports false if the session
// had already been finalized, in which case nothing was recorded. Otherwise the caller must
// call notified once it has logged the test, and then deliver the returned finalization.
func (s *Session) complete(t *T, entry reportEntry) (bool, finalization, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.finished {
		if s.stopRequested {
			return false, finalization{}, ErrExecutionStopped
		}
		return false, finalization{}, fmt.Errorf("late completion of %q: %w", t.name, ErrSessionFinished)
	}

	s.report.WriteString(s.formatter.entry(entry))
	s.elapsed = append(s.elapsed, entry.elapsed)
	s.completed[t] = true
	result := TestResult{
		Name:        entry.name,
		Description: entry.description,
		Status:      entry.status,
		Time:        entry.elapsed,
		Errors:      entry.errors,
	}
	s.results = append(s.results, result)
	if entry.status == StatusFailed {
		s.failures = append(s.failures, result)
	}
	s.outstanding--
	s.notifying++

	var f finalization
	if s.outstanding == 0 || s.stopRequested {
		f = s.finalizeLocked()
	}
	if s.stopRequested {
		return true, f, ErrExecutionStopped
	}
	return true, f, nil
}

func (s *Session) notified() {
	s.lock.Lock()
	s.notifying--
	if s.notifying == 0 {
		s.idle.Broadcast()
	}
	s.lock.Unlock()
}

// hold keeps the session from finalizing while a batch of tests is being registered.
func (s *Session) hold() {
	s.lock.Lock()
	s.outstanding++
	s.lock.Unlock()
}

func (s *Session) release() {
	s.lock.Lock()
	if s.finished {
		s.lock.Unlock()
		return
	}
	s.outstanding--
	var f finalization
	if s.outstanding == 0 {
		f = s.finalizeLocked()
	}
	s.lock.Unlock()
	s.deliver(f)
}

// abort forces finalization; tests that have not completed are reported as incomplete. It
// returns false if the session had already been finalized.
func (s *Session) abort(reason string) bool {
	s.lock.Lock()
	if s.finished {
		s.lock.Unlock()
		<-s.finishedCh
		return false
	}
	s.logger.Printf("Finalizing session early: %s", reason)
	f := s.finalizeLocked()
	s.lock.Unlock()
	s.deliver(f)
	return true
}

type finalization struct {
	active     bool
	text       string
	callback   func(Summary)
	summary    Summary
	incomplete []*T
}

func (s *Session) currentSummaryLocked() Summary {
	var total time.Duration
	for _, d := range s.elapsed {
		total += d
	}
	return Summary{
		Total:  s.total,
		Passed: s.passed,
		Failed: s.failed,
		Time:   total,
	}
}

func (s *Session) finalizeLocked() finalization {
	summary := s.currentSummaryLocked()
	var incomplete []*T
	for _, t := range s.registered {
		if !s.completed[t] {
			incomplete = append(incomplete, t)
			summary.Incomplete = append(summary.Incomplete, t.name)
			s.results = append(s.results, TestResult{Name: t.name, Status: StatusIncomplete})
		}
	}
	s.report.WriteString(s.formatter.summary(summary, s.stopRequested))
	s.finished = true
	s.summary = summary

	f := finalization{
		active:     true,
		text:       s.report.String(),
		callback:   s.finishCallback,
		summary:    summary,
		incomplete: incomplete,
	}
	s.finishCallback = nil
	s.report.Reset()
	return f
}

// deliver runs the side effects of a finalization outside the session lock, after every test
// that completed earlier has been passed to the TestLogger.
func (s *Session) deliver(f finalization) {
	if !f.active {
		return
	}
	s.lock.Lock()
	for s.notifying > 0 {
		s.idle.Wait()
	}
	s.lock.Unlock()
	for _, t := range f.incomplete {
		s.testLogger.TestFinished(t.name, StatusIncomplete, t.debugLogger.Output())
	}
	s.logger.Printf("Session finished: %s", f.summary)
	if f.callback != nil {
		f.callback(f.summary)
	}
	if _, err := io.WriteString(s.output, f.text); err != nil {
		s.logger.Printf("Failed to write report: %s", err)
	}
	close(s.finishedCh)
}
