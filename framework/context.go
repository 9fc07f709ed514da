package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"time"
)

// assertion is the most recent comparison recorded by a test.
type assertion struct {
	x        interface{}
	y        interface{}
	operator Operator
	argCount int
	passed   bool
	recorded bool
}

// T is the context of one registered test. The action receives it, and asynchronous code can
// fetch it again with Session.Get.
//
// T implements the Errorf and FailNow methods of testify's require.TestingT, so assert and
// require can be used inside an action; each failed testify assertion counts as a failed
// assertion of the test.
type T struct {
	session     *Session
	name        string
	debugLogger CapturingLogger

	lock        sync.Mutex
	started     bool
	startTime   time.Time
	description string
	last        assertion
	assertions  int
	errors      []error
	completed   bool
}

func newT(s *Session, name string) *T {
	t := &T{session: s, name: name}
	t.debugLogger.now = s.clock.Now
	return t
}

func (t *T) run(action func(*T)) {
	t.lock.Lock()
	t.started = true
	t.startTime = t.session.clock.Now()
	t.lock.Unlock()
	t.session.testLogger.TestStarted(t.name)

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var addError error
		switch v := r.(type) {
		case *T:
			if v.errorCount() == 0 {
				addError = errors.New("test failed with no failure message")
			}
		case error:
			if errors.Is(v, ErrInvalidArgument) {
				addError = v
			} else {
				addError = fmt.Errorf("unexpected panic in test: %w\n%s", v, string(debug.Stack()))
			}
		default:
			addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
		}
		if addError != nil {
			t.recordFailure(addError)
		}
		if !t.isCompleted() {
			_ = t.Done()
		}
	}()

	action(t)
}

// Name returns the name the test was registered with.
func (t *T) Name() string {
	return t.name
}

// Session returns the session the test belongs to.
func (t *T) Session() *Session {
	return t.session
}

// Get returns the most recently registered test of the same session with the given name.
func (t *T) Get(name string) (*T, bool) {
	return t.session.Get(name)
}

// Exec records an assertion and returns the test for chaining.
//
// With one argument the assertion passes if the value is truthy. With two or three arguments
// it compares x and y using the operator (default ==); see Operator.Apply. Any other number of
// arguments, or an operator that is neither a string nor nil, panics with an *ArgumentError.
func (t *T) Exec(args ...interface{}) *T {
	if len(args) == 0 || len(args) > 3 {
		panic(&ArgumentError{
			Method: "Exec",
			Usage:  execUsage,
			Reason: fmt.Sprintf("expected 1 to 3 arguments, got %d", len(args)),
		})
	}
	a := assertion{x: args[0], operator: OpEqual, argCount: len(args), recorded: true}
	if len(args) == 1 {
		a.passed = truthy(a.x)
	} else {
		a.y = args[1]
		if len(args) == 3 {
			op, ok := operatorArg(args[2])
			if !ok {
				panic(&ArgumentError{
					Method: "Exec",
					Usage:  execUsage,
					Reason: fmt.Sprintf("operator must be a string, got %T", args[2]),
				})
			}
			a.operator = op.normalize()
		}
		a.passed = a.operator.Apply(a.x, a.y)
	}
	t.record(a, nil)
	return t
}

func operatorArg(v interface{}) (Operator, bool) {
	switch op := v.(type) {
	case nil:
		return OpEqual, true
	case Operator:
		return op, true
	case string:
		return Operator(op), true
	}
	return "", false
}

// Is reports whether the most recent assertion of this test passed.
func (t *T) Is() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.last.recorded && t.last.passed
}

// Describe sets the description printed with this test's report entry.
func (t *T) Describe(text string) *T {
	t.lock.Lock()
	t.description = text
	t.lock.Unlock()
	return t
}

// Stop requests that the whole run end; see Session.Stop.
func (t *T) Stop() *T {
	t.session.Stop()
	return t
}

// Debug adds a message to the test's debug output, which is passed to the TestLogger when the
// test finishes.
func (t *T) Debug(message string, args ...interface{}) {
	t.debugLogger.Printf(message, args...)
}

// DebugLogger returns the logger behind Debug, for code that takes a Logger.
func (t *T) DebugLogger() Logger {
	return &t.debugLogger
}

// Errorf records a failed assertion with a message. It is called by testify's assertions.
func (t *T) Errorf(format string, args ...interface{}) {
	t.recordFailure(fmt.Errorf(format, args...))
}

// FailNow ends the action immediately. The test is completed on the action's behalf.
func (t *T) FailNow() {
	panic(t)
}

// Done completes the test: its report entry is buffered and, if it was the last outstanding
// test or a stop was requested, the session is finalized. The callbacks receive the test's
// outcome unless ErrExecutionStopped is returned.
func (t *T) Done(callbacks ...func(Outcome)) error {
	s := t.session
	now := s.clock.Now()

	t.lock.Lock()
	if t.completed {
		t.lock.Unlock()
		if s.isStopped() {
			return ErrExecutionStopped
		}
		return fmt.Errorf("%q: %w", t.name, ErrAlreadyDone)
	}
	t.completed = true
	var elapsed time.Duration
	if t.started {
		elapsed = now.Sub(t.startTime)
	}
	entry := reportEntry{
		name:        t.name,
		description: t.description,
		status:      t.statusLocked(),
		elapsed:     elapsed,
		errors:      append([]error(nil), t.errors...),
	}
	if t.last.argCount >= 2 {
		entry.operands = true
		entry.expected = t.last.x
		entry.actual = t.last.y
	}
	t.description = ""
	t.last.x, t.last.y, t.last.argCount = nil, nil, 0
	t.lock.Unlock()

	reported, f, err := s.complete(t, entry)
	if reported {
		s.testLogger.TestFinished(t.name, entry.status, t.debugLogger.Output())
		s.notified()
	}
	s.deliver(f)
	if err != nil {
		return err
	}

	outcome := Outcome{Name: t.name, Status: entry.status, Time: elapsed}
	for _, callback := range callbacks {
		if callback != nil {
			callback(outcome)
		}
	}
	return nil
}

// statusLocked reports the outcome of the most recent assertion. Failures recorded through
// Errorf or a recovered panic are the exception: once there is one, the test has failed.
func (t *T) statusLocked() Status {
	switch {
	case len(t.errors) > 0:
		return StatusFailed
	case t.assertions == 0:
		return StatusEmpty
	case t.last.passed:
		return StatusPassed
	default:
		return StatusFailed
	}
}

func (t *T) record(a assertion, err error) {
	t.lock.Lock()
	if t.completed {
		t.lock.Unlock()
		t.session.logger.Printf("Ignored assertion for %q after it completed", t.name)
		return
	}
	t.last = a
	t.assertions++
	if err != nil {
		t.errors = append(t.errors, err)
	}
	t.lock.Unlock()

	t.session.countAssertion(a.passed)
	if err != nil {
		t.session.testLogger.TestError(t.name, err)
	}
}

func (t *T) recordFailure(err error) {
	t.record(assertion{recorded: true, operator: OpEqual}, err)
}

func (t *T) errorCount() int {
	t.lock.Lock()
	defer t.lock.Unlock()
	return len(t.errors)
}

func (t *T) isCompleted() bool {
	t.lock.Lock()
	defer t.lock.Unlock()
	return t.completed
}
