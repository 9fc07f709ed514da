package framework

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"code.cloudfoundry.org/clock/fakeclock"
	"github.com/stretchr/testify/require"
)

// manualScheduler queues actions until the test runs them.
type manualScheduler struct {
	lock    sync.Mutex
	pending []func()
	delays  []time.Duration
}

func (m *manualScheduler) Schedule(fn func(), delay time.Duration) {
	m.lock.Lock()
	m.pending = append(m.pending, fn)
	m.delays = append(m.delays, delay)
	m.lock.Unlock()
}

func (m *manualScheduler) runAll() {
	m.lock.Lock()
	pending := m.pending
	m.pending = nil
	m.lock.Unlock()
	for _, fn := range pending {
		fn()
	}
}

type testEnv struct {
	session   *Session
	clock     *fakeclock.FakeClock
	scheduler *manualScheduler
	output    *bytes.Buffer
	logger    *recordingTestLogger
}

func newTestEnv(config Config) *testEnv {
	e := &testEnv{
		clock:     fakeclock.NewFakeClock(time.Unix(0, 0)),
		scheduler: &manualScheduler{},
		output:    &bytes.Buffer{},
		logger:    &recordingTestLogger{},
	}
	e.session = NewSession(config, Options{
		Output:     e.output,
		Scheduler:  e.scheduler,
		Clock:      e.clock,
		TestLogger: e.logger,
	})
	return e
}

func newImmediateSession(output *bytes.Buffer) *Session {
	return NewSession(Config{}, Options{
		Output:    output,
		Scheduler: ImmediateScheduler,
		Clock:     fakeclock.NewFakeClock(time.Unix(0, 0)),
	})
}

func requireFinished(t *testing.T, s *Session) {
	select {
	case <-s.Finished():
	case <-time.After(5 * time.Second):
		require.Fail(t, "timed out waiting for session to finish")
	}
}

func requireNotFinished(t *testing.T, s *Session) {
	select {
	case <-s.Finished():
		require.Fail(t, "session finished too early")
	default:
	}
}

type loggedEvent struct {
	Kind   string
	Name   string
	Status Status
}

type recordingTestLogger struct {
	lock   sync.Mutex
	events []loggedEvent
}

func (r *recordingTestLogger) add(e loggedEvent) {
	r.lock.Lock()
	r.events = append(r.events, e)
	r.lock.Unlock()
}

func (r *recordingTestLogger) TestStarted(name string) {
	r.add(loggedEvent{Kind: "started", Name: name})
}

func (r *recordingTestLogger) TestError(name string, err error) {
	r.add(loggedEvent{Kind: "error", Name: name})
}

func (r *recordingTestLogger) TestFinished(name string, status Status, debugOutput CapturedOutput) {
	r.add(loggedEvent{Kind: "finished", Name: name, Status: status})
}

func (r *recordingTestLogger) TestSkipped(name string, reason string) {
	r.add(loggedEvent{Kind: "skipped", Name: name})
}

func (r *recordingTestLogger) Events() []loggedEvent {
	r.lock.Lock()
	defer r.lock.Unlock()
	return append([]loggedEvent(nil), r.events...)
}
