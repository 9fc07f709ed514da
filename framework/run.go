package framework

import (
	"context"
)

// Run creates a session, lets action register its tests, and waits for the session to be
// finalized.
//
// While action runs the session cannot finalize, so tests that complete synchronously (for
// instance with ImmediateScheduler) do not end the run before the remaining tests have been
// registered. A run timeout in config bounds the wait; tests that never call Done are then
// reported as incomplete.
func Run(config Config, opts Options, action func(*Session)) Results {
	s := NewSession(config, opts)
	s.hold()
	action(s)
	s.release()
	results, _ := s.Wait(context.Background())
	return results
}
