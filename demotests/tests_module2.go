package demotests

import (
	"math"
	"reflect"
	"time"

	"github.com/suitest/suitest/framework"
)

const (
	shortCompletionDelay = 500 * time.Millisecond
	longCompletionDelay  = time.Second
)

// DoModule2Tests registers tests that complete later, from another goroutine, in a different
// order than they were registered.
func DoModule2Tests(s *framework.Session, env Environment) {
	_ = s.Test("test 1", func(t *framework.T) {
		env.Timers.Schedule(func() {
			_ = t.Exec(math.Acos(-1), math.Pi).Done()
		}, shortCompletionDelay)
	})

	_ = s.Test("test 2", func(t *framework.T) {
		env.Timers.Schedule(func() {
			t.Exec([]interface{}{}, reflect.TypeOf([]interface{}{}).String())
			_ = t.Done()
		}, longCompletionDelay)
	})

	_ = s.Test("test 3", func(t *framework.T) {
		env.Timers.Schedule(func() {
			x := 1.1
			t.Exec(int(x), 1)
			_ = t.Done()
		}, longCompletionDelay)
	})

	complete := func() error {
		t, ok := s.Get("test 4")
		if !ok {
			return nil
		}
		return t.Exec(true, 1).Done()
	}

	_ = s.Test("test 4", func(*framework.T) {
		_ = complete()
	})
}
