package demotests

import (
	"github.com/suitest/suitest/framework"
)

// DoModule1Tests registers tests that complete synchronously inside their actions.
func DoModule1Tests(s *framework.Session, env Environment) {
	_ = s.Test("test 1", func(t *framework.T) {
		_ = t.Describe("Test description 1!").Exec(true, 1).Done()
	})

	_ = s.Test("test 2", func(t *framework.T) {
		t.Describe("Test description 2!")

		// A nil map is still a map, so this assertion fails and the run is not stopped.
		var m map[string]int
		if t.Exec(m != nil).Is() {
			t.Stop()
		}

		_ = t.Done()
	})
}
