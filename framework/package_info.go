// Package framework is a small test-run framework for code that is exercised outside of the Go
// test runner.
//
// The general model is:
//
// 1. A Session registers named tests. Each test's action is scheduled to run after a short
// delay (or immediately), and receives a *T, which is similar to Go's *testing.T.
//
// 2. Inside the action, T.Exec records assertions: a single value is checked for truthiness, a
// pair of values is compared with one of a fixed set of operators. T.Done completes the test,
// possibly much later and from another goroutine; code that no longer has the *T can fetch it
// with Session.Get.
//
// 3. Once every registered test is done, or a stop was requested, the session is finalized:
// a summary is added to the report, the Finish callback fires once, and the whole report is
// written to the output in one piece.
//
// Each test keeps its own assertion state, and the session's counters are guarded by a lock,
// so actions may run concurrently.
package framework
