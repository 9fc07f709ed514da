// Package demotests contains the demonstration suite that is run by the suitest command.
//
// Each module is registered on its own framework.Session and produces its own report. The
// tests deliberately include failing assertions, so that the report shows every status.
//
// The session, scheduling and reporting machinery is in the lower-level framework package.
package demotests
