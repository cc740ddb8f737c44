// Package stdlib implements the host modules available to every program:
// IO, FILE, MATH, STRING, COLLECTIONS, TIME, ERROR, and TESTING.
//
// Each module is a fixed table of [Func] entry points keyed by name. The
// tables are built once and never modified, so [Lookup], [Functions], and
// [Invoke] are safe for concurrent use. The static analyzer consults the
// same tables to report calls to functions a module does not define.
//
// Host functions validate their own arguments. Failures are returned as
// [*Error] values whose Kind is one of [ErrArgument], [ErrValue], [ErrIO],
// or [ErrAssertion], and whose message is shown to the user verbatim:
//
//	TESTING.assert_equal(1, 2, "sum")
//	// Assertion failed: sum - Expected 2, got 1
package stdlib
