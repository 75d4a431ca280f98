/*
Package errors implements the coded error conventions used across
middleman.

Reuse as many root errors from this package as possible and register
custom package errors only when necessary. Register a custom error with
Register(code, description); extension packages own the 1000+ range.
The code allows clients to distinguish error classes without parsing
messages.

There is also support for stack traces. Create errors with
ErrXyz.New("...") or errors.Wrap(err, "...") at the point of failure so
a stack trace gets attached. If you wrap multiple times, only the first
wrap records the trace. Do not create errors as package level
variables via New (the recorded trace would be useless).

Use Is to test whether an error, no matter how many times wrapped,
belongs to a given root:

	if errors.ErrNotFound.Is(err) { ... }
*/
package errors
