/*
Package middleman defines all common interfaces that tie the
subpackages of the custodial escrow registry together, as well as
implementations of some of the simpler components (when interfaces
would be too much overhead).

Caller identity and the current time are never read from ambient
globals. Both travel through a context.Context so that every state
transition stays deterministic and testable without a live execution
environment. There should exist two functions for every XYZ of type T
that we want to support in Context:

	WithXYZ(Context, T) Context
	XYZ(Context) (val T, ok bool)
*/
package middleman
