package escrow

import "github.com/middleman-net/middleman/errors"

var (
	// ErrNotExpired is raised when a refund is requested before the
	// escrow deadline passed.
	ErrNotExpired = errors.Register(1010, "timeout not elapsed")

	// ErrTransfer is raised when the custody account could not pay out.
	ErrTransfer = errors.Register(1011, "transfer from custody failed")
)
