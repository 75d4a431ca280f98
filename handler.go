package middleman

import (
	"encoding/json"
)

// Handler is a core engine that can process a few specific messages.
// This could represent "escrow release", or "wallet to wallet transfer".
type Handler interface {
	Checker
	Deliverer
}

// Checker is a subset of Handler to verify the validity of a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer is a subset of Handler to execute a transaction.
// It is its own interface to allow better type controls in the next
// arguments in Decorator
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator wraps a Handler to provide common functionality
// like authentication, or fee-handling, to many Handlers
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is an interface to register your handler,
// the setup side of a Router
type Registry interface {
	// Handle assigns given handler to handle processing of every message
	// with the provided path.
	Handle(path string, h Handler)
}

// CheckResult captures any immediate information generated by validating a
// transaction without executing it.
type CheckResult struct {
	// GasAllocated is the maximum units of work we allow this tx to perform
	GasAllocated int64

	// Log contains a short free form description of the check.
	Log string
}

// DeliverResult captures any info out of a state transition.
type DeliverResult struct {
	// Data is any result returned from the operation (ie. an allocated id)
	Data []byte

	// Log contains a short free form description of the transition.
	Log string

	// Tags are the notification records emitted for external observers.
	// They never affect the internal state.
	Tags []KVPair
}

// KVPair is a single notification attribute attached to a DeliverResult.
type KVPair struct {
	Key   []byte
	Value []byte
}

// Pair creates a notification attribute.
func Pair(key, value string) KVPair {
	return KVPair{Key: []byte(key), Value: []byte(value)}
}

// Options are the app initialization options.
// Each extension can look up its key and parse the json as desired.
type Options map[string]json.RawMessage

// ReadOptions reads the values stored under a given key,
// and parses the json into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	msg := o[key]
	if len(msg) == 0 {
		return nil
	}
	return json.Unmarshal(msg, obj)
}

// Initializer implementations are used to initialize
// extensions from genesis file contents
type Initializer interface {
	FromGenesis(Options, KVStore) error
}
