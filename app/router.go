/*
Package app assembles handlers into a dispatchable unit.

The Router maps message paths to their handlers and is itself a
Handler, so it can sit at the root of a Decorator chain.
*/
package app

import (
	"fmt"
	"regexp"

	"github.com/middleman-net/middleman"
	"github.com/middleman-net/middleman/errors"
)

// isPath matches the paths that messages may declare, for example
// "escrow/create".
var isPath = regexp.MustCompile(`^[a-z0-9_]+(/[a-z0-9_]+)?$`).MatchString

// Router dispatches transactions to the handler registered for the
// message path.
type Router struct {
	routes map[string]middleman.Handler
}

var _ middleman.Registry = (*Router)(nil)
var _ middleman.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]middleman.Handler),
	}
}

// Handle implements Registry. It panics on a malformed path or a
// duplicate registration, as both are programmer errors.
func (r *Router) Handle(path string, h middleman.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %q", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler, or a handler that fails
// every call if the path is unknown.
func (r *Router) handler(path string) middleman.Handler {
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on the message path.
func (r *Router) Check(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.CheckResult, error) {
	return r.handler(middleman.GetPath(tx)).Check(ctx, db, tx)
}

// Deliver dispatches to the proper handler based on the message path.
func (r *Router) Deliver(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.DeliverResult, error) {
	return r.handler(middleman.GetPath(tx)).Deliver(ctx, db, tx)
}

type notFoundHandler string

func (p notFoundHandler) Check(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(p))
}

func (p notFoundHandler) Deliver(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(p))
}
