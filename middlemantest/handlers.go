package middlemantest

import "github.com/middleman-net/middleman"

// Handler is a mock implementing middleman.Handler interface.
type Handler struct {
	checkCall   int
	CheckResult middleman.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult middleman.DeliverResult
	DeliverErr    error
}

var _ middleman.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.CheckResult, error) {
	h.checkCall++
	return &h.CheckResult, h.CheckErr
}

func (h *Handler) Deliver(ctx middleman.Context, db middleman.KVStore, tx middleman.Tx) (*middleman.DeliverResult, error) {
	h.deliverCall++
	return &h.DeliverResult, h.DeliverErr
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
