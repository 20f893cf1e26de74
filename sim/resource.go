// Resource models a shared, capacity-limited facility at a Location (for
// example a loading dock): a counted semaphore with a strict FIFO waiting
// queue. Grounded on the teacher's WaitQueue FIFO discipline (sim/queue.go),
// generalized from a single request-processing queue into a general-purpose
// counted semaphore used by vehicle service.

package sim

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Resource is a counted semaphore with capacity >= 1. Requesters that find
// no free slot join a FIFO queue; Release hands the freed slot to the queue
// head, never to a later arrival, regardless of scheduling order.
type Resource struct {
	capacity int
	inUse    int
	queue    []*resourceRequest
}

type resourceRequest struct {
	grant    func()
	canceled bool
}

// NewResource returns a Resource with the given capacity. Panics if
// capacity < 1 (ConfigError territory); Location.WithResource passes its
// capacity straight through, so the panic is the only check.
func NewResource(capacity int) *Resource {
	if capacity < 1 {
		panic(fmt.Sprintf("sim: resource capacity must be >= 1, got %d", capacity))
	}
	return &Resource{capacity: capacity}
}

// Handle represents a granted slot. It must be released exactly once,
// through the same Resource that granted it.
type Handle struct{ r *Resource }

// PendingRequest is returned for a request that joined the FIFO queue.
// Cancel dequeues it without affecting any other waiter.
type PendingRequest struct{ req *resourceRequest }

// Cancel removes this request from the FIFO queue if it has not yet been
// granted. No-op if already granted or already canceled.
func (p *PendingRequest) Cancel() {
	if p == nil || p.req == nil {
		return
	}
	p.req.canceled = true
}

// Request asks for one slot. If a slot is free, granted is called
// immediately (synchronously) and Request returns nil. Otherwise the
// caller joins the FIFO queue and granted is called later, when a prior
// holder Releases; Request then returns a PendingRequest the caller may
// Cancel while still queued.
func (r *Resource) Request(granted func(h *Handle)) *PendingRequest {
	if r.inUse < r.capacity {
		r.inUse++
		logrus.Debugf("sim: resource request granted immediately (%d/%d in use)", r.inUse, r.capacity)
		granted(&Handle{r: r})
		return nil
	}
	logrus.Debugf("sim: resource request queued (%d/%d in use, %d already waiting)", r.inUse, r.capacity, len(r.queue))
	req := &resourceRequest{}
	req.grant = func() {
		r.inUse++
		granted(&Handle{r: r})
	}
	r.queue = append(r.queue, req)
	return &PendingRequest{req: req}
}

// Release frees the slot held by h. If any requester is waiting, the slot
// is handed to the head of the FIFO queue at the current simulated time
// (synchronously, within the call to Release).
func (r *Resource) Release(h *Handle) {
	if h == nil || h.r != r {
		panic("sim: release of a handle not owned by this resource")
	}
	r.inUse--
	logrus.Debugf("sim: resource released (%d/%d in use, %d waiting)", r.inUse, r.capacity, len(r.queue))
	for len(r.queue) > 0 {
		next := r.queue[0]
		r.queue = r.queue[1:]
		if next.canceled {
			continue
		}
		next.grant()
		return
	}
}
