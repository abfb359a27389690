package service

import (
	"sync"

	"github.com/k5602/course-pilot/internal/contract"
)

// NewCoalescingSink decouples a structuring job from a slow consumer. The
// returned sink never blocks: updates are handed to downstream on a
// separate goroutine, and when they arrive faster than downstream drains
// them only the most recent update per stage is kept. Stages are delivered
// in first-seen order. stop flushes whatever is still pending and waits
// for the forwarder to finish; call it after the job returns and before
// closing anything downstream writes to.
func NewCoalescingSink(downstream ProgressSink) (sink ProgressSink, stop func()) {
	var (
		mu      sync.Mutex
		order   []contract.JobStage
		pending = map[contract.JobStage]contract.JobUpdate{}
		closed  bool
	)
	wake := make(chan struct{}, 1)
	drained := make(chan struct{})

	next := func() (contract.JobUpdate, bool, bool) {
		mu.Lock()
		defer mu.Unlock()
		if len(order) == 0 {
			return contract.JobUpdate{}, false, closed
		}
		stage := order[0]
		order = order[1:]
		u := pending[stage]
		delete(pending, stage)
		return u, true, false
	}

	go func() {
		defer close(drained)
		for {
			u, ok, done := next()
			if ok {
				downstream(u)
				continue
			}
			if done {
				return
			}
			<-wake
		}
	}()

	sink = func(u contract.JobUpdate) {
		mu.Lock()
		if _, queued := pending[u.Stage]; !queued {
			order = append(order, u.Stage)
		}
		pending[u.Stage] = u
		mu.Unlock()
		select {
		case wake <- struct{}{}:
		default:
		}
	}
	stop = func() {
		mu.Lock()
		closed = true
		mu.Unlock()
		select {
		case wake <- struct{}{}:
		default:
		}
		<-drained
	}
	return sink, stop
}
