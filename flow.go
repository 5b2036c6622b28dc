package evtlog

import (
	"time"
)

// flowControl holds the free/filled permit pair of the bounded-buffer handshake.
// Each permit is a token in a channel of capacity N, so free never underflows
// and filled never exceeds N.
type flowControl struct {
	free   chan struct{}
	filled chan struct{}
	drain  <-chan struct{} // closed when shutdown starts, wakes an idle consumer
	done   <-chan struct{} // closed when the consumer has exited
}

// newFlowControl creates permits for a ring of the given capacity, all slots free
func newFlowControl(capacity int, drain, done <-chan struct{}) *flowControl {
	fc := &flowControl{
		free:   make(chan struct{}, capacity),
		filled: make(chan struct{}, capacity),
		drain:  drain,
		done:   done,
	}
	for i := 0; i < capacity; i++ {
		fc.free <- struct{}{}
	}
	return fc
}

// acquireFree blocks the producer until a slot is free. There is no timeout;
// it gives up only once the consumer has exited and no slot can ever be freed.
func (fc *flowControl) acquireFree() bool {
	select {
	case <-fc.free:
		return true
	case <-fc.done:
		select {
		case <-fc.free:
			return true
		default:
			return false
		}
	}
}

// releaseFree returns k slots to producers
func (fc *flowControl) releaseFree(k int) {
	for i := 0; i < k; i++ {
		fc.free <- struct{}{}
	}
}

// releaseFilled signals one written slot to the consumer
func (fc *flowControl) releaseFilled() {
	fc.filled <- struct{}{}
}

// acquireFilled waits for one written slot.
// A negative timeout waits until a slot arrives or the drain signal fires,
// zero polls without blocking, a positive timeout also ends early on drain.
// Returns false if no permit was taken.
func (fc *flowControl) acquireFilled(timeout time.Duration) bool {
	// Fast path, also the whole of a zero-timeout poll
	select {
	case <-fc.filled:
		return true
	default:
	}

	switch {
	case timeout == 0:
		return false

	case timeout < 0:
		select {
		case <-fc.filled:
			return true
		case <-fc.drain:
			// Prefer a permit that raced with the drain signal
			select {
			case <-fc.filled:
				return true
			default:
				return false
			}
		}

	default:
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case <-fc.filled:
			return true
		case <-timer.C:
			return false
		case <-fc.drain:
			// A drain cuts the window short, same as a zero timeout
			select {
			case <-fc.filled:
				return true
			default:
				return false
			}
		}
	}
}

// pending returns the number of filled permits not yet taken by the consumer
func (fc *flowControl) pending() int {
	return len(fc.filled)
}
