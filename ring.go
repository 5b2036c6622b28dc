package evtlog

// ringBuffer is the fixed-capacity slot array shared by producers and the batcher.
// It performs no bounds checks; callers must hold the matching flowControl permits.
// Producers (serialised by Logger.producerMu) advance in, the batcher advances out.
type ringBuffer struct {
	slots []Entry
	in    int
	out   int
}

// newRingBuffer allocates a ring of the given capacity
func newRingBuffer(capacity int) *ringBuffer {
	return &ringBuffer{
		slots: make([]Entry, capacity),
	}
}

// write stores an entry at the producer cursor and advances it
func (r *ringBuffer) write(e Entry) {
	r.slots[r.in] = e
	if r.in++; r.in >= len(r.slots) {
		r.in = 0
	}
}

// read returns the entry at the consumer cursor and advances it
func (r *ringBuffer) read() Entry {
	e := r.slots[r.out]
	r.slots[r.out] = Entry{} // release the string for GC
	if r.out++; r.out >= len(r.slots) {
		r.out = 0
	}
	return e
}

// peekAt returns the entry offset slots past the consumer cursor without consuming it
func (r *ringBuffer) peekAt(offset int) Entry {
	return r.slots[(r.out+offset)%len(r.slots)]
}

// capacity returns the number of slots
func (r *ringBuffer) capacity() int {
	return len(r.slots)
}
