package midi

import "slices"

// Buffer holds the events of one block ordered by sample offset. Events with
// the same offset keep the order they were added in.
//
// A Buffer is owned by the render goroutine and is not safe for concurrent use.
type Buffer struct {
	events []Event
}

// NewBuffer creates a buffer with room for capacity events.
func NewBuffer(capacity int) *Buffer {
	return &Buffer{events: make([]Event, 0, capacity)}
}

// Add inserts e after every event with an offset not greater than its own.
func (b *Buffer) Add(e Event) {
	i := len(b.events)
	for i > 0 && b.events[i-1].SampleOffset() > e.SampleOffset() {
		i--
	}
	b.events = slices.Insert(b.events, i, e)
}

// Merge adds every event of o.
func (b *Buffer) Merge(o *Buffer) {
	for _, e := range o.events {
		b.Add(e)
	}
}

// Events returns the buffered events. The slice is valid until the next change.
func (b *Buffer) Events() []Event { return b.events }

// InRange returns the events with start <= offset < end.
func (b *Buffer) InRange(start, end int32) []Event {
	lo, _ := slices.BinarySearchFunc(b.events, start, func(e Event, t int32) int {
		if e.SampleOffset() < t {
			return -1
		}
		return 1
	})
	hi := lo
	for hi < len(b.events) && b.events[hi].SampleOffset() < end {
		hi++
	}
	return b.events[lo:hi]
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int { return len(b.events) }

// Clear drops every event and keeps the storage.
func (b *Buffer) Clear() {
	clear(b.events)
	b.events = b.events[:0]
}
