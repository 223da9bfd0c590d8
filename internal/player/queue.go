/*
DESCRIPTION
  queue.go implements the bounded, slot-recycling packet queue the decoder
  and render goroutines communicate through, per the concurrency model's
  "fixed-capacity bounded queue of reusable packet slots with per-slot
  backing byte buffer reused across iterations" requirement. Ports the
  shape of thingbuf's mpsc::blocking::with_recycle from
  player/src/renderer.rs::PlayerControl::new, using two buffered channels
  (a free-list and a full-list) in place of thingbuf's single recycling
  channel, since Go has no built-in recycling-channel type.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package player

import "github.com/kore-signet/ansi-three/container"

// QueueCapacity is the number of in-flight packet slots between the
// decoder and render goroutines, per the concurrency model.
const QueueCapacity = 100

// MinSlotCapacity is the starting/floor backing-buffer size for a queue
// slot: one ANSI-encoded frame at a modest terminal size.
const MinSlotCapacity = 192 * 108 * 20

// MaxSlotCapacity bounds how large a slot's backing buffer is allowed to
// grow before Release shrinks it back down, so one oversized packet
// (e.g. an uncompressed key interval) doesn't pin memory for the rest of
// playback.
const MaxSlotCapacity = MinSlotCapacity * 8

// Slot is one reusable packet holder. Data is owned by the queue; the
// holder (producer while filling, consumer while draining) has exclusive
// access until it hands the slot back via Send/Release.
type Slot struct {
	Header container.Packet
	Data   []byte
}

// Queue is a bounded, FIFO, slot-recycling channel pair: Acquire/Send on
// the producer side, Recv/Release on the consumer side. The zero value is
// not usable; construct with NewQueue.
type Queue struct {
	free chan *Slot
	full chan *Slot
	min  int
	max  int
}

// NewQueue builds a Queue with capacity slots, each starting with a
// backing buffer of minCap bytes and shrunk back to minCap by Release
// whenever it has grown past maxCap.
func NewQueue(capacity, minCap, maxCap int) *Queue {
	q := &Queue{
		free: make(chan *Slot, capacity),
		full: make(chan *Slot, capacity),
		min:  minCap,
		max:  maxCap,
	}
	for i := 0; i < capacity; i++ {
		q.free <- &Slot{Data: make([]byte, 0, minCap)}
	}
	return q
}

// Acquire blocks until a free slot is available for the producer to fill.
func (q *Queue) Acquire() *Slot {
	return <-q.free
}

// Send publishes a filled slot to consumers.
func (q *Queue) Send(s *Slot) {
	q.full <- s
}

// Recv blocks until a filled slot is available, or returns ok=false once
// Close has been called and all filled slots have been drained.
func (q *Queue) Recv() (*Slot, bool) {
	s, ok := <-q.full
	return s, ok
}

// TryRecv performs a non-blocking receive, used by the discard-drain phase
// to consume whatever is already buffered without waiting for more.
func (q *Queue) TryRecv() (*Slot, bool) {
	select {
	case s, ok := <-q.full:
		return s, ok
	default:
		return nil, false
	}
}

// Release returns a consumed slot to the free pool, shrinking its backing
// buffer back to the floor size if it grew past max.
func (q *Queue) Release(s *Slot) {
	if cap(s.Data) > q.max {
		s.Data = make([]byte, 0, q.min)
	} else {
		s.Data = s.Data[:0]
	}
	s.Header = container.Packet{}
	q.free <- s
}

// Close signals that no further slots will be sent; Recv drains whatever
// remains buffered and then returns ok=false.
func (q *Queue) Close() {
	close(q.full)
}
