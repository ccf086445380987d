// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"

	"code.hybscloud.com/ksched/internal/cacheline"
)

// MPSC is an FAA-based multi-producer single-consumer bounded queue of
// Records. Monomorphized to Record rather than left generic over an
// opaque payload: this queue has exactly one caller — the reactor's log
// sink — so the slot holds Record's fields directly, letting the
// flusher read them back as structured data instead of a pointer to
// something it has to know how to interpret.
//
// Producers use FAA to blindly claim positions (SCQ-style), requiring
// 2n physical slots for capacity n. Every reactor service goroutine is
// a producer; the reactor's single log-flusher goroutine is the
// consumer.
type MPSC struct {
	_        cacheline.Pad
	head     atomix.Uint64 // consumer index (single consumer writes, but producers read)
	_        cacheline.Pad
	tail     atomix.Uint64 // producer index (FAA)
	_        cacheline.Pad
	draining atomix.Bool // drain mode: no more enqueues
	_        cacheline.Pad
	buffer   []mpscSlot
	capacity uint64 // n (usable capacity)
	size     uint64 // 2n (physical slots)
	mask     uint64 // 2n - 1
}

type mpscSlot struct {
	cycle atomix.Uint64 // round number
	rec   Record
}

// NewMPSC creates a new FAA-based MPSC queue of Records. Capacity
// rounds up to the next power of 2.
func NewMPSC(capacity int) *MPSC {
	if capacity < 2 {
		panic("lfq: capacity must be >= 2")
	}

	n := uint64(roundToPow2(capacity))
	size := n * 2

	q := &MPSC{
		buffer:   make([]mpscSlot, size),
		capacity: n,
		size:     size,
		mask:     size - 1,
	}

	for i := uint64(0); i < size; i++ {
		q.buffer[i].cycle.StoreRelaxed(i / n)
	}

	return q
}

// Drain signals that no more enqueues will occur. The caller ensures
// no further Enqueue calls are made after calling Drain.
func (q *MPSC) Drain() {
	q.draining.StoreRelease(true)
}

// Enqueue adds a log record to the queue (multiple producers safe).
// Returns ErrWouldBlock if the queue is full.
func (q *MPSC) Enqueue(rec *Record) error {
	sw := spin.Wait{}
	for {
		tail := q.tail.LoadAcquire()
		head := q.head.LoadRelaxed()
		if tail >= head+q.capacity {
			return ErrWouldBlock
		}

		myTail := q.tail.AddAcqRel(1) - 1

		slot := &q.buffer[myTail&q.mask]
		expectedCycle := myTail / q.capacity

		slotCycle := slot.cycle.LoadAcquire()

		if slotCycle == expectedCycle {
			slot.rec = *rec
			slot.cycle.StoreRelease(expectedCycle + 1)
			return nil
		}

		if int64(slotCycle) < int64(expectedCycle) {
			return ErrWouldBlock
		}
		sw.Once()
	}
}

// Dequeue removes and returns a log record (single consumer only).
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *MPSC) Dequeue() (Record, error) {
	head := q.head.LoadRelaxed()
	cycle := head / q.capacity
	slot := &q.buffer[head&q.mask]

	slotCycle := slot.cycle.LoadAcquire()

	if slotCycle != cycle+1 {
		return Record{}, ErrWouldBlock
	}

	rec := slot.rec
	slot.rec = Record{}
	nextEnqCycle := (head + q.size) / q.capacity
	slot.cycle.StoreRelease(nextEnqCycle)
	q.head.StoreRelaxed(head + 1)

	return rec, nil
}

// Cap returns the queue capacity.
func (q *MPSC) Cap() int {
	return int(q.capacity)
}

// roundToPow2 rounds n up to the next power of 2.
func roundToPow2(n int) int {
	if n < 2 {
		return 2
	}
	n--
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return n + 1
}
