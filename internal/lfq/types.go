// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

// Producer, Consumer, Queue, and Drainer are the general-purpose
// shapes a bounded fan-in queue satisfies. MPSC itself is monomorphized
// to Record (it has exactly one caller), so these stay generic only as
// the contract a caller could program against; MPSC satisfies
// Queue[Record] and Drainer without declaring it.

// Producer is the interface for enqueueing elements.
//
// The element is passed by pointer to avoid copying large structs; the
// queue stores a copy, so the original can be modified after Enqueue
// returns.
type Producer[T any] interface {
	// Enqueue adds an element to the queue (non-blocking, many
	// producers safe). Returns ErrWouldBlock if the queue is full.
	Enqueue(elem *T) error
}

// Consumer is the interface for dequeueing elements. Single consumer
// only.
type Consumer[T any] interface {
	// Dequeue removes and returns an element (non-blocking).
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	Dequeue() (T, error)
}

// Queue is the combined producer-consumer interface.
type Queue[T any] interface {
	Producer[T]
	Consumer[T]
	Cap() int
}

// Drainer signals that no more enqueues will occur. Call it after the
// last producer goroutine has exited. MPSC records the signal but its
// Dequeue behaves the same before and after it.
type Drainer interface {
	Drain()
}
