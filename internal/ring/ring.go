// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ring implements the lock-free SPSC byte-record queue that
// forms one direction of a Channel (ksched's shared-memory transport).
//
// Unlike code.hybscloud.com/lfq's SPSC[T], the slot array cannot be a
// Go slice: a Channel is mapped into the same shared-memory segment by
// two unrelated processes, so Ring must be POD with fixed offsets and
// no indirection. The head/tail counters and algorithm are adapted
// directly from the Lamport ring buffer in spsc.go; only the slot
// storage and the blocking variants (absent from the in-process queue,
// required by §4.1 of the spec) are new.
package ring

import (
	"time"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"

	"code.hybscloud.com/ksched/internal/cacheline"
)

// Capacity is Q: the number of slots in one ring. One slot is always
// sacrificed to disambiguate full from empty, so usable capacity is
// Capacity-1.
const Capacity = 1024

// SlotSize is S: the fixed payload capacity of one record, including
// the trailing NUL terminator.
const SlotSize = 256

const mask = Capacity - 1

// record is one fixed-capacity slot: the stored payload length plus the
// NUL-terminated payload bytes. length is written by the producer before
// the tail release and read by the consumer after the tail acquire, so
// it needs no atomic of its own — it rides the ring's own ordering.
type record struct {
	length uint32
	_      [4]byte // align bytes to an 8-byte boundary
	bytes  [SlotSize]byte
}

// Ring is the POD ring buffer. Exactly one process writes tail and
// reads it for its own producer-side bookkeeping; exactly one process
// writes head. Both processes may load the other's counter with
// acquire ordering. Ring must be embedded by value (never behind a
// pointer) inside a shared-memory segment.
type Ring struct {
	_     cacheline.Pad
	head  atomix.Uint64 // consumer's next-read index
	_     cacheline.Pad
	tail  atomix.Uint64 // producer's next-write index
	_     cacheline.Pad
	slots [Capacity]record
}

// Init prepares a freshly mapped (zeroed) Ring for use. Called exactly
// once, by whichever process created the backing segment.
func (r *Ring) Init() {
	r.head.StoreRelaxed(0)
	r.tail.StoreRelaxed(0)
}

// Producer is the process-local handle held by the single writer of a
// Ring. It caches the peer's last-observed head so most pushes never
// need to touch the consumer's cache line.
type Producer struct {
	ring       *Ring
	cachedHead uint64
}

// NewProducer binds a Producer to ring. ring must already be mapped
// (and, for the creating side, Init'd).
func NewProducer(r *Ring) *Producer {
	return &Producer{ring: r}
}

// TryPush writes data as one record. Data longer than SlotSize-1 bytes
// is silently truncated. Returns ErrFull without writing if the ring
// has no free slot.
func (p *Producer) TryPush(data []byte) error {
	r := p.ring
	tail := r.tail.LoadRelaxed()
	if tail-p.cachedHead >= mask {
		p.cachedHead = r.head.LoadAcquire()
		if tail-p.cachedHead >= mask {
			return ErrFull
		}
	}

	n := len(data)
	if n > SlotSize-1 {
		n = SlotSize - 1
	}
	slot := &r.slots[tail&mask]
	copy(slot.bytes[:n], data[:n])
	slot.bytes[n] = 0
	slot.length = uint32(n)

	r.tail.StoreRelease(tail + 1)
	return nil
}

// PushBlocking busy-waits (CPU-pause spin, no OS sleep) until data can
// be pushed or timeout elapses. timeout<0 waits forever.
func (p *Producer) PushBlocking(data []byte, timeout time.Duration) error {
	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}
	var sw spin.Wait
	for {
		err := p.TryPush(data)
		if err == nil {
			return nil
		}
		if timeout >= 0 && !time.Now().Before(deadline) {
			return ErrTimedOut
		}
		sw.Once()
	}
}

// Consumer is the process-local handle held by the single reader of a
// Ring. It caches the peer's last-observed tail.
type Consumer struct {
	ring       *Ring
	cachedTail uint64
}

// NewConsumer binds a Consumer to ring.
func NewConsumer(r *Ring) *Consumer {
	return &Consumer{ring: r}
}

// TryPop copies the next record into buf and returns its length.
// Returns ErrEmpty without mutating head if the ring has no record.
// buf must be at least SlotSize bytes.
func (c *Consumer) TryPop(buf []byte) (int, error) {
	r := c.ring
	head := r.head.LoadRelaxed()
	if head >= c.cachedTail {
		c.cachedTail = r.tail.LoadAcquire()
		if head >= c.cachedTail {
			return 0, ErrEmpty
		}
	}

	slot := &r.slots[head&mask]
	n := int(slot.length)
	copy(buf, slot.bytes[:n])

	r.head.StoreRelease(head + 1)
	return n, nil
}

// PopBlocking busy-waits until a record is available or timeout
// elapses. timeout<0 waits forever.
func (c *Consumer) PopBlocking(buf []byte, timeout time.Duration) (int, error) {
	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}
	var sw spin.Wait
	for {
		n, err := c.TryPop(buf)
		if err == nil {
			return n, nil
		}
		if timeout >= 0 && !time.Now().Before(deadline) {
			return 0, ErrTimedOut
		}
		sw.Once()
	}
}

// ErrFull and ErrEmpty are control-flow retry signals, not failures —
// the same role iox.ErrWouldBlock plays for the in-process queues in
// code.hybscloud.com/lfq, reused here for ecosystem consistency.
var (
	ErrFull  = iox.ErrWouldBlock
	ErrEmpty = iox.ErrWouldBlock
)

// ErrTimedOut is returned by the blocking variants when a non-negative
// timeout elapses before the operation could proceed.
var ErrTimedOut = errTimedOut{}

type errTimedOut struct{}

func (errTimedOut) Error() string { return "ring: timed out" }
