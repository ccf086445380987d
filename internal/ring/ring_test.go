// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ring_test

import (
	"bytes"
	"errors"
	"sync"
	"testing"
	"time"

	"code.hybscloud.com/ksched/internal/ring"
)

func newBoundRing() *ring.Ring {
	r := &ring.Ring{}
	r.Init()
	return r
}

func TestTryPushTryPopRoundTrip(t *testing.T) {
	r := newBoundRing()
	p := ring.NewProducer(r)
	c := ring.NewConsumer(r)

	if err := p.TryPush([]byte("hello")); err != nil {
		t.Fatalf("TryPush: %v", err)
	}
	buf := make([]byte, ring.SlotSize)
	n, err := c.TryPop(buf)
	if err != nil {
		t.Fatalf("TryPop: %v", err)
	}
	if string(buf[:n]) != "hello" {
		t.Fatalf("TryPop: got %q, want %q", buf[:n], "hello")
	}
}

func TestTryPopEmpty(t *testing.T) {
	r := newBoundRing()
	c := ring.NewConsumer(r)
	buf := make([]byte, ring.SlotSize)
	if _, err := c.TryPop(buf); !errors.Is(err, ring.ErrEmpty) {
		t.Fatalf("TryPop on empty: got %v, want ErrEmpty", err)
	}
}

func TestFullAfterCapacityMinusOnePushes(t *testing.T) {
	r := newBoundRing()
	p := ring.NewProducer(r)

	for i := 0; i < ring.Capacity-1; i++ {
		if err := p.TryPush([]byte{byte(i)}); err != nil {
			t.Fatalf("TryPush(%d): %v", i, err)
		}
	}
	if err := p.TryPush([]byte("overflow")); !errors.Is(err, ring.ErrFull) {
		t.Fatalf("TryPush past capacity-1: got %v, want ErrFull", err)
	}
}

func TestPushOrderPreservedUnderDrain(t *testing.T) {
	r := newBoundRing()
	p := ring.NewProducer(r)
	c := ring.NewConsumer(r)

	for i := 0; i < ring.Capacity-1; i++ {
		if err := p.TryPush([]byte{byte(i)}); err != nil {
			t.Fatalf("TryPush(%d): %v", i, err)
		}
	}
	buf := make([]byte, ring.SlotSize)
	for i := 0; i < ring.Capacity-1; i++ {
		n, err := c.TryPop(buf)
		if err != nil {
			t.Fatalf("TryPop(%d): %v", i, err)
		}
		if n != 1 || buf[0] != byte(i) {
			t.Fatalf("TryPop(%d): got %v, want [%d]", i, buf[:n], byte(i))
		}
	}
}

func TestBoundaryTruncation(t *testing.T) {
	r := newBoundRing()
	p := ring.NewProducer(r)
	c := ring.NewConsumer(r)

	exact := bytes.Repeat([]byte{'x'}, ring.SlotSize-1)
	if err := p.TryPush(exact); err != nil {
		t.Fatalf("TryPush exact: %v", err)
	}
	buf := make([]byte, ring.SlotSize)
	n, err := c.TryPop(buf)
	if err != nil {
		t.Fatalf("TryPop: %v", err)
	}
	if !bytes.Equal(buf[:n], exact) {
		t.Fatalf("exact S-1 record was not preserved byte-for-byte")
	}

	oversize := bytes.Repeat([]byte{'y'}, ring.SlotSize+10)
	if err := p.TryPush(oversize); err != nil {
		t.Fatalf("TryPush oversize: %v", err)
	}
	n, err = c.TryPop(buf)
	if err != nil {
		t.Fatalf("TryPop: %v", err)
	}
	if n != ring.SlotSize-1 {
		t.Fatalf("oversize record: got length %d, want %d", n, ring.SlotSize-1)
	}
}

func TestPushBlockingTimesOutWhenFull(t *testing.T) {
	r := newBoundRing()
	p := ring.NewProducer(r)
	for i := 0; i < ring.Capacity-1; i++ {
		if err := p.TryPush([]byte{byte(i)}); err != nil {
			t.Fatalf("TryPush(%d): %v", i, err)
		}
	}
	start := time.Now()
	err := p.PushBlocking([]byte("x"), 20*time.Millisecond)
	if !errors.Is(err, ring.ErrTimedOut) {
		t.Fatalf("PushBlocking on full: got %v, want ErrTimedOut", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatalf("PushBlocking returned suspiciously fast: %v", time.Since(start))
	}
}

func TestPopBlockingWakesOnPush(t *testing.T) {
	r := newBoundRing()
	p := ring.NewProducer(r)
	c := ring.NewConsumer(r)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		time.Sleep(5 * time.Millisecond)
		if err := p.TryPush([]byte("late")); err != nil {
			t.Errorf("TryPush: %v", err)
		}
	}()

	buf := make([]byte, ring.SlotSize)
	n, err := c.PopBlocking(buf, time.Second)
	if err != nil {
		t.Fatalf("PopBlocking: %v", err)
	}
	if string(buf[:n]) != "late" {
		t.Fatalf("PopBlocking: got %q, want %q", buf[:n], "late")
	}
	wg.Wait()
}

// TestConcurrentSPSCPreservesFIFO stresses one producer goroutine against
// one consumer goroutine and checks every pushed value is popped exactly
// once, in push order — the quantified invariant from spec §8.
func TestConcurrentSPSCPreservesFIFO(t *testing.T) {
	r := newBoundRing()
	p := ring.NewProducer(r)
	c := ring.NewConsumer(r)

	const total = 200_000
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		buf := make([]byte, 4)
		for i := 0; i < total; i++ {
			buf[0] = byte(i)
			buf[1] = byte(i >> 8)
			buf[2] = byte(i >> 16)
			buf[3] = byte(i >> 24)
			if err := p.PushBlocking(buf, -1); err != nil {
				t.Errorf("PushBlocking(%d): %v", i, err)
				return
			}
		}
	}()

	go func() {
		defer wg.Done()
		buf := make([]byte, ring.SlotSize)
		for i := 0; i < total; i++ {
			n, err := c.PopBlocking(buf, -1)
			if err != nil {
				t.Errorf("PopBlocking(%d): %v", i, err)
				return
			}
			if n != 4 {
				t.Errorf("PopBlocking(%d): got length %d, want 4", i, n)
				return
			}
			got := int(buf[0]) | int(buf[1])<<8 | int(buf[2])<<16 | int(buf[3])<<24
			if got != i {
				t.Errorf("PopBlocking(%d): got value %d, want %d", i, got, i)
				return
			}
		}
	}()

	wg.Wait()
}
