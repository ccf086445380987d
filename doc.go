// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package ksched implements the shared-memory transport and lifecycle
// substrate for a low-latency kernel-admission scheduler: one or more
// worker processes query a single server process before issuing
// compute kernels, over a channel that never crosses into the kernel
// on the hot path.
//
// # Shape
//
// A Channel is a pair of lock-free SPSC byte-record rings (one per
// direction) plus two liveness flags, all living in one named
// shared-memory segment:
//
//	worker --request ring--> server
//	worker <--response ring-- server
//
// Workers announce themselves in a shared-memory Registry; the server
// reactor (package server) scans the registry, adopts newly announced
// channels, runs one service goroutine per adopted client, and reaps
// clients that die without a clean unregister. The client side of the
// handshake lives in package client.
//
// # Quick start
//
// Server:
//
//	r, err := server.New(server.WithLogger(logger))
//	if err != nil { ... }
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//	if err := r.Run(ctx); err != nil { ... }
//
// Worker:
//
//	c, err := client.Connect("pytorch", os.Getenv("UNIQUE_ID"))
//	if err != nil { ... }
//	defer c.Close()
//	resp, err := c.Request(wire.Request{KernelType: "GemmA", RequestID: "req_7", SourceTag: "pytorch"}, 5*time.Second)
//
// # Memory ordering
//
// Every field shared across the process boundary is an atomix atomic
// with an explicit ordering: relaxed loads of a side's own index,
// acquire loads of the peer's, release stores to publish a mutation.
// The ring's producer/consumer pairing is the same one
// code.hybscloud.com/lfq's SPSC[T] uses; ksched's contribution is
// making the slot storage POD so two unrelated processes can map the
// same bytes (see internal/ring).
//
// # Busy-wait policy
//
// The ring's blocking operations are pure CPU-pause spin loops — no
// futex, no condition variable, no OS sleep on the fast path. This is
// deliberate (see spec §9) and callers should expect 100% CPU use of
// one core per blocked goroutine. Production callers pass a negative
// timeout (wait forever); tests pass a bounded one.
package ksched
