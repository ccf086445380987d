// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package lfq is a small in-process lock-free queue library: the
// many-producers/one-consumer fan-in primitive the reactor's service
// goroutines use to hand structured log events to a single writer
// without ever blocking on I/O (spec §9's no-futex, no-blocking-syscall
// discipline applies on the hot path inside one process too, not just
// across the shared-memory boundary).
//
// Only the MPSC shape is kept here. The cross-process SPSC transport
// lives in internal/ring instead: its slots must be POD so two
// unrelated processes can mmap the same bytes, which rules out this
// package's slice-backed buffer.
package lfq
