// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ksched

import (
	"errors"

	"code.hybscloud.com/iox"

	"code.hybscloud.com/ksched/internal/ring"
)

// ErrFull and ErrEmpty are control-flow retry signals on a Channel's
// rings, not failures. They alias iox.ErrWouldBlock directly — the
// same choice code.hybscloud.com/lfq makes for its in-process queues —
// so callers anywhere in the ecosystem can test with one helper.
var (
	ErrFull  = ring.ErrFull
	ErrEmpty = ring.ErrEmpty
)

// ErrTimedOut is returned by a blocking ring operation, or by a
// connector handshake, when a non-negative timeout elapses first.
var ErrTimedOut = ring.ErrTimedOut

// Lifecycle errors. Unlike ErrFull/ErrEmpty these are not retry
// signals — they report conditions a caller must act on, so they stay
// plain sentinel errors rather than being folded into iox's
// would-block taxonomy.
var (
	// ErrSegmentOpenFailed reports that a shared-memory segment could
	// not be created, opened, or mapped. Fatal on server startup for
	// the registry segment; transient during client adoption for a
	// channel segment that has not been created yet.
	ErrSegmentOpenFailed = errors.New("ksched: shared-memory segment open failed")

	// ErrRegistryFull is returned to a client whose registration found
	// every registry slot claimed. The server never observes this —
	// the client simply never registers.
	ErrRegistryFull = errors.New("ksched: registry full")

	// ErrMalformedRequest marks a request record that could not be
	// parsed into at least kernel-type, request-id, and source-tag. It
	// is logged and dropped; no response is produced.
	ErrMalformedRequest = errors.New("ksched: malformed request")

	// ErrResponseSendTimeout marks a response push that could not
	// complete within its timeout. The service task logs it and
	// continues; liveness is re-checked on the next loop iteration.
	ErrResponseSendTimeout = errors.New("ksched: response send timed out")

	// ErrPeerDead is attached to the event the reactor's reaper logs
	// when a client's registry entry, channel connection flag, or OS
	// process existence fails its conjunct.
	ErrPeerDead = errors.New("ksched: peer is dead")
)

// IsWouldBlock reports whether err is the benign ErrFull/ErrEmpty
// retry signal. Delegates to iox for wrapped-error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}
