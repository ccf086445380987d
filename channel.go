// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package ksched

import (
	"time"

	"code.hybscloud.com/atomix"

	"code.hybscloud.com/ksched/internal/cacheline"
	"code.hybscloud.com/ksched/internal/ring"
)

// Channel is the POD struct mapped by exactly one named shared-memory
// segment per connected worker (spec §3, §4.2): a request ring (worker
// is producer, server is consumer), a response ring (server is
// producer, worker is consumer), and two cache-line-isolated liveness
// flags.
type Channel struct {
	_               cacheline.Pad
	ClientConnected atomix.Bool
	_               cacheline.Pad
	ServerReady     atomix.Bool
	_               cacheline.Pad
	Request         ring.Ring
	Response        ring.Ring
}

// Init prepares a freshly mapped (zeroed) Channel. Called exactly once,
// by the worker that creates the segment.
func (c *Channel) Init() {
	c.ClientConnected.StoreRelaxed(false)
	c.ServerReady.StoreRelaxed(false)
	c.Request.Init()
	c.Response.Init()
}

// WorkerSide is the worker's view of a Channel: it produces into the
// request ring and consumes from the response ring.
type WorkerSide struct {
	ch   *Channel
	req  *ring.Producer
	resp *ring.Consumer
}

// NewWorkerSide wraps ch for worker-side use.
func NewWorkerSide(ch *Channel) *WorkerSide {
	return &WorkerSide{ch: ch, req: ring.NewProducer(&ch.Request), resp: ring.NewConsumer(&ch.Response)}
}

// SendRequest pushes a request record, blocking up to timeout
// (negative waits forever).
func (w *WorkerSide) SendRequest(data []byte, timeout time.Duration) error {
	return w.req.PushBlocking(data, timeout)
}

// RecvResponse pops a response record into buf, blocking up to
// timeout (negative waits forever).
func (w *WorkerSide) RecvResponse(buf []byte, timeout time.Duration) (int, error) {
	return w.resp.PopBlocking(buf, timeout)
}

// ServerSide is the server's view of a Channel: it consumes from the
// request ring and produces into the response ring.
type ServerSide struct {
	ch   *Channel
	req  *ring.Consumer
	resp *ring.Producer
}

// NewServerSide wraps ch for server-side use.
func NewServerSide(ch *Channel) *ServerSide {
	return &ServerSide{ch: ch, req: ring.NewConsumer(&ch.Request), resp: ring.NewProducer(&ch.Response)}
}

// TryRecvRequest pops a request record into buf without blocking.
// Returns ErrEmpty if none is pending.
func (s *ServerSide) TryRecvRequest(buf []byte) (int, error) {
	return s.req.TryPop(buf)
}

// SendResponse pushes a response record, blocking up to timeout.
func (s *ServerSide) SendResponse(data []byte, timeout time.Duration) error {
	return s.resp.PushBlocking(data, timeout)
}
