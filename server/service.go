// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"errors"
	"fmt"

	"code.hybscloud.com/spin"

	"code.hybscloud.com/ksched"
	"code.hybscloud.com/ksched/internal/lfq"
	"code.hybscloud.com/ksched/internal/ring"
	"code.hybscloud.com/ksched/wire"
)

// livenessRecheckEvery is how many empty-poll spin iterations elapse
// between re-reads of client_connected (spec §4.6 step 2a).
const livenessRecheckEvery = 10000

// serviceTask runs the request/response loop for one adopted client
// (spec §4.6) until the reactor shuts down or the reaper marks the
// client dead.
func (r *Reactor) serviceTask(rec *clientRecord) {
	side := ksched.NewServerSide(rec.channel)
	rec.channel.ServerReady.StoreRelease(true)

	buf := make([]byte, ring.SlotSize)
	var sw spin.Wait
	var spins int

	for {
		if !rec.running.LoadAcquire() || r.shuttingDown.LoadAcquire() {
			break
		}

		n, err := side.TryRecvRequest(buf)
		if err != nil {
			spins++
			if spins%livenessRecheckEvery == 0 && !rec.channel.ClientConnected.LoadAcquire() {
				break
			}
			sw.Once()
			continue
		}
		spins = 0

		r.handleRequest(rec, side, buf[:n])
		rec.touch()
	}

	r.logs.enqueue(lfq.Record{Event: "service_task_exited", Slot: rec.slot, Channel: rec.channelName})
}

func (r *Reactor) handleRequest(rec *clientRecord, side *ksched.ServerSide, raw []byte) {
	req, err := wire.ParseRequest(raw)
	if err != nil {
		if errors.Is(err, ksched.ErrMalformedRequest) {
			r.logs.enqueue(lfq.Record{Event: "malformed_request", Slot: rec.slot, Channel: rec.channelName})
			return
		}
		r.logs.enqueue(lfq.Record{Event: "request_parse_error", Slot: rec.slot, Channel: rec.channelName, Err: err})
		return
	}

	allowed, reason := r.opts.decider.Decide(req.KernelType)
	resp := wire.Response{RequestID: req.RequestID, Allowed: allowed, Reason: reason}

	if err := side.SendResponse(resp.Format(), r.opts.respTimeout); err != nil {
		sendErr := fmt.Errorf("%w: %w", ksched.ErrResponseSendTimeout, err)
		r.logs.enqueue(lfq.Record{Event: "response_send_timeout", Slot: rec.slot, Channel: rec.channelName, RequestID: req.RequestID, Err: sendErr})
	}
}
