// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"code.hybscloud.com/ksched"
	"code.hybscloud.com/ksched/internal/lfq"
	"code.hybscloud.com/ksched/internal/registry"
)

// reap evaluates the spec §4.5 composite liveness predicate for every
// currently-serviced client and tears down any that fail it.
func (r *Reactor) reap() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for slot, rec := range r.clients {
		if r.alive(slot, rec) {
			continue
		}
		rec.running.StoreRelease(false)
		r.logs.enqueue(lfq.Record{
			Event:   "peer_dead",
			Slot:    slot,
			Channel: rec.channelName,
			Pid:     rec.pid,
			Err:     ksched.ErrPeerDead,
		})
		r.teardownLocked(slot, rec)
	}
}

func (r *Reactor) alive(slot int, rec *clientRecord) bool {
	if !registry.Active(r.reg, slot) {
		return false
	}
	if !rec.channel.ClientConnected.LoadAcquire() {
		return false
	}
	return processAlive(rec.pid)
}
