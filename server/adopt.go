// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"code.hybscloud.com/ksched"
	"code.hybscloud.com/ksched/internal/lfq"
	"code.hybscloud.com/ksched/internal/registry"
	"code.hybscloud.com/ksched/internal/shm"
)

// adopt binds a newly announced registry slot to a service goroutine
// (spec §4.5 Adoption). Idempotent: a slot already being serviced, or
// whose channel name collides with one already served, is a no-op.
func (r *Reactor) adopt(slot int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.clients[slot]; ok {
		return
	}

	desc, ok := registry.Snapshot(r.reg, slot)
	if !ok {
		return
	}

	for _, rec := range r.clients {
		if rec.channelName == desc.ChannelName {
			return
		}
	}

	mapping, err := shm.AttachExisting[ksched.Channel](desc.ChannelName)
	if err != nil {
		// Worker has registered but not yet mapped its channel segment.
		// The next scan will retry.
		return
	}

	rec := &clientRecord{
		slot:           slot,
		channelName:    desc.ChannelName,
		typ:            desc.Type,
		uniqueID:       desc.UniqueID,
		pid:            desc.Pid,
		channelMapping: mapping,
		channel:        mapping.Ptr,
	}
	rec.running.StoreRelaxed(true)
	rec.touch()
	r.clients[slot] = rec

	r.logs.enqueue(lfq.Record{Event: "adopted", Slot: slot, Channel: desc.ChannelName, Pid: desc.Pid})

	go r.serviceTask(rec)
}
