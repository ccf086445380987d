// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package server implements the Server Reactor (spec §4.5): it scans
// the Registry, adopts newly announced clients, runs one Service Task
// per adopted client, and reaps clients that die without a clean
// unregister.
package server

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"code.hybscloud.com/atomix"

	"code.hybscloud.com/ksched"
	"code.hybscloud.com/ksched/internal/registry"
	"code.hybscloud.com/ksched/internal/shm"
)

// clientRecord is the reactor's per-slot bookkeeping for one adopted
// client (spec §4.5's "per-client record").
type clientRecord struct {
	slot        int
	channelName string
	typ         string
	uniqueID    string
	pid         uint32

	channelMapping *shm.Mapping[ksched.Channel]
	channel        *ksched.Channel

	running      atomix.Bool
	lastActivity atomix.Int64 // unix millis
}

func (r *clientRecord) touch() {
	r.lastActivity.StoreRelease(time.Now().UnixMilli())
}

// Reactor is the server-side process owning the Registry segment and
// one goroutine per adopted client.
type Reactor struct {
	opts options

	regMapping *shm.Mapping[registry.Table]
	reg        *registry.Table

	mu          sync.Mutex
	clients     map[int]*clientRecord
	lastVersion uint64

	shuttingDown atomix.Bool

	logs   *logSink
	logger zerolog.Logger
}

// New creates the Registry segment, runs its initializer, and marks
// the registry server_ready (spec §4.5 Startup). Fails only if the
// segment cannot be created/mapped.
func New(opts ...Option) (*Reactor, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	mapping, _, err := shm.CreateAndAttach[registry.Table](o.registryName)
	if err != nil {
		return nil, fmt.Errorf("ksched/server: create registry segment %q: %w: %w", o.registryName, ksched.ErrSegmentOpenFailed, err)
	}

	logs := newLogSink(o.logger)

	r := &Reactor{
		opts:       o,
		regMapping: mapping,
		reg:        mapping.Ptr,
		clients:    make(map[int]*clientRecord),
		logs:       logs,
		logger:     o.logger,
	}
	r.reg.ServerReady.StoreRelease(true)
	return r, nil
}

// Run executes the scan loop (spec §4.5) until ctx is cancelled, then
// drains every adopted client and destroys the registry segment.
func (r *Reactor) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.opts.scanPeriod)
	defer ticker.Stop()

	r.logger.Info().Str("registry", r.opts.registryName).Msg("reactor started")

	for {
		select {
		case <-ctx.Done():
			r.shutdown()
			return nil
		case <-ticker.C:
			r.scanOnce()
		}
	}
}

func (r *Reactor) scanOnce() {
	version := registry.Version(r.reg)
	if version != r.lastVersion {
		r.lastVersion = version
		for _, slot := range registry.ActiveSlots(r.reg) {
			r.adopt(slot)
		}
	}
	r.reap()
}

// shutdown flips every running flag, waits briefly for service tasks
// to notice, then tears down every remaining channel and the registry
// segment itself.
func (r *Reactor) shutdown() {
	r.shuttingDown.StoreRelease(true)

	r.mu.Lock()
	for _, rec := range r.clients {
		rec.running.StoreRelease(false)
	}
	r.mu.Unlock()

	time.Sleep(50 * time.Millisecond)

	r.mu.Lock()
	for slot, rec := range r.clients {
		r.teardownLocked(slot, rec)
	}
	r.mu.Unlock()

	r.reg.ServerReady.StoreRelease(false)
	r.regMapping.Detach()
	shm.Destroy(r.opts.registryName)

	r.logs.close()
	r.logger.Info().Msg("reactor stopped")
}

// teardownLocked removes rec from the active-client table and
// destroys its channel segment. Caller must hold r.mu.
func (r *Reactor) teardownLocked(slot int, rec *clientRecord) {
	delete(r.clients, slot)
	if registry.Active(r.reg, slot) {
		registry.Unregister(r.reg, slot)
	}
	rec.channelMapping.Detach()
	shm.Destroy(rec.channelName)
}
