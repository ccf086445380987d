// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package client implements the worker-side connector contract (spec
// §4.7): attach the registry, create a channel, register, wait for
// the server's two-stage handshake, exchange requests, and disconnect
// cleanly.
package client

import (
	"errors"
	"fmt"
	"os"
	"time"

	"code.hybscloud.com/atomix"

	"code.hybscloud.com/ksched"
	"code.hybscloud.com/ksched/internal/registry"
	"code.hybscloud.com/ksched/internal/ring"
	"code.hybscloud.com/ksched/internal/shm"
	"code.hybscloud.com/ksched/wire"
)

// channelCounter disambiguates channel names chosen by one process
// across multiple Connect calls (spec §4.7 step 2's suggested naming
// scheme).
var channelCounter atomix.Uint64

// Client is one connected worker's handle onto its Channel.
type Client struct {
	opts options

	regMapping *shm.Mapping[registry.Table]
	chMapping  *shm.Mapping[ksched.Channel]
	side       *ksched.WorkerSide

	channelName string
	slot        int
	typ         string
}

// Connect performs the full connector handshake (spec §4.7 steps 1-5)
// and returns a Client ready for Request calls.
func Connect(typ, uniqueID string, opts ...Option) (*Client, error) {
	o := defaultOptions(typ)
	for _, opt := range opts {
		opt(&o)
	}

	regMapping, err := attachRegistryWhenReady(o)
	if err != nil {
		return nil, err
	}

	pid := uint32(os.Getpid())
	channelName := fmt.Sprintf("/ks_%s_%d_%d", typ, pid, channelCounter.AddAcqRel(1))

	chMapping, _, err := shm.CreateAndAttach[ksched.Channel](channelName)
	if err != nil {
		regMapping.Detach()
		return nil, fmt.Errorf("ksched/client: create channel segment %q: %w: %w", channelName, ksched.ErrSegmentOpenFailed, err)
	}

	slot, err := registry.Register(regMapping.Ptr, channelName, typ, uniqueID, pid)
	if err != nil {
		chMapping.Detach()
		shm.Destroy(channelName)
		regMapping.Detach()
		if errors.Is(err, registry.ErrFull) {
			return nil, ksched.ErrRegistryFull
		}
		return nil, fmt.Errorf("ksched/client: register: %w", err)
	}

	chMapping.Ptr.ClientConnected.StoreRelease(true)

	if !pollUntil(o.attachTimeout, func() bool { return chMapping.Ptr.ServerReady.LoadAcquire() }) {
		chMapping.Ptr.ClientConnected.StoreRelease(false)
		registry.Unregister(regMapping.Ptr, slot)
		chMapping.Detach()
		shm.Destroy(channelName)
		regMapping.Detach()
		return nil, ksched.ErrTimedOut
	}

	return &Client{
		opts:        o,
		regMapping:  regMapping,
		chMapping:   chMapping,
		side:        ksched.NewWorkerSide(chMapping.Ptr),
		channelName: channelName,
		slot:        slot,
		typ:         typ,
	}, nil
}

func attachRegistryWhenReady(o options) (*shm.Mapping[registry.Table], error) {
	deadline := time.Now().Add(o.attachTimeout)
	var mapping *shm.Mapping[registry.Table]
	for {
		m, err := shm.AttachExisting[registry.Table](o.registryName)
		if err == nil {
			mapping = m
			break
		}
		if !time.Now().Before(deadline) {
			return nil, fmt.Errorf("ksched/client: attach registry %q: %w", o.registryName, ksched.ErrTimedOut)
		}
		time.Sleep(100 * time.Millisecond)
	}

	if !pollUntil(time.Until(deadline), func() bool { return mapping.Ptr.ServerReady.LoadAcquire() }) {
		mapping.Detach()
		return nil, fmt.Errorf("ksched/client: registry never became ready: %w", ksched.ErrTimedOut)
	}
	return mapping, nil
}

func pollUntil(timeout time.Duration, cond func() bool) bool {
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return true
		}
		if !time.Now().Before(deadline) {
			return cond()
		}
		time.Sleep(100 * time.Millisecond)
	}
}

// Request sends req and waits for the matching response (spec §4.7
// step 6). The channel is strictly FIFO, so one outstanding request
// per Client is all this needs.
func (c *Client) Request(req wire.Request, timeout time.Duration) (wire.Response, error) {
	if req.SourceTag == "" {
		req.SourceTag = c.opts.sourceTag
	}
	if err := c.side.SendRequest(req.Format(), timeout); err != nil {
		return wire.Response{}, err
	}

	buf := make([]byte, ring.SlotSize)
	n, err := c.side.RecvResponse(buf, timeout)
	if err != nil {
		return wire.Response{}, err
	}
	return wire.ParseResponse(buf[:n])
}

// Close performs the clean-disconnect sequence (spec §4.7 step 7): it
// does not destroy the channel segment — the server reaps and destroys
// it to avoid the worker racing the reactor.
func (c *Client) Close() error {
	c.chMapping.Ptr.ClientConnected.StoreRelease(false)
	registry.Unregister(c.regMapping.Ptr, c.slot)
	if err := c.chMapping.Detach(); err != nil {
		return err
	}
	return c.regMapping.Detach()
}
