// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package client_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"code.hybscloud.com/ksched/client"
	"code.hybscloud.com/ksched/internal/shm"
	"code.hybscloud.com/ksched/server"
	"code.hybscloud.com/ksched/wire"
)

// TestConnectRequestClose drives the full client connector handshake
// (spec §4.7) against a real Reactor: connect, request, close, and
// confirm the reactor still shuts down cleanly afterwards.
func TestConnectRequestClose(t *testing.T) {
	registryName := fmt.Sprintf("/ksched_client_test_registry_%d", os.Getpid())
	defer shm.Destroy(registryName)

	r, err := server.New(
		server.WithRegistryName(registryName),
		server.WithScanPeriod(10*time.Millisecond),
	)
	if err != nil {
		t.Fatalf("server.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runErr := make(chan error, 1)
	go func() { runErr <- r.Run(ctx) }()

	c, err := client.Connect("pytorch", "u1",
		client.WithRegistryName(registryName),
		client.WithAttachTimeout(2*time.Second),
	)
	if err != nil {
		t.Fatalf("Connect: %v", err)
	}

	req := wire.Request{KernelType: "GemmA", RequestID: "req_1", SourceTag: "pytorch"}
	resp, err := c.Request(req, time.Second)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if resp.RequestID != "req_1" || !resp.Allowed {
		t.Fatalf("got %+v, want allowed req_1", resp)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	cancel()
	select {
	case err := <-runErr:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not return after cancel")
	}
}
