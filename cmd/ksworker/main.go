// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command ksworker is an example worker that exercises the client
// connector contract (spec §4.7): it connects, sends one admission
// request, prints the decision, and disconnects cleanly.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"code.hybscloud.com/ksched/client"
	"code.hybscloud.com/ksched/wire"
)

func main() {
	typ := flag.String("type", "pytorch", "client type tag")
	kernel := flag.String("kernel", "GemmA", "kernel type to request admission for")
	requestID := flag.String("request-id", "req_1", "request id echoed back by the server")
	timeout := flag.Duration("timeout", 5*time.Second, "request timeout")
	flag.Parse()

	uniqueID := os.Getenv("UNIQUE_ID")

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Str("component", "ksworker").Logger()

	c, err := client.Connect(*typ, uniqueID, client.WithLogger(logger))
	if err != nil {
		logger.Error().Err(err).Msg("connect failed")
		os.Exit(1)
	}
	defer c.Close()

	resp, err := c.Request(wire.Request{
		KernelType: *kernel,
		RequestID:  *requestID,
		SourceTag:  *typ,
		UniqueID:   uniqueID,
	}, *timeout)
	if err != nil {
		logger.Error().Err(err).Msg("request failed")
		os.Exit(1)
	}

	fmt.Printf("request_id=%s allowed=%v reason=%s\n", resp.RequestID, resp.Allowed, resp.Reason)
}
