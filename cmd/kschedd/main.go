// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command kschedd is the kernel-admission scheduler server. It takes
// no arguments, responds to SIGINT/SIGTERM by shutting down cleanly
// (destroying the registry and any still-bound channels), and exits
// non-zero only if the registry segment cannot be created (spec §6
// Process surface).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"code.hybscloud.com/ksched/server"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Str("component", "kschedd").Logger()

	r, err := server.New(server.WithLogger(logger))
	if err != nil {
		logger.Error().Err(err).Msg("failed to start reactor")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := r.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("reactor exited with error")
		os.Exit(1)
	}
}
