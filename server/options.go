// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"time"

	"github.com/rs/zerolog"

	"code.hybscloud.com/ksched"
	"code.hybscloud.com/ksched/policy"
)

// options configures Reactor construction. The structural constants
// (Q, S, N) are not tunable here — they are compile-time array sizes
// in internal/ring and internal/registry — only the reactor's runtime
// knobs are.
type options struct {
	registryName string
	scanPeriod   time.Duration
	respTimeout  time.Duration
	staleAfter   time.Duration
	logger       zerolog.Logger
	decider      policy.Decider
}

func defaultOptions() options {
	return options{
		registryName: ksched.RegistryName(),
		scanPeriod:   100 * time.Millisecond,
		respTimeout:  5 * time.Second,
		staleAfter:   30 * time.Second,
		logger:       zerolog.Nop(),
		decider:      policy.AlwaysAllow{},
	}
}

// Option configures a Reactor. Mirrors the fluent-builder idiom
// code.hybscloud.com/lfq uses for queue construction, adapted to plain
// functional options since the reactor has no algorithm to select —
// only runtime knobs.
type Option func(*options)

// WithRegistryName overrides the registry segment name (default:
// ksched.RegistryName()).
func WithRegistryName(name string) Option {
	return func(o *options) { o.registryName = name }
}

// WithScanPeriod overrides the scan-loop period (default 100ms, spec
// §4.5).
func WithScanPeriod(d time.Duration) Option {
	return func(o *options) { o.scanPeriod = d }
}

// WithResponseTimeout overrides the per-response push timeout (default
// 5s, spec §4.6).
func WithResponseTimeout(d time.Duration) Option {
	return func(o *options) { o.respTimeout = d }
}

// WithHeartbeatStaleAfter stores a heartbeat-age threshold (default
// 30s). The reactor does not read it: no stale-heartbeat event is
// logged, and liveness is decided by the spec §4.5 composite
// predicate, not by heartbeat age.
func WithHeartbeatStaleAfter(d time.Duration) Option {
	return func(o *options) { o.staleAfter = d }
}

// WithLogger sets the component logger. Default is a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithPolicy sets the admission decider. Default is policy.AlwaysAllow.
func WithPolicy(d policy.Decider) Option {
	return func(o *options) { o.decider = d }
}
