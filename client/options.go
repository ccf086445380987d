// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package client

import (
	"time"

	"github.com/rs/zerolog"

	"code.hybscloud.com/ksched"
)

type options struct {
	registryName  string
	sourceTag     string
	attachTimeout time.Duration
	responseWait  time.Duration
	logger        zerolog.Logger
}

func defaultOptions(typ string) options {
	return options{
		registryName:  ksched.RegistryName(),
		sourceTag:     typ,
		attachTimeout: 10 * time.Second,
		responseWait:  5 * time.Second,
		logger:        zerolog.Nop(),
	}
}

// Option configures a Connect call.
type Option func(*options)

// WithRegistryName overrides the registry segment name (default:
// ksched.RegistryName()).
func WithRegistryName(name string) Option {
	return func(o *options) { o.registryName = name }
}

// WithSourceTag overrides the source-tag field sent with every request
// (default: the client's type).
func WithSourceTag(tag string) Option {
	return func(o *options) { o.sourceTag = tag }
}

// WithAttachTimeout bounds how long Connect waits for the registry and
// the channel's second handshake (default 10s).
func WithAttachTimeout(d time.Duration) Option {
	return func(o *options) { o.attachTimeout = d }
}

// WithResponseWait stores a response-wait duration (default 5s).
// Request does not read it: both its send and its receive are bounded
// by the timeout argument passed to Request.
func WithResponseWait(d time.Duration) Option {
	return func(o *options) { o.responseWait = d }
}

// WithLogger sets the component logger. Default is a no-op logger.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.logger = l }
}
