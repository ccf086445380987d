// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"github.com/rs/zerolog"

	"code.hybscloud.com/spin"

	"code.hybscloud.com/ksched/internal/lfq"
)

// logSink decouples per-request log events (spec §4.6's malformed-
// request and response-timeout cases, §4.5's reap and adoption events)
// from the service task's hot path: many service goroutines enqueue,
// one goroutine owns the zerolog writer and flushes. Enqueue never
// blocks — a full sink drops the event rather than stall a request
// loop.
type logSink struct {
	q      *lfq.MPSC
	logger zerolog.Logger
	done   chan struct{}
}

func newLogSink(logger zerolog.Logger) *logSink {
	s := &logSink{
		q:      lfq.NewMPSC(1024),
		logger: logger,
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *logSink) enqueue(rec lfq.Record) {
	if err := s.q.Enqueue(&rec); err != nil {
		s.logger.Warn().Str("event", rec.Event).Msg("log sink full, dropping event")
	}
}

func (s *logSink) run() {
	var sw spin.Wait
	for {
		select {
		case <-s.done:
			s.flushRemaining()
			return
		default:
		}
		rec, err := s.q.Dequeue()
		if err != nil {
			sw.Once()
			continue
		}
		s.emit(rec)
	}
}

func (s *logSink) flushRemaining() {
	s.q.Drain()
	for {
		rec, err := s.q.Dequeue()
		if err != nil {
			return
		}
		s.emit(rec)
	}
}

func (s *logSink) emit(rec lfq.Record) {
	ev := s.logger.Info().Str("event", rec.Event).Int("slot", rec.Slot)
	if rec.Channel != "" {
		ev = ev.Str("channel", rec.Channel)
	}
	if rec.Pid != 0 {
		ev = ev.Uint32("pid", rec.Pid)
	}
	if rec.RequestID != "" {
		ev = ev.Str("request_id", rec.RequestID)
	}
	if rec.Err != nil {
		ev = ev.Err(rec.Err)
	}
	ev.Msg(rec.Event)
}

// close stops the flusher goroutine after draining what is queued.
func (s *logSink) close() {
	close(s.done)
}
