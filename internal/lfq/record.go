// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

// Record is one structured log event handed from a reactor service
// task, the reaper, or the adoption path to the flusher goroutine that
// owns the zerolog writer (spec §4.5/§4.6's slot/channel/pid/request-id
// bookkeeping). Baking these fields into the slot itself — rather than
// leaving the queue generic over an opaque payload — means the flusher
// attaches them to zerolog as structured fields instead of re-parsing
// a pre-formatted string out of a byte buffer.
type Record struct {
	Event     string // short, stable event name: "malformed_request", "request_parse_error", "response_send_timeout", "peer_dead", "adopted", "service_task_exited"
	Slot      int
	Channel   string
	Pid       uint32
	RequestID string
	Err       error
}
