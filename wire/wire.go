// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wire implements the `|`-delimited ASCII record formats
// exchanged over a Channel's rings (spec §6).
package wire

import (
	"fmt"
	"strings"

	"code.hybscloud.com/ksched"
)

// Request is a worker->server admission request: one line,
// `{kernel_type}|{request_id}|{source_tag}[|{unique_id}]\n`.
type Request struct {
	KernelType string
	RequestID  string
	SourceTag  string
	UniqueID   string // optional; empty if the client omitted it
}

// Format renders req as the wire line, including the trailing newline.
// Fields must not themselves contain '|'; callers are responsible for
// that (spec §6) since this package does no escaping.
func (req Request) Format() []byte {
	if req.UniqueID == "" {
		return []byte(fmt.Sprintf("%s|%s|%s\n", req.KernelType, req.RequestID, req.SourceTag))
	}
	return []byte(fmt.Sprintf("%s|%s|%s|%s\n", req.KernelType, req.RequestID, req.SourceTag, req.UniqueID))
}

// ParseRequest parses one wire line into a Request. Trailing '\n'/'\r'
// are stripped first. Returns ksched.ErrMalformedRequest if fewer than
// three '|'-delimited fields are present.
func ParseRequest(data []byte) (Request, error) {
	fields := strings.Split(trimEOL(data), "|")
	if len(fields) < 3 {
		return Request{}, ksched.ErrMalformedRequest
	}
	req := Request{
		KernelType: fields[0],
		RequestID:  fields[1],
		SourceTag:  fields[2],
	}
	if len(fields) > 3 {
		req.UniqueID = fields[3]
	}
	return req, nil
}

// Response is a server->worker admission decision: one line,
// `{request_id}|{1 or 0}|{reason}\n`.
type Response struct {
	RequestID string
	Allowed   bool
	Reason    string
}

// Format renders resp as the wire line, including the trailing newline.
func (resp Response) Format() []byte {
	allowed := "0"
	if resp.Allowed {
		allowed = "1"
	}
	return []byte(fmt.Sprintf("%s|%s|%s\n", resp.RequestID, allowed, resp.Reason))
}

// ParseResponse parses one wire line into a Response. Returns
// ksched.ErrMalformedRequest if fewer than three '|'-delimited fields
// are present.
func ParseResponse(data []byte) (Response, error) {
	fields := strings.Split(trimEOL(data), "|")
	if len(fields) < 3 {
		return Response{}, ksched.ErrMalformedRequest
	}
	return Response{
		RequestID: fields[0],
		Allowed:   fields[1] == "1",
		Reason:    fields[2],
	}, nil
}

func trimEOL(data []byte) string {
	s := string(data)
	return strings.TrimRight(s, "\r\n")
}
