// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/ksched"
	"code.hybscloud.com/ksched/wire"
)

func TestRequestFormatParseRoundTrip(t *testing.T) {
	req := wire.Request{KernelType: "GemmA", RequestID: "req_7", SourceTag: "pytorch"}
	got, err := wire.ParseRequest(req.Format())
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if got != req {
		t.Fatalf("got %+v, want %+v", got, req)
	}
}

func TestRequestFormatParseWithUniqueID(t *testing.T) {
	req := wire.Request{KernelType: "GemmA", RequestID: "req_7", SourceTag: "pytorch", UniqueID: "u1"}
	got, err := wire.ParseRequest(req.Format())
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	if got != req {
		t.Fatalf("got %+v, want %+v", got, req)
	}
}

func TestParseRequestStripsTrailingEOL(t *testing.T) {
	got, err := wire.ParseRequest([]byte("GemmA|req_7|pytorch\r\n"))
	if err != nil {
		t.Fatalf("ParseRequest: %v", err)
	}
	want := wire.Request{KernelType: "GemmA", RequestID: "req_7", SourceTag: "pytorch"}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestParseRequestMalformed(t *testing.T) {
	if _, err := wire.ParseRequest([]byte("onlyonefield\n")); !errors.Is(err, ksched.ErrMalformedRequest) {
		t.Fatalf("got %v, want ErrMalformedRequest", err)
	}
	if _, err := wire.ParseRequest([]byte("two|fields\n")); !errors.Is(err, ksched.ErrMalformedRequest) {
		t.Fatalf("got %v, want ErrMalformedRequest", err)
	}
}

func TestResponseFormatParseRoundTrip(t *testing.T) {
	resp := wire.Response{RequestID: "req_7", Allowed: true, Reason: "OK"}
	got, err := wire.ParseResponse(resp.Format())
	if err != nil {
		t.Fatalf("ParseResponse: %v", err)
	}
	if got != resp {
		t.Fatalf("got %+v, want %+v", got, resp)
	}
}

func TestResponseFormatDenied(t *testing.T) {
	resp := wire.Response{RequestID: "req_8", Allowed: false, Reason: "rate_limited"}
	if got, want := string(resp.Format()), "req_8|0|rate_limited\n"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
