// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package policy is the admission-decision collaborator a Service
// Task forwards each request's kernel-type to (spec §4.6).
package policy

// Decider maps a kernel-type tag to an admission decision and a
// human-readable reason echoed back to the worker.
type Decider interface {
	Decide(kernelType string) (allowed bool, reason string)
}

// AlwaysAllow is the stub decider: every kernel type is admitted.
// Real admission policy (rate limits, per-tenant quotas, kernel
// denylists) is an external collaborator; this repo only needs a
// Decider that satisfies the interface so the reactor can be built and
// tested end to end.
type AlwaysAllow struct{}

// Decide always returns (true, "OK").
func (AlwaysAllow) Decide(string) (bool, string) {
	return true, "OK"
}
