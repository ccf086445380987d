// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package cacheline provides false-sharing padding shared by every POD
// struct that is mapped into a shared-memory segment. Every field that
// is mutated independently by a different process needs its own cache
// line so that writes on one side never bounce the other side's line.
package cacheline

// Size is the assumed cache line size on supported hosts.
const Size = 64

// Pad separates two fields onto distinct cache lines. Embed it between
// fields, not after the last one.
type Pad [Size]byte
