// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package lfq

import "code.hybscloud.com/iox"

// ErrWouldBlock is returned by Enqueue when the queue is full and by
// Dequeue when it is empty. Both are benign retry signals, not
// failures — the same choice the shared-memory ring makes (see
// internal/ring), so one iox helper classifies either.
var ErrWouldBlock = iox.ErrWouldBlock
