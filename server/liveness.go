// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"errors"
	"os"
	"syscall"
)

// processAlive probes pid with the null signal (spec §4.5): alive if
// the signal send succeeds or is denied by permissions, dead only if
// the OS reports no such process. os.FindProcess never fails to find a
// pid on Unix (it does not consult the process table until Signal is
// called), so any error here comes from the Signal call itself.
func processAlive(pid uint32) bool {
	proc, err := os.FindProcess(int(pid))
	if err != nil {
		return false
	}
	err = proc.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	return !errors.Is(err, os.ErrProcessDone) && !errors.Is(err, syscall.ESRCH)
}
