// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package shm wraps the host's POSIX-style shared-memory primitive:
// open-or-create a named segment, truncate it to a struct's size,
// memory-map it read-write shared, and later unmap/unlink it. The
// mapper only checks that a name is well-formed (ValidateName);
// deciding who gets to destroy a segment is the caller's
// responsibility (see spec §4.4 and §9 "Ownership of mapped regions").
package shm

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrSegmentOpenFailed reports that a segment could not be created,
// opened, sized, or mapped.
var ErrSegmentOpenFailed = errors.New("shm: segment open failed")

// ValidateName checks a POSIX shared-memory segment name: a leading
// slash, no further slashes, and a bounded length so it fits the fixed
// registry field it is usually stored in.
func ValidateName(name string, maxLen int) error {
	if len(name) == 0 || name[0] != '/' {
		return fmt.Errorf("shm: name %q must start with '/'", name)
	}
	if len(name) > maxLen {
		return fmt.Errorf("shm: name %q exceeds %d bytes", name, maxLen)
	}
	for _, r := range name[1:] {
		if r == '/' {
			return fmt.Errorf("shm: name %q must not contain '/' after the leading slash", name)
		}
		if unicode.IsControl(r) {
			return fmt.Errorf("shm: name %q contains a control character", name)
		}
	}
	return nil
}
