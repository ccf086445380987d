// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux

package shm

// Mapping is a live mmap of a POD type T inside a named segment.
// POSIX shared memory as specified (spec §4.4) is a Linux/Unix
// facility; this build has no implementation.
type Mapping[T any] struct {
	Ptr *T
}

// CreateAndAttach always fails: shared-memory segments are not
// implemented for this platform.
func CreateAndAttach[T any](name string) (*Mapping[T], bool, error) {
	return nil, false, ErrSegmentOpenFailed
}

// AttachExisting always fails on this platform.
func AttachExisting[T any](name string) (*Mapping[T], error) {
	return nil, ErrSegmentOpenFailed
}

// Detach is a no-op on this platform.
func (m *Mapping[T]) Detach() error { return nil }

// Destroy is a no-op on this platform.
func Destroy(name string) error { return nil }
