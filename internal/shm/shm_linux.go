// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package shm

import (
	"fmt"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// segmentPath maps a POSIX shared-memory name (leading '/') onto the
// shm filesystem Linux mounts at /dev/shm, the same mapping glibc's
// shm_open uses.
func segmentPath(name string) string {
	return "/dev/shm" + name
}

// initializer is implemented by POD types that need their fields set
// to a well-defined starting state (e.g. head/tail counters to zero)
// the first time a segment is created. Zero-valued memory already
// satisfies most of our layouts, but atomix fields are deliberately
// initialized explicitly rather than relying on the zero value of a
// third-party type.
type initializer interface {
	Init()
}

// Mapping is a live mmap of a POD type T inside a named segment.
type Mapping[T any] struct {
	Ptr  *T
	data []byte
}

// CreateAndAttach creates the named segment if it does not already
// exist, sizes it to sizeof(T), maps it read-write shared, and — only
// on the call that actually created the segment — runs T's Init
// method if it implements [initializer]. Reports whether this call was
// the creator.
func CreateAndAttach[T any](name string) (*Mapping[T], bool, error) {
	if err := ValidateName(name, 1<<20); err != nil {
		return nil, false, err
	}
	path := segmentPath(name)

	created := true
	fd, err := unix.Open(path, unix.O_CREAT|unix.O_EXCL|unix.O_RDWR, 0o600)
	if err != nil {
		if err != unix.EEXIST {
			return nil, false, fmt.Errorf("%w: open %s: %v", ErrSegmentOpenFailed, path, err)
		}
		created = false
		fd, err = unix.Open(path, unix.O_RDWR, 0o600)
		if err != nil {
			return nil, false, fmt.Errorf("%w: open %s: %v", ErrSegmentOpenFailed, path, err)
		}
	}
	defer unix.Close(fd)

	var zero T
	size := int(unsafe.Sizeof(zero))
	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		return nil, false, fmt.Errorf("%w: truncate %s: %v", ErrSegmentOpenFailed, path, err)
	}

	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, false, fmt.Errorf("%w: mmap %s: %v", ErrSegmentOpenFailed, path, err)
	}

	ptr := (*T)(unsafe.Pointer(unsafe.SliceData(data)))
	if created {
		if init, ok := any(ptr).(initializer); ok {
			init.Init()
		}
	}
	return &Mapping[T]{Ptr: ptr, data: data}, created, nil
}

// AttachExisting maps an already-existing segment. Returns
// ErrSegmentOpenFailed if the segment has not been created yet — the
// caller (the reactor's scan loop) is expected to retry later.
func AttachExisting[T any](name string) (*Mapping[T], error) {
	if err := ValidateName(name, 1<<20); err != nil {
		return nil, err
	}
	path := segmentPath(name)

	fd, err := unix.Open(path, unix.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrSegmentOpenFailed, path, err)
	}
	defer unix.Close(fd)

	var zero T
	size := int(unsafe.Sizeof(zero))

	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("%w: mmap %s: %v", ErrSegmentOpenFailed, path, err)
	}

	ptr := (*T)(unsafe.Pointer(unsafe.SliceData(data)))
	return &Mapping[T]{Ptr: ptr, data: data}, nil
}

// Detach unmaps the segment from this process. It does not remove the
// segment from the OS namespace.
func (m *Mapping[T]) Detach() error {
	return unix.Munmap(m.data)
}

// Destroy removes the named segment from the OS namespace. Exactly one
// party per segment kind calls this (see spec §9): the server, for
// both channels and its own registry.
func Destroy(name string) error {
	if err := ValidateName(name, 1<<20); err != nil {
		return err
	}
	err := os.Remove(segmentPath(name))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
