// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package registry implements the shared-memory table (spec §3, §4.3)
// through which workers announce themselves and the server discovers,
// supervises, and reaps them. Table is POD, laid out the way
// internal/ring.Ring is: fixed arrays, cache-line-isolated flags, no
// indirection, so it can be mapped by two unrelated processes.
package registry

import (
	"bytes"
	"errors"
	"time"

	"code.hybscloud.com/atomix"

	"code.hybscloud.com/ksched/internal/cacheline"
)

// Slots is N: the fixed number of client descriptor slots.
const Slots = 64

const (
	nameFieldLen = 64
	typeFieldLen = 16
	idFieldLen   = 64
)

// ErrFull is returned by Register when every slot is claimed.
var ErrFull = errors.New("registry: full")

// ErrNameTooLong/ErrTypeTooLong/ErrIDTooLong report a descriptor field
// that does not fit its fixed-width shared-memory slot.
var (
	ErrNameTooLong = errors.New("registry: channel name too long")
	ErrTypeTooLong = errors.New("registry: client type too long")
	ErrIDTooLong   = errors.New("registry: unique id too long")
)

type entry struct {
	_               cacheline.Pad
	active          atomix.Bool
	_               cacheline.Pad
	name            [nameFieldLen]byte
	typ             [typeFieldLen]byte
	uid             [idFieldLen]byte
	pid             uint32
	_               [4]byte
	lastHeartbeatMs atomix.Uint64
}

// Table is the POD registry. Exactly one named shared-memory segment
// holds one Table.
type Table struct {
	_           cacheline.Pad
	ServerReady atomix.Bool
	_           cacheline.Pad
	version     atomix.Uint64 // monotonic; logically the spec's 32-bit counter
	_           cacheline.Pad
	entries     [Slots]entry
}

// Init prepares a freshly mapped (zeroed) Table. Called exactly once,
// by the server that creates the registry segment.
func (t *Table) Init() {
	t.ServerReady.StoreRelaxed(false)
	t.version.StoreRelaxed(0)
	for i := range t.entries {
		t.entries[i].active.StoreRelaxed(false)
	}
}

// Descriptor is a point-in-time snapshot of one active entry.
type Descriptor struct {
	Slot          int
	ChannelName   string
	Type          string
	UniqueID      string
	Pid           uint32
	LastHeartbeat time.Time
}

// putFixed copies s into dst, which must already be validated to fit
// with room for a NUL terminator (see checkLen).
func putFixed(dst []byte, s string) {
	clear(dst)
	copy(dst, s)
}

func getFixed(src []byte) string {
	i := bytes.IndexByte(src, 0)
	if i < 0 {
		i = len(src)
	}
	return string(src[:i])
}

// Register claims the lowest-index free slot and writes the client's
// descriptor into it. Concurrent registration by distinct workers is
// safe: the compare-and-swap on each entry's active flag linearizes
// claims. Returns ErrFull if no slot could be claimed after one full
// pass.
func Register(t *Table, channelName, typ, uniqueID string, pid uint32) (int, error) {
	if err := checkLen(channelName, nameFieldLen, ErrNameTooLong); err != nil {
		return 0, err
	}
	if err := checkLen(typ, typeFieldLen, ErrTypeTooLong); err != nil {
		return 0, err
	}
	if err := checkLen(uniqueID, idFieldLen, ErrIDTooLong); err != nil {
		return 0, err
	}

	for i := range t.entries {
		e := &t.entries[i]
		if !e.active.CompareAndSwapAcqRel(false, true) {
			continue
		}
		putFixed(e.name[:], channelName)
		putFixed(e.typ[:], typ)
		putFixed(e.uid[:], uniqueID)
		e.pid = pid
		e.lastHeartbeatMs.StoreRelease(nowMs())
		t.version.AddAcqRel(1)
		return i, nil
	}
	return 0, ErrFull
}

func checkLen(s string, fieldLen int, errTooLong error) error {
	if len(s) > fieldLen-1 {
		return errTooLong
	}
	return nil
}

// Unregister clears the active flag for slot. The descriptor fields
// are left in place for post-mortem inspection until the slot is
// reused by a future Register.
func Unregister(t *Table, slot int) {
	t.entries[slot].active.StoreRelease(false)
	t.version.AddAcqRel(1)
}

// UpdateHeartbeat refreshes slot's last-heartbeat timestamp.
func UpdateHeartbeat(t *Table, slot int) {
	t.entries[slot].lastHeartbeatMs.StoreRelease(nowMs())
}

// Active reports whether slot is currently claimed.
func Active(t *Table, slot int) bool {
	return t.entries[slot].active.LoadAcquire()
}

// Version returns the current monotonic mutation counter.
func Version(t *Table) uint64 {
	return t.version.LoadAcquire()
}

// Snapshot reads slot's descriptor. Fields are stable while active is
// true because only the registering owner writes them, and only
// during the false->true transition (spec §3 invariants).
func Snapshot(t *Table, slot int) (Descriptor, bool) {
	e := &t.entries[slot]
	if !e.active.LoadAcquire() {
		return Descriptor{}, false
	}
	d := Descriptor{
		Slot:          slot,
		ChannelName:   getFixed(e.name[:]),
		Type:          getFixed(e.typ[:]),
		UniqueID:      getFixed(e.uid[:]),
		Pid:           e.pid,
		LastHeartbeat: time.UnixMilli(int64(e.lastHeartbeatMs.LoadAcquire())),
	}
	return d, true
}

// ActiveSlots returns the indices of every currently active entry, in
// slot order. Used by the reactor's scan loop (spec §4.5).
func ActiveSlots(t *Table) []int {
	var out []int
	for i := range t.entries {
		if t.entries[i].active.LoadAcquire() {
			out = append(out, i)
		}
	}
	return out
}

func nowMs() uint64 {
	return uint64(time.Now().UnixMilli())
}
