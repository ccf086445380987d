// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package shm_test

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"code.hybscloud.com/ksched/internal/shm"
)

type payload struct {
	Counter uint64
	Flag    uint8
}

func (p *payload) Init() { p.Counter = 42 }

func uniqueName(t *testing.T) string {
	return fmt.Sprintf("/ksched_shm_test_%d_%d", os.Getpid(), t.Name()[0])
}

func TestCreateAndAttachRunsInitOnce(t *testing.T) {
	name := uniqueName(t) + "_a"
	defer shm.Destroy(name)

	m1, created, err := shm.CreateAndAttach[payload](name)
	if err != nil {
		t.Fatalf("CreateAndAttach: %v", err)
	}
	if !created {
		t.Fatalf("expected created=true on first call")
	}
	if m1.Ptr.Counter != 42 {
		t.Fatalf("Init did not run: Counter=%d", m1.Ptr.Counter)
	}
	m1.Ptr.Counter = 7
	if err := m1.Detach(); err != nil {
		t.Fatalf("Detach: %v", err)
	}

	m2, created, err := shm.CreateAndAttach[payload](name)
	if err != nil {
		t.Fatalf("CreateAndAttach (reopen): %v", err)
	}
	if created {
		t.Fatalf("expected created=false on reopen of existing segment")
	}
	if m2.Ptr.Counter != 7 {
		t.Fatalf("reopen lost prior writes: Counter=%d, want 7", m2.Ptr.Counter)
	}
	m2.Detach()
}

func TestAttachExistingFailsWhenMissing(t *testing.T) {
	name := uniqueName(t) + "_missing"
	if _, err := shm.AttachExisting[payload](name); !errors.Is(err, shm.ErrSegmentOpenFailed) {
		t.Fatalf("AttachExisting on missing segment: got %v, want ErrSegmentOpenFailed", err)
	}
}

func TestDestroyRemovesFromNamespace(t *testing.T) {
	name := uniqueName(t) + "_destroy"
	m, _, err := shm.CreateAndAttach[payload](name)
	if err != nil {
		t.Fatalf("CreateAndAttach: %v", err)
	}
	m.Detach()

	if err := shm.Destroy(name); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if _, err := shm.AttachExisting[payload](name); !errors.Is(err, shm.ErrSegmentOpenFailed) {
		t.Fatalf("segment still attachable after Destroy")
	}
}

func TestTwoMappingsShareWrites(t *testing.T) {
	name := uniqueName(t) + "_shared"
	defer shm.Destroy(name)

	writer, _, err := shm.CreateAndAttach[payload](name)
	if err != nil {
		t.Fatalf("CreateAndAttach: %v", err)
	}
	defer writer.Detach()
	writer.Ptr.Counter = 99

	reader, err := shm.AttachExisting[payload](name)
	if err != nil {
		t.Fatalf("AttachExisting: %v", err)
	}
	defer reader.Detach()

	if reader.Ptr.Counter != 99 {
		t.Fatalf("second mapping did not observe first mapping's write: got %d", reader.Ptr.Counter)
	}
}
