package state

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hollowmere/emberfall/internal/domain/model"
)

func TestHistory_BoundedFIFO(t *testing.T) {
	h := NewHistory(2)

	for i := 0; i < 3; i++ {
		h.Record(model.StateExploration, model.Payload{"step": i})
	}

	if h.Len() != 2 {
		t.Fatalf("history length = %d, want 2", h.Len())
	}
	entries := h.Entries(0)
	if entries[0].Data["step"] != 1 || entries[1].Data["step"] != 2 {
		t.Errorf("oldest entry should have been evicted, got %v", entries)
	}
}

func TestHistory_EvictionOnlyOnOverflow(t *testing.T) {
	h := NewHistory(3)
	h.Record(model.StateMainMenu, model.Payload{})
	h.Record(model.StateMainMenu, model.Payload{})
	if h.Len() != 2 {
		t.Errorf("recording under capacity must not evict, len = %d", h.Len())
	}
}

func TestHistory_Rollback(t *testing.T) {
	h := NewHistory(10)
	for i := 1; i <= 4; i++ {
		h.Record(model.StateExploration, model.Payload{"step": i})
	}

	snap, err := h.Rollback(2)
	if err != nil {
		t.Fatalf("Rollback(2) error = %v", err)
	}
	if snap.Data["step"] != 3 {
		t.Errorf("rollback target step = %v, want 3", snap.Data["step"])
	}
	// Entries after the target are discarded, not hidden
	if h.Len() != 2 {
		t.Errorf("history length after rollback = %d, want 2", h.Len())
	}
}

func TestHistory_RollbackOutOfRange(t *testing.T) {
	h := NewHistory(10)

	if _, err := h.Rollback(1); !errors.Is(err, ErrRollbackOutOfRange) {
		t.Errorf("rollback on empty history: got %v", err)
	}

	h.Record(model.StateMainMenu, model.Payload{})
	for _, steps := range []int{0, -1, 2} {
		if _, err := h.Rollback(steps); !errors.Is(err, ErrRollbackOutOfRange) {
			t.Errorf("Rollback(%d): got %v, want ErrRollbackOutOfRange", steps, err)
		}
	}
	if h.Len() != 1 {
		t.Errorf("failed rollback must not shrink history, len = %d", h.Len())
	}
}

func TestHistory_EntriesLimit(t *testing.T) {
	h := NewHistory(10)
	for i := 1; i <= 5; i++ {
		h.Record(model.StateExploration, model.Payload{"step": i})
	}

	last2 := h.Entries(2)
	if len(last2) != 2 || last2[0].Data["step"] != 4 {
		t.Errorf("Entries(2) = %v", last2)
	}
	if got := h.Entries(100); len(got) != 5 {
		t.Errorf("limit beyond length should return all, got %d", len(got))
	}
}

func TestHistory_EntriesAreCopies(t *testing.T) {
	h := NewHistory(10)
	h.Record(model.StateInventory, model.Payload{"items": []interface{}{"torch"}})

	entries := h.Entries(0)
	entries[0].Data["items"].([]interface{})[0] = "sword"

	again := h.Entries(0)
	if again[0].Data["items"].([]interface{})[0] != "torch" {
		t.Error("callers mutated stored history through Entries result")
	}
}

func TestHistory_Clear(t *testing.T) {
	h := NewHistory(10)
	h.Record(model.StateMainMenu, model.Payload{})
	h.Clear()
	if h.Len() != 0 {
		t.Errorf("history length after Clear = %d", h.Len())
	}
}

func TestHistory_Restore_RespectsCapacity(t *testing.T) {
	h := NewHistory(2)
	snaps := make([]model.Snapshot, 4)
	for i := range snaps {
		snaps[i] = model.NewSnapshot(model.StateExploration, model.Payload{"step": i})
	}
	h.Restore(snaps)
	if h.Len() != 2 {
		t.Fatalf("restored length = %d, want 2", h.Len())
	}
	if h.Entries(0)[0].Data["step"] != 2 {
		t.Error("restore should keep the newest entries")
	}
}

func TestHistory_InvariantUnderLoad(t *testing.T) {
	h := NewHistory(7)
	for i := 0; i < 100; i++ {
		h.Record(model.StateExploration, model.Payload{"i": i})
		if h.Len() < 0 || h.Len() > 7 {
			t.Fatalf("capacity invariant violated at %d: len=%d", i, h.Len())
		}
	}
	if h.Len() != 7 {
		t.Errorf("final length = %d, want 7", h.Len())
	}
	// Entries remain ordered oldest-first
	entries := h.Entries(0)
	for i := 1; i < len(entries); i++ {
		prev := entries[i-1].Data["i"].(int)
		cur := entries[i].Data["i"].(int)
		if cur != prev+1 {
			t.Fatalf("ordering broken: %s", fmt.Sprint(prev, cur))
		}
	}
}
