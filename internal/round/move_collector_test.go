package round

import (
	"testing"

	"github.com/olafplacha/bomberarena/internal/proto"
)

func TestMoveCollectorUpdateAndSnapshot(t *testing.T) {
	c := NewMoveCollector(3)

	if err := c.Update(0, proto.Move{Direction: proto.Up}); err != nil {
		t.Fatalf("Update(0) error: %v", err)
	}
	if err := c.Update(2, proto.PlaceBomb{}); err != nil {
		t.Fatalf("Update(2) error: %v", err)
	}

	snap := c.SnapshotAndClear()
	if len(snap) != 3 {
		t.Fatalf("snapshot length = %d, want 3", len(snap))
	}
	move0, ok := snap[0].Command.(proto.Move)
	if !snap[0].Updated || !ok || move0.Direction != proto.Up {
		t.Errorf("slot 0 = %+v, want updated Move(Up)", snap[0])
	}
	if snap[1].Updated {
		t.Errorf("slot 1 should not be updated")
	}
	if !snap[2].Updated {
		t.Errorf("slot 2 should be updated")
	}
}

func TestMoveCollectorOverwritesWithinTick(t *testing.T) {
	c := NewMoveCollector(1)

	if err := c.Update(0, proto.Move{Direction: proto.Up}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if err := c.Update(0, proto.Move{Direction: proto.Down}); err != nil {
		t.Fatalf("Update error: %v", err)
	}

	snap := c.SnapshotAndClear()
	got, ok := snap[0].Command.(proto.Move)
	if !ok || got.Direction != proto.Down {
		t.Errorf("slot 0 command = %+v, want Move(Down)", snap[0].Command)
	}
}

func TestMoveCollectorSnapshotClearsUpdatedFlags(t *testing.T) {
	c := NewMoveCollector(1)
	if err := c.Update(0, proto.PlaceBlock{}); err != nil {
		t.Fatalf("Update error: %v", err)
	}
	c.SnapshotAndClear()

	snap := c.SnapshotAndClear()
	if snap[0].Updated {
		t.Error("second snapshot should find slot 0 cleared")
	}
}

func TestMoveCollectorUpdateOutOfRange(t *testing.T) {
	c := NewMoveCollector(1)
	if err := c.Update(1, proto.PlaceBomb{}); err != ErrSlotOutOfRange {
		t.Fatalf("Update(1) error = %v, want ErrSlotOutOfRange", err)
	}
}
