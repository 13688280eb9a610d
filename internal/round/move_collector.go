package round

import (
	"errors"
	"sync"

	"github.com/olafplacha/bomberarena/internal/proto"
)

// ErrSlotOutOfRange is returned by Update for a player id outside the
// collector's configured slot count.
var ErrSlotOutOfRange = errors.New("round: move slot out of range")

// moveSlot mirrors the source's (updated, last-move) pair.
type moveSlot struct {
	updated bool
	last    proto.ClientMessage
}

// MoveCollector holds one pending command per player, coalescing repeated
// updates within a tick: only the most recent command per player survives
// to the next SnapshotAndClear.
type MoveCollector struct {
	mu    sync.Mutex
	slots []moveSlot
}

// NewMoveCollector allocates a collector with numSlots empty slots.
func NewMoveCollector(numSlots uint8) *MoveCollector {
	return &MoveCollector{slots: make([]moveSlot, numSlots)}
}

// Update records cmd as the pending command for player id, overwriting any
// previous pending command for that player this tick.
func (c *MoveCollector) Update(id uint8, cmd proto.ClientMessage) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if int(id) >= len(c.slots) {
		return ErrSlotOutOfRange
	}
	c.slots[id] = moveSlot{updated: true, last: cmd}
	return nil
}

// Slot is one player's snapshot entry: whether it had a pending command
// this tick, and what it was.
type Slot struct {
	Updated bool
	Command proto.ClientMessage
}

// SnapshotAndClear atomically copies every slot and resets all updated
// flags to false. The simulation calls this exactly once per tick.
func (c *MoveCollector) SnapshotAndClear() []Slot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Slot, len(c.slots))
	for i, s := range c.slots {
		out[i] = Slot{Updated: s.updated, Command: s.last}
		c.slots[i].updated = false
	}
	return out
}
