// Package round implements the three per-round containers shared between
// a connection's reader/writer tasks and the main round loop: the lobby
// admission set, the per-tick move collector, and the turn log. Each
// container owns a mutex; the lobby and the turn log also broadcast state
// changes by closing and replacing a channel — the idiomatic Go substitute
// for the source's condition-variable notify_all, since closing a channel wakes every
// waiter without an explicit wait loop over a predicate callback.
package round

import (
	"errors"
	"sync"

	"github.com/olafplacha/bomberarena/internal/proto"
)

// ErrLobbyFull is returned by Add once the lobby has admitted its target
// player count.
var ErrLobbyFull = errors.New("round: lobby already full")

// ErrOutOfRange names an id that can never be admitted under the lobby's
// configured target. GetByID does not return it: it reports that case as
// ok=false.
var ErrOutOfRange = errors.New("round: player id out of range")

// Lobby is the bounded admission set for one round: at most target
// players, assigned dense ids in admission order.
type Lobby struct {
	mu      sync.Mutex
	target  uint8
	players map[uint8]proto.Player
	changed chan struct{}
}

// NewLobby creates an empty lobby with room for target players.
func NewLobby(target uint8) *Lobby {
	return &Lobby{
		target:  target,
		players: make(map[uint8]proto.Player),
		changed: make(chan struct{}),
	}
}

// broadcast wakes every goroutine currently waiting on l.changed and
// installs a fresh channel for the next wait. Callers must hold l.mu.
func (l *Lobby) broadcast() {
	close(l.changed)
	l.changed = make(chan struct{})
}

// Add admits player, assigning it id = current size. It returns
// ErrLobbyFull once target players have been admitted.
func (l *Lobby) Add(player proto.Player) (uint8, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if uint8(len(l.players)) >= l.target {
		return 0, ErrLobbyFull
	}
	id := uint8(len(l.players))
	l.players[id] = player
	l.broadcast()
	return id, nil
}

// GetByID blocks until the player at id has been admitted, then returns
// it. It returns ok=false immediately for an id that could never be
// admitted. stop, if it fires first, aborts the wait — used by a writer
// task tearing down on connection close.
func (l *Lobby) GetByID(id uint8, stop <-chan struct{}) (player proto.Player, ok bool) {
	if id >= l.target {
		return proto.Player{}, false
	}
	for {
		l.mu.Lock()
		if p, found := l.players[id]; found {
			l.mu.Unlock()
			return p, true
		}
		ch := l.changed
		l.mu.Unlock()

		select {
		case <-ch:
		case <-stop:
			return proto.Player{}, false
		}
	}
}

// WaitUntilFull blocks until the lobby holds target players, then returns
// a snapshot of the whole admitted map.
func (l *Lobby) WaitUntilFull(stop <-chan struct{}) (map[uint8]proto.Player, bool) {
	for {
		l.mu.Lock()
		if uint8(len(l.players)) >= l.target {
			snapshot := make(map[uint8]proto.Player, len(l.players))
			for id, p := range l.players {
				snapshot[id] = p
			}
			l.mu.Unlock()
			return snapshot, true
		}
		ch := l.changed
		l.mu.Unlock()

		select {
		case <-ch:
		case <-stop:
			return nil, false
		}
	}
}
