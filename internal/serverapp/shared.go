package serverapp

import (
	"sync"

	"github.com/olafplacha/bomberarena/internal/round"
)

// sharedState is the Go transliteration of the source's shared_state: a
// shared-exclusive lock guarding the current round's containers plus the
// game_started/game_version pair. The round loop takes the write lock
// only at round boundaries to swap in fresh containers; every reader and
// writer goroutine takes the read lock just long enough to copy out the
// handles it needs, then works against its own copy without holding the
// lock. Old containers are never mutated once replaced, so a goroutine
// still holding a stale handle keeps reading a consistent, if outdated,
// round.
type sharedState struct {
	mu sync.RWMutex

	gameStarted bool
	gameVersion uint64
	lobby       *round.Lobby
	moves       *round.MoveCollector
	turns       *round.TurnLog
}

func newSharedState(cfg Config) *sharedState {
	s := &sharedState{}
	s.reset(cfg)
	return s
}

// reset swaps in fresh per-round containers and bumps the version,
// matching reset_shared(): a brand new AcceptedPlayerContainer,
// MoveContainer and TurnContainer under one exclusive lock acquisition.
func (s *sharedState) reset(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameStarted = false
	s.gameVersion++
	s.lobby = round.NewLobby(cfg.PlayersCount)
	s.moves = round.NewMoveCollector(cfg.PlayersCount)
	s.turns = round.NewTurnLog()
}

func (s *sharedState) markStarted() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gameStarted = true
}

// snapshot copies out the current round's handles and started/version
// flags without holding the lock any longer than the copy itself.
func (s *sharedState) snapshot() (started bool, version uint64, lobby *round.Lobby, moves *round.MoveCollector, turns *round.TurnLog) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gameStarted, s.gameVersion, s.lobby, s.moves, s.turns
}
