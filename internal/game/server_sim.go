package game

import (
	"sort"

	"github.com/olafplacha/bomberarena/internal/proto"
	"github.com/olafplacha/bomberarena/internal/round"
)

type serverBomb struct {
	Position proto.Position
	Timer    uint16
}

// ServerSim is the rule-driving simulation the round loop advances one
// tick at a time. It owns the authoritative board state for one round.
type ServerSim struct {
	rules         Rules
	rng           *LCG
	playersCount  uint8
	initialBlocks uint32

	turn            uint16
	playerPositions map[uint8]proto.Position
	blocks          map[proto.Position]struct{}
	bombs           map[uint32]serverBomb
	bombCounter     uint32
	scores          map[uint8]uint32
}

// NewServerSim builds a fresh simulation for one round. Call Init to
// produce turn 0 before the first Tick.
func NewServerSim(rules Rules, playersCount uint8, initialBlocks uint32, seed uint32) *ServerSim {
	scores := make(map[uint8]uint32, playersCount)
	for id := uint8(0); id < playersCount; id++ {
		scores[id] = 0
	}
	return &ServerSim{
		rules:           rules,
		rng:             NewLCG(seed),
		playersCount:    playersCount,
		initialBlocks:   initialBlocks,
		playerPositions: make(map[uint8]proto.Position, playersCount),
		blocks:          make(map[proto.Position]struct{}),
		bombs:           make(map[uint32]serverBomb),
		scores:          scores,
	}
}

// Init draws each player's spawn position and the initial block set,
// producing turn 0's event stream.
func (s *ServerSim) Init() proto.Turn {
	var events []proto.Event

	for id := uint8(0); id < s.playersCount; id++ {
		pos := proto.Position{X: s.rng.Mod(s.rules.SizeX), Y: s.rng.Mod(s.rules.SizeY)}
		s.playerPositions[id] = pos
		events = append(events, proto.PlayerMoved{PlayerID: id, Position: pos})
	}

	for i := uint32(0); i < s.initialBlocks; i++ {
		pos := proto.Position{X: s.rng.Mod(s.rules.SizeX), Y: s.rng.Mod(s.rules.SizeY)}
		s.blocks[pos] = struct{}{}
		events = append(events, proto.BlockPlaced{Position: pos})
	}

	return proto.Turn{TurnNumber: 0, Events: events}
}

func (s *ServerSim) isPositionLegal(pos proto.Position, dx, dy int) bool {
	if (pos.X == 0 && dx < 0) || (int(pos.X)+dx >= int(s.rules.SizeX)) {
		return false
	}
	if (pos.Y == 0 && dy < 0) || (int(pos.Y)+dy >= int(s.rules.SizeY)) {
		return false
	}
	target := proto.Position{X: uint16(int(pos.X) + dx), Y: uint16(int(pos.Y) + dy)}
	_, blocked := s.blocks[target]
	return !blocked
}

// Tick advances the simulation by one turn, given the move collector's
// snapshot for this tick. Ordering follows the source's apply_moves
// exactly: timers decrement, bombs at zero explode, then moves are
// resolved in ascending player id order against the pre-destruction block
// set, and only afterwards are this tick's destroyed blocks removed.
func (s *ServerSim) Tick(moves []round.Slot) proto.Turn {
	var events []proto.Event

	for id, b := range s.bombs {
		b.Timer--
		s.bombs[id] = b
	}

	destroyedPlayers := make(map[uint8]struct{})
	destroyedBlocks := make(map[proto.Position]struct{})

	var exploding []uint32
	for id, b := range s.bombs {
		if b.Timer == 0 {
			exploding = append(exploding, id)
		}
	}
	sort.Slice(exploding, func(i, j int) bool { return exploding[i] < exploding[j] })

	for _, id := range exploding {
		bomb := s.bombs[id]
		explosions := findExplosions(s.rules, s.blocks, bomb.Position)

		var blocksHit []proto.Position
		for pos := range explosions {
			if _, ok := s.blocks[pos]; ok {
				blocksHit = append(blocksHit, pos)
				destroyedBlocks[pos] = struct{}{}
			}
		}
		sort.Slice(blocksHit, func(i, j int) bool {
			if blocksHit[i].X != blocksHit[j].X {
				return blocksHit[i].X < blocksHit[j].X
			}
			return blocksHit[i].Y < blocksHit[j].Y
		})

		var playersHit []uint8
		for pid, pos := range s.playerPositions {
			if _, ok := explosions[pos]; ok {
				playersHit = append(playersHit, pid)
				destroyedPlayers[pid] = struct{}{}
			}
		}
		sort.Slice(playersHit, func(i, j int) bool { return playersHit[i] < playersHit[j] })

		events = append(events, proto.BombExploded{
			BombID:           id,
			DestroyedPlayers: playersHit,
			DestroyedBlocks:  blocksHit,
		})
		delete(s.bombs, id)
	}

	for id := uint8(0); id < s.playersCount; id++ {
		if _, destroyed := destroyedPlayers[id]; destroyed {
			pos := proto.Position{X: s.rng.Mod(s.rules.SizeX), Y: s.rng.Mod(s.rules.SizeY)}
			s.playerPositions[id] = pos
			events = append(events, proto.PlayerMoved{PlayerID: id, Position: pos})
			continue
		}
		if int(id) >= len(moves) || !moves[id].Updated {
			continue
		}
		events = append(events, s.applyCommand(id, moves[id].Command)...)
	}

	for pos := range destroyedBlocks {
		delete(s.blocks, pos)
	}
	for id := range destroyedPlayers {
		s.scores[id]++
	}

	s.turn++
	return proto.Turn{TurnNumber: s.turn, Events: events}
}

func (s *ServerSim) applyCommand(id uint8, cmd proto.ClientMessage) []proto.Event {
	switch c := cmd.(type) {
	case proto.PlaceBomb:
		pos := s.playerPositions[id]
		bombID := s.bombCounter
		s.bombCounter++
		s.bombs[bombID] = serverBomb{Position: pos, Timer: s.rules.BombTimer}
		return []proto.Event{proto.BombPlaced{BombID: bombID, Position: pos}}

	case proto.PlaceBlock:
		pos := s.playerPositions[id]
		if _, blocked := s.blocks[pos]; blocked {
			return nil
		}
		s.blocks[pos] = struct{}{}
		return []proto.Event{proto.BlockPlaced{Position: pos}}

	case proto.Move:
		dx, dy := directionDelta(c.Direction)
		pos := s.playerPositions[id]
		if !s.isPositionLegal(pos, dx, dy) {
			return nil
		}
		target := proto.Position{X: uint16(int(pos.X) + dx), Y: uint16(int(pos.Y) + dy)}
		s.playerPositions[id] = target
		return []proto.Event{proto.PlayerMoved{PlayerID: id, Position: target}}

	default:
		// Join and any unrecognized command are no-ops once admitted.
		return nil
	}
}

// Turn reports the last tick number produced (0 before any Tick call).
func (s *ServerSim) Turn() uint16 { return s.turn }

// Scores returns a copy of the current score map.
func (s *ServerSim) Scores() map[uint8]uint32 {
	out := make(map[uint8]uint32, len(s.scores))
	for id, sc := range s.scores {
		out[id] = sc
	}
	return out
}

// PlayerPosition returns a player's current position.
func (s *ServerSim) PlayerPosition(id uint8) proto.Position { return s.playerPositions[id] }

// Blocks returns the current block set, in ascending (x, y) order.
func (s *ServerSim) Blocks() []proto.Position {
	set := make(map[proto.Position]struct{}, len(s.blocks))
	for p := range s.blocks {
		set[p] = struct{}{}
	}
	return sortedPositions(set)
}
