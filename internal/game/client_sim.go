package game

import "github.com/olafplacha/bomberarena/internal/proto"

type clientBomb struct {
	Position proto.Position
	Timer    uint16
}

// ClientSim is the event-driving counterpart of ServerSim: it reconstructs
// a full local view of the round by replaying the server's authoritative
// Turn stream, never computing anything the server hasn't already decided.
type ClientSim struct {
	rules      Rules
	serverName string
	gameLength uint16

	turn            uint16
	players         map[uint8]proto.Player
	playerPositions map[uint8]proto.Position
	blocks          map[proto.Position]struct{}
	bombs           map[uint32]clientBomb
	explosions      map[proto.Position]struct{}
	scores          map[uint8]uint32
}

// NewClientSim builds a client-side view from the Hello the connection
// opened with and the GameStarted that ended the lobby phase.
func NewClientSim(hello proto.Hello, started proto.GameStarted) *ClientSim {
	positions := make(map[uint8]proto.Position, len(started.Players))
	scores := make(map[uint8]uint32, len(started.Players))
	for id := range started.Players {
		positions[id] = proto.Position{}
		scores[id] = 0
	}
	return &ClientSim{
		rules: Rules{
			SizeX:           hello.SizeX,
			SizeY:           hello.SizeY,
			ExplosionRadius: hello.ExplosionRadius,
			BombTimer:       hello.BombTimer,
		},
		serverName:      hello.ServerName,
		gameLength:      hello.GameLength,
		players:         started.Players,
		playerPositions: positions,
		blocks:          make(map[proto.Position]struct{}),
		bombs:           make(map[uint32]clientBomb),
		explosions:      make(map[proto.Position]struct{}),
		scores:          scores,
	}
}

// ApplyTurn replays one server Turn against the local view. Per-turn
// scratch (explosions, destroyed blocks/players) is cleared up front and
// destroyed blocks are removed, and destroyed players' scores bumped,
// only after every event in the turn has been applied — matching the
// source's apply_turn exactly.
func (s *ClientSim) ApplyTurn(t proto.Turn) {
	s.turn = t.TurnNumber

	for id, b := range s.bombs {
		b.Timer--
		s.bombs[id] = b
	}

	s.explosions = make(map[proto.Position]struct{})
	destroyedBlocks := make(map[proto.Position]struct{})
	destroyedPlayers := make(map[uint8]struct{})

	for _, ev := range t.Events {
		switch e := ev.(type) {
		case proto.BombPlaced:
			s.bombs[e.BombID] = clientBomb{Position: e.Position, Timer: s.rules.BombTimer}

		case proto.BombExploded:
			if b, ok := s.bombs[e.BombID]; ok {
				for pos := range findExplosions(s.rules, s.blocks, b.Position) {
					s.explosions[pos] = struct{}{}
				}
				delete(s.bombs, e.BombID)
			}
			for _, id := range e.DestroyedPlayers {
				destroyedPlayers[id] = struct{}{}
			}
			for _, pos := range e.DestroyedBlocks {
				destroyedBlocks[pos] = struct{}{}
			}

		case proto.PlayerMoved:
			s.playerPositions[e.PlayerID] = e.Position

		case proto.BlockPlaced:
			s.blocks[e.Position] = struct{}{}
		}
	}

	for pos := range destroyedBlocks {
		delete(s.blocks, pos)
	}
	for id := range destroyedPlayers {
		s.scores[id]++
	}
}

// View materializes the current local state as the datagram message sent
// to the front-end.
func (s *ClientSim) View() proto.GameView {
	positions := make(map[uint8]proto.Position, len(s.playerPositions))
	for id, pos := range s.playerPositions {
		positions[id] = pos
	}
	scores := make(map[uint8]uint32, len(s.scores))
	for id, sc := range s.scores {
		scores[id] = sc
	}

	bombSet := make(map[proto.Position]struct{}, len(s.bombs))
	bombByPos := make(map[proto.Position]uint16, len(s.bombs))
	for _, b := range s.bombs {
		bombSet[b.Position] = struct{}{}
		bombByPos[b.Position] = b.Timer
	}
	var bombs []proto.BombView
	for _, pos := range sortedPositions(bombSet) {
		bombs = append(bombs, proto.BombView{Position: pos, Timer: bombByPos[pos]})
	}

	return proto.GameView{
		ServerName:      s.serverName,
		SizeX:           s.rules.SizeX,
		SizeY:           s.rules.SizeY,
		GameLength:      s.gameLength,
		Turn:            s.turn,
		Players:         s.players,
		PlayerPositions: positions,
		Blocks:          sortedPositions(s.blocks),
		Bombs:           bombs,
		Explosions:      sortedPositions(s.explosions),
		Scores:          scores,
	}
}
