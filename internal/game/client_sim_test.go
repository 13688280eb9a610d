package game

import (
	"testing"

	"github.com/olafplacha/bomberarena/internal/proto"
)

func newTestClientSim() *ClientSim {
	hello := proto.Hello{
		ServerName:      "arena",
		PlayersCount:    2,
		SizeX:           5,
		SizeY:           5,
		GameLength:      10,
		ExplosionRadius: 2,
		BombTimer:       1,
	}
	started := proto.GameStarted{
		Players: map[uint8]proto.Player{
			0: {Name: "alice", Address: "127.0.0.1:1"},
			1: {Name: "bob", Address: "127.0.0.1:2"},
		},
	}
	return NewClientSim(hello, started)
}

func TestClientSimAppliesPlayerMovement(t *testing.T) {
	sim := newTestClientSim()
	sim.ApplyTurn(proto.Turn{
		TurnNumber: 1,
		Events: []proto.Event{
			proto.PlayerMoved{PlayerID: 0, Position: proto.Position{X: 1, Y: 1}},
			proto.PlayerMoved{PlayerID: 1, Position: proto.Position{X: 2, Y: 2}},
		},
	})

	view := sim.View()
	if view.Turn != 1 {
		t.Fatalf("view.Turn = %d, want 1", view.Turn)
	}
	if view.PlayerPositions[0] != (proto.Position{X: 1, Y: 1}) {
		t.Errorf("player 0 position = %+v, want (1,1)", view.PlayerPositions[0])
	}
	if view.PlayerPositions[1] != (proto.Position{X: 2, Y: 2}) {
		t.Errorf("player 1 position = %+v, want (2,2)", view.PlayerPositions[1])
	}
}

func TestClientSimBlockPlaced(t *testing.T) {
	sim := newTestClientSim()
	sim.ApplyTurn(proto.Turn{
		TurnNumber: 1,
		Events: []proto.Event{
			proto.BlockPlaced{Position: proto.Position{X: 3, Y: 3}},
		},
	})

	view := sim.View()
	if len(view.Blocks) != 1 || view.Blocks[0] != (proto.Position{X: 3, Y: 3}) {
		t.Errorf("view.Blocks = %+v, want [(3,3)]", view.Blocks)
	}
}

func TestClientSimBombLifecycle(t *testing.T) {
	sim := newTestClientSim()
	sim.playerPositions[0] = proto.Position{X: 0, Y: 0}
	sim.playerPositions[1] = proto.Position{X: 0, Y: 1}

	sim.ApplyTurn(proto.Turn{
		TurnNumber: 1,
		Events: []proto.Event{
			proto.BombPlaced{BombID: 0, Position: proto.Position{X: 0, Y: 0}},
		},
	})

	view := sim.View()
	if len(view.Bombs) != 1 || view.Bombs[0].Position != (proto.Position{X: 0, Y: 0}) {
		t.Fatalf("view.Bombs = %+v, want one bomb at (0,0)", view.Bombs)
	}
	if len(view.Explosions) != 0 {
		t.Fatalf("view.Explosions = %+v, want none before detonation", view.Explosions)
	}

	sim.ApplyTurn(proto.Turn{
		TurnNumber: 2,
		Events: []proto.Event{
			proto.BombExploded{
				BombID:           0,
				DestroyedPlayers: []uint8{0, 1},
				DestroyedBlocks:  nil,
			},
		},
	})

	view = sim.View()
	if len(view.Bombs) != 0 {
		t.Errorf("view.Bombs after detonation = %+v, want none", view.Bombs)
	}
	if len(view.Explosions) == 0 {
		t.Error("view.Explosions after detonation should be non-empty")
	}
	if view.Scores[0] != 1 || view.Scores[1] != 1 {
		t.Errorf("scores after detonation = %v, want {0:1, 1:1}", view.Scores)
	}
}

func TestClientSimExplosionsClearedEachTurn(t *testing.T) {
	sim := newTestClientSim()
	sim.playerPositions[0] = proto.Position{X: 0, Y: 0}

	sim.ApplyTurn(proto.Turn{
		TurnNumber: 1,
		Events:     []proto.Event{proto.BombPlaced{BombID: 0, Position: proto.Position{X: 0, Y: 0}}},
	})
	sim.ApplyTurn(proto.Turn{
		TurnNumber: 2,
		Events: []proto.Event{
			proto.BombExploded{BombID: 0, DestroyedPlayers: nil, DestroyedBlocks: nil},
		},
	})
	if len(sim.View().Explosions) == 0 {
		t.Fatal("expected explosions present right after detonation")
	}

	// A later turn with no new explosion events must clear the stale set.
	sim.ApplyTurn(proto.Turn{TurnNumber: 3, Events: nil})
	if len(sim.View().Explosions) != 0 {
		t.Errorf("view.Explosions = %+v, want cleared after a quiet turn", sim.View().Explosions)
	}
}
