package clientapp

import (
	"net"
	"testing"

	"github.com/rs/zerolog"

	"github.com/olafplacha/bomberarena/internal/proto"
	"github.com/olafplacha/bomberarena/internal/wire"
)

// freeUDPPort grabs an ephemeral port and releases it immediately; good
// enough for a test that rebinds it a moment later.
func freeUDPPort(t *testing.T) uint16 {
	t.Helper()
	conn, err := net.ListenUDP("udp", &net.UDPAddr{})
	if err != nil {
		t.Fatalf("freeUDPPort: %v", err)
	}
	port := conn.LocalAddr().(*net.UDPAddr).Port
	conn.Close()
	return uint16(port)
}

// readView blocks for the next datagram on ch and decodes it as a
// ViewMessage.
func readView(t *testing.T, ch *wire.DatagramChannel) proto.ViewMessage {
	t.Helper()
	if _, err := ch.ReceiveOne(); err != nil {
		t.Fatalf("ReceiveOne: %v", err)
	}
	v, err := proto.DecodeViewMessage(ch)
	if err != nil {
		t.Fatalf("DecodeViewMessage: %v", err)
	}
	return v
}

func sendGui(t *testing.T, ch *wire.DatagramChannel, m proto.GuiMessage) {
	t.Helper()
	if err := m.Encode(ch); err != nil {
		t.Fatalf("encode gui message: %v", err)
	}
	if err := ch.Flush(); err != nil {
		t.Fatalf("flush gui message: %v", err)
	}
}

func readClientMessage(t *testing.T, r *wire.ReliableChannel) proto.ClientMessage {
	t.Helper()
	msg, err := proto.DecodeClientMessage(r)
	if err != nil {
		t.Fatalf("DecodeClientMessage: %v", err)
	}
	return msg
}

// TestClientFullLobbyGameLobbyCycle drives a Client through one complete
// round using a net.Pipe in place of the server connection and a pair of
// loopback DatagramChannels in place of the front-end, asserting every
// view emitted and every message forwarded at each phase transition.
func TestClientFullLobbyGameLobbyCycle(t *testing.T) {
	serverConn, fakeServerConn := net.Pipe()
	fakeServer := wire.NewReliableChannel(fakeServerConn)

	clientPort := freeUDPPort(t)
	frontEndPort := freeUDPPort(t)
	clientGui, err := wire.NewDatagramChannel(clientPort, "127.0.0.1", frontEndPort)
	if err != nil {
		t.Fatalf("client datagram channel: %v", err)
	}
	defer clientGui.Close()
	frontEnd, err := wire.NewDatagramChannel(frontEndPort, "127.0.0.1", clientPort)
	if err != nil {
		t.Fatalf("front-end datagram channel: %v", err)
	}
	defer frontEnd.Close()

	c := New(Config{PlayerName: "alice"}, zerolog.Nop())
	c.server = wire.NewReliableChannel(serverConn)
	c.gui = clientGui

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.frontEndToServer()
	}()
	go c.serverToFrontEnd()

	hello := proto.Hello{
		ServerName:      "arena",
		PlayersCount:    1,
		SizeX:           5,
		SizeY:           5,
		GameLength:      1,
		ExplosionRadius: 2,
		BombTimer:       3,
	}
	if err := hello.Encode(fakeServer); err != nil {
		t.Fatalf("send Hello: %v", err)
	}

	lobby, ok := readView(t, frontEnd).(proto.LobbyView)
	if !ok || lobby.ServerName != "arena" || len(lobby.Accepted) != 0 {
		t.Fatalf("initial lobby view = %+v", lobby)
	}

	// Any front-end input while join hasn't been sent triggers Join,
	// not a forwarded command.
	sendGui(t, frontEnd, proto.GuiMove{Direction: proto.Up})
	join, ok := readClientMessage(t, fakeServer).(proto.Join)
	if !ok || join.DisplayName != "alice" {
		t.Fatalf("expected Join(alice), got %+v", join)
	}

	accepted := proto.AcceptedPlayer{PlayerID: 0, Player: proto.Player{Name: "alice", Address: "1.2.3.4:5"}}
	if err := accepted.Encode(fakeServer); err != nil {
		t.Fatalf("send AcceptedPlayer: %v", err)
	}
	lobby, ok = readView(t, frontEnd).(proto.LobbyView)
	if !ok || lobby.Accepted[0].Name != "alice" {
		t.Fatalf("lobby view after accept = %+v", lobby)
	}

	started := proto.GameStarted{Players: map[uint8]proto.Player{0: accepted.Player}}
	if err := started.Encode(fakeServer); err != nil {
		t.Fatalf("send GameStarted: %v", err)
	}
	game0, ok := readView(t, frontEnd).(proto.GameView)
	if !ok || game0.Turn != 0 || game0.PlayerPositions[0] != (proto.Position{}) {
		t.Fatalf("initial game view = %+v", game0)
	}

	turn := proto.Turn{TurnNumber: 0, Events: []proto.Event{
		proto.PlayerMoved{PlayerID: 0, Position: proto.Position{X: 1, Y: 0}},
	}}
	if err := turn.Encode(fakeServer); err != nil {
		t.Fatalf("send Turn: %v", err)
	}
	game1, ok := readView(t, frontEnd).(proto.GameView)
	if !ok || game1.PlayerPositions[0] != (proto.Position{X: 1, Y: 0}) {
		t.Fatalf("game view after turn = %+v", game1)
	}

	// Now in the game phase with join already sent: inputs forward as
	// client commands instead of re-triggering Join.
	sendGui(t, frontEnd, proto.GuiPlaceBomb{})
	if _, ok := readClientMessage(t, fakeServer).(proto.PlaceBomb); !ok {
		t.Fatalf("expected forwarded PlaceBomb")
	}

	ended := proto.GameEnded{Scores: map[uint8]uint32{0: 4}}
	if err := ended.Encode(fakeServer); err != nil {
		t.Fatalf("send GameEnded: %v", err)
	}
	lobby, ok = readView(t, frontEnd).(proto.LobbyView)
	if !ok || len(lobby.Accepted) != 0 {
		t.Fatalf("lobby view after GameEnded = %+v", lobby)
	}

	// The cycle is back in the lobby phase with join_sent cleared: the
	// next front-end input triggers another Join rather than forwarding.
	sendGui(t, frontEnd, proto.GuiMove{Direction: proto.Left})
	join2, ok := readClientMessage(t, fakeServer).(proto.Join)
	if !ok || join2.DisplayName != "alice" {
		t.Fatalf("expected second Join(alice) after round rollover, got %+v", join2)
	}

	// The pipe is deliberately never closed: serverToFrontEnd's blocking
	// read on a closed server connection would call log.Fatal, so this
	// test never exercises that path.
}
