package clientapp

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/olafplacha/bomberarena/internal/game"
	"github.com/olafplacha/bomberarena/internal/proto"
	"github.com/olafplacha/bomberarena/internal/wire"
)

// phase mirrors the two-state enum the front-end→server task consults to
// decide whether an incoming input triggers a Join or is forwarded.
type phase int32

const (
	phaseLobby phase = iota
	phaseGame
)

// Client bridges a local front-end's datagram dialect to the server's
// reliable-channel dialect. phase and joinSent are the only state shared
// between the two directions and are both accessed exclusively through
// the atomics below; everything else belongs to exactly one goroutine.
type Client struct {
	cfg Config
	log zerolog.Logger

	server *wire.ReliableChannel
	gui    *wire.DatagramChannel

	phase    atomic.Int32
	joinSent atomic.Bool
}

// New builds a client that has not yet connected.
func New(cfg Config, log zerolog.Logger) *Client {
	return &Client{cfg: cfg, log: log}
}

// Run dials the server and opens the front-end-facing datagram socket,
// then runs both directions. A failed read from the server ends the
// process through log.Fatal (see serverToFrontEnd), so Run returns only
// with a setup error.
func (c *Client) Run(ctx context.Context) error {
	server, err := wire.DialReliableChannel(ctx, c.cfg.ServerHost, c.cfg.ServerPort)
	if err != nil {
		return fmt.Errorf("clientapp: connect to server: %w", err)
	}
	c.server = server
	defer c.server.Close()

	gui, err := wire.NewDatagramChannel(c.cfg.LocalPort, c.cfg.GuiHost, c.cfg.GuiPort)
	if err != nil {
		return fmt.Errorf("clientapp: open front-end socket: %w", err)
	}
	c.gui = gui
	defer c.gui.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		c.frontEndToServer()
	}()

	c.serverToFrontEnd()
	<-done
	return nil
}

// frontEndToServer loops reading input datagrams from the front-end.
// Anything DecodeGuiMessage rejects is dropped. While still in the lobby
// and no Join has gone out yet, any input triggers the one-time Join
// instead of being forwarded; every input after that is relayed verbatim.
func (c *Client) frontEndToServer() {
	for {
		if _, err := c.gui.ReceiveOne(); err != nil {
			c.log.Debug().Err(err).Msg("front-end socket closed")
			return
		}

		msg, err := proto.DecodeGuiMessage(c.gui)
		if err != nil {
			c.log.Debug().Err(err).Msg("dropping malformed front-end message")
			continue
		}

		if phase(c.phase.Load()) == phaseLobby && !c.joinSent.Load() {
			join := proto.Join{DisplayName: c.cfg.PlayerName}
			if err := join.Encode(c.server); err != nil {
				c.log.Debug().Err(err).Msg("sending Join failed, stopping")
				return
			}
			c.joinSent.Store(true)
			continue
		}

		cmd := proto.ToClientMessage(msg)
		if cmd == nil {
			continue
		}
		if err := cmd.Encode(c.server); err != nil {
			c.log.Debug().Err(err).Msg("forwarding input failed, stopping")
			return
		}
	}
}

// serverToFrontEnd expects Hello first and uses it to seed a local lobby
// view, then alternates between the lobby and game state machines exactly
// as §4.10 describes: every server message refreshes and re-emits the
// current view, GameStarted flips to the game phase and seeds a ClientSim,
// and GameEnded flips back to the lobby phase with join_sent cleared.
// Framing errors abort the process: once the server connection is no
// longer trustworthy there is nothing left worth keeping the client
// running for.
func (c *Client) serverToFrontEnd() {
	msg, err := proto.DecodeServerMessage(c.server)
	if err != nil {
		c.log.Fatal().Err(err).Msg("reading Hello from server")
	}
	hello, ok := msg.(proto.Hello)
	if !ok {
		c.log.Fatal().Msg("first server message was not Hello")
	}

	lobby := proto.LobbyView{
		ServerName:      hello.ServerName,
		PlayersCount:    hello.PlayersCount,
		SizeX:           hello.SizeX,
		SizeY:           hello.SizeY,
		GameLength:      hello.GameLength,
		ExplosionRadius: hello.ExplosionRadius,
		BombTimer:       hello.BombTimer,
		Accepted:        map[uint8]proto.Player{},
	}
	c.emit(lobby)

	var sim *game.ClientSim

	for {
		msg, err := proto.DecodeServerMessage(c.server)
		if err != nil {
			c.log.Fatal().Err(err).Msg("reading from server")
		}

		switch m := msg.(type) {
		case proto.AcceptedPlayer:
			lobby.Accepted[m.PlayerID] = m.Player
			c.emit(lobby)

		case proto.GameStarted:
			sim = game.NewClientSim(hello, m)
			c.phase.Store(int32(phaseGame))
			c.emit(sim.View())

		case proto.Turn:
			sim.ApplyTurn(m)
			c.emit(sim.View())

		case proto.GameEnded:
			sim = nil
			lobby.Accepted = map[uint8]proto.Player{}
			c.joinSent.Store(false)
			c.phase.Store(int32(phaseLobby))
			c.emit(lobby)

		default:
			c.log.Warn().Msg("unexpected server message kind")
		}
	}
}

func (c *Client) emit(v proto.ViewMessage) {
	if err := v.Encode(c.gui); err != nil {
		c.log.Warn().Err(err).Msg("encoding view for front-end")
		return
	}
	if err := c.gui.Flush(); err != nil {
		c.log.Warn().Err(err).Msg("flushing view to front-end")
	}
}
