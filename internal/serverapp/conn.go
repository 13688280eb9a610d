package serverapp

import (
	"net"
	"sync"

	"github.com/rs/zerolog"

	"github.com/olafplacha/bomberarena/internal/proto"
	"github.com/olafplacha/bomberarena/internal/wire"
)

// handleConnection spawns the reader/writer goroutine pair for one
// accepted connection and waits for both to finish, mirroring the
// source's accept_new_connections spawning handle_tcp_stream_in/_out as
// two detached threads per connection. Here the pair is joined instead of
// detached so the accept loop's per-connection goroutine cleanly exits
// once both directions are done, and a failure on either side tears down
// the other: the reader's exit closes a shared stop channel the writer
// waits on, and the writer's exit also closes the connection the reader
// is blocked reading.
func (s *Server) handleConnection(conn net.Conn) {
	defer conn.Close()

	ch := wire.NewReliableChannel(conn)
	peer := ch.PeerName()
	log := s.log.With().Str("peer", peer).Logger()

	stop := make(chan struct{})
	var once sync.Once
	closeStop := func() { once.Do(func() { close(stop) }) }

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		defer closeStop()
		s.connReader(ch, peer, log)
	}()
	go func() {
		defer wg.Done()
		defer conn.Close()
		defer closeStop()
		s.connWriter(ch, stop, log)
	}()

	wg.Wait()
	log.Info().Msg("connection closed")
}

// connReader is the Go transliteration of handle_tcp_stream_in: it owns
// nothing but the client's admission state for the round version it last
// observed, forwarding Join to the current lobby and any other command to
// the current move collector once admitted.
func (s *Server) connReader(ch *wire.ReliableChannel, peer string, log zerolog.Logger) {
	var lastVersion uint64
	var playerID uint8
	joined := false
	haveVersion := false

	for {
		msg, err := proto.DecodeClientMessage(ch)
		if err != nil {
			log.Debug().Err(err).Msg("reader stopped")
			return
		}

		started, version, lobby, moves, _ := s.shared.snapshot()
		if !haveVersion || version != lastVersion {
			lastVersion = version
			haveVersion = true
			joined = false
		}

		switch m := msg.(type) {
		case proto.Join:
			if joined {
				continue
			}
			id, err := lobby.Add(proto.Player{Name: m.DisplayName, Address: peer})
			if err != nil {
				s.metrics.JoinsRejected.Inc()
				log.Info().Str("name", m.DisplayName).Msg("join rejected: lobby full")
				continue
			}
			playerID = id
			joined = true
			s.metrics.PlayersAdmitted.Inc()
			log.Info().Str("name", m.DisplayName).Uint8("player_id", id).Msg("player admitted")

		default:
			if joined && started {
				_ = moves.Update(playerID, m)
			}
		}
	}
}

// connWriter is the Go transliteration of handle_tcp_stream_out: send
// Hello once, then loop forever, re-snapshotting the shared containers on
// each round so reconnect-less clients observe every subsequent round too.
func (s *Server) connWriter(ch *wire.ReliableChannel, stop <-chan struct{}, log zerolog.Logger) {
	hello := proto.Hello{
		ServerName:      s.cfg.ServerName,
		PlayersCount:    s.cfg.PlayersCount,
		SizeX:           s.cfg.SizeX,
		SizeY:           s.cfg.SizeY,
		GameLength:      s.cfg.GameLength,
		ExplosionRadius: s.cfg.ExplosionRadius,
		BombTimer:       s.cfg.BombTimer,
	}
	if err := hello.Encode(ch); err != nil {
		log.Debug().Err(err).Msg("writer stopped sending hello")
		return
	}

	for {
		started, _, lobby, _, turns := s.shared.snapshot()

		if !started {
			for i := uint8(0); i < s.cfg.PlayersCount; i++ {
				player, ok := lobby.GetByID(i, stop)
				if !ok {
					return
				}
				msg := proto.AcceptedPlayer{PlayerID: i, Player: player}
				if err := msg.Encode(ch); err != nil {
					log.Debug().Err(err).Msg("writer stopped sending accepted player")
					return
				}
			}
		}

		players, ok := lobby.WaitUntilFull(stop)
		if !ok {
			return
		}
		started2 := proto.GameStarted{Players: players}
		if err := started2.Encode(ch); err != nil {
			log.Debug().Err(err).Msg("writer stopped sending game started")
			return
		}

		for i := uint16(0); i < s.cfg.GameLength+1; i++ {
			turn, ok := turns.GetByIndex(i, stop)
			if !ok {
				return
			}
			if err := turn.Encode(ch); err != nil {
				log.Debug().Err(err).Msg("writer stopped sending turn")
				return
			}
		}

		scores, ok := turns.WaitUntilFinished(stop)
		if !ok {
			return
		}
		end := proto.GameEnded{Scores: scores}
		if err := end.Encode(ch); err != nil {
			log.Debug().Err(err).Msg("writer stopped sending game ended")
			return
		}
	}
}
