package serverapp

import (
	"context"
	"time"

	"golang.org/x/time/rate"

	"github.com/olafplacha/bomberarena/internal/game"
	"github.com/olafplacha/bomberarena/internal/proto"
)

// runRounds is the Go transliteration of main()'s while(true) body: wait
// for a full lobby, flip game_started, drive the simulation to
// game_length ticks, collect final scores, then reset the shared
// containers for the next round and mark the just-finished turn log
// terminal. The old turn log handle is kept in a local variable so the
// mark-finished call lands on the round that just ended, not the fresh
// one `reset` just installed.
func (s *Server) runRounds() {
	for {
		select {
		case <-s.stopCh:
			return
		default:
		}

		_, _, lobby, moves, turns := s.shared.snapshot()

		if _, ok := lobby.WaitUntilFull(s.stopCh); !ok {
			return
		}
		s.shared.markStarted()
		s.log.Info().Msg("round starting")

		rules := game.Rules{
			SizeX:           s.cfg.SizeX,
			SizeY:           s.cfg.SizeY,
			ExplosionRadius: s.cfg.ExplosionRadius,
			BombTimer:       s.cfg.BombTimer,
		}
		sim := game.NewServerSim(rules, s.cfg.PlayersCount, s.cfg.InitialBlocks, s.cfg.Seed)

		turn0 := sim.Init()
		turns.Append(turn0)
		s.metrics.TurnsEmitted.Inc()

		pacer := rate.NewLimiter(rate.Every(time.Duration(s.cfg.TurnDurationMs)*time.Millisecond), 1)
		// Spend the initial burst token so the first tick also waits a full
		// turn duration.
		pacer.Allow()

		for i := uint16(0); i < s.cfg.GameLength; i++ {
			if err := pacer.Wait(context.Background()); err != nil {
				return
			}
			select {
			case <-s.stopCh:
				return
			default:
			}

			snap := moves.SnapshotAndClear()
			turn := sim.Tick(snap)
			turns.Append(turn)
			s.metrics.TurnsEmitted.Inc()
			s.countBombsPlaced(turn)
		}

		scores := sim.Scores()
		s.shared.reset(s.cfg)
		turns.MarkFinished(scores)
		s.metrics.RoundsCompleted.Inc()
		s.log.Info().Interface("scores", scores).Msg("round finished")
	}
}

func (s *Server) countBombsPlaced(turn proto.Turn) {
	for _, ev := range turn.Events {
		if _, ok := ev.(proto.BombPlaced); ok {
			s.metrics.BombsPlaced.Inc()
		}
	}
}
