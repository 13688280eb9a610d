// Package metrics exposes the round/connection prometheus counters shared
// by the server orchestration, grounded on the pack's metrics.go precedent
// for counting domain events (players admitted, bombs placed, turns
// emitted) rather than just process-level gauges.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Server collects the counters incremented by internal/serverapp.
type Server struct {
	ConnectionsAccepted prometheus.Counter
	PlayersAdmitted     prometheus.Counter
	JoinsRejected       prometheus.Counter
	BombsPlaced         prometheus.Counter
	TurnsEmitted        prometheus.Counter
	RoundsCompleted     prometheus.Counter
}

// NewServer registers a fresh counter set against reg. Pass
// prometheus.NewRegistry() in tests to avoid collisions with the default
// global registry.
func NewServer(reg prometheus.Registerer) *Server {
	s := &Server{
		ConnectionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bomberarena_server_connections_accepted_total",
			Help: "TCP connections accepted by the server.",
		}),
		PlayersAdmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bomberarena_server_players_admitted_total",
			Help: "Players admitted into a lobby.",
		}),
		JoinsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bomberarena_server_joins_rejected_total",
			Help: "Join messages rejected because the lobby was full.",
		}),
		BombsPlaced: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bomberarena_server_bombs_placed_total",
			Help: "PlaceBomb commands applied by the simulation.",
		}),
		TurnsEmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bomberarena_server_turns_emitted_total",
			Help: "Turn messages appended to a turn log.",
		}),
		RoundsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bomberarena_server_rounds_completed_total",
			Help: "Rounds that reached GameEnded.",
		}),
	}
	reg.MustRegister(
		s.ConnectionsAccepted,
		s.PlayersAdmitted,
		s.JoinsRejected,
		s.BombsPlaced,
		s.TurnsEmitted,
		s.RoundsCompleted,
	)
	return s
}
