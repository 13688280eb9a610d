package serverapp

import (
	"context"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/olafplacha/bomberarena/internal/metrics"
)

// Server owns the listening socket, the versioned shared round state, and
// the background round loop. It is the structural counterpart of the
// teacher's Server type, narrowed to this protocol's two-goroutine
// per-connection shape and a single authoritative simulation loop instead
// of per-player gameplay loops.
type Server struct {
	cfg     Config
	log     zerolog.Logger
	metrics *metrics.Server

	listener net.Listener
	shared   *sharedState
	stopCh   chan struct{}

	acceptLimiter *rate.Limiter

	wg sync.WaitGroup
}

// New builds a server that has not yet started listening.
func New(cfg Config, log zerolog.Logger, m *metrics.Server) *Server {
	return &Server{
		cfg:           cfg,
		log:           log,
		metrics:       m,
		shared:        newSharedState(cfg),
		stopCh:        make(chan struct{}),
		acceptLimiter: rate.NewLimiter(rate.Limit(200), 50),
	}
}

// Start binds the listening socket and launches the accept loop and the
// round loop as background goroutines.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("serverapp: listen on port %d: %w", s.cfg.Port, err)
	}
	s.listener = ln
	s.log.Info().Uint16("port", s.cfg.Port).Msg("server listening")

	s.wg.Add(2)
	go func() {
		defer s.wg.Done()
		s.acceptLoop()
	}()
	go func() {
		defer s.wg.Done()
		s.runRounds()
	}()
	return nil
}

// Addr reports the listener's bound address; useful for tests that start
// the server on port 0 and need to dial back in.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

// Stop closes the listener and signals the accept loop and the round loop
// to unwind; it returns once they have. Per-connection goroutines are not
// signalled or waited for; each ends when its connection fails.
func (s *Server) Stop() {
	close(s.stopCh)
	if s.listener != nil {
		s.listener.Close()
	}
	s.wg.Wait()
}

func (s *Server) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return
			default:
				s.log.Warn().Err(err).Msg("accept error")
				continue
			}
		}

		if err := s.acceptLimiter.Wait(context.Background()); err != nil {
			continue
		}

		s.metrics.ConnectionsAccepted.Inc()
		go s.handleConnection(conn)
	}
}
