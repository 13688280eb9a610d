package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	_ "go.uber.org/automaxprocs"

	"github.com/olafplacha/bomberarena/internal/metrics"
	"github.com/olafplacha/bomberarena/internal/serverapp"
)

// metricsAddr is the fixed address the Prometheus scrape endpoint listens
// on; unlike the game's own port this never needs to be operator-chosen,
// so it isn't part of the command-line surface below.
const metricsAddr = ":9090"

func main() {
	bombTimer := pflag.Uint16P("bomb-timer", "b", 0, "Bomb timer, in turns.")
	playersCount := pflag.Uint8P("players-count", "c", 0, "Number of players required for the game.")
	turnDurationMs := pflag.Uint64P("turn-duration-ms", "d", 0, "Number of milliseconds per turn.")
	explosionRadius := pflag.Uint16P("explosion-radius", "e", 0, "Explosion radius.")
	initialBlocks := pflag.Uint32P("initial-blocks", "k", 0, "Number of initial blocks.")
	gameLength := pflag.Uint16P("game-length", "l", 0, "Game length, in turns.")
	serverName := pflag.StringP("name", "n", "", "Server name.")
	port := pflag.Uint16P("port", "p", 0, "Port of the server.")
	seed := pflag.Uint32P("seed", "s", 0, "Random seed (0 picks one from the clock).")
	sizeX := pflag.Uint16P("size-x", "x", 0, "Size x, in number of blocks.")
	sizeY := pflag.Uint16P("size-y", "y", 0, "Size y, in number of blocks.")
	help := pflag.BoolP("help", "h", false, "Show usage information.")
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	resolvedSeed := *seed
	if resolvedSeed == 0 {
		resolvedSeed = uint32(time.Now().UnixNano())
	}

	cfg := serverapp.Config{
		ServerName:      *serverName,
		Port:            *port,
		PlayersCount:    *playersCount,
		SizeX:           *sizeX,
		SizeY:           *sizeY,
		GameLength:      *gameLength,
		ExplosionRadius: *explosionRadius,
		BombTimer:       *bombTimer,
		InitialBlocks:   *initialBlocks,
		TurnDurationMs:  *turnDurationMs,
		Seed:            resolvedSeed,
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		pflag.Usage()
		os.Exit(1)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Str("service", "bomberarena-server").
		Logger()

	reg := prometheus.NewRegistry()
	m := metrics.NewServer(reg)

	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	go func() {
		if err := http.ListenAndServe(metricsAddr, nil); err != nil {
			log.Warn().Err(err).Msg("metrics endpoint stopped")
		}
	}()

	srv := serverapp.New(cfg, log, m)
	if err := srv.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start server")
	}
	log.Info().
		Str("name", cfg.ServerName).
		Uint8("players_count", cfg.PlayersCount).
		Str("metrics_addr", metricsAddr).
		Msg("bomberarena server started")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")

	srv.Stop()
	log.Info().Msg("server stopped")
}
