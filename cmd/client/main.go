package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	_ "go.uber.org/automaxprocs"

	"github.com/olafplacha/bomberarena/internal/clientapp"
)

func main() {
	guiAddress := pflag.StringP("gui-address", "d", "", "Address of the GUI: host:port.")
	playerName := pflag.StringP("name", "n", "", "Player's name.")
	port := pflag.Uint16P("port", "p", 0, "Port on which the client listens for move instruction packets.")
	serverAddress := pflag.StringP("server-address", "s", "", "Address of the server: host:port.")
	help := pflag.BoolP("help", "h", false, "Show usage information.")
	pflag.Parse()

	if *help {
		pflag.Usage()
		os.Exit(0)
	}

	guiHost, guiPort, err := splitHostPort(*guiAddress)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bad gui address:", err)
		pflag.Usage()
		os.Exit(1)
	}
	serverHost, serverPort, err := splitHostPort(*serverAddress)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bad server address:", err)
		pflag.Usage()
		os.Exit(1)
	}

	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Str("service", "bomberarena-client").
		Logger()

	cfg := clientapp.Config{
		PlayerName: *playerName,
		ServerHost: serverHost,
		ServerPort: serverPort,
		LocalPort:  *port,
		GuiHost:    guiHost,
		GuiPort:    guiPort,
	}

	client := clientapp.New(cfg, log)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info().
		Str("name", cfg.PlayerName).
		Str("server", *serverAddress).
		Str("gui", *guiAddress).
		Msg("bomberarena client starting")

	if err := client.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("client stopped")
	}
}

// splitHostPort parses a "host:port" address as accepted by every -d/-s
// flag in this CLI, validating the port fits a 16-bit field.
func splitHostPort(addr string) (string, uint16, error) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return "", 0, err
	}
	port, err := strconv.ParseUint(portStr, 10, 16)
	if err != nil {
		return "", 0, fmt.Errorf("invalid port %q: %w", portStr, err)
	}
	return host, uint16(port), nil
}
