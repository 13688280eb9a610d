// Package serverapp wires the authoritative round loop and the
// per-connection reader/writer goroutines to a listening TCP socket,
// grounded on the teacher's Server/acceptLoop/handleConnection shape and
// the source's shared_state/handle_tcp_stream_in/handle_tcp_stream_out
// split.
package serverapp

import "fmt"

// Config holds one round's immutable parameters, gathered from the CLI.
type Config struct {
	ServerName      string
	Port            uint16
	PlayersCount    uint8
	SizeX, SizeY    uint16
	GameLength      uint16
	ExplosionRadius uint16
	BombTimer       uint16
	InitialBlocks   uint32
	TurnDurationMs  uint64
	Seed            uint32
}

// Validate rejects configurations the simulation cannot run meaningfully.
func (c Config) Validate() error {
	if c.PlayersCount == 0 {
		return fmt.Errorf("players-count must be at least 1")
	}
	if c.SizeX == 0 || c.SizeY == 0 {
		return fmt.Errorf("size-x and size-y must be at least 1")
	}
	if c.TurnDurationMs == 0 {
		return fmt.Errorf("turn-duration-ms must be at least 1")
	}
	return nil
}
