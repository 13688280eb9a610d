// Package proto implements the four message dialects exchanged by the
// server, the client, and the client's local front-end: server↔client over
// a reliable byte stream, and front-end↔client over a datagram transport.
// Every variant encodes over the shared primitives in internal/wire, so the
// same codec rules apply on both transports.
package proto

import (
	"errors"
	"fmt"
	"io"

	"github.com/olafplacha/bomberarena/internal/wire"
)

// ErrUnknownTag is returned by a dialect's dispatcher when the leading tag
// byte does not match any known variant.
var ErrUnknownTag = errors.New("proto: unknown message tag")

// ErrInvalidMessage is returned when a front-end datagram does not exactly
// satisfy a variant's framing: an unknown tag, an out-of-range direction,
// or trailing bytes after the message body.
var ErrInvalidMessage = errors.New("proto: invalid front-end message")

// Direction is a move command's cardinal direction.
type Direction uint8

const (
	Up Direction = iota
	Right
	Down
	Left
)

// Valid reports whether d is one of the four defined directions.
func (d Direction) Valid() bool {
	return d <= Left
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Right:
		return "Right"
	case Down:
		return "Down"
	case Left:
		return "Left"
	default:
		return fmt.Sprintf("Direction(%d)", uint8(d))
	}
}

// Position is a grid cell. It is used both as a plain value and, in the
// simulation layer, as a map key.
type Position struct {
	X, Y uint16
}

func readPosition(r io.Reader) (Position, error) {
	x, err := wire.ReadUint16(r)
	if err != nil {
		return Position{}, err
	}
	y, err := wire.ReadUint16(r)
	if err != nil {
		return Position{}, err
	}
	return Position{X: x, Y: y}, nil
}

func writePosition(w io.Writer, p Position) error {
	if err := wire.WriteUint16(w, p.X); err != nil {
		return err
	}
	return wire.WriteUint16(w, p.Y)
}

// Player is the admitted-player record that crosses the wire wherever a
// player's identity is disclosed: its display name and the textual
// "[ip]:port" form of its observed peer address.
type Player struct {
	Name    string
	Address string
}

func readPlayer(r io.Reader) (Player, error) {
	name, err := wire.ReadString(r)
	if err != nil {
		return Player{}, err
	}
	addr, err := wire.ReadString(r)
	if err != nil {
		return Player{}, err
	}
	return Player{Name: name, Address: addr}, nil
}

func writePlayer(w io.Writer, p Player) error {
	if err := wire.WriteString(w, p.Name); err != nil {
		return err
	}
	return wire.WriteString(w, p.Address)
}

// BombView is the front-end-facing projection of a bomb: only its position
// and remaining timer cross the wire in that dialect, never its id.
type BombView struct {
	Position Position
	Timer    uint16
}

func readBombView(r io.Reader) (BombView, error) {
	pos, err := readPosition(r)
	if err != nil {
		return BombView{}, err
	}
	timer, err := wire.ReadUint16(r)
	if err != nil {
		return BombView{}, err
	}
	return BombView{Position: pos, Timer: timer}, nil
}

func writeBombView(w io.Writer, b BombView) error {
	if err := writePosition(w, b.Position); err != nil {
		return err
	}
	return wire.WriteUint16(w, b.Timer)
}

func playerIDLess(a, b uint8) bool { return a < b }

func readPlayerMap(r io.Reader) (map[uint8]Player, error) {
	return wire.ReadMap(r, func(r io.Reader) (uint8, Player, error) {
		id, err := wire.ReadUint8(r)
		if err != nil {
			return 0, Player{}, err
		}
		p, err := readPlayer(r)
		return id, p, err
	})
}

func writePlayerMap(w io.Writer, m map[uint8]Player) error {
	return wire.WriteMap(w, m, playerIDLess, func(w io.Writer, id uint8, p Player) error {
		if err := wire.WriteUint8(w, id); err != nil {
			return err
		}
		return writePlayer(w, p)
	})
}

func readScoreMap(r io.Reader) (map[uint8]uint32, error) {
	return wire.ReadMap(r, func(r io.Reader) (uint8, uint32, error) {
		id, err := wire.ReadUint8(r)
		if err != nil {
			return 0, 0, err
		}
		score, err := wire.ReadUint32(r)
		return id, score, err
	})
}

func writeScoreMap(w io.Writer, m map[uint8]uint32) error {
	return wire.WriteMap(w, m, playerIDLess, func(w io.Writer, id uint8, score uint32) error {
		if err := wire.WriteUint8(w, id); err != nil {
			return err
		}
		return wire.WriteUint32(w, score)
	})
}

func readPositionMap(r io.Reader) (map[uint8]Position, error) {
	return wire.ReadMap(r, func(r io.Reader) (uint8, Position, error) {
		id, err := wire.ReadUint8(r)
		if err != nil {
			return 0, Position{}, err
		}
		pos, err := readPosition(r)
		return id, pos, err
	})
}

func writePositionMap(w io.Writer, m map[uint8]Position) error {
	return wire.WriteMap(w, m, playerIDLess, func(w io.Writer, id uint8, pos Position) error {
		if err := wire.WriteUint8(w, id); err != nil {
			return err
		}
		return writePosition(w, pos)
	})
}

func readPositionSlice(r io.Reader) ([]Position, error) {
	return wire.ReadSlice(r, readPosition)
}

func writePositionSlice(w io.Writer, s []Position) error {
	return wire.WriteSlice(w, s, writePosition)
}

func readUint8Slice(r io.Reader) ([]uint8, error) {
	return wire.ReadSlice(r, wire.ReadUint8)
}

func writeUint8Slice(w io.Writer, s []uint8) error {
	return wire.WriteSlice(w, s, wire.WriteUint8)
}
