package proto

import (
	"fmt"
	"io"

	"github.com/olafplacha/bomberarena/internal/wire"
)

// ClientMessage tags, per §6's dialect numbering.
const (
	TagJoin byte = iota
	TagPlaceBomb
	TagPlaceBlock
	TagMove
)

// ClientMessage is a client→server message, sent over a ReliableChannel.
type ClientMessage interface {
	Tag() byte
	Encode(w io.Writer) error
}

// Join requests admission into the lobby under the given display name.
type Join struct {
	DisplayName string
}

func (Join) Tag() byte { return TagJoin }

func (m Join) Encode(w io.Writer) error {
	if err := wire.WriteTag(w, m.Tag()); err != nil {
		return err
	}
	return wire.WriteString(w, m.DisplayName)
}

func decodeJoinBody(r io.Reader) (Join, error) {
	name, err := wire.ReadString(r)
	if err != nil {
		return Join{}, err
	}
	return Join{DisplayName: name}, nil
}

// PlaceBomb requests a bomb be placed at the sender's current position.
// It carries no payload beyond its tag.
type PlaceBomb struct{}

func (PlaceBomb) Tag() byte            { return TagPlaceBomb }
func (m PlaceBomb) Encode(w io.Writer) error { return wire.WriteTag(w, m.Tag()) }

func decodePlaceBombBody(io.Reader) (PlaceBomb, error) { return PlaceBomb{}, nil }

// PlaceBlock requests a block be placed at the sender's current position.
// It carries no payload beyond its tag.
type PlaceBlock struct{}

func (PlaceBlock) Tag() byte             { return TagPlaceBlock }
func (m PlaceBlock) Encode(w io.Writer) error { return wire.WriteTag(w, m.Tag()) }

func decodePlaceBlockBody(io.Reader) (PlaceBlock, error) { return PlaceBlock{}, nil }

// Move requests the sender step one cell in Direction.
type Move struct {
	Direction Direction
}

func (Move) Tag() byte { return TagMove }

func (m Move) Encode(w io.Writer) error {
	if err := wire.WriteTag(w, m.Tag()); err != nil {
		return err
	}
	return wire.WriteUint8(w, uint8(m.Direction))
}

func decodeMoveBody(r io.Reader) (Move, error) {
	d, err := wire.ReadUint8(r)
	if err != nil {
		return Move{}, err
	}
	if !Direction(d).Valid() {
		return Move{}, fmt.Errorf("proto: move direction %d out of range", d)
	}
	return Move{Direction: Direction(d)}, nil
}

// DecodeClientMessage reads one tagged ClientMessage from r. As on the
// front-end dialect, an out-of-range Move direction is a framing error:
// it is returned as an error, and the server's reader task drops the
// connection on any decode error.
func DecodeClientMessage(r io.Reader) (ClientMessage, error) {
	tag, err := wire.ReadTag(r)
	if err != nil {
		return nil, err
	}
	switch tag {
	case TagJoin:
		return decodeJoinBody(r)
	case TagPlaceBomb:
		return decodePlaceBombBody(r)
	case TagPlaceBlock:
		return decodePlaceBlockBody(r)
	case TagMove:
		return decodeMoveBody(r)
	default:
		return nil, fmt.Errorf("%w: client message tag %d", ErrUnknownTag, tag)
	}
}
