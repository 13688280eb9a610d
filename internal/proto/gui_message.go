package proto

import (
	"io"

	"github.com/olafplacha/bomberarena/internal/wire"
)

// GuiMessage tags, per §6's front-end→client dialect numbering.
const (
	TagGuiPlaceBomb byte = iota
	TagGuiPlaceBlock
	TagGuiMove
)

// GuiMessage is an input command read from the local front-end over a
// DatagramChannel.
type GuiMessage interface {
	Tag() byte
	Encode(w io.Writer) error
}

// GuiPlaceBomb mirrors the server dialect's PlaceBomb as a front-end input.
type GuiPlaceBomb struct{}

func (GuiPlaceBomb) Tag() byte               { return TagGuiPlaceBomb }
func (m GuiPlaceBomb) Encode(w io.Writer) error { return wire.WriteTag(w, m.Tag()) }

// GuiPlaceBlock mirrors the server dialect's PlaceBlock as a front-end input.
type GuiPlaceBlock struct{}

func (GuiPlaceBlock) Tag() byte               { return TagGuiPlaceBlock }
func (m GuiPlaceBlock) Encode(w io.Writer) error { return wire.WriteTag(w, m.Tag()) }

// GuiMove mirrors the server dialect's Move as a front-end input.
type GuiMove struct {
	Direction Direction
}

func (GuiMove) Tag() byte { return TagGuiMove }

func (m GuiMove) Encode(w io.Writer) error {
	if err := wire.WriteTag(w, m.Tag()); err != nil {
		return err
	}
	return wire.WriteUint8(w, uint8(m.Direction))
}

// DecodeGuiMessage reads one front-end datagram already loaded into ch and
// returns ErrInvalidMessage itself (unwrapped, without the lower-level cause)
// for anything that does not exactly satisfy a variant's framing: an
// unrecognized tag, an out-of-range direction, or trailing bytes left over
// after the message body. The client orchestration layer drops any message
// this returns an error for, never propagating it further.
func DecodeGuiMessage(ch *wire.DatagramChannel) (GuiMessage, error) {
	tag, err := wire.ReadTag(ch)
	if err != nil {
		return nil, ErrInvalidMessage
	}

	var msg GuiMessage
	switch tag {
	case TagGuiPlaceBomb:
		msg = GuiPlaceBomb{}
	case TagGuiPlaceBlock:
		msg = GuiPlaceBlock{}
	case TagGuiMove:
		d, err := wire.ReadUint8(ch)
		if err != nil {
			return nil, ErrInvalidMessage
		}
		if !Direction(d).Valid() {
			return nil, ErrInvalidMessage
		}
		msg = GuiMove{Direction: Direction(d)}
	default:
		return nil, ErrInvalidMessage
	}

	if ch.Remaining() != 0 {
		return nil, ErrInvalidMessage
	}
	return msg, nil
}

// ToClientMessage converts an accepted GuiMessage into the equivalent
// ClientMessage the proxy client forwards to the server.
func ToClientMessage(m GuiMessage) ClientMessage {
	switch v := m.(type) {
	case GuiPlaceBomb:
		return PlaceBomb{}
	case GuiPlaceBlock:
		return PlaceBlock{}
	case GuiMove:
		return Move{Direction: v.Direction}
	default:
		return nil
	}
}
