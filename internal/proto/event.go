package proto

import (
	"fmt"
	"io"

	"github.com/olafplacha/bomberarena/internal/wire"
)

// Event tags, per the server-emitted event dialect carried inside Turn.
const (
	TagBombPlaced byte = iota
	TagBombExploded
	TagPlayerMoved
	TagBlockPlaced
)

// Event is one simulation event emitted within a single Turn.
type Event interface {
	Tag() byte
	Encode(w io.Writer) error
}

// BombPlaced reports a bomb newly placed at pos.
type BombPlaced struct {
	BombID   uint32
	Position Position
}

func (BombPlaced) Tag() byte { return TagBombPlaced }

func (e BombPlaced) Encode(w io.Writer) error {
	if err := wire.WriteTag(w, e.Tag()); err != nil {
		return err
	}
	if err := wire.WriteUint32(w, e.BombID); err != nil {
		return err
	}
	return writePosition(w, e.Position)
}

func decodeBombPlacedBody(r io.Reader) (BombPlaced, error) {
	id, err := wire.ReadUint32(r)
	if err != nil {
		return BombPlaced{}, err
	}
	pos, err := readPosition(r)
	if err != nil {
		return BombPlaced{}, err
	}
	return BombPlaced{BombID: id, Position: pos}, nil
}

// BombExploded reports a bomb's detonation: the players and blocks it
// destroyed.
type BombExploded struct {
	BombID           uint32
	DestroyedPlayers []uint8
	DestroyedBlocks  []Position
}

func (BombExploded) Tag() byte { return TagBombExploded }

func (e BombExploded) Encode(w io.Writer) error {
	if err := wire.WriteTag(w, e.Tag()); err != nil {
		return err
	}
	if err := wire.WriteUint32(w, e.BombID); err != nil {
		return err
	}
	if err := writeUint8Slice(w, e.DestroyedPlayers); err != nil {
		return err
	}
	return writePositionSlice(w, e.DestroyedBlocks)
}

func decodeBombExplodedBody(r io.Reader) (BombExploded, error) {
	id, err := wire.ReadUint32(r)
	if err != nil {
		return BombExploded{}, err
	}
	players, err := readUint8Slice(r)
	if err != nil {
		return BombExploded{}, err
	}
	blocks, err := readPositionSlice(r)
	if err != nil {
		return BombExploded{}, err
	}
	return BombExploded{BombID: id, DestroyedPlayers: players, DestroyedBlocks: blocks}, nil
}

// PlayerMoved reports a player's new position, whether from a move command
// or a post-destruction respawn.
type PlayerMoved struct {
	PlayerID uint8
	Position Position
}

func (PlayerMoved) Tag() byte { return TagPlayerMoved }

func (e PlayerMoved) Encode(w io.Writer) error {
	if err := wire.WriteTag(w, e.Tag()); err != nil {
		return err
	}
	if err := wire.WriteUint8(w, e.PlayerID); err != nil {
		return err
	}
	return writePosition(w, e.Position)
}

func decodePlayerMovedBody(r io.Reader) (PlayerMoved, error) {
	id, err := wire.ReadUint8(r)
	if err != nil {
		return PlayerMoved{}, err
	}
	pos, err := readPosition(r)
	if err != nil {
		return PlayerMoved{}, err
	}
	return PlayerMoved{PlayerID: id, Position: pos}, nil
}

// BlockPlaced reports a new block, either from initialization or a
// player's PlaceBlock command.
type BlockPlaced struct {
	Position Position
}

func (BlockPlaced) Tag() byte { return TagBlockPlaced }

func (e BlockPlaced) Encode(w io.Writer) error {
	if err := wire.WriteTag(w, e.Tag()); err != nil {
		return err
	}
	return writePosition(w, e.Position)
}

func decodeBlockPlacedBody(r io.Reader) (BlockPlaced, error) {
	pos, err := readPosition(r)
	if err != nil {
		return BlockPlaced{}, err
	}
	return BlockPlaced{Position: pos}, nil
}

// decodeEvent reads one tagged Event. It is unexported because events only
// ever appear nested inside a Turn, never as a standalone wire message.
func decodeEvent(r io.Reader) (Event, error) {
	tag, err := wire.ReadTag(r)
	if err != nil {
		return nil, err
	}
	switch tag {
	case TagBombPlaced:
		return decodeBombPlacedBody(r)
	case TagBombExploded:
		return decodeBombExplodedBody(r)
	case TagPlayerMoved:
		return decodePlayerMovedBody(r)
	case TagBlockPlaced:
		return decodeBlockPlacedBody(r)
	default:
		return nil, fmt.Errorf("%w: event tag %d", ErrUnknownTag, tag)
	}
}

func readEventSlice(r io.Reader) ([]Event, error) {
	return wire.ReadSlice(r, decodeEvent)
}

func writeEventSlice(w io.Writer, events []Event) error {
	return wire.WriteSlice(w, events, func(w io.Writer, e Event) error {
		return e.Encode(w)
	})
}
