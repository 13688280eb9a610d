package proto

import (
	"fmt"
	"io"

	"github.com/olafplacha/bomberarena/internal/wire"
)

// ViewMessage tags, per §6's client→front-end dialect numbering.
const (
	TagLobbyView byte = iota
	TagGameView
)

// ViewMessage is a reconstructed-state message the client pushes to the
// local front-end over a DatagramChannel.
type ViewMessage interface {
	Tag() byte
	Encode(w io.Writer) error
}

// LobbyView reports the admission state the client has observed so far:
// the round's configuration plus every AcceptedPlayer seen up to now.
type LobbyView struct {
	ServerName      string
	PlayersCount    uint8
	SizeX, SizeY    uint16
	GameLength      uint16
	ExplosionRadius uint16
	BombTimer       uint16
	Accepted        map[uint8]Player
}

func (LobbyView) Tag() byte { return TagLobbyView }

func (m LobbyView) Encode(w io.Writer) error {
	if err := wire.WriteTag(w, m.Tag()); err != nil {
		return err
	}
	if err := wire.WriteString(w, m.ServerName); err != nil {
		return err
	}
	if err := wire.WriteUint8(w, m.PlayersCount); err != nil {
		return err
	}
	if err := wire.WriteUint16(w, m.SizeX); err != nil {
		return err
	}
	if err := wire.WriteUint16(w, m.SizeY); err != nil {
		return err
	}
	if err := wire.WriteUint16(w, m.GameLength); err != nil {
		return err
	}
	if err := wire.WriteUint16(w, m.ExplosionRadius); err != nil {
		return err
	}
	if err := wire.WriteUint16(w, m.BombTimer); err != nil {
		return err
	}
	return writePlayerMap(w, m.Accepted)
}

func decodeLobbyViewBody(r io.Reader) (LobbyView, error) {
	var m LobbyView
	var err error
	if m.ServerName, err = wire.ReadString(r); err != nil {
		return LobbyView{}, err
	}
	if m.PlayersCount, err = wire.ReadUint8(r); err != nil {
		return LobbyView{}, err
	}
	if m.SizeX, err = wire.ReadUint16(r); err != nil {
		return LobbyView{}, err
	}
	if m.SizeY, err = wire.ReadUint16(r); err != nil {
		return LobbyView{}, err
	}
	if m.GameLength, err = wire.ReadUint16(r); err != nil {
		return LobbyView{}, err
	}
	if m.ExplosionRadius, err = wire.ReadUint16(r); err != nil {
		return LobbyView{}, err
	}
	if m.BombTimer, err = wire.ReadUint16(r); err != nil {
		return LobbyView{}, err
	}
	if m.Accepted, err = readPlayerMap(r); err != nil {
		return LobbyView{}, err
	}
	return m, nil
}

// GameView is a full materialized snapshot of the world as of one turn,
// reconstructed client-side from the server's authoritative event stream.
type GameView struct {
	ServerName      string
	SizeX, SizeY    uint16
	GameLength      uint16
	Turn            uint16
	Players         map[uint8]Player
	PlayerPositions map[uint8]Position
	Blocks          []Position
	Bombs           []BombView
	Explosions      []Position
	Scores          map[uint8]uint32
}

func (GameView) Tag() byte { return TagGameView }

func (m GameView) Encode(w io.Writer) error {
	if err := wire.WriteTag(w, m.Tag()); err != nil {
		return err
	}
	if err := wire.WriteString(w, m.ServerName); err != nil {
		return err
	}
	if err := wire.WriteUint16(w, m.SizeX); err != nil {
		return err
	}
	if err := wire.WriteUint16(w, m.SizeY); err != nil {
		return err
	}
	if err := wire.WriteUint16(w, m.GameLength); err != nil {
		return err
	}
	if err := wire.WriteUint16(w, m.Turn); err != nil {
		return err
	}
	if err := writePlayerMap(w, m.Players); err != nil {
		return err
	}
	if err := writePositionMap(w, m.PlayerPositions); err != nil {
		return err
	}
	if err := writePositionSlice(w, m.Blocks); err != nil {
		return err
	}
	if err := wire.WriteSlice(w, m.Bombs, writeBombView); err != nil {
		return err
	}
	if err := writePositionSlice(w, m.Explosions); err != nil {
		return err
	}
	return writeScoreMap(w, m.Scores)
}

func decodeGameViewBody(r io.Reader) (GameView, error) {
	var m GameView
	var err error
	if m.ServerName, err = wire.ReadString(r); err != nil {
		return GameView{}, err
	}
	if m.SizeX, err = wire.ReadUint16(r); err != nil {
		return GameView{}, err
	}
	if m.SizeY, err = wire.ReadUint16(r); err != nil {
		return GameView{}, err
	}
	if m.GameLength, err = wire.ReadUint16(r); err != nil {
		return GameView{}, err
	}
	if m.Turn, err = wire.ReadUint16(r); err != nil {
		return GameView{}, err
	}
	if m.Players, err = readPlayerMap(r); err != nil {
		return GameView{}, err
	}
	if m.PlayerPositions, err = readPositionMap(r); err != nil {
		return GameView{}, err
	}
	if m.Blocks, err = readPositionSlice(r); err != nil {
		return GameView{}, err
	}
	if m.Bombs, err = wire.ReadSlice(r, readBombView); err != nil {
		return GameView{}, err
	}
	if m.Explosions, err = readPositionSlice(r); err != nil {
		return GameView{}, err
	}
	if m.Scores, err = readScoreMap(r); err != nil {
		return GameView{}, err
	}
	return m, nil
}

// DecodeViewMessage reads one tagged ViewMessage from r. The client never
// decodes its own outbound dialect in production; this exists for the
// front-end mock and round-trip tests.
func DecodeViewMessage(r io.Reader) (ViewMessage, error) {
	tag, err := wire.ReadTag(r)
	if err != nil {
		return nil, err
	}
	switch tag {
	case TagLobbyView:
		return decodeLobbyViewBody(r)
	case TagGameView:
		return decodeGameViewBody(r)
	default:
		return nil, fmt.Errorf("%w: view message tag %d", ErrUnknownTag, tag)
	}
}
