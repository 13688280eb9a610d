package proto

import (
	"fmt"
	"io"

	"github.com/olafplacha/bomberarena/internal/wire"
)

// ServerMessage tags, per §6's dialect numbering.
const (
	TagHello byte = iota
	TagAcceptedPlayer
	TagGameStarted
	TagTurn
	TagGameEnded
)

// ServerMessage is a server→client message, sent over a ReliableChannel.
type ServerMessage interface {
	Tag() byte
	Encode(w io.Writer) error
}

// Hello is always the first message a writer task sends to a newly
// accepted connection; it describes the round that connection is joining.
type Hello struct {
	ServerName       string
	PlayersCount     uint8
	SizeX, SizeY     uint16
	GameLength       uint16
	ExplosionRadius  uint16
	BombTimer        uint16
}

func (Hello) Tag() byte { return TagHello }

func (m Hello) Encode(w io.Writer) error {
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
	return wire.WriteUint16(w, m.BombTimer)
}

func decodeHelloBody(r io.Reader) (Hello, error) {
	var m Hello
	var err error
	if m.ServerName, err = wire.ReadString(r); err != nil {
		return Hello{}, err
	}
	if m.PlayersCount, err = wire.ReadUint8(r); err != nil {
		return Hello{}, err
	}
	if m.SizeX, err = wire.ReadUint16(r); err != nil {
		return Hello{}, err
	}
	if m.SizeY, err = wire.ReadUint16(r); err != nil {
		return Hello{}, err
	}
	if m.GameLength, err = wire.ReadUint16(r); err != nil {
		return Hello{}, err
	}
	if m.ExplosionRadius, err = wire.ReadUint16(r); err != nil {
		return Hello{}, err
	}
	if m.BombTimer, err = wire.ReadUint16(r); err != nil {
		return Hello{}, err
	}
	return m, nil
}

// AcceptedPlayer reports one player admitted into the lobby, in admission
// order.
type AcceptedPlayer struct {
	PlayerID uint8
	Player   Player
}

func (AcceptedPlayer) Tag() byte { return TagAcceptedPlayer }

func (m AcceptedPlayer) Encode(w io.Writer) error {
	if err := wire.WriteTag(w, m.Tag()); err != nil {
		return err
	}
	if err := wire.WriteUint8(w, m.PlayerID); err != nil {
		return err
	}
	return writePlayer(w, m.Player)
}

func decodeAcceptedPlayerBody(r io.Reader) (AcceptedPlayer, error) {
	id, err := wire.ReadUint8(r)
	if err != nil {
		return AcceptedPlayer{}, err
	}
	p, err := readPlayer(r)
	if err != nil {
		return AcceptedPlayer{}, err
	}
	return AcceptedPlayer{PlayerID: id, Player: p}, nil
}

// GameStarted carries the full admitted roster once the lobby fills.
type GameStarted struct {
	Players map[uint8]Player
}

func (GameStarted) Tag() byte { return TagGameStarted }

func (m GameStarted) Encode(w io.Writer) error {
	if err := wire.WriteTag(w, m.Tag()); err != nil {
		return err
	}
	return writePlayerMap(w, m.Players)
}

func decodeGameStartedBody(r io.Reader) (GameStarted, error) {
	players, err := readPlayerMap(r)
	if err != nil {
		return GameStarted{}, err
	}
	return GameStarted{Players: players}, nil
}

// Turn reports one simulation tick's events.
type Turn struct {
	TurnNumber uint16
	Events     []Event
}

func (Turn) Tag() byte { return TagTurn }

func (m Turn) Encode(w io.Writer) error {
	if err := wire.WriteTag(w, m.Tag()); err != nil {
		return err
	}
	if err := wire.WriteUint16(w, m.TurnNumber); err != nil {
		return err
	}
	return writeEventSlice(w, m.Events)
}

func decodeTurnBody(r io.Reader) (Turn, error) {
	n, err := wire.ReadUint16(r)
	if err != nil {
		return Turn{}, err
	}
	events, err := readEventSlice(r)
	if err != nil {
		return Turn{}, err
	}
	return Turn{TurnNumber: n, Events: events}, nil
}

// GameEnded carries the final score map; it is the terminal message of a
// round for every connected client.
type GameEnded struct {
	Scores map[uint8]uint32
}

func (GameEnded) Tag() byte { return TagGameEnded }

func (m GameEnded) Encode(w io.Writer) error {
	if err := wire.WriteTag(w, m.Tag()); err != nil {
		return err
	}
	return writeScoreMap(w, m.Scores)
}

func decodeGameEndedBody(r io.Reader) (GameEnded, error) {
	scores, err := readScoreMap(r)
	if err != nil {
		return GameEnded{}, err
	}
	return GameEnded{Scores: scores}, nil
}

// DecodeServerMessage reads one tagged ServerMessage from r.
func DecodeServerMessage(r io.Reader) (ServerMessage, error) {
	tag, err := wire.ReadTag(r)
	if err != nil {
		return nil, err
	}
	switch tag {
	case TagHello:
		return decodeHelloBody(r)
	case TagAcceptedPlayer:
		return decodeAcceptedPlayerBody(r)
	case TagGameStarted:
		return decodeGameStartedBody(r)
	case TagTurn:
		return decodeTurnBody(r)
	case TagGameEnded:
		return decodeGameEndedBody(r)
	default:
		return nil, fmt.Errorf("%w: server message tag %d", ErrUnknownTag, tag)
	}
}
