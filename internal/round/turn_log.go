package round

import (
	"sync"

	"github.com/olafplacha/bomberarena/internal/proto"
)

// TurnLog is the append-only record of a round's turns, plus the terminal
// finished/scores signal that writer tasks await after streaming every
// turn to their peer.
type TurnLog struct {
	mu       sync.Mutex
	turns    []proto.Turn
	finished bool
	scores   map[uint8]uint32
	changed  chan struct{}
}

// NewTurnLog creates an empty, unfinished turn log.
func NewTurnLog() *TurnLog {
	return &TurnLog{changed: make(chan struct{})}
}

func (l *TurnLog) broadcast() {
	close(l.changed)
	l.changed = make(chan struct{})
}

// Append records turn as the next entry and wakes any blocked GetByIndex
// callers.
func (l *TurnLog) Append(turn proto.Turn) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.turns = append(l.turns, turn)
	l.broadcast()
}

// GetByIndex blocks until the log holds more than i turns, then returns a
// copy of turn i. stop, if it fires first, aborts the wait.
func (l *TurnLog) GetByIndex(i uint16, stop <-chan struct{}) (proto.Turn, bool) {
	for {
		l.mu.Lock()
		if int(i) < len(l.turns) {
			turn := l.turns[i]
			l.mu.Unlock()
			return turn, true
		}
		ch := l.changed
		l.mu.Unlock()

		select {
		case <-ch:
		case <-stop:
			return proto.Turn{}, false
		}
	}
}

// MarkFinished records the round's final scores and wakes any blocked
// WaitUntilFinished callers.
func (l *TurnLog) MarkFinished(scores map[uint8]uint32) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.finished = true
	l.scores = scores
	l.broadcast()
}

// WaitUntilFinished blocks until MarkFinished has been called, then
// returns the final score map. stop, if it fires first, aborts the wait.
func (l *TurnLog) WaitUntilFinished(stop <-chan struct{}) (map[uint8]uint32, bool) {
	for {
		l.mu.Lock()
		if l.finished {
			scores := l.scores
			l.mu.Unlock()
			return scores, true
		}
		ch := l.changed
		l.mu.Unlock()

		select {
		case <-ch:
		case <-stop:
			return nil, false
		}
	}
}
