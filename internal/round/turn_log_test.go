package round

import (
	"testing"
	"time"

	"github.com/olafplacha/bomberarena/internal/proto"
)

func TestTurnLogAppendAndGetByIndex(t *testing.T) {
	l := NewTurnLog()
	l.Append(proto.Turn{TurnNumber: 0})
	l.Append(proto.Turn{TurnNumber: 1})

	turn, ok := l.GetByIndex(1, nil)
	if !ok {
		t.Fatal("GetByIndex(1) unexpectedly failed")
	}
	if turn.TurnNumber != 1 {
		t.Errorf("GetByIndex(1).TurnNumber = %d, want 1", turn.TurnNumber)
	}
}

func TestTurnLogGetByIndexBlocksUntilAppended(t *testing.T) {
	l := NewTurnLog()
	done := make(chan proto.Turn, 1)

	go func() {
		turn, ok := l.GetByIndex(0, nil)
		if !ok {
			t.Error("GetByIndex(0) unexpectedly failed")
		}
		done <- turn
	}()

	select {
	case <-done:
		t.Fatal("GetByIndex(0) returned before any turn was appended")
	case <-time.After(20 * time.Millisecond):
	}

	l.Append(proto.Turn{TurnNumber: 0})

	select {
	case turn := <-done:
		if turn.TurnNumber != 0 {
			t.Errorf("GetByIndex(0).TurnNumber = %d, want 0", turn.TurnNumber)
		}
	case <-time.After(time.Second):
		t.Fatal("GetByIndex(0) never returned after append")
	}
}

func TestTurnLogGetByIndexStopAborts(t *testing.T) {
	l := NewTurnLog()
	stop := make(chan struct{})
	done := make(chan bool, 1)

	go func() {
		_, ok := l.GetByIndex(0, stop)
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	close(stop)

	select {
	case ok := <-done:
		if ok {
			t.Fatal("GetByIndex should have aborted via stop")
		}
	case <-time.After(time.Second):
		t.Fatal("GetByIndex never returned after stop was closed")
	}
}

func TestTurnLogMarkFinishedAndWait(t *testing.T) {
	l := NewTurnLog()
	done := make(chan map[uint8]uint32, 1)

	go func() {
		scores, ok := l.WaitUntilFinished(nil)
		if !ok {
			t.Error("WaitUntilFinished unexpectedly failed")
		}
		done <- scores
	}()

	select {
	case <-done:
		t.Fatal("WaitUntilFinished returned before MarkFinished")
	case <-time.After(20 * time.Millisecond):
	}

	l.MarkFinished(map[uint8]uint32{0: 1, 1: 0})

	select {
	case scores := <-done:
		if scores[0] != 1 || scores[1] != 0 {
			t.Errorf("WaitUntilFinished scores = %v, want {0:1, 1:0}", scores)
		}
	case <-time.After(time.Second):
		t.Fatal("WaitUntilFinished never returned after MarkFinished")
	}
}
