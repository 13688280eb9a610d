package round

import (
	"testing"
	"time"

	"github.com/olafplacha/bomberarena/internal/proto"
)

func TestLobbyAddAssignsDenseIDs(t *testing.T) {
	l := NewLobby(3)

	for i, name := range []string{"a", "b", "c"} {
		id, err := l.Add(proto.Player{Name: name})
		if err != nil {
			t.Fatalf("Add(%q) error: %v", name, err)
		}
		if int(id) != i {
			t.Errorf("Add(%q) id = %d, want %d", name, id, i)
		}
	}
}

func TestLobbyAddRejectsWhenFull(t *testing.T) {
	l := NewLobby(1)
	if _, err := l.Add(proto.Player{Name: "a"}); err != nil {
		t.Fatalf("first Add error: %v", err)
	}
	if _, err := l.Add(proto.Player{Name: "b"}); err != ErrLobbyFull {
		t.Fatalf("second Add error = %v, want ErrLobbyFull", err)
	}
}

func TestLobbyGetByIDOutOfRange(t *testing.T) {
	l := NewLobby(1)
	if _, ok := l.GetByID(1, nil); ok {
		t.Fatal("GetByID(1) on a 1-player lobby should fail")
	}
}

func TestLobbyGetByIDBlocksUntilAdmitted(t *testing.T) {
	l := NewLobby(2)
	done := make(chan proto.Player, 1)

	go func() {
		p, ok := l.GetByID(1, nil)
		if !ok {
			t.Error("GetByID(1) unexpectedly failed")
		}
		done <- p
	}()

	select {
	case <-done:
		t.Fatal("GetByID(1) returned before player 1 was admitted")
	case <-time.After(20 * time.Millisecond):
	}

	if _, err := l.Add(proto.Player{Name: "first"}); err != nil {
		t.Fatalf("Add error: %v", err)
	}
	if _, err := l.Add(proto.Player{Name: "second"}); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	select {
	case p := <-done:
		if p.Name != "second" {
			t.Errorf("GetByID(1) = %+v, want Name=second", p)
		}
	case <-time.After(time.Second):
		t.Fatal("GetByID(1) never returned after player 1 was admitted")
	}
}

func TestLobbyGetByIDStopAborts(t *testing.T) {
	l := NewLobby(2)
	stop := make(chan struct{})
	done := make(chan bool, 1)

	go func() {
		_, ok := l.GetByID(0, stop)
		done <- ok
	}()

	time.Sleep(20 * time.Millisecond)
	close(stop)

	select {
	case ok := <-done:
		if ok {
			t.Fatal("GetByID should have aborted via stop, not succeeded")
		}
	case <-time.After(time.Second):
		t.Fatal("GetByID never returned after stop was closed")
	}
}

func TestLobbyWaitUntilFull(t *testing.T) {
	l := NewLobby(2)
	done := make(chan map[uint8]proto.Player, 1)

	go func() {
		snap, ok := l.WaitUntilFull(nil)
		if !ok {
			t.Error("WaitUntilFull unexpectedly failed")
		}
		done <- snap
	}()

	if _, err := l.Add(proto.Player{Name: "a"}); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	select {
	case <-done:
		t.Fatal("WaitUntilFull returned before the lobby was full")
	case <-time.After(20 * time.Millisecond):
	}

	if _, err := l.Add(proto.Player{Name: "b"}); err != nil {
		t.Fatalf("Add error: %v", err)
	}

	select {
	case snap := <-done:
		if len(snap) != 2 {
			t.Errorf("WaitUntilFull snapshot has %d players, want 2", len(snap))
		}
	case <-time.After(time.Second):
		t.Fatal("WaitUntilFull never returned once the lobby was full")
	}
}
