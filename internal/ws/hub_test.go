package ws

import (
	"testing"

	"go.uber.org/zap"
)

// Hub tests exercise room bookkeeping and fan-out without real
// connections: frames land in each client's send channel, which is all
// Broadcast touches. WritePump is never started here.

func recvOrNil(c *Client) []byte {
	select {
	case payload := <-c.send:
		return payload
	default:
		return nil
	}
}

func TestBroadcastReachesAllRoomMembers(t *testing.T) {
	hub := NewHub(zap.NewNop())
	a := hub.Register(nil)
	b := hub.Register(nil)
	outsider := hub.Register(nil)

	hub.Join(a, "5")
	hub.Join(b, "5")
	hub.Join(outsider, "6")

	hub.Broadcast("5", []byte("hello"))

	if got := recvOrNil(a); string(got) != "hello" {
		t.Errorf("a received %q, want hello", got)
	}
	if got := recvOrNil(b); string(got) != "hello" {
		t.Errorf("b received %q, want hello", got)
	}
	if got := recvOrNil(outsider); got != nil {
		t.Errorf("outsider received %q, want nothing", got)
	}
}

func TestJoinMultipleRooms(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := hub.Register(nil)

	hub.Join(c, "1")
	hub.Join(c, "2")
	hub.Join(c, "1") // joining twice is a no-op

	if n := hub.RoomSize("1"); n != 1 {
		t.Errorf("room 1 size = %d, want 1", n)
	}

	hub.Broadcast("1", []byte("one"))
	hub.Broadcast("2", []byte("two"))

	if got := recvOrNil(c); string(got) != "one" {
		t.Errorf("first frame = %q, want one", got)
	}
	if got := recvOrNil(c); string(got) != "two" {
		t.Errorf("second frame = %q, want two", got)
	}
}

func TestUnregisterRemovesFromAllRooms(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := hub.Register(nil)
	other := hub.Register(nil)

	hub.Join(c, "1")
	hub.Join(c, "2")
	hub.Join(other, "1")

	hub.Unregister(c)

	if n := hub.RoomSize("1"); n != 1 {
		t.Errorf("room 1 size = %d, want 1", n)
	}
	if n := hub.RoomSize("2"); n != 0 {
		t.Errorf("room 2 size = %d, want 0", n)
	}

	// Send channel is closed so the write pump can exit.
	if _, ok := <-c.send; ok {
		t.Error("send channel still open after Unregister")
	}

	// Double unregister must not panic (close is once-guarded).
	hub.Unregister(c)
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(zap.NewNop())
	c := hub.Register(nil)
	hub.Join(c, "1")

	// Nothing drains c.send, so pushing past the buffer must not block.
	for i := 0; i < cap(c.send)+10; i++ {
		hub.Broadcast("1", []byte("x"))
	}
}
