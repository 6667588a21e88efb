package server

import (
	"net"
	"testing"
	"time"

	"github.com/quizwire/quizwire/internal/protocol"
)

func runSession(t *testing.T) (net.Conn, *Registry, chan Event) {
	t.Helper()

	client, srvSide := net.Pipe()
	t.Cleanup(func() { client.Close() })

	registry := NewRegistry()
	events := make(chan Event, 8)
	go NewSession(srvSide, registry, events, testLogger()).Run()
	return client, registry, events
}

func nextEvent(t *testing.T, events chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for session event")
		return Event{}
	}
}

func TestSessionHandshakeAndAnswer(t *testing.T) {
	client, registry, events := runSession(t)

	protocol.Write(client, protocol.Message{MessageType: protocol.TypeHi, Username: "alice"})

	ev := nextEvent(t, events)
	if ev.Kind != EventJoined {
		t.Fatalf("expected EventJoined, got %v", ev.Kind)
	}
	if ev.Player.Username() != "alice" {
		t.Errorf("username = %q", ev.Player.Username())
	}
	if registry.Len() != 1 {
		t.Errorf("registry length = %d, want 1", registry.Len())
	}

	protocol.Write(client, protocol.Message{MessageType: protocol.TypeAnswer, Answer: "7"})

	ev = nextEvent(t, events)
	if ev.Kind != EventAnswered {
		t.Fatalf("expected EventAnswered, got %v", ev.Kind)
	}
	if got := registry.Answer(ev.Player); got == nil || *got != "7" {
		t.Errorf("recorded answer = %v, want 7", got)
	}

	// A later answer overwrites the first.
	protocol.Write(client, protocol.Message{MessageType: protocol.TypeAnswer, Answer: "8"})
	ev = nextEvent(t, events)
	if got := registry.Answer(ev.Player); got == nil || *got != "8" {
		t.Errorf("recorded answer = %v, want 8", got)
	}
}

func TestSessionInvalidUsernameReportsFatal(t *testing.T) {
	for _, username := range []string{"", "!!!", "  ", "--_--"} {
		client, registry, events := runSession(t)

		protocol.Write(client, protocol.Message{MessageType: protocol.TypeHi, Username: username})

		ev := nextEvent(t, events)
		if ev.Kind != EventFatal {
			t.Errorf("username %q: expected EventFatal, got %v", username, ev.Kind)
		}
		if registry.Len() != 0 {
			t.Errorf("username %q: player must not be registered", username)
		}
		client.Close()
	}
}

func TestSessionNonHandshakeFirstFrameIsFatal(t *testing.T) {
	client, _, events := runSession(t)

	protocol.Write(client, protocol.Message{MessageType: protocol.TypeAnswer, Answer: "7"})

	if ev := nextEvent(t, events); ev.Kind != EventFatal {
		t.Errorf("expected EventFatal, got %v", ev.Kind)
	}
}

func TestSessionMalformedFrameClosesConnectionOnly(t *testing.T) {
	client, _, events := runSession(t)

	protocol.Write(client, protocol.Message{MessageType: protocol.TypeHi, Username: "alice"})
	nextEvent(t, events) // joined

	if _, err := client.Write([]byte("this is not json\n")); err != nil {
		t.Fatalf("write: %v", err)
	}

	// The session drops the connection without raising a fatal event.
	client.SetReadDeadline(time.Now().Add(5 * time.Second))
	buf := make([]byte, 1)
	if _, err := client.Read(buf); err == nil {
		t.Error("expected the session to close the connection")
	}

	select {
	case ev := <-events:
		t.Errorf("unexpected event after malformed frame: %v", ev.Kind)
	default:
	}
}

func TestSessionEOFBeforeHandshakeIsQuiet(t *testing.T) {
	client, registry, events := runSession(t)
	client.Close()

	time.Sleep(50 * time.Millisecond)
	select {
	case ev := <-events:
		t.Errorf("unexpected event: %v", ev.Kind)
	default:
	}
	if registry.Len() != 0 {
		t.Errorf("registry length = %d, want 0", registry.Len())
	}
}

func TestValidUsername(t *testing.T) {
	valid := []string{"alice", "a", "x_y", "héloïse", "player1", "1"}
	invalid := []string{"", "!!!", "___", " ", "-.-"}

	for _, name := range valid {
		if !ValidUsername(name) {
			t.Errorf("ValidUsername(%q) = false, want true", name)
		}
	}
	for _, name := range invalid {
		if ValidUsername(name) {
			t.Errorf("ValidUsername(%q) = true, want false", name)
		}
	}
}
