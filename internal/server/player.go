// Package server implements the trivia match engine: the TCP acceptor,
// per-connection sessions, the shared player registry and the round
// orchestrator that drives a match from quorum to final standings.
package server

import (
	"net"
	"sync"
	"unicode"
)

// Player is one participant for the lifetime of the match. The username
// is immutable once set by the handshake; score and lastAnswer are
// guarded by the Registry lock. The connection is written to only by the
// orchestrator and read from only by the player's session.
type Player struct {
	conn     net.Conn
	username string

	// Guarded by Registry.mu.
	score      int
	lastAnswer *string

	closeOnce sync.Once
}

func (p *Player) Username() string { return p.username }

// Close releases the connection exactly once, whether triggered by the
// session on disconnect or by the orchestrator at shutdown.
func (p *Player) Close() {
	p.closeOnce.Do(func() {
		_ = p.conn.Close()
	})
}

// ValidUsername reports whether name qualifies as a handshake username:
// it must contain at least one alphanumeric rune.
func ValidUsername(name string) bool {
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
