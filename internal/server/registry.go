package server

import (
	"net"
	"sync"

	"github.com/quizwire/quizwire/internal/trivia"
)

// Registry is the shared set of registered players, ordered by
// connection acceptance. A single coarse lock guards the list and every
// player's mutable fields; it is held only for field updates and
// snapshots, never across network I/O.
type Registry struct {
	mu      sync.Mutex
	players []*Player
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register adds a player for conn under the given username. A player is
// added exactly once, on successful handshake, and never removed.
func (r *Registry) Register(conn net.Conn, username string) *Player {
	p := &Player{conn: conn, username: username}
	r.mu.Lock()
	r.players = append(r.players, p)
	r.mu.Unlock()
	return p
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Snapshot returns a copy of the current player list for iteration
// outside the lock.
func (r *Registry) Snapshot() []*Player {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Player, len(r.players))
	copy(out, r.players)
	return out
}

// SetAnswer records a player's submission. Called by the player's
// session only.
func (r *Registry) SetAnswer(p *Player, answer string) {
	r.mu.Lock()
	p.lastAnswer = &answer
	r.mu.Unlock()
}

// Answer returns the player's current submission, or nil if unset.
func (r *Registry) Answer(p *Player) *string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return p.lastAnswer
}

// ClearAnswers resets every roster player's submission at the start of
// a question round.
func (r *Registry) ClearAnswers(roster []*Player) {
	r.mu.Lock()
	for _, p := range roster {
		p.lastAnswer = nil
	}
	r.mu.Unlock()
}

// AllAnswered reports whether every roster player has submitted.
func (r *Registry) AllAnswered(roster []*Player) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range roster {
		if p.lastAnswer == nil {
			return false
		}
	}
	return true
}

// AddPoint increments a player's score. Called by the orchestrator only,
// after verifying an answer.
func (r *Registry) AddPoint(p *Player) {
	r.mu.Lock()
	p.score++
	r.mu.Unlock()
}

// Entries returns the roster's (username, score) pairs for ranking.
func (r *Registry) Entries(roster []*Player) []trivia.Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]trivia.Entry, len(roster))
	for i, p := range roster {
		entries[i] = trivia.Entry{Username: p.username, Score: p.score}
	}
	return entries
}
