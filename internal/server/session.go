package server

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"

	"github.com/quizwire/quizwire/internal/protocol"
)

// EventKind discriminates session events delivered to the orchestrator.
type EventKind int

const (
	// EventJoined fires after a successful handshake registers a player.
	EventJoined EventKind = iota
	// EventAnswered fires after a session records a player's submission.
	EventAnswered
	// EventFatal fires on a handshake protocol violation. The
	// orchestrator alone decides to abort the match; a session never
	// tears anything down beyond its own connection.
	EventFatal
)

// Event is a session-to-orchestrator notification.
type Event struct {
	Kind   EventKind
	Player *Player
	Err    error
}

// Session owns the inbound half of one accepted connection. It decodes
// frames, validates the handshake, and mutates only its own player's
// registry fields. It never writes to the connection; all outbound
// traffic belongs to the orchestrator.
type Session struct {
	conn     net.Conn
	reader   *protocol.Reader
	registry *Registry
	events   chan<- Event
	logger   *slog.Logger
}

func NewSession(conn net.Conn, registry *Registry, events chan<- Event, logger *slog.Logger) *Session {
	return &Session{
		conn:     conn,
		registry: registry,
		events:   events,
		logger:   logger.With("remote", conn.RemoteAddr().String()),
	}
}

// Run drives the session state machine: AwaitingHandshake, then Active
// until BYE, stream end, or a malformed frame. It blocks until the
// connection is done and always releases it.
func (s *Session) Run() {
	player, err := s.handshake()
	if err != nil {
		if errors.Is(err, errHandshakeViolation) {
			s.events <- Event{Kind: EventFatal, Err: err}
		} else {
			s.logger.Debug("session closed before handshake", "error", err)
		}
		_ = s.conn.Close()
		return
	}

	s.events <- Event{Kind: EventJoined, Player: player}
	s.logger.Info("player joined", "username", player.Username())

	s.active(player)
	player.Close()
}

var errHandshakeViolation = errors.New("handshake protocol violation")

// handshake consumes the first frame. Anything other than a HI carrying
// a valid username is a match-aborting violation; a malformed line or a
// closed stream is merely a dead connection.
func (s *Session) handshake() (*Player, error) {
	r := protocol.NewReader(s.conn)

	msg, err := r.Next()
	if err != nil {
		return nil, fmt.Errorf("reading handshake: %w", err)
	}
	if msg.MessageType != protocol.TypeHi {
		return nil, fmt.Errorf("%w: expected HI, got %s", errHandshakeViolation, msg.MessageType)
	}
	if !ValidUsername(msg.Username) {
		return nil, fmt.Errorf("%w: invalid username %q", errHandshakeViolation, msg.Username)
	}

	player := s.registry.Register(s.conn, msg.Username)
	s.reader = r
	return player, nil
}

// active reacts to frames until the session ends. An ANSWER updates the
// player's submission and wakes the orchestrator; a BYE or stream end
// finishes the session; a malformed frame is fatal for this connection
// only, because the stream cannot be resumed mid-line.
func (s *Session) active(player *Player) {
	for {
		msg, err := s.reader.Next()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Warn("closing desynchronized session", "username", player.Username(), "error", err)
			}
			return
		}

		switch msg.MessageType {
		case protocol.TypeAnswer:
			s.registry.SetAnswer(player, msg.Answer)
			s.events <- Event{Kind: EventAnswered, Player: player}
		case protocol.TypeBye:
			s.logger.Info("player left", "username", player.Username())
			return
		default:
			s.logger.Debug("ignoring frame", "type", msg.MessageType, "username", player.Username())
		}
	}
}
