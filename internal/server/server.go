package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/quizwire/quizwire/internal/config"
	"github.com/quizwire/quizwire/internal/trivia"
)

// Server binds the listening socket and wires the acceptor, the sessions
// and the orchestrator together for a single match.
type Server struct {
	cfg      *config.Match
	logger   *slog.Logger
	registry *Registry
	events   chan Event
	orch     *Orchestrator

	ln         net.Listener
	listenOnce sync.Once
	downOnce   sync.Once
}

// Option configures optional collaborators.
type Option func(*Server)

// WithRecorder archives finished matches through r.
func WithRecorder(r Recorder) Option {
	return func(s *Server) { s.orch.recorder = r }
}

func New(cfg *config.Match, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		cfg:      cfg,
		logger:   logger,
		registry: NewRegistry(),
		events:   make(chan Event, 64),
	}
	s.orch = &Orchestrator{
		cfg:           cfg,
		registry:      s.registry,
		events:        s.events,
		logger:        logger,
		stopAccepting: s.closeListener,
		shutdown:      s.shutdownAll,
		phase:         PhaseWaitingForQuorum,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Listen binds the configured port. Bind failure is fatal for the whole
// process before any other component starts.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("binding to port %d: %w", s.cfg.Port, err)
	}
	s.ln = ln
	s.logger.Info("listening", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound listener address. Valid only after Listen.
func (s *Server) Addr() net.Addr {
	return s.ln.Addr()
}

// Run executes the accept loop and the orchestrator until the match
// ends. Listen must have been called first.
func (s *Server) Run(ctx context.Context) error {
	if s.ln == nil {
		return errors.New("server is not listening; call Listen first")
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.acceptLoop() })
	g.Go(func() error { return s.orch.Run(ctx) })
	return g.Wait()
}

// acceptLoop spawns one session goroutine per accepted connection until
// the listener is closed, either at quorum or at shutdown.
func (s *Server) acceptLoop() error {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accepting connection: %w", err)
		}
		go NewSession(conn, s.registry, s.events, s.logger).Run()
	}
}

func (s *Server) closeListener() {
	s.listenOnce.Do(func() {
		_ = s.ln.Close()
	})
}

// shutdownAll closes every player connection and the listener. Safe to
// call more than once.
func (s *Server) shutdownAll() {
	s.downOnce.Do(func() {
		for _, p := range s.registry.Snapshot() {
			p.Close()
		}
		s.closeListener()
	})
}

// MatchView is a read-only snapshot of the engine for the status API.
type MatchView struct {
	Phase          string          `json:"phase"`
	QuestionNumber int             `json:"question_number"`
	TotalQuestions int             `json:"total_questions"`
	Quorum         int             `json:"quorum"`
	Players        int             `json:"players"`
	Standings      []trivia.Placed `json:"standings"`
}

// View derives the current match state on demand.
func (s *Server) View() MatchView {
	s.orch.mu.Lock()
	phase := s.orch.phase
	question := s.orch.question
	roster := s.orch.roster
	s.orch.mu.Unlock()

	if roster == nil {
		roster = s.registry.Snapshot()
	}

	return MatchView{
		Phase:          phase,
		QuestionNumber: question,
		TotalQuestions: len(s.cfg.QuestionTypes),
		Quorum:         s.cfg.Players,
		Players:        s.registry.Len(),
		Standings:      trivia.Rank(s.registry.Entries(roster)),
	}
}
