package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/quizwire/quizwire/internal/config"
	"github.com/quizwire/quizwire/internal/protocol"
	"github.com/quizwire/quizwire/internal/questions"
	"github.com/quizwire/quizwire/internal/trivia"
)

// ErrMatchAborted reports the fail-fast teardown triggered by an invalid
// handshake. The process still exits zero in this case.
var ErrMatchAborted = errors.New("match aborted: invalid handshake")

// Phase names exposed through the status view.
const (
	PhaseWaitingForQuorum  = "waiting_for_quorum"
	PhaseAskingQuestion    = "asking_question"
	PhaseCollectingAnswers = "collecting_answers"
	PhaseScoring           = "scoring"
	PhaseLeaderboard       = "leaderboard"
	PhaseFinished          = "finished"
)

// MatchResult is handed to the Recorder once a match completes.
type MatchResult struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Questions  int
	Standings  []trivia.Placed
	Winners    []string
}

// Recorder archives completed matches. Recording failures are logged,
// never propagated into the match outcome.
type Recorder interface {
	RecordMatch(ctx context.Context, result MatchResult) error
}

// Orchestrator runs the match state machine on a single goroutine. It is
// the only writer of outbound traffic and the only consumer of session
// events, so quorum detection, answer collection and scoring all happen
// in one control loop with no busy-waiting.
type Orchestrator struct {
	cfg      *config.Match
	registry *Registry
	events   <-chan Event
	logger   *slog.Logger
	recorder Recorder

	// stopAccepting freezes the roster by closing the listener once
	// quorum is reached.
	stopAccepting func()
	// shutdown closes every connection and the listener at match end.
	shutdown func()

	startedAt time.Time

	mu       sync.Mutex
	phase    string
	question int
	roster   []*Player
}

func (o *Orchestrator) setPhase(phase string, question int) {
	o.mu.Lock()
	o.phase = phase
	o.question = question
	o.mu.Unlock()
}

// Run drives one full match. It returns ErrMatchAborted on a handshake
// violation, the context error on external termination, and nil after a
// normal FINISHED broadcast.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.startedAt = time.Now()

	roster, err := o.waitForQuorum(ctx)
	if err != nil {
		o.shutdown()
		return err
	}
	o.mu.Lock()
	o.roster = roster
	o.mu.Unlock()

	o.logger.Info("quorum reached, starting match", "players", len(roster))
	if err := o.pause(ctx, o.cfg.Interval()); err != nil {
		o.shutdown()
		return err
	}

	total := len(o.cfg.QuestionTypes)
	for i, category := range o.cfg.QuestionTypes {
		number := i + 1
		if err := o.playRound(ctx, roster, number, category, number < total); err != nil {
			o.shutdown()
			return err
		}
	}

	o.finish(ctx, roster)
	return nil
}

// waitForQuorum greets each joining player with READY and returns the
// frozen roster once the configured number of players has registered.
func (o *Orchestrator) waitForQuorum(ctx context.Context) ([]*Player, error) {
	o.setPhase(PhaseWaitingForQuorum, 0)

	greeted := make(map[*Player]bool)
	ready := protocol.Message{
		MessageType: protocol.TypeReady,
		Info:        o.cfg.ExpandReadyInfo(),
	}

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case ev := <-o.events:
			switch ev.Kind {
			case EventFatal:
				o.logger.Error("aborting match", "error", ev.Err)
				return nil, ErrMatchAborted
			case EventJoined:
				o.send(ev.Player, ready)
				greeted[ev.Player] = true
				if o.registry.Len() < o.cfg.Players {
					continue
				}
				o.stopAccepting()
				// Sessions may have registered faster than their join
				// events were drained; greet any roster player whose
				// event is still queued so READY always precedes the
				// first QUESTION.
				roster := o.registry.Snapshot()
				for _, p := range roster {
					if !greeted[p] {
						o.send(p, ready)
					}
				}
				return roster, nil
			}
		}
	}
}

// playRound runs one question: broadcast, timed collection, scoring and
// the mid-match leaderboard.
func (o *Orchestrator) playRound(ctx context.Context, roster []*Player, number int, category string, leaderboard bool) error {
	short, err := questions.Generate(category)
	if err != nil {
		return err
	}
	correct, err := questions.Answer(category, short)
	if err != nil {
		return err
	}

	o.setPhase(PhaseAskingQuestion, number)
	o.registry.ClearAnswers(roster)
	o.broadcast(roster, protocol.Message{
		MessageType:    protocol.TypeQuestion,
		QuestionType:   category,
		TriviaQuestion: o.cfg.ExpandQuestion(number, category, short),
		ShortQuestion:  short,
		TimeLimit:      o.cfg.QuestionSeconds,
	})
	o.logger.Info("question asked", "number", number, "category", category, "short", short)

	o.setPhase(PhaseCollectingAnswers, number)
	if err := o.collect(ctx, roster); err != nil {
		return err
	}

	o.setPhase(PhaseScoring, number)
	for _, p := range roster {
		answer := o.registry.Answer(p)
		isCorrect := answer != nil && *answer == correct
		if isCorrect {
			o.registry.AddPoint(p)
		}
		o.send(p, protocol.Message{
			MessageType: protocol.TypeResult,
			Correct:     protocol.Bool(isCorrect),
			Feedback:    o.cfg.ExpandFeedback(isCorrect, answer, correct),
		})
	}

	if leaderboard {
		o.setPhase(PhaseLeaderboard, number)
		state := trivia.FormatStandings(trivia.Rank(o.registry.Entries(roster)), o.cfg.Standings())
		o.broadcast(roster, protocol.Message{
			MessageType: protocol.TypeLeaderboard,
			State:       state,
		})
		if err := o.pause(ctx, o.cfg.Interval()); err != nil {
			return err
		}
	}
	return nil
}

// collect waits until every roster player has answered or the question
// budget elapses, whichever comes first.
func (o *Orchestrator) collect(ctx context.Context, roster []*Player) error {
	deadline := time.NewTimer(o.cfg.QuestionBudget())
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.C:
			return nil
		case ev := <-o.events:
			switch ev.Kind {
			case EventFatal:
				o.logger.Error("aborting match", "error", ev.Err)
				return ErrMatchAborted
			case EventAnswered:
				if o.registry.AllAnswered(roster) {
					return nil
				}
			}
		}
	}
}

// finish broadcasts the final standings, archives the result and
// releases every resource. Terminal: no further transitions.
func (o *Orchestrator) finish(ctx context.Context, roster []*Player) {
	o.setPhase(PhaseFinished, len(o.cfg.QuestionTypes))

	placed := trivia.Rank(o.registry.Entries(roster))
	o.broadcast(roster, protocol.Message{
		MessageType:    protocol.TypeFinished,
		FinalStandings: trivia.FormatStandings(placed, o.cfg.Standings()),
	})
	o.logger.Info("match finished", "winners", trivia.Winners(placed))

	if o.recorder != nil {
		result := MatchResult{
			StartedAt:  o.startedAt,
			FinishedAt: time.Now(),
			Questions:  len(o.cfg.QuestionTypes),
			Standings:  placed,
			Winners:    trivia.Winners(placed),
		}
		if err := o.recorder.RecordMatch(ctx, result); err != nil {
			o.logger.Error("recording match", "error", err)
		}
	}

	o.shutdown()
}

// pause sleeps for d while staying responsive to fatal events and
// cancellation.
func (o *Orchestrator) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		case ev := <-o.events:
			if ev.Kind == EventFatal {
				o.logger.Error("aborting match", "error", ev.Err)
				return ErrMatchAborted
			}
		}
	}
}

// send writes one frame to one player. Write failures are ignored: a
// ghost player keeps its score and simply receives nothing further.
func (o *Orchestrator) send(p *Player, msg protocol.Message) {
	if err := protocol.Write(p.conn, msg); err != nil {
		o.logger.Debug("dropping frame for unreachable player",
			"username", p.Username(), "type", msg.MessageType)
	}
}

// broadcast is per-player and fault-isolated; one dead connection never
// affects the rest.
func (o *Orchestrator) broadcast(roster []*Player, msg protocol.Message) {
	for _, p := range roster {
		o.send(p, msg)
	}
}
