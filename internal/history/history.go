// Package history archives finished matches to SQLite. It is an
// append-mostly record of results; it never feeds state back into a
// running match.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/quizwire/quizwire/internal/server"
)

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Check implements the status API health probe.
func (s *Store) Check(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// RecordMatch writes one finished match and its per-player standings in
// a single transaction.
func (s *Store) RecordMatch(ctx context.Context, result server.MatchResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var matchID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO matches (started_at, finished_at, questions)
		VALUES (?, ?, ?)
		RETURNING id
	`, result.StartedAt.UTC().Format(time.RFC3339Nano),
		result.FinishedAt.UTC().Format(time.RFC3339Nano),
		result.Questions,
	).Scan(&matchID)
	if err != nil {
		return fmt.Errorf("inserting match: %w", err)
	}

	winners := make(map[string]bool, len(result.Winners))
	for _, w := range result.Winners {
		winners[w] = true
	}

	for _, p := range result.Standings {
		winner := 0
		if winners[p.Username] {
			winner = 1
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO match_players (match_id, place, username, score, winner)
			VALUES (?, ?, ?, ?, ?)
		`, matchID, p.Place, p.Username, p.Score, winner)
		if err != nil {
			return fmt.Errorf("inserting standings for %q: %w", p.Username, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing match record: %w", err)
	}
	return nil
}

// MatchSummary is one archived match.
type MatchSummary struct {
	ID         int64    `json:"id"`
	StartedAt  string   `json:"started_at"`
	FinishedAt string   `json:"finished_at"`
	Questions  int      `json:"questions"`
	Players    int      `json:"players"`
	Winners    []string `json:"winners"`
}

// RecentMatches returns up to limit archived matches, newest first.
func (s *Store) RecentMatches(ctx context.Context, limit int) ([]MatchSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, questions
		FROM matches
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying matches: %w", err)
	}
	defer rows.Close()

	var out []MatchSummary
	for rows.Next() {
		var m MatchSummary
		if err := rows.Scan(&m.ID, &m.StartedAt, &m.FinishedAt, &m.Questions); err != nil {
			return nil, fmt.Errorf("scanning match: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		if err := s.fillPlayers(ctx, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) fillPlayers(ctx context.Context, m *MatchSummary) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, winner FROM match_players
		WHERE match_id = ?
		ORDER BY place, username
	`, m.ID)
	if err != nil {
		return fmt.Errorf("querying standings for match %d: %w", m.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var username string
		var winner int
		if err := rows.Scan(&username, &winner); err != nil {
			return fmt.Errorf("scanning standings: %w", err)
		}
		m.Players++
		if winner == 1 {
			m.Winners = append(m.Winners, username)
		}
	}
	return rows.Err()
}
