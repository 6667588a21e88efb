// Package trivia defines the core match domain: scores, standings and the
// ranking rules. Everything here is pure Go with no external dependencies.
package trivia

import "sort"

// Entry is one player's final or running score.
type Entry struct {
	Username string
	Score    int
}

// Placed is an Entry with its computed place. Players tied on score share
// a place number; the next distinct score takes the place equal to its
// 1-based position in the ordered list.
type Placed struct {
	Place    int    `json:"place"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// Rank orders entries by score descending, username ascending, and
// assigns places by position: a three-way tie for first is followed by
// place 4, not place 2.
func Rank(entries []Entry) []Placed {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].Username < sorted[j].Username
	})

	placed := make([]Placed, len(sorted))
	place := 0
	prevScore := 0
	for i, e := range sorted {
		if i == 0 || e.Score != prevScore {
			place = i + 1
			prevScore = e.Score
		}
		placed[i] = Placed{Place: place, Username: e.Username, Score: e.Score}
	}
	return placed
}

// Winners returns every username holding the maximum score. The input
// must already be ranked; usernames come back in ascending order because
// Rank sorts ties lexicographically.
func Winners(placed []Placed) []string {
	if len(placed) == 0 {
		return nil
	}
	top := placed[0].Score
	var winners []string
	for _, p := range placed {
		if p.Score != top {
			break
		}
		winners = append(winners, p.Username)
	}
	return winners
}
