package trivia

import (
	"fmt"
	"strings"
)

// StandingsTemplates are the presentation strings for standings text.
// Winner templates may reference {winners}.
type StandingsTemplates struct {
	Heading         string
	PointsSingular  string
	PointsPlural    string
	OneWinner       string
	MultipleWinners string
}

// Expand substitutes {name} placeholders in tpl from vars. Unknown
// placeholders are left untouched.
func Expand(tpl string, vars map[string]string) string {
	if len(vars) == 0 {
		return tpl
	}
	pairs := make([]string, 0, 2*len(vars))
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// FormatStandings renders the ranked standings as the multi-line text
// broadcast in LEADERBOARD and FINISHED frames: a heading, one numbered
// line per player, and a closing winner line.
func FormatStandings(placed []Placed, tpl StandingsTemplates) string {
	lines := []string{tpl.Heading}

	for _, p := range placed {
		noun := tpl.PointsPlural
		if p.Score == 1 {
			noun = tpl.PointsSingular
		}
		lines = append(lines, fmt.Sprintf("%d. %s: %d %s", p.Place, p.Username, p.Score, noun))
	}

	winners := Winners(placed)
	winnerTpl := tpl.MultipleWinners
	if len(winners) == 1 {
		winnerTpl = tpl.OneWinner
	}
	lines = append(lines, Expand(winnerTpl, map[string]string{
		"winners": strings.Join(winners, ", "),
	}))

	return strings.Join(lines, "\n")
}
