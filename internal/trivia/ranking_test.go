package trivia

import (
	"reflect"
	"strings"
	"testing"
)

func TestRankOrderAndPlaces(t *testing.T) {
	placed := Rank([]Entry{
		{"carol", 1},
		{"bob", 2},
		{"alice", 2},
	})

	want := []Placed{
		{1, "alice", 2},
		{1, "bob", 2},
		{3, "carol", 1},
	}
	if !reflect.DeepEqual(placed, want) {
		t.Errorf("Rank = %+v, want %+v", placed, want)
	}
}

func TestRankThreeWayTie(t *testing.T) {
	placed := Rank([]Entry{
		{"dave", 0},
		{"alice", 3},
		{"carol", 3},
		{"bob", 3},
	})

	wantPlaces := []int{1, 1, 1, 4}
	for i, p := range placed {
		if p.Place != wantPlaces[i] {
			t.Errorf("position %d: place = %d, want %d", i, p.Place, wantPlaces[i])
		}
	}
	wantNames := []string{"alice", "bob", "carol", "dave"}
	for i, p := range placed {
		if p.Username != wantNames[i] {
			t.Errorf("position %d: username = %q, want %q", i, p.Username, wantNames[i])
		}
	}
}

func TestRankTieInvariants(t *testing.T) {
	placed := Rank([]Entry{
		{"e", 5}, {"a", 5}, {"c", 2}, {"b", 2}, {"d", 0}, {"f", 0},
	})

	for i, p := range placed {
		for j := i + 1; j < len(placed); j++ {
			q := placed[j]
			if p.Score == q.Score && p.Place != q.Place {
				t.Errorf("equal scores with different places: %+v vs %+v", p, q)
			}
			if p.Score > q.Score && p.Place >= q.Place {
				t.Errorf("higher score without smaller place: %+v vs %+v", p, q)
			}
		}
	}
}

func TestWinners(t *testing.T) {
	placed := Rank([]Entry{{"bob", 2}, {"alice", 2}, {"carol", 1}})
	if got := Winners(placed); !reflect.DeepEqual(got, []string{"alice", "bob"}) {
		t.Errorf("Winners = %v, want [alice bob]", got)
	}

	if got := Winners(nil); got != nil {
		t.Errorf("Winners(nil) = %v, want nil", got)
	}
}

func TestExpand(t *testing.T) {
	got := Expand("Hi {name}, you scored {score}", map[string]string{
		"name":  "alice",
		"score": "3",
	})
	if got != "Hi alice, you scored 3" {
		t.Errorf("Expand = %q", got)
	}

	if got := Expand("no {such} key", map[string]string{"other": "x"}); got != "no {such} key" {
		t.Errorf("unknown placeholder must stay: %q", got)
	}
}

func TestFormatStandings(t *testing.T) {
	tpl := StandingsTemplates{
		Heading:         "Final standings:",
		PointsSingular:  "point",
		PointsPlural:    "points",
		OneWinner:       "The winner is {winners}!",
		MultipleWinners: "The winners are {winners}!",
	}

	placed := Rank([]Entry{{"alice", 1}, {"bob", 0}})
	got := FormatStandings(placed, tpl)
	want := strings.Join([]string{
		"Final standings:",
		"1. alice: 1 point",
		"2. bob: 0 points",
		"The winner is alice!",
	}, "\n")
	if got != want {
		t.Errorf("FormatStandings =\n%s\nwant\n%s", got, want)
	}

	placed = Rank([]Entry{{"alice", 2}, {"bob", 2}})
	got = FormatStandings(placed, tpl)
	if !strings.Contains(got, "The winners are alice, bob!") {
		t.Errorf("multi-winner line missing: %s", got)
	}
}
