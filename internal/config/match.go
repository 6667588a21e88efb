package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/viper"

	"github.com/quizwire/quizwire/internal/questions"
	"github.com/quizwire/quizwire/internal/trivia"
)

// Match is the per-match configuration file. Quorum, categories and
// timing are mandatory; the presentation templates default to English
// phrasing and may be overridden per key. Templates use {name}
// placeholders: question formats see {short}, feedback sees {answer}
// and {correct_answer}, winner lines see {winners}, and ready_info may
// reference any top-level numeric setting.
type Match struct {
	Port                    int      `mapstructure:"port"`
	Players                 int      `mapstructure:"players"`
	QuestionTypes           []string `mapstructure:"question_types"`
	QuestionSeconds         int      `mapstructure:"question_seconds"`
	QuestionIntervalSeconds float64  `mapstructure:"question_interval_seconds"`

	QuestionWord          string            `mapstructure:"question_word"`
	QuestionFormats       map[string]string `mapstructure:"question_formats"`
	ReadyInfo             string            `mapstructure:"ready_info"`
	CorrectAnswer         string            `mapstructure:"correct_answer"`
	IncorrectAnswer       string            `mapstructure:"incorrect_answer"`
	FinalStandingsHeading string            `mapstructure:"final_standings_heading"`
	PointsNounSingular    string            `mapstructure:"points_noun_singular"`
	PointsNounPlural      string            `mapstructure:"points_noun_plural"`
	OneWinner             string            `mapstructure:"one_winner"`
	MultipleWinners       string            `mapstructure:"multiple_winners"`
}

var defaultQuestionFormats = map[string]string{
	questions.Mathematics:      "What is the result of {short}?",
	questions.RomanNumerals:    "What is the decimal value of the roman numeral {short}?",
	questions.UsableIPs:        "How many usable IP addresses are there in the subnet {short}?",
	questions.NetworkBroadcast: "What are the network and broadcast addresses of {short}?",
}

// LoadMatch reads and validates the match configuration file at path.
func LoadMatch(path string) (*Match, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault("question_seconds", 30)
	v.SetDefault("question_interval_seconds", 2)
	v.SetDefault("question_word", "Question")
	v.SetDefault("ready_info", "Welcome! The match starts once {players} players have joined.")
	v.SetDefault("correct_answer", "Correct! {answer} is the right answer.")
	v.SetDefault("incorrect_answer", "Incorrect. You answered {answer}; the correct answer was {correct_answer}.")
	v.SetDefault("final_standings_heading", "Final standings:")
	v.SetDefault("points_noun_singular", "point")
	v.SetDefault("points_noun_plural", "points")
	v.SetDefault("one_winner", "The winner is {winners}! Congratulations!")
	v.SetDefault("multiple_winners", "The winners are {winners}! Congratulations!")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var m Match
	if err := v.Unmarshal(&m); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if m.QuestionFormats == nil {
		m.QuestionFormats = map[string]string{}
	}
	for category, format := range defaultQuestionFormats {
		if _, ok := m.QuestionFormats[category]; !ok {
			m.QuestionFormats[category] = format
		}
	}

	if err := m.validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &m, nil
}

func (m *Match) validate() error {
	if m.Port < 1 || m.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", m.Port)
	}
	if m.Players < 1 {
		return fmt.Errorf("players must be at least 1, got %d", m.Players)
	}
	if len(m.QuestionTypes) == 0 {
		return fmt.Errorf("question_types must name at least one category")
	}
	for _, category := range m.QuestionTypes {
		if !questions.Known(category) {
			return fmt.Errorf("unknown question category %q", category)
		}
	}
	if m.QuestionSeconds < 1 {
		return fmt.Errorf("question_seconds must be at least 1, got %d", m.QuestionSeconds)
	}
	if m.QuestionIntervalSeconds < 0 {
		return fmt.Errorf("question_interval_seconds must not be negative")
	}
	return nil
}

// QuestionBudget is the per-question answer collection deadline.
func (m *Match) QuestionBudget() time.Duration {
	return time.Duration(m.QuestionSeconds) * time.Second
}

// Interval is the pause between a leaderboard broadcast and the next question.
func (m *Match) Interval() time.Duration {
	return time.Duration(m.QuestionIntervalSeconds * float64(time.Second))
}

// ExpandReadyInfo renders the READY info text.
func (m *Match) ExpandReadyInfo() string {
	return trivia.Expand(m.ReadyInfo, map[string]string{
		"players":                   strconv.Itoa(m.Players),
		"port":                      strconv.Itoa(m.Port),
		"question_seconds":          strconv.Itoa(m.QuestionSeconds),
		"question_interval_seconds": strconv.FormatFloat(m.QuestionIntervalSeconds, 'f', -1, 64),
		"questions":                 strconv.Itoa(len(m.QuestionTypes)),
	})
}

// ExpandFeedback renders the personalized RESULT feedback line.
// A player that never answered is shown as "no answer".
func (m *Match) ExpandFeedback(correct bool, answer *string, correctAnswer string) string {
	tpl := m.IncorrectAnswer
	if correct {
		tpl = m.CorrectAnswer
	}
	shown := "no answer"
	if answer != nil {
		shown = *answer
	}
	return trivia.Expand(tpl, map[string]string{
		"answer":         shown,
		"correct_answer": correctAnswer,
	})
}

// ExpandQuestion renders the human-readable prompt for a short-form problem.
func (m *Match) ExpandQuestion(number int, category, short string) string {
	format := m.QuestionFormats[category]
	prompt := trivia.Expand(format, map[string]string{"short": short})
	return fmt.Sprintf("%s %d (%s):\n%s", m.QuestionWord, number, category, prompt)
}

// Standings returns the presentation templates for standings text.
func (m *Match) Standings() trivia.StandingsTemplates {
	return trivia.StandingsTemplates{
		Heading:         m.FinalStandingsHeading,
		PointsSingular:  m.PointsNounSingular,
		PointsPlural:    m.PointsNounPlural,
		OneWinner:       m.OneWinner,
		MultipleWinners: m.MultipleWinners,
	}
}
