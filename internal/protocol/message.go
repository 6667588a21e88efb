// Package protocol defines the line-delimited JSON wire format spoken
// between the trivia server and its clients. Every message is a single
// newline-terminated JSON object carrying a message_type discriminator.
package protocol

// Message types, as they appear on the wire.
const (
	TypeHi          = "HI"
	TypeReady       = "READY"
	TypeQuestion    = "QUESTION"
	TypeAnswer      = "ANSWER"
	TypeResult      = "RESULT"
	TypeLeaderboard = "LEADERBOARD"
	TypeFinished    = "FINISHED"
	TypeBye         = "BYE"
)

// Message is the union of all frame fields. Which fields are meaningful
// depends on MessageType; absent fields are omitted from the encoding.
type Message struct {
	MessageType string `json:"message_type"`

	// HI
	Username string `json:"username,omitempty"`

	// READY
	Info string `json:"info,omitempty"`

	// QUESTION
	QuestionType   string `json:"question_type,omitempty"`
	TriviaQuestion string `json:"trivia_question,omitempty"`
	ShortQuestion  string `json:"short_question,omitempty"`
	TimeLimit      int    `json:"time_limit,omitempty"`

	// ANSWER
	Answer string `json:"answer,omitempty"`

	// RESULT. Correct is a pointer so that false still encodes on RESULT
	// frames while every other frame omits the field entirely.
	Correct  *bool  `json:"correct,omitempty"`
	Feedback string `json:"feedback,omitempty"`

	// LEADERBOARD
	State string `json:"state,omitempty"`

	// FINISHED
	FinalStandings string `json:"final_standings,omitempty"`
}
