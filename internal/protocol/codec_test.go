package protocol

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestWriteThenRead(t *testing.T) {
	var buf bytes.Buffer

	msgs := []Message{
		{MessageType: TypeHi, Username: "alice"},
		{MessageType: TypeQuestion, QuestionType: "Mathematics", TriviaQuestion: "Question 1", ShortQuestion: "3 + 4", TimeLimit: 5},
		{MessageType: TypeResult, Correct: Bool(false), Feedback: "wrong"},
		{MessageType: TypeBye},
	}
	for _, m := range msgs {
		if err := Write(&buf, m); err != nil {
			t.Fatalf("write %s: %v", m.MessageType, err)
		}
	}

	if got := strings.Count(buf.String(), "\n"); got != len(msgs) {
		t.Fatalf("expected %d lines, got %d", len(msgs), got)
	}

	r := NewReader(&buf)
	for i, want := range msgs {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("read frame %d: %v", i, err)
		}
		if got.MessageType != want.MessageType {
			t.Errorf("frame %d: expected type %s, got %s", i, want.MessageType, got.MessageType)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF after last frame, got %v", err)
	}
}

func TestResultEncodesCorrectFalse(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Message{MessageType: TypeResult, Correct: Bool(false), Feedback: "no"}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"correct":false`) {
		t.Errorf("RESULT frame must carry correct=false explicitly: %s", buf.String())
	}

	buf.Reset()
	if err := Write(&buf, Message{MessageType: TypeHi, Username: "alice"}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), "correct") {
		t.Errorf("HI frame must not carry a correct field: %s", buf.String())
	}
}

func TestDecodeMalformed(t *testing.T) {
	for _, line := range []string{"not json", "{", `{"username":"x"}`, `[1,2]`} {
		_, _, err := Decode(line)
		if !errors.Is(err, ErrMalformed) {
			t.Errorf("Decode(%q): expected ErrMalformed, got %v", line, err)
		}
	}
}

func TestDecodeSkipsBlankLines(t *testing.T) {
	r := NewReader(strings.NewReader("\n  \n" + `{"message_type":"BYE"}` + "\n"))
	msg, err := r.Next()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.MessageType != TypeBye {
		t.Errorf("expected BYE, got %s", msg.MessageType)
	}
}
