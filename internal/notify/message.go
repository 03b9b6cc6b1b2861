package notify

import (
	"fmt"
	"html"
	"strings"
)

// Kind names a Q&A site event.
type Kind string

// Events the hook reacts to.
const (
	QuestionPosted Kind = "q_post"
	AnswerPosted   Kind = "a_post"
)

const anonymousHandle = "anonymous"

// Event carries the fields of a posted question or answer. For answers the
// title and URL are those of the parent question.
type Event struct {
	Kind   Kind
	Handle string
	Title  string
	URL    string
}

// ParseKind accepts the event names and their short forms.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case string(QuestionPosted), "question", "q":
		return QuestionPosted, nil
	case string(AnswerPosted), "answer", "a":
		return AnswerPosted, nil
	}
	return "", fmt.Errorf("unknown event %q", name)
}

// QuestionMessage formats the notification for a new question.
func QuestionMessage(who, title, url string) string {
	return fmt.Sprintf("%s asked a new question: <a href=\"%s\">\"%s\"</a>. Do you know the answer?",
		html.EscapeString(handle(who)), html.EscapeString(url), html.EscapeString(title))
}

// AnswerMessage formats the notification for a new answer.
func AnswerMessage(who, title, url string) string {
	return fmt.Sprintf("%s answered the question: <a href=\"%s\">\"%s\"</a>.",
		html.EscapeString(handle(who)), html.EscapeString(url), html.EscapeString(title))
}

// Message returns the notification text for ev and whether ev is an event
// the hook handles.
func Message(ev Event) (string, bool) {
	switch ev.Kind {
	case QuestionPosted:
		return QuestionMessage(ev.Handle, ev.Title, ev.URL), true
	case AnswerPosted:
		return AnswerMessage(ev.Handle, ev.Title, ev.URL), true
	}
	return "", false
}

func handle(who string) string {
	if strings.TrimSpace(who) == "" {
		return anonymousHandle
	}
	return who
}
