package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// AnswerKey is the correct answer to a Question: either a ChoiceKey or a
// TextKey. Which one applies follows from whether the question has options.
type AnswerKey interface {
	answerKey()
}

// ChoiceKey marks the index of the correct option.
type ChoiceKey struct {
	Index int
}

// TextKey is the canonical free-text answer of a short-answer question.
type TextKey struct {
	Answer string
}

func (ChoiceKey) answerKey() {}
func (TextKey) answerKey()   {}

// Question is one generated quiz item.
type Question struct {
	// ID is unique within a quiz and assigned by the generator.
	ID int

	Text string

	// Options is empty for short-answer questions, otherwise it holds at
	// least two entries.
	Options []string

	Key AnswerKey

	// Explanation may contain **emphasis** markup.
	Explanation string
}

// IsShortAnswer reports whether the question expects free text.
func (q Question) IsShortAnswer() bool {
	_, ok := q.Key.(TextKey)
	return ok
}

// CorrectText returns the text of the correct answer.
func (q Question) CorrectText() string {
	switch k := q.Key.(type) {
	case ChoiceKey:
		if k.Index >= 0 && k.Index < len(q.Options) {
			return q.Options[k.Index]
		}
	case TextKey:
		return k.Answer
	}
	return ""
}

// Validate checks that the answer key agrees with the option list.
func (q Question) Validate() error {
	switch k := q.Key.(type) {
	case ChoiceKey:
		if len(q.Options) < 2 {
			return fmt.Errorf("question %d: needs at least 2 options, has %d", q.ID, len(q.Options))
		}
		if k.Index < 0 || k.Index >= len(q.Options) {
			return fmt.Errorf("question %d: correct option %d out of range", q.ID, k.Index)
		}
	case TextKey:
		if len(q.Options) != 0 {
			return fmt.Errorf("question %d: short-answer question must not have options", q.ID)
		}
	default:
		return fmt.Errorf("question %d: missing answer key", q.ID)
	}
	return nil
}

type wireQuestion struct {
	ID                 int      `json:"id"`
	QuestionText       string   `json:"questionText"`
	Options            []string `json:"options"`
	CorrectOptionIndex *int     `json:"correctOptionIndex,omitempty"`
	Answer             *string  `json:"answer,omitempty"`
	Explanation        string   `json:"explanation"`
}

func (q Question) MarshalJSON() ([]byte, error) {
	w := wireQuestion{
		ID:           q.ID,
		QuestionText: q.Text,
		Options:      q.Options,
		Explanation:  q.Explanation,
	}
	if w.Options == nil {
		w.Options = []string{}
	}
	switch k := q.Key.(type) {
	case ChoiceKey:
		idx := k.Index
		w.CorrectOptionIndex = &idx
	case TextKey:
		ans := k.Answer
		w.Answer = &ans
	}
	return json.Marshal(w)
}

func (q *Question) UnmarshalJSON(data []byte) error {
	var w wireQuestion
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out := Question{
		ID:          w.ID,
		Text:        w.QuestionText,
		Options:     w.Options,
		Explanation: w.Explanation,
	}
	switch {
	case len(w.Options) > 0 && w.CorrectOptionIndex != nil:
		out.Key = ChoiceKey{Index: *w.CorrectOptionIndex}
	case len(w.Options) == 0 && w.Answer != nil:
		out.Options = nil
		out.Key = TextKey{Answer: *w.Answer}
	default:
		return fmt.Errorf("question %d: answer key does not match options", w.ID)
	}
	if err := out.Validate(); err != nil {
		return err
	}
	*q = out
	return nil
}

// Response is a user's answer: a Choice or a Text.
type Response interface {
	response()
}

// Choice is the index of the option the user picked.
type Choice int

// Text is a typed short answer.
type Text string

func (Choice) response() {}
func (Text) response()   {}

// Responses maps question id to the user's answer. A missing entry means
// unanswered.
type Responses map[int]Response

// Clone returns an independent copy.
func (r Responses) Clone() Responses {
	out := make(Responses, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Answered counts entries that are not blank text.
func (r Responses) Answered() int {
	n := 0
	for _, v := range r {
		if t, ok := v.(Text); ok && strings.TrimSpace(string(t)) == "" {
			continue
		}
		n++
	}
	return n
}

func (r Responses) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r))
	for id, v := range r {
		key := strconv.Itoa(id)
		switch v := v.(type) {
		case Choice:
			out[key] = int(v)
		case Text:
			out[key] = string(v)
		}
	}
	return json.Marshal(out)
}

func (r *Responses) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Responses, len(raw))
	for key, val := range raw {
		id, err := strconv.Atoi(key)
		if err != nil {
			return fmt.Errorf("answer key %q is not a question id", key)
		}
		var idx int
		if err := json.Unmarshal(val, &idx); err == nil {
			out[id] = Choice(idx)
			continue
		}
		var text string
		if err := json.Unmarshal(val, &text); err == nil {
			out[id] = Text(text)
			continue
		}
		return fmt.Errorf("answer for question %d: %w", id, errUnknownResponse)
	}
	*r = out
	return nil
}

var errUnknownResponse = errors.New("expected an option index or text")

// GeneratedQuiz is the payload produced by one generation call.
type GeneratedQuiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// Fingerprint identifies a question set by its ordered ids.
func Fingerprint(questions []Question) string {
	ids := make([]string, len(questions))
	for i, q := range questions {
		ids[i] = strconv.Itoa(q.ID)
	}
	return strings.Join(ids, ",")
}
