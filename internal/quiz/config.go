package quiz

import (
	"encoding/base64"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// Difficulty controls the kind of reasoning questions demand.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "Easy"
	DifficultyMedium Difficulty = "Medium"
	DifficultyHard   Difficulty = "Hard"
)

// Valid reports whether d is one of the known difficulties.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// ParseDifficulty accepts any casing of a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	for _, d := range []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard} {
		if strings.EqualFold(string(d), strings.TrimSpace(s)) {
			return d, nil
		}
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// Type is the answer format every generated question follows.
type Type string

const (
	TypeMultipleChoice Type = "Multiple Choice"
	TypeTrueFalse      Type = "True/False"
)

// Valid reports whether t is one of the known quiz types.
func (t Type) Valid() bool {
	return t == TypeMultipleChoice || t == TypeTrueFalse
}

// ParseType accepts the display name or a short alias ("mc", "tf").
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "multiple choice", "multiple-choice", "mc":
		return TypeMultipleChoice, nil
	case "true/false", "true-false", "truefalse", "tf":
		return TypeTrueFalse, nil
	}
	return "", fmt.Errorf("unknown quiz type %q", s)
}

// Bounds on a quiz configuration.
const (
	MinQuestions   = 3
	MaxQuestions   = 50
	MinDuration    = 1
	MaxDuration    = 180
	MaxAttachments = 5
)

// Attachment is a file the user supplied as study material.
type Attachment struct {
	Name     string `json:"name,omitempty"`
	MIMEType string `json:"mimeType"`
	Data     []byte `json:"data"`
}

// Supported reports whether the generation service accepts this MIME type.
// Only PDFs and images are offered for upload.
func (a Attachment) Supported() bool {
	return a.MIMEType == "application/pdf" || strings.HasPrefix(a.MIMEType, "image/")
}

// DecodeDataURL parses a "data:<mime>;base64,<payload>" string.
func DecodeDataURL(name, url string) (Attachment, error) {
	rest, ok := strings.CutPrefix(url, "data:")
	if !ok {
		return Attachment{}, fmt.Errorf("%s: not a data URL", name)
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return Attachment{}, fmt.Errorf("%s: data URL has no payload", name)
	}
	mime, isBase64 := strings.CutSuffix(meta, ";base64")
	if !isBase64 {
		return Attachment{}, fmt.Errorf("%s: data URL is not base64 encoded", name)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return Attachment{}, fmt.Errorf("%s: decode payload: %w", name, err)
	}
	return Attachment{Name: name, MIMEType: mime, Data: data}, nil
}

// ReadAttachment loads a study file from disk. The MIME type comes from the
// extension, or from the content when the extension is unknown.
func ReadAttachment(path string) (Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Attachment{}, fmt.Errorf("read attachment: %w", err)
	}
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	mimeType, _, _ = strings.Cut(mimeType, ";")

	a := Attachment{Name: filepath.Base(path), MIMEType: strings.TrimSpace(mimeType), Data: data}
	if !a.Supported() {
		return Attachment{}, fmt.Errorf("%s: only PDF and image files are supported", a.Name)
	}
	return a, nil
}

// Config is the user's request for a quiz. It is immutable once submitted.
type Config struct {
	// UserName is the candidate's name. Required.
	UserName string `json:"userName"`

	// Topic optionally overrides the generated title.
	Topic string `json:"topic,omitempty"`

	QuestionCount   int        `json:"questionCount"`
	DurationMinutes int        `json:"durationMinutes"`
	Difficulty      Difficulty `json:"difficulty"`
	Type            Type       `json:"quizType"`

	// Content is free-text study material. Either Content or Attachments
	// must be non-empty.
	Content     string       `json:"content"`
	Attachments []Attachment `json:"fileUploads"`
}

// DefaultConfig returns the values the setup form starts with.
func DefaultConfig() Config {
	return Config{
		QuestionCount:   10,
		DurationMinutes: 15,
		Difficulty:      DifficultyMedium,
		Type:            TypeMultipleChoice,
	}
}

// Normalize trims the free-text identity fields.
func (c Config) Normalize() Config {
	c.UserName = strings.TrimSpace(c.UserName)
	c.Topic = strings.TrimSpace(c.Topic)
	return c
}

// ValidationError lists every problem found in a Config.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid quiz configuration: " + strings.Join(e.Problems, "; ")
}

// Validate checks the configuration and returns a *ValidationError if
// anything is wrong.
func (c Config) Validate() error {
	var problems []string

	if strings.TrimSpace(c.UserName) == "" {
		problems = append(problems, "candidate name is required")
	}
	if strings.TrimSpace(c.Content) == "" && len(c.Attachments) == 0 {
		problems = append(problems, "provide study content or at least one file")
	}
	if c.QuestionCount < MinQuestions || c.QuestionCount > MaxQuestions {
		problems = append(problems, fmt.Sprintf("question count must be between %d and %d", MinQuestions, MaxQuestions))
	}
	if c.DurationMinutes < MinDuration || c.DurationMinutes > MaxDuration {
		problems = append(problems, fmt.Sprintf("duration must be between %d and %d minutes", MinDuration, MaxDuration))
	}
	if !c.Difficulty.Valid() {
		problems = append(problems, fmt.Sprintf("unknown difficulty %q", c.Difficulty))
	}
	if !c.Type.Valid() {
		problems = append(problems, fmt.Sprintf("unknown quiz type %q", c.Type))
	}
	if len(c.Attachments) > MaxAttachments {
		problems = append(problems, fmt.Sprintf("at most %d files can be attached", MaxAttachments))
	}
	for _, a := range c.Attachments {
		if !a.Supported() {
			problems = append(problems, fmt.Sprintf("%s: only PDF and image files are supported", a.Name))
		}
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}
