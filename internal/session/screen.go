package session

import (
	"encoding/json"
	"fmt"
)

// Screen identifies where the user is in the application.
type Screen int

const (
	ScreenLanding Screen = iota
	ScreenAPISetup
	ScreenHowTo
	ScreenSetup
	ScreenGenerating
	ScreenQuiz
	ScreenResults
	ScreenReview
	ScreenHistory
)

var screenNames = map[Screen]string{
	ScreenLanding:    "LANDING",
	ScreenAPISetup:   "API_MANAGEMENT",
	ScreenHowTo:      "HOW_TO_USE",
	ScreenSetup:      "SETUP",
	ScreenGenerating: "GENERATING",
	ScreenQuiz:       "QUIZ",
	ScreenResults:    "RESULTS",
	ScreenReview:     "REVIEW",
	ScreenHistory:    "HISTORY",
}

func (s Screen) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Screen(%d)", int(s))
}

// ParseScreen maps a stored screen name back to a Screen.
func ParseScreen(name string) (Screen, error) {
	for s, n := range screenNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown screen %q", name)
}

// Persistent reports whether a session snapshot is kept while on s.
func (s Screen) Persistent() bool {
	return s == ScreenQuiz || s == ScreenResults || s == ScreenReview
}

func (s Screen) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Screen) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseScreen(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
