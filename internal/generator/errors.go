package generator

import (
	"errors"
	"strings"
)

// ErrNoCredentials is returned when Generate is called with no API keys.
var ErrNoCredentials = errors.New("no API keys found; add a key in settings or configure the system environment")

// User-facing messages for a call that succeeded but produced nothing usable.
const (
	MsgUnprocessable = "The AI response could not be processed. Please try simplifying your content."
	MsgNoQuestions   = "The AI failed to generate valid questions. Please try different content."
)

// GenerationFailedError means a credential produced a response that could
// not be turned into a quiz. It is terminal: no other credential is tried.
type GenerationFailedError struct {
	Message string
	Err     error
}

func (e *GenerationFailedError) Error() string {
	return e.Message
}

func (e *GenerationFailedError) Unwrap() error { return e.Err }

// CredentialsExhaustedError means every credential that was tried failed.
// Logs holds one "Key <n> Failure: <msg>" line per attempt, in order.
type CredentialsExhaustedError struct {
	Logs []string
}

func (e *CredentialsExhaustedError) Error() string {
	return "all credentials failed:\n" + e.Report()
}

// Report returns the aggregated per-credential log.
func (e *CredentialsExhaustedError) Report() string {
	return strings.Join(e.Logs, "\n")
}
