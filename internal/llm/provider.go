package llm

import "context"

// Provider is the core abstraction for LLM interaction.
type Provider interface {
	// Generate sends a prompt to the LLM and returns its textual output.
	// The request's Schema field, when set, instructs the provider to use
	// its native structured output mechanism; callers still parse and
	// validate the returned text themselves.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system instruction.
	System string

	// Parts is the single user turn, in order. Text parts come first by
	// convention, followed by binary attachments.
	Parts []Part

	// Schema is the JSON Schema the response should conform to.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	// Zero leaves the provider default.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	Temperature float64
}

// Part is one piece of user content: either text or inline binary data.
type Part struct {
	Text string

	// Data and MIMEType describe an inline attachment. Text is ignored
	// when Data is set.
	Data     []byte
	MIMEType string
}

// TextPart returns a text content part.
func TextPart(s string) Part {
	return Part{Text: s}
}

// BlobPart returns an inline binary content part.
func BlobPart(data []byte, mimeType string) Part {
	return Part{Data: data, MIMEType: mimeType}
}

// IsBlob reports whether p carries binary data.
func (p Part) IsBlob() bool {
	return len(p.Data) > 0
}

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema (schema name for OpenAI, cache key for
	// validation). Kebab-case, e.g. "quiz-content".
	Name string

	// Description is sent to the LLM to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Text is the raw textual payload.
	Text string

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
