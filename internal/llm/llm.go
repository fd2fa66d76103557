// Package llm provides a provider-agnostic completion interface and the
// backends promptlab can send prompts to.
package llm

import "context"

// Provider abstracts an LLM API behind a single synchronous completion method.
type Provider interface {
	// Complete sends a prompt to the LLM and returns the response.
	// Implementations must respect context cancellation and deadlines.
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Request describes a single completion request.
type Request struct {
	// Prompt is the user message to send, verbatim.
	Prompt string

	// Model overrides the provider's default model. If empty, the provider
	// uses its configured default.
	Model string

	// MaxTokens limits the response length. If zero, the provider uses its
	// own default.
	MaxTokens int

	// Temperature controls randomness. If nil, the provider uses its default.
	Temperature *float64
}

// Response holds the result of a completion call.
type Response struct {
	// Content is the text returned by the model. Only meaningful when
	// HasContent is true; an empty Content with HasContent set is a real,
	// empty completion.
	Content string

	// HasContent reports whether the backend response carried a text field.
	HasContent bool

	// Raw is a string rendering of the backend response, kept for the case
	// where no text field was present.
	Raw string

	// Model is the model that actually served the request.
	Model string

	// Usage is nil when the backend did not report token usage.
	Usage *Usage
}

// Text returns the generated text, falling back to the raw response when
// the backend returned no text field.
func (r *Response) Text() string {
	if r.HasContent {
		return r.Content
	}
	return r.Raw
}

// Usage tracks token counts for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Float returns a pointer to v, for use in Request.Temperature.
func Float(v float64) *float64 { return &v }
