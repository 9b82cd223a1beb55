// Package llm is the generation gateway: it routes a prompt to one of
// several interchangeable text-generation backends, probes availability
// and fails over to the next configured backend when the preferred one
// has no usable credential.
package llm

import "context"

// Backend names, in registration order.
const (
	BackendGemini    = "gemini"
	BackendOpenAI    = "openai"
	BackendAnthropic = "anthropic"
)

const (
	defaultTemperature = 0.7
	defaultMaxTokens   = 1000
)

// Backend is one interchangeable text-generation provider.
type Backend interface {
	Name() string

	// Available reports whether the backend has a usable credential.
	Available() bool

	// Generate produces free text for the prompt.
	Generate(ctx context.Context, prompt string, opts Options) (Result, error)
}

// Options are the per-call generation parameters.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// withDefaults fills the documented defaults for zero values.
func (o Options) withDefaults() Options {
	if o.Temperature == 0 {
		o.Temperature = defaultTemperature
	}
	if o.MaxTokens == 0 {
		o.MaxTokens = defaultMaxTokens
	}
	return o
}

// Request is the ephemeral input value object of a gateway call.
type Request struct {
	Prompt           string
	Options          Options
	PreferredBackend string
}

// Result is the ephemeral output value object of a gateway call.
type Result struct {
	Text             string
	Backend          string
	PromptTokens     int
	CompletionTokens int
}
