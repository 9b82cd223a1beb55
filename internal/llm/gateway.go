package llm

import (
	"context"
	"encoding/json"
	"strings"

	"go.uber.org/zap"

	"github.com/applyforge/applyforge-backend/internal/apperrors"
)

// jsonOnlyInstruction is appended to every structured-output prompt.
// Backends that wrap their answer in markdown fences anyway get the
// fences stripped before parsing.
const jsonOnlyInstruction = "\n\nRespond with valid JSON only. Do not wrap the output in markdown code blocks."

// Gateway routes generation requests across the registered backends.
// It holds no persistent state.
type Gateway struct {
	backends       []Backend
	defaultBackend string
	log            *zap.Logger
}

// NewGateway registers the backends in failover order. defaultBackend
// comes from configuration, read once at startup.
func NewGateway(defaultBackend string, log *zap.Logger, backends ...Backend) *Gateway {
	return &Gateway{
		backends:       backends,
		defaultBackend: defaultBackend,
		log:            log,
	}
}

// AvailableBackends lists the names of backends with usable credentials.
func (g *Gateway) AvailableBackends() []string {
	var names []string
	for _, b := range g.backends {
		if b.Available() {
			names = append(names, b.Name())
		}
	}
	return names
}

// GenerateText resolves a backend and produces free text. Transport
// failures are surfaced as-is; the gateway never retries the same
// backend and never fails over after the initial selection.
func (g *Gateway) GenerateText(ctx context.Context, req Request) (Result, error) {
	backend, substituted, err := g.pick(req.PreferredBackend)
	if err != nil {
		return Result{}, err
	}
	result, err := backend.Generate(ctx, req.Prompt, req.Options.withDefaults())
	if err != nil {
		return Result{}, err
	}
	g.log.Info("generation served",
		zap.String("backend", backend.Name()),
		zap.Bool("fallback", substituted),
		zap.Int("completion_tokens", result.CompletionTokens),
	)
	return result, nil
}

// GenerateStructured asks for schema-constrained output and parses it
// into T. Malformed JSON is reported as MalformedOutputError, never
// retried or swallowed. An optional schema hint is embedded verbatim in
// the prompt.
func GenerateStructured[T any](ctx context.Context, g *Gateway, req Request, schema string) (T, error) {
	var out T
	prompt := req.Prompt
	if schema != "" {
		prompt += "\n\n### OUTPUT SCHEMA:\n" + schema
	}
	prompt += jsonOnlyInstruction

	result, err := g.GenerateText(ctx, Request{
		Prompt:           prompt,
		Options:          req.Options,
		PreferredBackend: req.PreferredBackend,
	})
	if err != nil {
		return out, err
	}
	raw := stripFences(result.Text)
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return out, &apperrors.MalformedOutputError{Backend: result.Backend, Raw: result.Text, Err: err}
	}
	return out, nil
}

// pick resolves the serving backend: the explicit preference if given,
// else the configured default, else the first available backend in
// registration order. The bool reports whether a substitution happened.
func (g *Gateway) pick(preferred string) (Backend, bool, error) {
	candidate := preferred
	if candidate == "" {
		candidate = g.defaultBackend
	}

	for _, b := range g.backends {
		if b.Name() == candidate && b.Available() {
			return b, false, nil
		}
	}

	for _, b := range g.backends {
		if b.Name() == candidate || !b.Available() {
			continue
		}
		g.log.Warn("preferred backend unavailable, substituting",
			zap.String("preferred", candidate),
			zap.String("substitute", b.Name()),
		)
		return b, true, nil
	}

	return nil, false, apperrors.ErrNoBackendAvailable
}

// stripFences removes a ```json ... ``` wrapper when a model ignores
// the no-markdown instruction.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
