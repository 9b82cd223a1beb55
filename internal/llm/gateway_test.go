package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/applyforge/applyforge-backend/internal/apperrors"
)

// stubBackend records the last call so tests can inspect prompts and
// options.
type stubBackend struct {
	name      string
	available bool
	response  string
	err       error

	calls      int
	lastPrompt string
	lastOpts   Options
}

func (b *stubBackend) Name() string    { return b.name }
func (b *stubBackend) Available() bool { return b.available }

func (b *stubBackend) Generate(_ context.Context, prompt string, opts Options) (Result, error) {
	b.calls++
	b.lastPrompt = prompt
	b.lastOpts = opts
	if b.err != nil {
		return Result{}, b.err
	}
	return Result{Text: b.response, Backend: b.name}, nil
}

func newTestGateway(defaultBackend string, backends ...Backend) *Gateway {
	return NewGateway(defaultBackend, zap.NewNop(), backends...)
}

func TestGenerateText_UsesDefaultBackend(t *testing.T) {
	gemini := &stubBackend{name: BackendGemini, available: true, response: "hello"}
	openAI := &stubBackend{name: BackendOpenAI, available: true, response: "nope"}
	g := newTestGateway(BackendGemini, gemini, openAI)

	res, err := g.GenerateText(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello", res.Text)
	assert.Equal(t, BackendGemini, res.Backend)
	assert.Equal(t, 0, openAI.calls)
}

func TestGenerateText_PreferredBackendOverridesDefault(t *testing.T) {
	gemini := &stubBackend{name: BackendGemini, available: true, response: "from gemini"}
	anthropic := &stubBackend{name: BackendAnthropic, available: true, response: "from anthropic"}
	g := newTestGateway(BackendGemini, gemini, anthropic)

	res, err := g.GenerateText(context.Background(), Request{Prompt: "hi", PreferredBackend: BackendAnthropic})
	require.NoError(t, err)
	assert.Equal(t, BackendAnthropic, res.Backend)
	assert.Equal(t, 0, gemini.calls)
}

func TestGenerateText_FailsOverToNextConfigured(t *testing.T) {
	gemini := &stubBackend{name: BackendGemini, available: false}
	openAI := &stubBackend{name: BackendOpenAI, available: true, response: "substitute"}
	g := newTestGateway(BackendGemini, gemini, openAI)

	res, err := g.GenerateText(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)

	// The substitution must be visible to the caller.
	assert.Equal(t, BackendOpenAI, res.Backend)
	assert.Equal(t, "substitute", res.Text)
	assert.Equal(t, 0, gemini.calls)
}

func TestGenerateText_NoBackendAvailable(t *testing.T) {
	g := newTestGateway(BackendGemini,
		&stubBackend{name: BackendGemini},
		&stubBackend{name: BackendOpenAI},
	)

	_, err := g.GenerateText(context.Background(), Request{Prompt: "hi"})
	assert.ErrorIs(t, err, apperrors.ErrNoBackendAvailable)
}

func TestGenerateText_TransportErrorNotRetriedElsewhere(t *testing.T) {
	boom := errors.New("connection reset")
	gemini := &stubBackend{name: BackendGemini, available: true, err: boom}
	openAI := &stubBackend{name: BackendOpenAI, available: true, response: "should not run"}
	g := newTestGateway(BackendGemini, gemini, openAI)

	_, err := g.GenerateText(context.Background(), Request{Prompt: "hi"})
	assert.ErrorIs(t, err, boom)
	// Failover happens at selection time only, never mid-call.
	assert.Equal(t, 0, openAI.calls)
}

func TestGenerateText_DefaultsTemperatureAndMaxTokens(t *testing.T) {
	b := &stubBackend{name: BackendGemini, available: true, response: "ok"}
	g := newTestGateway(BackendGemini, b)

	_, err := g.GenerateText(context.Background(), Request{Prompt: "hi"})
	require.NoError(t, err)
	assert.InDelta(t, 0.7, b.lastOpts.Temperature, 1e-9)
	assert.Equal(t, 1000, b.lastOpts.MaxTokens)
}

func TestGenerateText_ExplicitOptionsKept(t *testing.T) {
	b := &stubBackend{name: BackendGemini, available: true, response: "ok"}
	g := newTestGateway(BackendGemini, b)

	_, err := g.GenerateText(context.Background(), Request{
		Prompt:  "hi",
		Options: Options{Temperature: 0.2, MaxTokens: 64},
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.2, b.lastOpts.Temperature, 1e-9)
	assert.Equal(t, 64, b.lastOpts.MaxTokens)
}

func TestAvailableBackends(t *testing.T) {
	g := newTestGateway(BackendGemini,
		&stubBackend{name: BackendGemini, available: true},
		&stubBackend{name: BackendOpenAI},
		&stubBackend{name: BackendAnthropic, available: true},
	)
	assert.Equal(t, []string{BackendGemini, BackendAnthropic}, g.AvailableBackends())
}

func TestGenerateStructured_ParsesJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	b := &stubBackend{name: BackendGemini, available: true, response: `{"name": "Backend Dev"}`}
	g := newTestGateway(BackendGemini, b)

	out, err := GenerateStructured[payload](context.Background(), g, Request{Prompt: "name it"}, `{"name": "string"}`)
	require.NoError(t, err)
	assert.Equal(t, "Backend Dev", out.Name)

	assert.Contains(t, b.lastPrompt, "Respond with valid JSON only")
	assert.Contains(t, b.lastPrompt, `{"name": "string"}`)
}

func TestGenerateStructured_StripsMarkdownFences(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	b := &stubBackend{name: BackendGemini, available: true, response: "```json\n{\"name\": \"Fenced\"}\n```"}
	g := newTestGateway(BackendGemini, b)

	out, err := GenerateStructured[payload](context.Background(), g, Request{Prompt: "name it"}, "")
	require.NoError(t, err)
	assert.Equal(t, "Fenced", out.Name)
}

func TestGenerateStructured_MalformedOutput(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}
	b := &stubBackend{name: BackendGemini, available: true, response: "sorry, I cannot do JSON"}
	g := newTestGateway(BackendGemini, b)

	_, err := GenerateStructured[payload](context.Background(), g, Request{Prompt: "name it"}, "")
	var malformed *apperrors.MalformedOutputError
	require.ErrorAs(t, err, &malformed)
	assert.Equal(t, BackendGemini, malformed.Backend)
	assert.Equal(t, "sorry, I cannot do JSON", malformed.Raw)
}
