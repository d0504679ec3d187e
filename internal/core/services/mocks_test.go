package services

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/custodia-labs/scholia-cli/internal/core/ports/driven"
)

// mockEmbedder embeds text as term counts over a fixed vocabulary, so
// similarity behaves intuitively: texts sharing more vocabulary terms
// land closer together.
type mockEmbedder struct {
	vocab  []string
	calls  int
	failOn error
}

var _ driven.EmbeddingService = (*mockEmbedder)(nil)

func newMockEmbedder(vocab ...string) *mockEmbedder {
	if len(vocab) == 0 {
		vocab = []string{"transformer", "attention", "kernel", "scheduler", "memory", "protein"}
	}
	return &mockEmbedder{vocab: vocab}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	if m.failOn != nil {
		return nil, m.failOn
	}
	lower := strings.ToLower(text)
	vec := make([]float32, len(m.vocab))
	for i, term := range m.vocab {
		vec[i] = float32(strings.Count(lower, term))
	}
	return vec, nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		vec, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = vec
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int            { return len(m.vocab) }
func (m *mockEmbedder) ModelName() string          { return "mock-embedder" }
func (m *mockEmbedder) Ping(context.Context) error { return nil }
func (m *mockEmbedder) Close() error               { return nil }

// mockLLM returns scripted responses. Generate and Chat share the
// response queue; when the queue runs dry the fallback is returned.
// Safe for concurrent use.
type mockLLM struct {
	mu        sync.Mutex
	responses []string
	fallback  string
	err       error

	// chatFn, when set, overrides the queue for Chat calls.
	chatFn func(messages []driven.ChatMessage) (string, error)

	generateCalls []string
	chatCalls     [][]driven.ChatMessage
}

var _ driven.LLMService = (*mockLLM)(nil)

func (m *mockLLM) next() string {
	if len(m.responses) == 0 {
		return m.fallback
	}
	r := m.responses[0]
	m.responses = m.responses[1:]
	return r
}

func (m *mockLLM) Generate(_ context.Context, prompt string, _ driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.generateCalls = append(m.generateCalls, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.next(), nil
}

func (m *mockLLM) Chat(_ context.Context, messages []driven.ChatMessage, _ driven.ChatOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chatCalls = append(m.chatCalls, messages)
	if m.chatFn != nil {
		return m.chatFn(messages)
	}
	if m.err != nil {
		return "", m.err
	}
	return m.next(), nil
}

func (m *mockLLM) ModelName() string          { return "mock-llm" }
func (m *mockLLM) Ping(context.Context) error { return nil }
func (m *mockLLM) Close() error               { return nil }

var errMockFailure = errors.New("mock failure")
