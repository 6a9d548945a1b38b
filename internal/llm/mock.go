package llm

import (
	"context"
	"encoding/json"
	"sync"
)

// MockResponse is one canned reply.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is a deterministic Provider for tests and the "mock"
// provider setting. Replies come from Respond when it is set, otherwise
// from the queue in FIFO order. An empty queue yields UnavailableError.
type MockProvider struct {
	// Respond, if non-nil, answers every request and bypasses the queue.
	Respond func(Request) MockResponse

	mu    sync.Mutex
	queue []MockResponse
	calls []Request
}

// NewMockProvider returns a mock that replays responses in order.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses}
}

func (m *MockProvider) ModelID() string { return "mock" }

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.calls = append(m.calls, req)
	var next MockResponse
	switch {
	case m.Respond != nil:
		m.mu.Unlock()
		next = m.Respond(req)
	case len(m.queue) == 0:
		m.mu.Unlock()
		return nil, &UnavailableError{}
	default:
		next = m.queue[0]
		m.queue = m.queue[1:]
		m.mu.Unlock()
	}

	if next.Err != nil {
		return nil, next.Err
	}
	return finish(req, &Response{
		Content:    next.Content,
		Usage:      next.Usage,
		Model:      "mock",
		StopReason: StopEnd,
	})
}

// Enqueue appends replies to the queue.
func (m *MockProvider) Enqueue(responses ...MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, responses...)
}

// Calls returns a copy of every request seen so far.
func (m *MockProvider) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Request(nil), m.calls...)
}
