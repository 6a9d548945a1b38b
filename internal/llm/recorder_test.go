package llm

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/studyplan/internal/store"
)

type fakeEvents struct {
	mu     sync.Mutex
	events []store.LLMRequestEventData
	err    error
}

func (f *fakeEvents) AppendLLMRequest(_ context.Context, ev store.LLMRequestEventData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

func (f *fakeEvents) LLMUsage(context.Context) ([]store.LLMUsage, error) { return nil, nil }

// namedMock reports a priced model so cost can be checked.
type namedMock struct {
	*MockProvider
	model string
}

func (n namedMock) ModelID() string { return n.model }

func (n namedMock) Generate(ctx context.Context, req Request) (*Response, error) {
	resp, err := n.MockProvider.Generate(ctx, req)
	if resp != nil {
		resp.Model = n.model
	}
	return resp, err
}

func TestRecordingProvider_Success(t *testing.T) {
	events := &fakeEvents{}
	inner := namedMock{
		MockProvider: NewMockProvider(MockResponse{Content: okReply.Content, Usage: Usage{InputTokens: 1000, OutputTokens: 200}}),
		model:        "claude-haiku-4-5-20251001",
	}
	p := WithRecording(inner, ProviderAnthropic, events, nil)
	tick := time.Date(2025, 1, 6, 9, 0, 0, 0, time.UTC)
	p.now = func() time.Time { tick = tick.Add(150 * time.Millisecond); return tick }

	if _, err := p.Generate(WithPurpose(context.Background(), PurposeNarration), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(events.events) != 1 {
		t.Fatalf("events = %d, want 1", len(events.events))
	}
	ev := events.events[0]
	if ev.Provider != ProviderAnthropic || ev.Purpose != PurposeNarration || !ev.Success {
		t.Fatalf("unexpected event: %+v", ev)
	}
	if ev.LatencyMs != 150 {
		t.Fatalf("latency = %d, want 150", ev.LatencyMs)
	}
	// 1000 in at $1/M + 200 out at $5/M.
	if want := 0.002; ev.CostUSD < want-1e-12 || ev.CostUSD > want+1e-12 {
		t.Fatalf("cost = %v, want %v", ev.CostUSD, want)
	}
}

func TestRecordingProvider_FailureIsRecordedAndLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	events := &fakeEvents{err: errors.New("disk full")}
	p := WithRecording(NewMockProvider(), ProviderMock, events, zap.New(core))

	_, err := p.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty mock")
	}
	if len(events.events) != 1 || events.events[0].Success || events.events[0].ErrorMessage == "" {
		t.Fatalf("unexpected events: %+v", events.events)
	}
	if events.events[0].Purpose != "unknown" {
		t.Fatalf("purpose = %q", events.events[0].Purpose)
	}
	if logs.FilterMessage("LLM request failed").Len() != 1 {
		t.Fatal("expected failed request to be logged")
	}
	if logs.FilterMessage("failed to record LLM request event").Len() != 1 {
		t.Fatal("expected recorder failure to be logged")
	}
}

func TestRecordingProvider_NilEvents(t *testing.T) {
	p := WithRecording(NewMockProvider(okReply), ProviderMock, nil, nil)
	if _, err := p.Generate(context.Background(), Request{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
