package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func fastRetry() RetryConfig {
	return RetryConfig{MaxAttempts: 3, InitialWait: time.Millisecond, MaxWait: 5 * time.Millisecond, Multiplier: 2}
}

var okReply = MockResponse{Content: json.RawMessage(`{"commentary":"ok","warning":""}`)}

func TestRetry(t *testing.T) {
	down := MockResponse{Err: &UnavailableError{Err: errors.New("down")}}
	invalid := MockResponse{Err: &InvalidResponseError{Err: errors.New("bad json")}}

	tests := []struct {
		name      string
		replies   []MockResponse
		wantErr   bool
		wantCalls int
	}{
		{"first attempt", []MockResponse{okReply}, false, 1},
		{"transient then ok", []MockResponse{down, okReply}, false, 2},
		{"gives up after max attempts", []MockResponse{down, down, down, okReply}, true, 3},
		{"rate limit honours retry-after", []MockResponse{{Err: &RateLimitError{RetryAfter: time.Millisecond}}, okReply}, false, 2},
		{"invalid retried once", []MockResponse{invalid, invalid, okReply}, true, 2},
		{"truncation not retried", []MockResponse{{Err: &TruncatedError{}}, okReply}, true, 1},
		{"unknown errors not retried", []MockResponse{{Err: errors.New("bad request")}, okReply}, true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := NewMockProvider(tt.replies...)
			_, err := WithRetry(mock, fastRetry(), nil).Generate(context.Background(), Request{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if n := len(mock.Calls()); n != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", n, tt.wantCalls)
			}
		})
	}
}

func TestRetry_StopsOnCancel(t *testing.T) {
	mock := NewMockProvider(MockResponse{Err: &UnavailableError{}}, okReply)
	cfg := fastRetry()
	cfg.InitialWait = time.Hour
	cfg.MaxWait = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := WithRetry(mock, cfg, nil).Generate(ctx, Request{})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
	if n := len(mock.Calls()); n != 1 {
		t.Fatalf("calls = %d, want 1", n)
	}
}

func TestRetry_WaitIsCapped(t *testing.T) {
	r := WithRetry(NewMockProvider(), RetryConfig{MaxAttempts: 5, InitialWait: time.Second, MaxWait: 2 * time.Second, Multiplier: 10}, nil)
	for attempt := 0; attempt < 4; attempt++ {
		d := r.wait(attempt, &UnavailableError{})
		if d > 2400*time.Millisecond {
			t.Fatalf("attempt %d waited %s, above cap plus jitter", attempt, d)
		}
	}
	if d := r.wait(0, &RateLimitError{RetryAfter: 7 * time.Second}); d != 7*time.Second {
		t.Fatalf("retry-after ignored: %s", d)
	}
}
