package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/studyplan/internal/store"
)

// RecordingProvider appends one store event per call and logs it.
// Failures to record never fail the call.
type RecordingProvider struct {
	inner    Provider
	provider string
	events   store.EventRepo
	logger   *zap.Logger
	now      func() time.Time
}

// WithRecording wraps p. events may be nil, in which case calls are only
// logged.
func WithRecording(p Provider, providerName string, events store.EventRepo, logger *zap.Logger) *RecordingProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordingProvider{inner: p, provider: providerName, events: events, logger: logger, now: time.Now}
}

func (r *RecordingProvider) ModelID() string { return r.inner.ModelID() }

func (r *RecordingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := r.now()
	resp, err := r.inner.Generate(ctx, req)

	ev := store.LLMRequestEventData{
		Provider:  r.provider,
		Model:     r.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: r.now().Sub(start).Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		if resp.Model != "" {
			ev.Model = resp.Model
		}
		ev.InputTokens = resp.Usage.InputTokens
		ev.OutputTokens = resp.Usage.OutputTokens
		if price, ok := PriceOf(ev.Model); ok {
			ev.CostUSD = price.Cost(resp.Usage)
		}
	}
	if err != nil {
		ev.ErrorMessage = err.Error()
	}

	fields := []zap.Field{
		zap.String("provider", ev.Provider),
		zap.String("model", ev.Model),
		zap.String("purpose", ev.Purpose),
		zap.Int64("latency_ms", ev.LatencyMs),
		zap.Int("input_tokens", ev.InputTokens),
		zap.Int("output_tokens", ev.OutputTokens),
	}
	if err != nil {
		r.logger.Warn("LLM request failed", append(fields, zap.Error(err))...)
	} else {
		r.logger.Debug("LLM request", fields...)
	}

	if r.events != nil {
		// Record even if the caller's context was cancelled.
		if recErr := r.events.AppendLLMRequest(context.WithoutCancel(ctx), ev); recErr != nil {
			r.logger.Warn("failed to record LLM request event", zap.Error(recErr))
		}
	}
	return resp, err
}
