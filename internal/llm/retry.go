package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

// RetryProvider retries transient failures with capped exponential backoff
// and ±20% jitter. An invalid response is retried once; everything
// IsPermanent reports is returned immediately.
type RetryProvider struct {
	inner  Provider
	cfg    RetryConfig
	logger *zap.Logger
}

// WithRetry wraps p. A nil logger disables retry logging.
func WithRetry(p Provider, cfg RetryConfig, logger *zap.Logger) *RetryProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, cfg: cfg, logger: logger}
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	var err error
	retriedInvalid := false
	for attempt := 0; attempt < r.cfg.MaxAttempts; attempt++ {
		var resp *Response
		resp, err = r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if ctx.Err() != nil || IsPermanent(err) {
			return nil, err
		}
		var inv *InvalidResponseError
		if errors.As(err, &inv) {
			if retriedInvalid {
				return nil, err
			}
			retriedInvalid = true
		}
		if attempt == r.cfg.MaxAttempts-1 {
			break
		}

		wait := r.wait(attempt, err)
		r.logger.Debug("retrying LLM request",
			zap.String("model", r.inner.ModelID()),
			zap.Int("attempt", attempt+1),
			zap.Duration("wait", wait),
			zap.Error(err))

		t := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}
	return nil, err
}

func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var rl *RateLimitError
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	d := float64(r.cfg.InitialWait) * math.Pow(r.cfg.Multiplier, float64(attempt))
	d = math.Min(d, float64(r.cfg.MaxWait))
	d *= 1 + 0.2*(2*rand.Float64()-1)
	return time.Duration(math.Max(d, 0))
}
