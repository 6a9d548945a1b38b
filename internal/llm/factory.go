package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/studyplan/internal/store"
)

// New builds the provider named by cfg and wraps it so that each attempt
// is recorded and transient failures are retried:
// caller → timeout → retry → recording → SDK.
func New(ctx context.Context, cfg Config, events store.EventRepo, logger *zap.Logger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var base Provider
	var err error
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(cfg)
	case ProviderOpenAI, ProviderOpenRouter:
		base, err = NewOpenAIProvider(cfg)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, cfg)
	case ProviderMock:
		base = NewMockProvider()
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	recorded := WithRecording(base, cfg.Provider, events, logger)
	retried := WithRetry(recorded, cfg.Retry, logger)
	if cfg.Timeout <= 0 {
		return retried, nil
	}
	return &timeoutProvider{inner: retried, timeout: cfg.Timeout}, nil
}

// timeoutProvider bounds each Generate call.
type timeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

func (t *timeoutProvider) ModelID() string { return t.inner.ModelID() }

func (t *timeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()
	return t.inner.Generate(ctx, req)
}
