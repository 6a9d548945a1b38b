// Package narration decorates a computed schedule with short AI-written
// commentary per day. It never changes slots or hours, and any failure
// degrades to "no commentary" for the affected day.
package narration

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/studyplan/internal/llm"
	"github.com/abhisek/studyplan/internal/schedule"
)

// Config tunes narration requests.
type Config struct {
	// Concurrency caps in-flight provider calls.
	Concurrency int `mapstructure:"concurrency"`
	// MaxDays limits narration to the first N days; 0 means all.
	MaxDays     int     `mapstructure:"max_days"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

// DefaultConfig returns the defaults.
func DefaultConfig() Config {
	return Config{Concurrency: 4, MaxDays: 14, MaxTokens: 300, Temperature: 0.3}
}

// Report counts what happened during one Narrate call.
type Report struct {
	Narrated int
	Failed   int
	Skipped  int
}

// Service narrates schedules.
type Service struct {
	provider llm.Provider
	cfg      Config
	logger   *zap.Logger
}

// NewService creates a narration service.
func NewService(provider llm.Provider, cfg Config, logger *zap.Logger) *Service {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, cfg: cfg, logger: logger.Named("narration")}
}

type note struct {
	Commentary string `json:"commentary"`
	Warning    string `json:"warning"`
}

// Narrate fills Commentary on res.Days, and Warning where the planner left
// none. Results are applied only after every request has finished, so a
// cancelled context leaves untouched days exactly as they were.
func (s *Service) Narrate(ctx context.Context, res *schedule.Result) Report {
	var rep Report
	if res == nil || len(res.Days) == 0 {
		return rep
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeNarration)

	n := len(res.Days)
	if s.cfg.MaxDays > 0 && n > s.cfg.MaxDays {
		rep.Skipped = n - s.cfg.MaxDays
		n = s.cfg.MaxDays
	}

	notes := make([]*note, n)
	var g errgroup.Group
	g.SetLimit(s.cfg.Concurrency)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		day := res.Days[i]
		g.Go(func() error {
			nt, err := s.narrateDay(ctx, day, res.Summary, i, len(res.Days))
			if err != nil {
				s.logger.Warn("day narration failed", zap.Stringer("date", day.Date), zap.Error(err))
				return nil
			}
			notes[i] = nt
			return nil
		})
	}
	_ = g.Wait()

	for i, nt := range notes {
		if nt == nil {
			rep.Failed++
			continue
		}
		rep.Narrated++
		res.Days[i].Commentary = nt.Commentary
		if res.Days[i].Warning == "" {
			res.Days[i].Warning = nt.Warning
		}
	}
	s.logger.Debug("narration finished",
		zap.Int("narrated", rep.Narrated), zap.Int("failed", rep.Failed), zap.Int("skipped", rep.Skipped))
	return rep
}

func (s *Service) narrateDay(ctx context.Context, day schedule.Day, sum schedule.Summary, index, total int) (*note, error) {
	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt,
		Prompt:      dayPrompt(day, sum, index, total),
		Schema:      DaySchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, err
	}
	var nt note
	if err := json.Unmarshal(resp.Content, &nt); err != nil {
		return nil, fmt.Errorf("parse narration: %w", err)
	}
	nt.Commentary = strings.TrimSpace(nt.Commentary)
	nt.Warning = strings.TrimSpace(nt.Warning)
	return &nt, nil
}
