package store

import (
	"context"
	"errors"
	"time"

	"github.com/abhisek/studyplan/internal/friction"
	"github.com/abhisek/studyplan/internal/schedule"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrStaleProfile is returned by ProfileRepo.Save when the profile was
	// written by someone else since it was read.
	ErrStaleProfile = errors.New("store: profile was modified since it was read")
)

// DefaultProfileID names the profile used when the caller does not pick one.
const DefaultProfileID = "default"

// Profile is the learner state that survives between planning runs.
type Profile struct {
	ID       string            `json:"id"`
	Friction friction.Profile  `json:"friction"`
	History  map[string]string `json:"history"`
	// Version is bumped on every save. Zero means never saved.
	Version   int64     `json:"version"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ProfileRepo persists profiles with optimistic concurrency control.
type ProfileRepo interface {
	// Get returns the profile with the given ID, or a fresh zero-version
	// profile if none has been saved.
	Get(ctx context.Context, id string) (*Profile, error)

	// Save writes p if its Version still matches the stored one and bumps
	// p.Version on success. It returns ErrStaleProfile otherwise.
	Save(ctx context.Context, p *Profile) error
}

// ScheduleRun is an archived planning result.
type ScheduleRun struct {
	ID           string
	Sequence     int64
	ProfileID    string
	CreatedAt    time.Time
	StartDate    string
	EndDate      string
	Coverage     float64
	PlannedHours float64
	Result       *schedule.Result
}

// RunRepo archives schedule runs.
type RunRepo interface {
	// Save stores run, assigning its ID, sequence and timestamp.
	Save(ctx context.Context, run *ScheduleRun) error

	// Get returns a run by ID or ErrNotFound.
	Get(ctx context.Context, id string) (*ScheduleRun, error)

	// List returns up to limit runs for a profile, newest first. The
	// Result payload is not loaded.
	List(ctx context.Context, profileID string, limit int) ([]ScheduleRun, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	CostUSD      float64
}

// LLMUsage aggregates LLM request events for one model.
type LLMUsage struct {
	Model        string  `json:"model"`
	Calls        int     `json:"calls"`
	Failures     int     `json:"failures"`
	InputTokens  int64   `json:"input_tokens"`
	OutputTokens int64   `json:"output_tokens"`
	CostUSD      float64 `json:"cost_usd"`
}

// EventRepo provides append and summary access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// LLMUsage returns per-model totals ordered by model.
	LLMUsage(ctx context.Context) ([]LLMUsage, error)
}
