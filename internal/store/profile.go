package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"go.uber.org/zap"

	"github.com/abhisek/studyplan/internal/friction"
)

// profileRepo implements ProfileRepo with a version column used as a
// compare-and-swap guard.
type profileRepo struct {
	drv    *entsql.Driver
	logger *zap.Logger
	now    func() time.Time
}

func (r *profileRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now().UTC()
}

func (r *profileRepo) Get(ctx context.Context, id string) (*Profile, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select("overrun", "quiz_error", "revision_freq", "history", "version", "updated_at").
		From(b.Table(tableProfiles)).
		Where(entsql.EQ("id", id)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query profile: %w", err)
	}
	defer rows.Close()

	p := &Profile{ID: id, History: map[string]string{}}
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query profile: %w", err)
		}
		return p, nil
	}

	var history string
	if err := rows.Scan(&p.Friction.Overrun, &p.Friction.QuizError, &p.Friction.RevisionFreq, &history, &p.Version, &p.UpdatedAt); err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	if err := json.Unmarshal([]byte(history), &p.History); err != nil {
		// A corrupt history only loses spacing hints.
		r.logger.Warn("discarding unreadable profile history", zap.String("profile_id", id), zap.Error(err))
		p.History = map[string]string{}
	}
	return p, nil
}

func (r *profileRepo) Save(ctx context.Context, p *Profile) error {
	if p.ID == "" {
		return fmt.Errorf("save profile: empty id")
	}
	f := p.Friction.Normalized()
	history := p.History
	if history == nil {
		history = map[string]string{}
	}
	raw, err := json.Marshal(history)
	if err != nil {
		return fmt.Errorf("marshal history: %w", err)
	}
	now := r.clock()

	b := entsql.Dialect(dialect.SQLite)
	var query string
	var args []any
	if p.Version == 0 {
		query, args = b.Insert(tableProfiles).
			Columns("id", "overrun", "quiz_error", "revision_freq", "history", "version", "updated_at").
			Values(p.ID, f.Overrun, f.QuizError, f.RevisionFreq, string(raw), int64(1), now).
			OnConflict(entsql.ConflictColumns("id"), entsql.DoNothing()).
			Query()
	} else {
		query, args = b.Update(tableProfiles).
			Set("overrun", f.Overrun).
			Set("quiz_error", f.QuizError).
			Set("revision_freq", f.RevisionFreq).
			Set("history", string(raw)).
			Set("updated_at", now).
			Add("version", 1).
			Where(entsql.And(entsql.EQ("id", p.ID), entsql.EQ("version", p.Version))).
			Query()
	}

	var res entsql.Result
	if err := r.drv.Exec(ctx, query, args, &res); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	if n == 0 {
		return ErrStaleProfile
	}

	p.Friction = f
	p.History = history
	p.Version++
	p.UpdatedAt = now
	return nil
}

// ApplyOutcomes loads a profile, folds outcomes into its friction, merges
// history and saves it, retrying when a concurrent writer wins the race.
func ApplyOutcomes(ctx context.Context, repo ProfileRepo, id string, outcomes []friction.Outcome, history map[string]string) (*Profile, error) {
	const attempts = 3
	for i := 0; i < attempts; i++ {
		p, err := repo.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		p.Friction = friction.Update(p.Friction, outcomes)
		for k, v := range history {
			p.History[k] = v
		}
		err = repo.Save(ctx, p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrStaleProfile) {
			return nil, err
		}
	}
	return nil, ErrStaleProfile
}
