package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"

	"github.com/abhisek/studyplan/internal/schedule"
)

// runRepo implements RunRepo. The full result is stored as JSON next to a
// few columns used for listing.
type runRepo struct {
	drv *entsql.Driver
	seq *sequenceCounter
}

func (r *runRepo) Save(ctx context.Context, run *ScheduleRun) error {
	if run.Result == nil {
		return fmt.Errorf("save schedule run: nil result")
	}
	payload, err := json.Marshal(run.Result)
	if err != nil {
		return fmt.Errorf("marshal schedule result: %w", err)
	}
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return err
	}

	id := run.ID
	if id == "" {
		id = uuid.NewString()
	}
	profileID := run.ProfileID
	if profileID == "" {
		profileID = DefaultProfileID
	}
	created := time.Now().UTC()
	start, end := run.StartDate, run.EndDate
	if days := run.Result.Days; len(days) > 0 {
		start, end = days[0].Date.String(), days[len(days)-1].Date.String()
	}
	sum := run.Result.Summary

	query, args := entsql.Dialect(dialect.SQLite).Insert(tableScheduleRuns).
		Columns("id", "sequence", "profile_id", "created_at", "start_date", "end_date", "coverage", "planned_hours", "payload").
		Values(id, seqNum, profileID, created, start, end, sum.Coverage, sum.PlannedHours, string(payload)).
		Query()
	if err := r.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save schedule run: %w", err)
	}

	run.ID = id
	run.Sequence = seqNum
	run.ProfileID = profileID
	run.CreatedAt = created
	run.StartDate, run.EndDate = start, end
	run.Coverage, run.PlannedHours = sum.Coverage, sum.PlannedHours
	return nil
}

func (r *runRepo) Get(ctx context.Context, id string) (*ScheduleRun, error) {
	b := entsql.Dialect(dialect.SQLite)
	query, args := b.Select("id", "sequence", "profile_id", "created_at", "start_date", "end_date", "coverage", "planned_hours", "payload").
		From(b.Table(tableScheduleRuns)).
		Where(entsql.EQ("id", id)).
		Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query schedule run: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("query schedule run: %w", err)
		}
		return nil, ErrNotFound
	}

	var run ScheduleRun
	var payload string
	if err := rows.Scan(&run.ID, &run.Sequence, &run.ProfileID, &run.CreatedAt, &run.StartDate, &run.EndDate, &run.Coverage, &run.PlannedHours, &payload); err != nil {
		return nil, fmt.Errorf("scan schedule run: %w", err)
	}
	run.Result = &schedule.Result{}
	if err := json.Unmarshal([]byte(payload), run.Result); err != nil {
		return nil, fmt.Errorf("decode schedule run %s: %w", id, err)
	}
	return &run, nil
}

func (r *runRepo) List(ctx context.Context, profileID string, limit int) ([]ScheduleRun, error) {
	b := entsql.Dialect(dialect.SQLite)
	sel := b.Select("id", "sequence", "profile_id", "created_at", "start_date", "end_date", "coverage", "planned_hours").
		From(b.Table(tableScheduleRuns)).
		Where(entsql.EQ("profile_id", profileID)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel.Limit(limit)
	}
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("list schedule runs: %w", err)
	}
	defer rows.Close()

	var out []ScheduleRun
	for rows.Next() {
		var run ScheduleRun
		if err := rows.Scan(&run.ID, &run.Sequence, &run.ProfileID, &run.CreatedAt, &run.StartDate, &run.EndDate, &run.Coverage, &run.PlannedHours); err != nil {
			return nil, fmt.Errorf("scan schedule run: %w", err)
		}
		out = append(out, run)
	}
	return out, rows.Err()
}
