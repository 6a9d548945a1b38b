package store

import (
	"context"

	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table names.
const (
	tableProfiles     = "profiles"
	tableScheduleRuns = "schedule_runs"
	tableLLMEvents    = "llm_request_events"
)

var (
	profilesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "overrun", Type: field.TypeFloat64, Default: 0},
		{Name: "quiz_error", Type: field.TypeFloat64, Default: 0},
		{Name: "revision_freq", Type: field.TypeFloat64, Default: 0},
		{Name: "history", Type: field.TypeString, Size: 2147483647, Default: "{}"},
		{Name: "version", Type: field.TypeInt64},
		{Name: "updated_at", Type: field.TypeTime},
	}
	profilesTable = &schema.Table{
		Name:       tableProfiles,
		Columns:    profilesColumns,
		PrimaryKey: []*schema.Column{profilesColumns[0]},
	}

	scheduleRunsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "profile_id", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "start_date", Type: field.TypeString},
		{Name: "end_date", Type: field.TypeString},
		{Name: "coverage", Type: field.TypeFloat64},
		{Name: "planned_hours", Type: field.TypeFloat64},
		{Name: "payload", Type: field.TypeString, Size: 2147483647},
	}
	scheduleRunsTable = &schema.Table{
		Name:       tableScheduleRuns,
		Columns:    scheduleRunsColumns,
		PrimaryKey: []*schema.Column{scheduleRunsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "schedulerun_profile_id", Columns: []*schema.Column{scheduleRunsColumns[2]}},
		},
	}

	llmEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "cost_usd", Type: field.TypeFloat64, Default: 0},
	}
	llmEventsTable = &schema.Table{
		Name:       tableLLMEvents,
		Columns:    llmEventsColumns,
		PrimaryKey: []*schema.Column{llmEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_model", Columns: []*schema.Column{llmEventsColumns[4]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{llmEventsColumns[5]}},
		},
	}

	tables = []*schema.Table{profilesTable, scheduleRunsTable, llmEventsTable}
)

// migrate creates or upgrades the tables above.
func migrate(ctx context.Context, drv *entsql.Driver) error {
	m, err := schema.NewMigrate(drv)
	if err != nil {
		return err
	}
	return m.Create(ctx, tables...)
}
