package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// ScheduleRun archives one planning result.
type ScheduleRun struct {
	ent.Schema
}

func (ScheduleRun) Mixin() []ent.Mixin {
	return []ent.Mixin{SequenceMixin{TimeField: "created_at"}}
}

func (ScheduleRun) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			Immutable(),
		field.String("profile_id"),
		field.String("start_date"),
		field.String("end_date"),
		field.Float("coverage"),
		field.Float("planned_hours"),
		field.Text("payload").
			Comment("schedule.Result as JSON"),
	}
}

func (ScheduleRun) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("profile_id"),
	}
}
