package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/schema/field"
)

// Profile holds a learner's friction and last-studied dates.
type Profile struct {
	ent.Schema
}

func (Profile) Fields() []ent.Field {
	return []ent.Field{
		field.String("id").
			NotEmpty().
			Immutable(),
		field.Float("overrun").
			Default(0),
		field.Float("quiz_error").
			Default(0),
		field.Float("revision_freq").
			Default(0),
		field.Text("history").
			Default("{}").
			Comment("JSON object of chapter ID to YYYY-MM-DD"),
		field.Int64("version").
			Comment("Optimistic concurrency guard, bumped on every write"),
		field.Time("updated_at"),
	}
}
