package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
	"entgo.io/ent/schema/mixin"
)

// SequenceMixin gives a row a slot in the global sequence and a UTC
// creation time.
type SequenceMixin struct {
	mixin.Schema

	// TimeField names the timestamp column.
	TimeField string
}

func (m SequenceMixin) timeField() string {
	if m.TimeField == "" {
		return "timestamp"
	}
	return m.TimeField
}

func (m SequenceMixin) Fields() []ent.Field {
	return []ent.Field{
		field.Int64("sequence").
			Unique().
			Immutable().
			Comment("Monotonically increasing global sequence number"),
		field.Time(m.timeField()).
			Default(time.Now).
			Immutable().
			Comment("UTC wall-clock time of the row"),
	}
}

func (SequenceMixin) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("sequence"),
	}
}
